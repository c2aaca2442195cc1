package asm

import (
	"testing"

	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/block"
	"github.com/8bitcraft/gleeby/pkg/ppu"
)

func TestDisableLcdNowMatchesSpecScenario(t *testing.T) {
	a := alloc.New()
	m := NewMacroAssembler(a)
	root := block.NewBasicBlock(a)

	m.DisableLcdNow(root)

	bytes, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []byte{0xF0, 0x40, 0xCB, 0xBF, 0xE0, 0x40}
	if string(bytes) != string(want) {
		t.Fatalf("Encode() = % X, want % X", bytes, want)
	}
}

func TestEnableLcdNowSetsBit7(t *testing.T) {
	a := alloc.New()
	m := NewMacroAssembler(a)
	root := block.NewBasicBlock(a)

	m.EnableLcdNow(root)

	bytes, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []byte{0xF0, 0x40, 0xCB, 0xFF, 0xE0, 0x40}
	if string(bytes) != string(want) {
		t.Fatalf("Encode() = % X, want % X", bytes, want)
	}
}

func TestSetPaletteStoresConstAndWritesBcps(t *testing.T) {
	a := alloc.New()
	m := NewMacroAssembler(a)
	root := block.NewBasicBlock(a)

	colors := [4]ppu.Color{ppu.Black, ppu.Red | ppu.Green, ppu.Green, ppu.Blue}
	if err := m.SetPalette(root, ppu.Palette0, colors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	consts := root.GatherConsts()
	if len(consts) != 1 {
		t.Fatalf("expected 1 stored constant, got %d", len(consts))
	}
	if consts[0].Len != 8 {
		t.Fatalf("stored constant len = %d, want 8", consts[0].Len)
	}

	bytes, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(bytes) == 0 {
		t.Fatal("expected non-empty encoded stream")
	}
}

func TestCopyHandlesLengthOver255(t *testing.T) {
	a := alloc.New()
	m := NewMacroAssembler(a)
	root := block.NewBasicBlock(a)

	if err := m.Copy(root, 0x4000, 0x9800, 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInitVar8SetsInlineConstant(t *testing.T) {
	a := alloc.New()
	m := NewMacroAssembler(a)
	root := block.NewBasicBlock(a)
	var gen alloc.IdGen

	v, err := m.InitVar8(root, &gen, 0x05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Len != 1 {
		t.Fatalf("Len = %d, want 1", v.Len)
	}

	bytes, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(bytes) != 2 || bytes[1] != 0x05 {
		t.Fatalf("Encode() = % X, want ld r,5 form", bytes)
	}
}

func TestSetSpriteReturnsNotImplemented(t *testing.T) {
	a := alloc.New()
	m := NewMacroAssembler(a)
	root := block.NewBasicBlock(a)
	err := m.SetSprite(root, ppu.SpriteIdx(0), ppu.Sprite{})
	if err == nil {
		t.Fatal("expected an error from SetSprite")
	}
}
