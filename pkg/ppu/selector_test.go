package ppu

import "testing"

func TestTiledataSelectorFromIdx(t *testing.T) {
	if got := TiledataBlock0.FromIdx(2); got != 0x8020 {
		t.Fatalf("TiledataBlock0.FromIdx(2) = %#04x, want 0x8020", got)
	}
}

func TestTilemapSelectorFromIdx(t *testing.T) {
	if got := TilemapArea0.FromIdx(3, 1); got != 0x9800+32+3 {
		t.Fatalf("TilemapArea0.FromIdx(3,1) = %#04x, want %#04x", got, 0x9800+32+3)
	}
	if got := TilemapArea1.Base(); got != 0x9C00 {
		t.Fatalf("TilemapArea1.Base() = %#04x, want 0x9C00", got)
	}
}

func TestNewTilemapFromFuncAndBytes(t *testing.T) {
	tm := NewTilemapFromFunc(func(x, y uint8) uint8 { return x })
	bytes := tm.Bytes()
	if len(bytes) != 1024 {
		t.Fatalf("Bytes() len = %d, want 1024", len(bytes))
	}
	// Row 0: indices 0..31
	for x := 0; x < 32; x++ {
		if bytes[x] != uint8(x) {
			t.Fatalf("byte %d = %d, want %d", x, bytes[x], x)
		}
	}
}
