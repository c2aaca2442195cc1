package rom

import (
	"bytes"
	"testing"

	"github.com/8bitcraft/gleeby/pkg/asm"
)

// seekBuf is an io.WriteSeeker over a flat byte image that grows when a
// write runs past its end, the way a real *os.File would behave.
type seekBuf struct {
	data []byte
	pos  int64
}

func newSeekBuf(size int) *seekBuf { return &seekBuf{data: make([]byte, size)} }

func (s *seekBuf) Write(p []byte) (int, error) {
	end := int(s.pos) + len(p)
	if end > len(s.data) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	n := copy(s.data[s.pos:end], p)
	s.pos += int64(n)
	return n, nil
}

func (s *seekBuf) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(len(s.data)) + offset
	}
	return s.pos, nil
}

func TestNewRejectsOffsetsBelowFloor(t *testing.T) {
	if _, err := New(0x0100, 0xD000); err == nil {
		t.Fatal("expected an error for a rom-offset below 0x0800")
	}
	if _, err := New(0x4000, 0x8000); err == nil {
		t.Fatal("expected an error for a ram-offset below 0xC000")
	}
}

func TestSaveWritesHeaderTrampolineAndCode(t *testing.T) {
	g, err := New(0x4000, 0xD000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := asm.NewMacroAssembler(g.Alloc)
	m.DisableLcdNow(g.Root)

	buf := newSeekBuf(0x200)
	if err := g.Save(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.data[cgbFlagAddr] != cgbFlagColor {
		t.Fatalf("flag byte = %#02x, want %#02x", buf.data[cgbFlagAddr], cgbFlagColor)
	}
	wantTrampoline := []byte{0xC3, 0x50, 0x01}
	if !bytes.Equal(buf.data[entryAddr:entryAddr+3], wantTrampoline) {
		t.Fatalf("trampoline = % X, want % X", buf.data[entryAddr:entryAddr+3], wantTrampoline)
	}
	wantCode := []byte{0xF0, 0x40, 0xCB, 0xBF, 0xE0, 0x40}
	if !bytes.Equal(buf.data[codeStartAddr:codeStartAddr+len(wantCode)], wantCode) {
		t.Fatalf("code = % X, want % X", buf.data[codeStartAddr:codeStartAddr+len(wantCode)], wantCode)
	}
}

func TestSaveWritesStoredConstantsAtTheirAddresses(t *testing.T) {
	g, err := New(0x4000, 0xD000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc, err := g.Root.AddStoredConst([]byte{0xAA, 0xBB, 0xCC})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := newSeekBuf(0x5000)
	if err := g.Save(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.data[sc.Addr : sc.Addr+sc.Len]
	if !bytes.Equal(got, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("const bytes at %#04x = % X, want AA BB CC", sc.Addr, got)
	}
}
