package ppu

import "testing"

func TestPackColorsBigEndian(t *testing.T) {
	colors := [4]Color{Black, Red | Green, Green, Blue}
	packed := PackColors(colors)
	if len(packed) != 8 {
		t.Fatalf("PackColors returned %d bytes, want 8", len(packed))
	}
	want := []byte{
		0x00, 0x00, // Black
		0x03, 0xFF, // Red|Green = 0x03FF
		0x03, 0xE0, // Green
		0x7C, 0x00, // Blue
	}
	for i := range want {
		if packed[i] != want[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, packed[i], want[i])
		}
	}
}

func TestPaletteSelectorAutoIncrement(t *testing.T) {
	got := PaletteSelector(true, Palette0)
	if got != 0x80 {
		t.Fatalf("PaletteSelector(true, 0) = %#02x, want 0x80", got)
	}
	got = PaletteSelector(false, Palette2)
	if got != 16 {
		t.Fatalf("PaletteSelector(false, 2) = %d, want 16", got)
	}
}

func TestFromRGB5PacksChannels(t *testing.T) {
	c := FromRGB5(0x1F, 0, 0)
	if c != Red {
		t.Fatalf("FromRGB5(31,0,0) = %#04x, want Red (%#04x)", c, Red)
	}
}
