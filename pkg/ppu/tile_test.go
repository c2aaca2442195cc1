package ppu

import "testing"

// pandocsTile is the literal byte sequence from Pandocs' canonical
// "Tile Data" worked example (spec.md §8 scenario 5).
var pandocsTile = []byte{
	0x3C, 0x7E, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42,
	0x7E, 0x5E, 0x7E, 0x0A, 0x7C, 0x56, 0x38, 0x7C,
}

func TestTileRoundTripsPandocsExample(t *testing.T) {
	tile, err := TryTileFromBytes(pandocsTile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := tile.AsBytes()
	if len(got) != len(pandocsTile) {
		t.Fatalf("AsBytes() len = %d, want %d", len(got), len(pandocsTile))
	}
	for i := range got {
		if got[i] != pandocsTile[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], pandocsTile[i])
		}
	}
}

func TestTileRejectsOversizedPixel(t *testing.T) {
	var pixels [8][8]uint8
	pixels[3][3] = 4
	if _, err := NewTile(pixels); err == nil {
		t.Fatal("expected an error for a pixel value outside 0-3")
	}
}

func TestTryTileFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := TryTileFromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for non-16-byte input")
	}
}

func TestTileRoundTripArbitraryPixels(t *testing.T) {
	pixels := [8][8]uint8{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pixels[y][x] = uint8((x + y) % 4)
		}
	}
	tile, err := NewTile(pixels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bytes := tile.AsBytes()
	roundTripped, err := TryTileFromBytes(bytes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roundTripped.Pixels != tile.Pixels {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", roundTripped.Pixels, tile.Pixels)
	}
}
