// Package ppu implements the tile/palette/sprite peripheral types
// SPEC_FULL.md §9 supplements the core macro-assembler with: 2bpp tile
// packing, CGB palette selection, and VRAM area selectors for tile
// data, tilemaps, and (partially) sprites.
package ppu

import "fmt"

// Tile is an 8x8 grid of 2-bit color indices (0-3), the Game Boy's
// native tile format (Pandocs "Tile Data").
type Tile struct {
	Pixels [8][8]uint8
}

// NewTile validates that every pixel is a 2-bit color index.
func NewTile(pixels [8][8]uint8) (Tile, error) {
	for y, row := range pixels {
		for x, p := range row {
			if p > 3 {
				return Tile{}, fmt.Errorf("pixel (%d,%d) = %d exceeds the 2bpp range", x, y, p)
			}
		}
	}
	return Tile{Pixels: pixels}, nil
}

// AsBytes packs the tile into the 16-byte 2bpp wire format: each row
// contributes a low-bit-plane byte then a high-bit-plane byte, pixel 0
// occupying bit 7 (Pandocs "Tile Data").
func (t Tile) AsBytes() []byte {
	out := make([]byte, 16)
	for y := 0; y < 8; y++ {
		var lo, hi byte
		for x := 0; x < 8; x++ {
			bit := uint(7 - x)
			p := t.Pixels[y][x]
			lo |= (byte(p) & 1) << bit
			hi |= ((byte(p) >> 1) & 1) << bit
		}
		out[y*2] = lo
		out[y*2+1] = hi
	}
	return out
}

// TryTileFromBytes unpacks the 16-byte 2bpp wire format back into a Tile.
func TryTileFromBytes(bytes []byte) (Tile, error) {
	if len(bytes) != 16 {
		return Tile{}, fmt.Errorf("tile data must be exactly 16 bytes, got %d", len(bytes))
	}
	var t Tile
	for y := 0; y < 8; y++ {
		lo, hi := bytes[y*2], bytes[y*2+1]
		for x := 0; x < 8; x++ {
			bit := uint(7 - x)
			loBit := (lo >> bit) & 1
			hiBit := (hi >> bit) & 1
			t.Pixels[y][x] = loBit | (hiBit << 1)
		}
	}
	return t, nil
}
