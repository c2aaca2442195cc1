package ppu

import "github.com/8bitcraft/gleeby/pkg/memory"

// TiledataSelector names one of the two overlapping tile-data VRAM
// areas (Pandocs "VRAM Tile Data").
type TiledataSelector uint8

const (
	// TiledataBlock0 is the $8000-$8FFF unsigned-indexed area.
	TiledataBlock0 TiledataSelector = iota
	// TiledataBlock1 is the $8800-$97FF signed-indexed area (shared
	// range with TiledataBlock0's upper half).
	TiledataBlock1
)

// Base returns the VRAM address of tile index 0 for this selector.
func (s TiledataSelector) Base() memory.Addr {
	switch s {
	case TiledataBlock0:
		return 0x8000
	case TiledataBlock1:
		return 0x9000
	default:
		return 0x8000
	}
}

// FromIdx returns the VRAM address of the 16-byte tile at idx.
// TiledataBlock1 reads idx as a signed offset from its $9000 base.
func (s TiledataSelector) FromIdx(idx uint8) memory.Addr {
	if s == TiledataBlock1 {
		return s.Base() + memory.Addr(int16(int8(idx))*16)
	}
	return s.Base() + memory.Addr(idx)*16
}

// TilemapSelector names one of the two 32x32 tilemap VRAM areas.
type TilemapSelector uint8

const (
	TilemapArea0 TilemapSelector = iota // $9800-$9BFF
	TilemapArea1                        // $9C00-$9FFF
)

// Base returns the VRAM address of this tilemap's first entry.
func (s TilemapSelector) Base() memory.Addr {
	if s == TilemapArea1 {
		return 0x9C00
	}
	return 0x9800
}

// FromIdx returns the address of the tile index entry at (x,y).
func (s TilemapSelector) FromIdx(x, y uint8) memory.Addr {
	return s.Base() + memory.Addr(y)*32 + memory.Addr(x)
}

// Tilemap is a fully materialized 32x32 tile-index grid.
type Tilemap struct {
	Indices [32][32]uint8
}

// NewTilemapFromFunc builds a Tilemap by evaluating f(x,y) over the
// full grid (SPEC_FULL.md §9: the closure-accepting variant of the
// original's set_tilemap).
func NewTilemapFromFunc(f func(x, y uint8) uint8) Tilemap {
	var tm Tilemap
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			tm.Indices[y][x] = f(uint8(x), uint8(y))
		}
	}
	return tm
}

// Bytes flattens the tilemap in row-major order for storage as a ROM
// constant (spec.md §4.5, set_tilemap's 1024-byte payload).
func (tm Tilemap) Bytes() []byte {
	out := make([]byte, 0, 1024)
	for y := 0; y < 32; y++ {
		out = append(out, tm.Indices[y][:]...)
	}
	return out
}
