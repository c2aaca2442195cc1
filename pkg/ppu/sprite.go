package ppu

// SpriteIdx names one of the 40 OAM sprite slots. Sprite composition
// itself (OAM byte layout, attribute flags) is left unimplemented per
// SPEC_FULL.md §11 Open Question 3 — the type exists so
// pkg/asm.MacroAssembler.SetSprite has a typed parameter to reject.
type SpriteIdx uint8

// Sprite is the 4-byte OAM entry shape (y, x, tile index, attributes).
// Its fields are named for documentation; no encoder consumes them yet.
type Sprite struct {
	Y, X     uint8
	TileIdx  uint8
	Attrs    uint8
}
