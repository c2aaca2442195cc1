package asm

import (
	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/block"
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/gbvar"
	"github.com/8bitcraft/gleeby/pkg/memory"
	"github.com/8bitcraft/gleeby/pkg/ppu"
)

// copyChunkLimit is the widest run a single 8-bit wraparound counter
// can drive in one loop (spec.md §4.5's copy, extended here to cover
// lengths over 255 — see Copy).
const copyChunkLimit = 256

// MacroAssembler implements spec.md §4.5's primitives: higher-level
// operations built from Assembler's variable ops and raw cpu
// instructions, each appending to a caller-supplied block.BasicBlock.
type MacroAssembler struct {
	*Assembler
}

func NewMacroAssembler(a *alloc.Allocator) *MacroAssembler {
	return &MacroAssembler{Assembler: New(a)}
}

// NewStoredConst allocates a ROM cell for bytes and records it on into.
func (m *MacroAssembler) NewStoredConst(into *block.BasicBlock, bytes []byte) (gbvar.StoredConstant, error) {
	return into.AddStoredConst(bytes)
}

func (m *MacroAssembler) NewInlineConstR8(v uint8) gbvar.Constant   { return gbvar.NewInline8(v) }
func (m *MacroAssembler) NewInlineConstR16(v uint16) gbvar.Constant { return gbvar.NewInline16(v) }

// InitVar8/InitVar16 allocate a variable of the given width and set_var
// it to an inline constant (spec.md §4.5).
func (m *MacroAssembler) InitVar8(into *block.BasicBlock, gen *alloc.IdGen, value uint8) (gbvar.Variable, error) {
	v := gbvar.NewUnallocated(gen, 1)
	instrs, err := m.SetVarConst(&v, gbvar.NewInline8(value))
	if err != nil {
		return gbvar.Variable{}, err
	}
	into.PushBuf(instrs)
	return v, nil
}

func (m *MacroAssembler) InitVar16(into *block.BasicBlock, gen *alloc.IdGen, value uint16) (gbvar.Variable, error) {
	v := gbvar.NewUnallocated(gen, 2)
	instrs, err := m.SetVarConst(&v, gbvar.NewInline16(value))
	if err != nil {
		return gbvar.Variable{}, err
	}
	into.PushBuf(instrs)
	return v, nil
}

// Copy moves length bytes from srcAddr to destAddr, preserving HL
// (spec.md §4.5). Runs exceeding 255 bytes are split into 256-byte
// wraparound chunks plus a remainder chunk, since LoopCondition only
// models an 8-bit countdown counter (SPEC_FULL.md §11 Open Question 5).
func (m *MacroAssembler) Copy(into *block.BasicBlock, srcAddr, destAddr uint16, length uint16) error {
	if length == 0 {
		return nil
	}

	hlID := m.Alloc.NewId()
	m.Alloc.ClaimReg(alloc.SelectPair(cpu.PairHL), hlID)
	defer m.Alloc.ReleaseReg(alloc.SelectPair(cpu.PairHL))

	into.PushInstruction(cpu.Push(cpu.StackHL))
	into.PushInstruction(cpu.LdR16Imm(cpu.PairHL, destAddr))

	srcPair, err := m.Alloc.AllocRegPair()
	if err != nil {
		return err
	}
	defer srcPair.Release()
	into.PushInstruction(cpu.LdR16Imm(srcPair.Pair(), srcAddr))

	ind, ok := cpu.IndirectPairFromRegPair(srcPair.Pair())
	if !ok {
		return argumentErr("copy: allocated source pair %s has no indirect form", srcPair.Pair())
	}

	// The loop body pivots through A, so keep the counter out of it.
	if m.Alloc.RegFree(alloc.SelectReg(cpu.RegA)) {
		m.Alloc.ClaimReg(alloc.SelectReg(cpu.RegA), m.Alloc.NewId())
		defer m.Alloc.ReleaseReg(alloc.SelectReg(cpu.RegA))
	}

	var gen alloc.IdGen
	remaining := length
	for remaining > 0 {
		chunk := remaining
		if chunk > copyChunkLimit {
			chunk = copyChunkLimit
		}
		counterStart := uint8(chunk)
		if chunk == copyChunkLimit {
			counterStart = 0
		}

		ctr, err := m.Alloc.AllocReg()
		if err != nil {
			return err
		}
		into.PushInstruction(cpu.LdR8Imm(ctr.Reg(), counterStart))
		counterVar := gbvar.FromReg(gbvar.RegR8(ctr.Reg(), gen.Next()))

		cond, err := block.Countdown(&counterVar, 0)
		if err != nil {
			ctr.Release()
			return err
		}
		body := into.LoopBlock(cond, m.Assembler)
		body.PushInstruction(cpu.LdAFromR16(ind))
		body.PushInstruction(cpu.LdAToR16(cpu.IndHLI))
		body.PushInstruction(cpu.IncR16(srcPair.Pair()))

		ctr.Release()
		remaining -= chunk
	}

	into.PushInstruction(cpu.Pop(cpu.StackHL))
	return nil
}

// SetPalette packs 4 colors into an 8-byte ROM constant and writes it
// through BCPS/BCPD with autoincrement (spec.md §4.5).
func (m *MacroAssembler) SetPalette(into *block.BasicBlock, p ppu.CgbPalette, colors [4]ppu.Color) error {
	sc, err := into.AddStoredConst(ppu.PackColors(colors))
	if err != nil {
		return err
	}

	hlID := m.Alloc.NewId()
	m.Alloc.ClaimReg(alloc.SelectPair(cpu.PairHL), hlID)
	defer m.Alloc.ReleaseReg(alloc.SelectPair(cpu.PairHL))
	into.PushInstruction(cpu.LdR16Imm(cpu.PairHL, sc.Addr))

	aID := m.Alloc.NewId()
	m.Alloc.ClaimReg(alloc.SelectReg(cpu.RegA), aID)
	defer m.Alloc.ReleaseReg(alloc.SelectReg(cpu.RegA))
	into.PushInstruction(cpu.LdR8Imm(cpu.RegA, ppu.PaletteSelector(true, p)))
	into.PushInstruction(cpu.LdhFromA(memory.Bcps.Addr().LowByte()))

	ctr, err := m.Alloc.AllocReg()
	if err != nil {
		return err
	}
	into.PushInstruction(cpu.LdR8Imm(ctr.Reg(), 8))
	var gen alloc.IdGen
	counterVar := gbvar.FromReg(gbvar.RegR8(ctr.Reg(), gen.Next()))
	cond, err := block.Countdown(&counterVar, 0)
	if err != nil {
		ctr.Release()
		return err
	}
	body := into.LoopBlock(cond, m.Assembler)
	body.PushInstruction(cpu.LdAFromR16(cpu.IndHLI))
	body.PushInstruction(cpu.LdhFromA(memory.Bcpd.Addr().LowByte()))
	ctr.Release()
	return nil
}

// WriteTileData stores tile as a ROM constant and copies it into the
// selected tile-data area (spec.md §4.5).
func (m *MacroAssembler) WriteTileData(into *block.BasicBlock, area ppu.TiledataSelector, idx uint8, tile ppu.Tile) error {
	sc, err := into.AddStoredConst(tile.AsBytes())
	if err != nil {
		return err
	}
	return m.Copy(into, sc.Addr, uint16(area.FromIdx(idx)), 16)
}

// SetTilemap stores tm as a ROM constant and copies it into the
// selected tilemap area (spec.md §4.5).
func (m *MacroAssembler) SetTilemap(into *block.BasicBlock, selector ppu.TilemapSelector, tm ppu.Tilemap) error {
	return m.SetTilemapBytes(into, selector, tm.Bytes())
}

// SetTilemapFunc is the closure-accepting variant noted in
// SPEC_FULL.md §9: it flattens f over the grid into the same 1024-byte
// payload SetTilemap uses.
func (m *MacroAssembler) SetTilemapFunc(into *block.BasicBlock, selector ppu.TilemapSelector, f func(x, y uint8) uint8) error {
	return m.SetTilemapBytes(into, selector, ppu.NewTilemapFromFunc(f).Bytes())
}

func (m *MacroAssembler) SetTilemapBytes(into *block.BasicBlock, selector ppu.TilemapSelector, bytes []byte) error {
	sc, err := into.AddStoredConst(bytes)
	if err != nil {
		return err
	}
	return m.Copy(into, sc.Addr, uint16(selector.Base()), uint16(len(bytes)))
}

// SetTile writes a single tile-index byte into a tilemap slot via a
// variable, rather than a direct store (spec.md §4.5).
func (m *MacroAssembler) SetTile(into *block.BasicBlock, gen *alloc.IdGen, selector ppu.TilemapSelector, x, y uint8, data uint8) error {
	v, err := m.InitVar8(into, gen, data)
	if err != nil {
		return err
	}
	instrs, err := m.LdVarToInd(&v, uint16(selector.FromIdx(x, y)))
	if err != nil {
		return err
	}
	into.PushBuf(instrs)
	return nil
}

// SetSprite is left unimplemented (SPEC_FULL.md §11 Open Question 3).
func (m *MacroAssembler) SetSprite(into *block.BasicBlock, idx ppu.SpriteIdx, sprite ppu.Sprite) error {
	return notImplemented("set_sprite")
}

// DisableLcdNow/EnableLcdNow clear/set LCDC bit 7 (spec.md §4.5).
// disable MUST be called during VBlank; this function does not verify
// that precondition.
func (m *MacroAssembler) DisableLcdNow(into *block.BasicBlock) {
	into.PushInstruction(cpu.LdhToA(memory.Lcdc.Addr().LowByte()))
	into.PushInstruction(cpu.ResOp(cpu.RegA, cpu.Bit7))
	into.PushInstruction(cpu.LdhFromA(memory.Lcdc.Addr().LowByte()))
}

func (m *MacroAssembler) EnableLcdNow(into *block.BasicBlock) {
	into.PushInstruction(cpu.LdhToA(memory.Lcdc.Addr().LowByte()))
	into.PushInstruction(cpu.SetOp(cpu.RegA, cpu.Bit7))
	into.PushInstruction(cpu.LdhFromA(memory.Lcdc.Addr().LowByte()))
}

// StoreByte writes val to addr, preserving A via an alternate register
// if one is free, else via the stack (spec.md §4.5).
func (m *MacroAssembler) StoreByte(into *block.BasicBlock, addr uint16, val uint8) error {
	scratch, err := m.Alloc.AllocReg()
	usesStack := err != nil
	if !usesStack {
		defer scratch.Release()
		into.PushInstruction(cpu.LdR8FromR8(scratch.Reg(), cpu.RegA))
	} else {
		into.PushInstruction(cpu.Push(cpu.StackAF))
	}

	into.PushInstruction(cpu.LdR8Imm(cpu.RegA, val))
	addrObj := memory.Addr(addr)
	if addrObj.IsZeroPage() {
		into.PushInstruction(cpu.LdhFromA(addrObj.LowByte()))
	} else {
		into.PushInstruction(cpu.LdAToInd(addr))
	}

	if !usesStack {
		into.PushInstruction(cpu.LdR8FromR8(cpu.RegA, scratch.Reg()))
	} else {
		into.PushInstruction(cpu.Pop(cpu.StackAF))
	}
	return nil
}

// SetIoreg stores val to reg's address (spec.md §4.5).
func (m *MacroAssembler) SetIoreg(into *block.BasicBlock, reg memory.IoReg, val uint8) error {
	return m.StoreByte(into, uint16(reg.Addr()), val)
}
