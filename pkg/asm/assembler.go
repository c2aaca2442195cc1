// Package asm implements spec.md §4.3's variable load/store protocol
// and §4.5's macro-assembler primitives: the layer that turns
// gbvar.Variable operations into cpu.Instruction streams, consulting
// the allocator for registers and temporaries as it goes.
package asm

import (
	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/gbvar"
)

// Assembler wraps an Allocator with the variable-operation surface
// spec.md §4.3 describes. It holds no block tree of its own — callers
// push the returned instructions onto whichever block.BasicBlock they
// are composing.
//
// live tracks which register (or, for a pair, both halves) currently
// backs which Reg-kind Variable, so a register-exhausted allocation can
// pick a victim to spill (spec.md §4.3's spill-and-retry protocol).
// Only Variables promoted through this Assembler are tracked; the
// transient scratch registers MacroAssembler claims directly from Alloc
// never enter live and so are never spill candidates.
type Assembler struct {
	Alloc *alloc.Allocator
	live  map[cpu.GpReg]*gbvar.Variable
}

func New(a *alloc.Allocator) *Assembler {
	return &Assembler{Alloc: a, live: make(map[cpu.GpReg]*gbvar.Variable)}
}

// markLive records the register(s) backing a freshly-promoted Reg
// variable.
func (a *Assembler) markLive(v *gbvar.Variable) {
	if v.Kind != gbvar.VarReg {
		return
	}
	switch v.Reg.Kind {
	case gbvar.RegVarR8, gbvar.RegVarMemR8:
		a.live[v.Reg.Reg] = v
	case gbvar.RegVarR16, gbvar.RegVarMemR16:
		hi, lo, err := v.Reg.Pair.Split()
		if err != nil {
			return
		}
		a.live[hi] = v
		a.live[lo] = v
	}
}

// unmarkLive drops v's current register(s) from the live registry,
// using its Reg.Kind as it stood before the caller demotes it.
func (a *Assembler) unmarkLive(v *gbvar.Variable) {
	if v.Kind != gbvar.VarReg {
		return
	}
	switch v.Reg.Kind {
	case gbvar.RegVarR8, gbvar.RegVarMemR8:
		delete(a.live, v.Reg.Reg)
	case gbvar.RegVarR16, gbvar.RegVarMemR16:
		hi, lo, err := v.Reg.Pair.Split()
		if err != nil {
			return
		}
		delete(a.live, hi)
		delete(a.live, lo)
	}
}

func isOutOfRegisters(err error) bool {
	ae, ok := err.(alloc.Error)
	return ok && ae.Kind == alloc.ErrOutOfRegisters
}

// spillVariable demotes a Reg-backed variable to memory, emitting
// whatever store instructions are needed and freeing its register(s)
// for reuse (spec.md §4.3: "reserve a RAM cell via alloc_var, pick a
// victim Reg-backed variable, emit the corresponding store"). A
// Mem-backed variable is already mirrored in RAM, so spilling it costs
// nothing beyond releasing the register.
func (a *Assembler) spillVariable(v *gbvar.Variable) ([]cpu.Instruction, error) {
	rv := v.Reg
	switch rv.Kind {
	case gbvar.RegVarMemR8:
		a.unmarkLive(v)
		a.Alloc.ReleaseReg(alloc.SelectReg(rv.Reg))
		*v = gbvar.FromMemory(gbvar.MemoryVariable{Addr: rv.Addr, Len: 1, Id: rv.Id})
		return nil, nil
	case gbvar.RegVarMemR16:
		a.unmarkLive(v)
		a.Alloc.ReleaseReg(alloc.SelectPair(rv.Pair))
		*v = gbvar.FromMemory(gbvar.MemoryVariable{Addr: rv.Addr, Len: 2, Id: rv.Id})
		return nil, nil
	case gbvar.RegVarR8:
		addr, err := a.Alloc.AllocVar(1)
		if err != nil {
			return nil, err
		}
		instrs := storeR8(rv.Reg, addr)
		a.unmarkLive(v)
		a.Alloc.ReleaseReg(alloc.SelectReg(rv.Reg))
		*v = gbvar.FromMemory(gbvar.MemoryVariable{Addr: addr, Len: 1, Id: rv.Id})
		return instrs, nil
	case gbvar.RegVarR16:
		addr, err := a.Alloc.AllocVar(2)
		if err != nil {
			return nil, err
		}
		hi, lo, err := rv.Pair.Split()
		if err != nil {
			return nil, err
		}
		instrs := append(storeR8(lo, addr), storeR8(hi, addr+1)...)
		a.unmarkLive(v)
		a.Alloc.ReleaseReg(alloc.SelectPair(rv.Pair))
		*v = gbvar.FromMemory(gbvar.MemoryVariable{Addr: addr, Len: 2, Id: rv.Id})
		return instrs, nil
	default:
		return nil, unallocatedVariable()
	}
}

// spillVictim picks the lowest-index occupied register in the
// canonical scan order that backs a live Variable and spills it,
// reporting whether a victim was found at all.
func (a *Assembler) spillVictim() ([]cpu.Instruction, bool, error) {
	for _, reg := range alloc.ScanOrder {
		v, ok := a.live[reg]
		if !ok {
			continue
		}
		instrs, err := a.spillVariable(v)
		if err != nil {
			return nil, false, err
		}
		return instrs, true, nil
	}
	return nil, false, nil
}

// allocReg allocates a register, spilling live variables one at a time
// until one is free if the register file is full (spec.md §4.3's
// spill-and-retry; spec.md §8 scenario 6). The returned instructions,
// if any, must be emitted before whatever instructions the caller goes
// on to build using the handle.
func (a *Assembler) allocReg() ([]cpu.Instruction, *alloc.RegHandle, error) {
	var instrs []cpu.Instruction
	for {
		h, err := a.Alloc.AllocReg()
		if err == nil {
			return instrs, h, nil
		}
		if !isOutOfRegisters(err) {
			return nil, nil, err
		}
		spillInstrs, ok, serr := a.spillVictim()
		if serr != nil {
			return nil, nil, serr
		}
		if !ok {
			return nil, nil, err
		}
		instrs = append(instrs, spillInstrs...)
	}
}

// allocRegPair is allocReg's pair analogue; freeing a whole pair may
// require spilling more than one single-register victim.
func (a *Assembler) allocRegPair() ([]cpu.Instruction, *alloc.RegPairHandle, error) {
	var instrs []cpu.Instruction
	for {
		h, err := a.Alloc.AllocRegPair()
		if err == nil {
			return instrs, h, nil
		}
		if !isOutOfRegisters(err) {
			return nil, nil, err
		}
		spillInstrs, ok, serr := a.spillVictim()
		if serr != nil {
			return nil, nil, serr
		}
		if !ok {
			return nil, nil, err
		}
		instrs = append(instrs, spillInstrs...)
	}
}

// LoadVar ensures var is available in a register, promoting it in
// place, and returns the instructions needed to get there (spec.md
// §4.3). Both the len=1 and len=2 cases preserve A via push/pop AF
// around the A-pivot load whenever the destination isn't A itself.
func (a *Assembler) LoadVar(v *gbvar.Variable) ([]cpu.Instruction, error) {
	switch v.Kind {
	case gbvar.VarReg:
		return nil, nil

	case gbvar.VarMemory:
		mv := v.Memory
		switch mv.Len {
		case 1:
			spillInstrs, h, err := a.allocReg()
			if err != nil {
				return nil, err
			}
			instrs := append([]cpu.Instruction{}, spillInstrs...)
			preserve := h.Reg() != cpu.RegA
			if preserve {
				instrs = append(instrs, cpu.Push(cpu.StackAF))
			}
			instrs = append(instrs, cpu.LdAFromInd(mv.Addr))
			if preserve {
				instrs = append(instrs, cpu.LdR8FromR8(h.Reg(), cpu.RegA))
				instrs = append(instrs, cpu.Pop(cpu.StackAF))
			}
			*v = gbvar.FromReg(gbvar.MemR8(mv.Addr, h.Reg(), mv.Id))
			a.markLive(v)
			return instrs, nil

		case 2:
			spillInstrs, h, err := a.allocRegPair()
			if err != nil {
				return nil, err
			}
			hi, lo, err := h.Pair().Split()
			if err != nil {
				return nil, err
			}
			instrs := append([]cpu.Instruction{}, spillInstrs...)
			instrs = append(instrs, cpu.Push(cpu.StackAF))
			instrs = append(instrs,
				cpu.LdAFromInd(mv.Addr),
				cpu.LdR8FromR8(lo, cpu.RegA),
				cpu.LdAFromInd(mv.Addr+1),
				cpu.LdR8FromR8(hi, cpu.RegA),
			)
			instrs = append(instrs, cpu.Pop(cpu.StackAF))
			*v = gbvar.FromReg(gbvar.MemR16(mv.Addr, h.Pair(), mv.Id))
			a.markLive(v)
			return instrs, nil

		default:
			return nil, alloc.OversizedLoad()
		}

	case gbvar.VarUnallocated:
		// Operand size is known even though no home has been chosen
		// yet; loading in isolation cannot make progress, so the
		// caller (set_var, inc_var, ...) is responsible for either
		// promoting v directly or deferring via a Meta.
		return nil, nil

	default:
		return nil, argumentErr("unhandled variable kind %d", v.Kind)
	}
}

// StoreVar is the inverse of LoadVar: ensures var has a memory home,
// promoting Reg variants with no backing memory and returning the
// resulting MemoryVariable (spec.md §4.3).
func (a *Assembler) StoreVar(v *gbvar.Variable) (gbvar.MemoryVariable, []cpu.Instruction, error) {
	switch v.Kind {
	case gbvar.VarMemory:
		return v.Memory, nil, nil

	case gbvar.VarReg:
		rv := v.Reg
		switch rv.Kind {
		case gbvar.RegVarMemR8:
			mv := gbvar.MemoryVariable{Addr: rv.Addr, Len: 1, Id: rv.Id}
			return mv, nil, nil
		case gbvar.RegVarMemR16:
			mv := gbvar.MemoryVariable{Addr: rv.Addr, Len: 2, Id: rv.Id}
			return mv, nil, nil
		case gbvar.RegVarR8:
			addr, err := a.Alloc.AllocVar(1)
			if err != nil {
				return gbvar.MemoryVariable{}, nil, err
			}
			instrs := storeR8(rv.Reg, addr)
			mv := gbvar.MemoryVariable{Addr: addr, Len: 1, Id: rv.Id}
			*v = gbvar.FromReg(gbvar.MemR8(addr, rv.Reg, rv.Id))
			return mv, instrs, nil
		case gbvar.RegVarR16:
			addr, err := a.Alloc.AllocVar(2)
			if err != nil {
				return gbvar.MemoryVariable{}, nil, err
			}
			hi, lo, err := rv.Pair.Split()
			if err != nil {
				return gbvar.MemoryVariable{}, nil, err
			}
			instrs := append(storeR8(lo, addr), storeR8(hi, addr+1)...)
			mv := gbvar.MemoryVariable{Addr: addr, Len: 2, Id: rv.Id}
			*v = gbvar.FromReg(gbvar.MemR16(addr, rv.Pair, rv.Id))
			return mv, instrs, nil
		default:
			return gbvar.MemoryVariable{}, nil, unallocatedVariable()
		}

	default:
		return gbvar.MemoryVariable{}, nil, unallocatedVariable()
	}
}

// storeR8 emits a direct `ld a,reg; ld [addr],a` pivot, preserving A via
// push/pop AF when reg isn't A itself.
func storeR8(reg cpu.GpReg, addr uint16) []cpu.Instruction {
	if reg == cpu.RegA {
		return []cpu.Instruction{cpu.LdAToInd(addr)}
	}
	return []cpu.Instruction{
		cpu.Push(cpu.StackAF),
		cpu.LdR8FromR8(cpu.RegA, reg),
		cpu.LdAToInd(addr),
		cpu.Pop(cpu.StackAF),
	}
}

// SetVar implements dest := src, per spec.md §4.3's case table.
// An Unallocated dest is promoted into a fresh register; an Unallocated
// src defers via a Meta placeholder. The meta-fixup pass calls
// setVarResolved directly instead, since by then deferring again would
// never converge.
func (a *Assembler) SetVar(dest, src *gbvar.Variable) ([]cpu.Instruction, error) {
	if src.Kind == gbvar.VarUnallocated {
		return []cpu.Instruction{cpu.Meta(&MetaOp{Kind: MetaVarSet, Dest: dest, Src: src})}, nil
	}
	return a.setVarResolved(dest, src)
}

// setVarResolved is SetVar's terminal form: it promotes an Unallocated
// dest for real rather than deferring, and is also what the meta-fixup
// pass calls once composition has finished. A src that is still
// Unallocated fails with an ErrUnallocatedVariable error.
func (a *Assembler) setVarResolved(dest, src *gbvar.Variable) ([]cpu.Instruction, error) {
	if dest.Len != src.Len {
		return nil, argumentErr("set_var: cross-size assignment (dest len %d, src len %d)", dest.Len, src.Len)
	}
	if _, err := a.LoadVar(src); err != nil {
		return nil, err
	}
	if src.Kind == gbvar.VarUnallocated {
		return nil, unallocatedVariable()
	}
	promoteInstrs, err := a.promoteForSet(dest)
	if err != nil {
		return nil, err
	}

	switch dest.Len {
	case 1:
		return append(promoteInstrs, cpu.LdR8FromR8(dest.Reg.Reg, regOf(src))), nil
	case 2:
		dHi, dLo, err := dest.Reg.Pair.Split()
		if err != nil {
			return nil, err
		}
		sHi, sLo, err := pairOf(src).Split()
		if err != nil {
			return nil, err
		}
		return append(promoteInstrs,
			cpu.LdR8FromR8(dHi, sHi),
			cpu.LdR8FromR8(dLo, sLo),
		), nil
	default:
		return nil, argumentErr("set_var: unsupported length %d", dest.Len)
	}
}

// SetVarConst implements dest := value for an inline or stored
// constant, per spec.md §4.3. Unlike SetVar, an Unallocated dest is
// promoted immediately rather than deferred: the value being assigned
// is already fully known (a literal), so there is nothing further to
// wait on.
func (a *Assembler) SetVarConst(dest *gbvar.Variable, c gbvar.Constant) ([]cpu.Instruction, error) {
	promoteInstrs, err := a.promoteForSet(dest)
	if err != nil {
		return nil, err
	}
	switch dest.Len {
	case 1:
		if c.Kind != gbvar.ConstInline8 {
			return nil, argumentErr("set_var: 8-bit destination requires an Inline8 constant")
		}
		return append(promoteInstrs, cpu.LdR8Imm(dest.Reg.Reg, c.Inline8)), nil
	case 2:
		switch c.Kind {
		case gbvar.ConstInline16:
			return append(promoteInstrs, cpu.LdR16Imm(dest.Reg.Pair, c.Inline16)), nil
		case gbvar.ConstAddr:
			return append(promoteInstrs, cpu.LdR16Imm(dest.Reg.Pair, c.Stored.Addr)), nil
		default:
			return nil, argumentErr("set_var: 16-bit destination requires an Inline16 or stored constant")
		}
	default:
		return nil, argumentErr("set_var: unsupported length %d", dest.Len)
	}
}

// promoteForSet ensures dest has a register home, allocating a fresh
// one if dest is still Unallocated (the "set_var allocates a fresh
// register and rewrites the caller's Variable" path of spec.md §3).
// Allocating that fresh register may itself need to spill a live
// variable first; any such spill instructions are returned for the
// caller to emit ahead of its own.
func (a *Assembler) promoteForSet(dest *gbvar.Variable) ([]cpu.Instruction, error) {
	switch dest.Kind {
	case gbvar.VarReg:
		return a.LoadVar(dest)
	case gbvar.VarMemory:
		return a.LoadVar(dest)
	case gbvar.VarUnallocated:
		switch dest.Len {
		case 1:
			spillInstrs, h, err := a.allocReg()
			if err != nil {
				return nil, err
			}
			*dest = gbvar.FromReg(gbvar.RegR8(h.Reg(), dest.Id))
			a.markLive(dest)
			return spillInstrs, nil
		case 2:
			spillInstrs, h, err := a.allocRegPair()
			if err != nil {
				return nil, err
			}
			*dest = gbvar.FromReg(gbvar.RegR16(h.Pair(), dest.Id))
			a.markLive(dest)
			return spillInstrs, nil
		default:
			return nil, argumentErr("set_var: unsupported length %d", dest.Len)
		}
	default:
		return nil, argumentErr("unhandled variable kind %d", dest.Kind)
	}
}

func regOf(v *gbvar.Variable) cpu.GpReg    { return v.Reg.Reg }
func pairOf(v *gbvar.Variable) cpu.RegPair { return v.Reg.Pair }

// IncVar/DecVar load v then inc/dec its register, deferring via Meta
// when still Unallocated (spec.md §4.3).
func (a *Assembler) IncVar(v *gbvar.Variable) ([]cpu.Instruction, error) {
	return a.incDecVar(v, MetaVarInc, true)
}

func (a *Assembler) DecVar(v *gbvar.Variable) ([]cpu.Instruction, error) {
	return a.incDecVar(v, MetaVarDec, false)
}

func (a *Assembler) incDecVar(v *gbvar.Variable, kind MetaKind, inc bool) ([]cpu.Instruction, error) {
	if v.Kind == gbvar.VarUnallocated {
		return []cpu.Instruction{cpu.Meta(&MetaOp{Kind: kind, Dest: v})}, nil
	}
	return a.incDecVarResolved(v, inc)
}

// incDecVarResolved is incDecVar's terminal form, used by the
// meta-fixup pass: an Unallocated v is promoted for real here instead
// of deferring again (see setVarResolved).
func (a *Assembler) incDecVarResolved(v *gbvar.Variable, inc bool) ([]cpu.Instruction, error) {
	var promoteInstrs []cpu.Instruction
	if v.Kind == gbvar.VarUnallocated {
		instrs, err := a.promoteForSet(v)
		if err != nil {
			return nil, err
		}
		promoteInstrs = instrs
	}
	loadInstrs, err := a.LoadVar(v)
	if err != nil {
		return nil, err
	}
	var op cpu.Instruction
	switch v.Len {
	case 1:
		if inc {
			op = cpu.IncR8(v.Reg.Reg)
		} else {
			op = cpu.DecR8(v.Reg.Reg)
		}
	case 2:
		if inc {
			op = cpu.IncR16(v.Reg.Pair)
		} else {
			op = cpu.DecR16(v.Reg.Pair)
		}
	default:
		return nil, argumentErr("inc/dec_var: unsupported length %d", v.Len)
	}
	instrs := append(promoteInstrs, loadInstrs...)
	return append(instrs, op), nil
}

// LdAFromVarInd loads the byte pointed to by var's value into A
// (spec.md §4.3).
func (a *Assembler) LdAFromVarInd(v *gbvar.Variable) ([]cpu.Instruction, error) {
	loadInstrs, err := a.LoadVar(v)
	if err != nil {
		return nil, err
	}
	if v.Kind != gbvar.VarReg {
		return nil, unallocatedVariable()
	}
	rv := v.Reg
	switch rv.Kind {
	case gbvar.RegVarR8, gbvar.RegVarMemR8:
		if rv.Reg != cpu.RegC {
			return nil, argumentErr("ld_a_from_var_ind: 8-bit indirect requires C, got %s", rv.Reg)
		}
		return append(loadInstrs, cpu.LdhToA(0)), nil
	case gbvar.RegVarR16, gbvar.RegVarMemR16:
		ind, ok := cpu.IndirectPairFromRegPair(rv.Pair)
		if !ok {
			return nil, argumentErr("ld_a_from_var_ind: %s has no indirect-load form", rv.Pair)
		}
		return append(loadInstrs, cpu.LdAFromR16(ind)), nil
	default:
		return nil, unallocatedVariable()
	}
}

// LdVarToInd moves var's value to a fixed memory address (spec.md §4.3).
func (a *Assembler) LdVarToInd(v *gbvar.Variable, destAddr uint16) ([]cpu.Instruction, error) {
	if v.Kind == gbvar.VarUnallocated {
		return []cpu.Instruction{cpu.Meta(&MetaOp{Kind: MetaVarToInd, Dest: v, Addr: destAddr})}, nil
	}
	return a.ldVarToIndResolved(v, destAddr)
}

func (a *Assembler) ldVarToIndResolved(v *gbvar.Variable, destAddr uint16) ([]cpu.Instruction, error) {
	var promoteInstrs []cpu.Instruction
	if v.Kind == gbvar.VarUnallocated {
		instrs, err := a.promoteForSet(v)
		if err != nil {
			return nil, err
		}
		promoteInstrs = instrs
	}
	loadInstrs, err := a.LoadVar(v)
	if err != nil {
		return nil, err
	}
	loadInstrs = append(promoteInstrs, loadInstrs...)
	switch v.Len {
	case 1:
		return append(loadInstrs, movePivot(v.Reg.Reg, destAddr, true)...), nil
	case 2:
		hi, lo, err := v.Reg.Pair.Split()
		if err != nil {
			return nil, err
		}
		instrs := append(loadInstrs, movePivot(lo, destAddr, true)...)
		instrs = append(instrs, movePivot(hi, destAddr+1, true)...)
		return instrs, nil
	default:
		return nil, argumentErr("ld_var_to_ind: unsupported length %d", v.Len)
	}
}

// LdVarFromInd moves bytes from a fixed memory address into var
// (spec.md §4.3). An Unallocated var is first promoted into a fresh
// register, and var is loaded first so the destination registers are
// known.
func (a *Assembler) LdVarFromInd(v *gbvar.Variable, srcAddr uint16) ([]cpu.Instruction, error) {
	var promoteInstrs []cpu.Instruction
	if v.Kind == gbvar.VarUnallocated {
		instrs, err := a.promoteForSet(v)
		if err != nil {
			return nil, err
		}
		promoteInstrs = instrs
	}
	loadInstrs, err := a.LoadVar(v)
	if err != nil {
		return nil, err
	}
	loadInstrs = append(promoteInstrs, loadInstrs...)
	switch v.Len {
	case 1:
		return append(loadInstrs, movePivot(v.Reg.Reg, srcAddr, false)...), nil
	case 2:
		hi, lo, err := v.Reg.Pair.Split()
		if err != nil {
			return nil, err
		}
		instrs := append(loadInstrs, movePivot(lo, srcAddr, false)...)
		instrs = append(instrs, movePivot(hi, srcAddr+1, false)...)
		return instrs, nil
	default:
		return nil, argumentErr("ld_var_from_ind: unsupported length %d", v.Len)
	}
}

// movePivot emits the A-pivot sequence moving reg to/from addr,
// preferring the short ldh forms in the zero page (spec.md §4.3).
func movePivot(reg cpu.GpReg, addr uint16, toMem bool) []cpu.Instruction {
	var instrs []cpu.Instruction
	preserve := reg != cpu.RegA
	if preserve {
		instrs = append(instrs, cpu.Push(cpu.StackAF))
	}
	if toMem {
		if reg != cpu.RegA {
			instrs = append(instrs, cpu.LdR8FromR8(cpu.RegA, reg))
		}
		if addr >= 0xFF00 {
			instrs = append(instrs, cpu.LdhFromA(uint8(addr)))
		} else {
			instrs = append(instrs, cpu.LdAToInd(addr))
		}
	} else {
		if addr >= 0xFF00 {
			instrs = append(instrs, cpu.LdhToA(uint8(addr)))
		} else {
			instrs = append(instrs, cpu.LdAFromInd(addr))
		}
		if reg != cpu.RegA {
			instrs = append(instrs, cpu.LdR8FromR8(reg, cpu.RegA))
		}
	}
	if preserve {
		instrs = append(instrs, cpu.Pop(cpu.StackAF))
	}
	return instrs
}

// JrNzVar loads var, compares it against zero, and emits a jr NZ with
// the given offset (spec.md §4.3). A 16-bit variable is lowered
// recursively into two 8-bit jr_nz_var checks, low byte first, per
// spec.md's recursive rule.
func (a *Assembler) JrNzVar(v *gbvar.Variable, offset int8) ([]cpu.Instruction, error) {
	loadInstrs, err := a.LoadVar(v)
	if err != nil {
		return nil, err
	}
	switch {
	case v.Kind == gbvar.VarReg && v.Len == 1:
		return append(loadInstrs, jrNzReg8(v.Reg.Reg, offset)...), nil
	case v.Kind == gbvar.VarReg && v.Len == 2:
		pairInstrs, err := jrNzVarPair(v.Reg.Pair, offset)
		if err != nil {
			return nil, err
		}
		return append(loadInstrs, pairInstrs...), nil
	default:
		return nil, argumentErr("jr_nz_var: requires a register variable")
	}
}

// jrNzReg8 compares reg against zero and jumps on NZ. A is saved and
// restored around the comparison when reg isn't A itself, but only on
// the fall-through path: the jr reads flags immediately after cp, so a
// taken jump carries whatever value reg's move left in A.
func jrNzReg8(reg cpu.GpReg, offset int8) []cpu.Instruction {
	if reg == cpu.RegA {
		return []cpu.Instruction{cpu.CpImm(0), cpu.Jr(cpu.Flag(cpu.FlagNZ), offset)}
	}
	return []cpu.Instruction{
		cpu.Push(cpu.StackAF),
		cpu.LdR8FromR8(cpu.RegA, reg),
		cpu.CpImm(0),
		cpu.Jr(cpu.Flag(cpu.FlagNZ), offset),
		cpu.Pop(cpu.StackAF),
	}
}

// jrNzVarPair lowers a 16-bit nonzero test into two 8-bit jr_nz_var
// blocks sharing one jump target: test the low byte first, and only if
// it's zero fall through to test the high byte. Both jr's offsets are
// counted from the address right after their own 2-byte encoding. The
// high block's jr ends one full block length after the low block's jr
// (the low block's trailing pop af plus the high block up to and
// including its jr), which equals the high block's own encoded length
// since both halves encode the same way; its offset is shortened by
// that length to still reach the same target.
func jrNzVarPair(pair cpu.RegPair, offset int8) ([]cpu.Instruction, error) {
	hi, lo, err := pair.Split()
	if err != nil {
		return nil, err
	}
	hiBlock := jrNzReg8(hi, 0)
	hiLen := 0
	for _, inst := range hiBlock {
		n, err := cpu.Len(inst)
		if err != nil {
			return nil, err
		}
		hiLen += n
	}
	hiOffset := int(offset) - hiLen
	if hiOffset < -128 || hiOffset > 127 {
		return nil, argumentErr("jr_nz_var: high-byte offset %d out of signed 8-bit range", hiOffset)
	}
	instrs := jrNzReg8(lo, offset)
	return append(instrs, jrNzReg8(hi, int8(hiOffset))...), nil
}
