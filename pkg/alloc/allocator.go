package alloc

import "github.com/8bitcraft/gleeby/pkg/cpu"

// defaultConstLen/defaultVarLen are the arena defaults from spec.md §3:
// "ROM arena defaults offset=0x0000, len=0x0800; RAM arena offset=0x0000,
// len=0x1000." SPEC_FULL.md §6.1 notes the driver MUST override Offset
// before emission (the 0x0000 defaults overlap ROM/WRAM layout).
const (
	defaultConstLen = 0x0800
	defaultVarLen   = 0x1000
)

// Allocator owns the register file and the two bump arenas (ROM
// constants, RAM variables) — spec.md §3's Allocator entity.
type Allocator struct {
	Consts Arena
	Vars   Arena
	regs   registers
	gen    IdGen
}

// New constructs an Allocator with the default arena bounds.
// Callers MUST override Consts.Offset/Vars.Offset before serializing
// (SPEC_FULL.md §6.1, the arena offset floors).
func New() *Allocator {
	return &Allocator{
		Consts: NewArena("rom constant", 0, defaultConstLen),
		Vars:   NewArena("ram variable", 0, defaultVarLen),
	}
}

// NewId mints a fresh Id from this allocator's generation.
func (a *Allocator) NewId() Id { return a.gen.Next() }

// RegKind classifies a byte length as register-eligible, per spec.md §4.2.
type RegKind uint8

const (
	KindGpRegister RegKind = iota
	KindRegisterPair
)

// RegKindFromLen maps a byte length to a RegKind, failing for anything
// that cannot live in a register (spec.md §4.2 "RegKind dispatch").
func RegKindFromLen(n uint16) (RegKind, error) {
	switch n {
	case 1:
		return KindGpRegister, nil
	case 2:
		return KindRegisterPair, nil
	default:
		return 0, OversizedLoad()
	}
}

// AllocReg returns the first free GpReg in scan order A,B,C,D,E,H,L,
// marking it Set(id, rc=1) and returning a reference-counted handle.
func (a *Allocator) AllocReg() (*RegHandle, error) {
	for _, reg := range ScanOrder {
		if a.regs.free(reg) {
			id := a.NewId()
			a.regs.claim(SelectReg(reg), id)
			return newRegHandle(a, reg, id), nil
		}
	}
	return nil, outOfRegisters()
}

// AllocRegPair returns the first pair whose both halves are free, in
// order BC, DE, HL. SP is never allocatable.
func (a *Allocator) AllocRegPair() (*RegPairHandle, error) {
	for _, pair := range PairOrder {
		if a.regs.pairFree(pair) {
			id := a.NewId()
			a.regs.claim(SelectPair(pair), id)
			return newRegPairHandle(a, pair, id), nil
		}
	}
	return nil, outOfRegisters()
}

// ClaimReg forcibly marks a specific register/pair with the given id,
// overwriting any prior occupant (spec.md §4.2: "callers use this for
// registers whose identity is semantically fixed").
func (a *Allocator) ClaimReg(sel RegSelector, id Id) {
	a.regs.claim(sel, id)
}

// ReleaseReg unconditionally clears the slot(s) named by sel.
func (a *Allocator) ReleaseReg(sel RegSelector) {
	a.regs.release(sel)
}

// RegFree reports whether the named register/pair is currently free.
func (a *Allocator) RegFree(sel RegSelector) bool {
	if sel.isPair {
		return a.regs.pairFree(sel.pair)
	}
	return a.regs.free(sel.reg)
}

// AllocConst bump-allocates len bytes in the ROM constant arena.
func (a *Allocator) AllocConst(length uint16) (uint16, error) {
	return a.Consts.Alloc(length)
}

// AllocVar bump-allocates len bytes in the RAM variable arena.
func (a *Allocator) AllocVar(length uint16) (uint16, error) {
	return a.Vars.Alloc(length)
}

// DeallocVar is a documented no-op (bump semantics never free).
func (a *Allocator) DeallocVar(addr, length uint16) {
	a.Vars.Dealloc(addr, length)
}

// GetReg wraps an already-occupied register as a handle without
// performing a fresh allocation; used when a variable's storage
// register is already known. Returns nil if reg is free.
func (a *Allocator) GetReg(reg cpu.GpReg) *RegHandle {
	s := a.regs.at(reg)
	if s == nil || !s.occupied {
		return nil
	}
	return &RegHandle{alloc: a, reg: reg, id: s.id}
}
