package alloc

import "github.com/8bitcraft/gleeby/pkg/cpu"

// slot is one entry of the register file: absent (free) or occupied by
// an Id with a live-handle reference count.
type slot struct {
	occupied bool
	id       Id
	rc       int
}

// registers is the GpReg -> slot map (spec.md §3 RegSlot). IndHL has no
// backing slot: it is always "absent" per spec.
type registers struct {
	a, b, c, d, e, h, l slot
}

func (r *registers) at(reg cpu.GpReg) *slot {
	switch reg {
	case cpu.RegA:
		return &r.a
	case cpu.RegB:
		return &r.b
	case cpu.RegC:
		return &r.c
	case cpu.RegD:
		return &r.d
	case cpu.RegE:
		return &r.e
	case cpu.RegH:
		return &r.h
	case cpu.RegL:
		return &r.l
	default:
		// RegIndHL is a pseudo-register: always free, never stored.
		return nil
	}
}

// ScanOrder is the canonical register scan order for both free-slot
// search and (per SPEC_FULL.md §11, Open Question 1) spill-victim
// search: A,B,C,D,E,H,L. Exported so pkg/asm's spill-victim selection
// reuses the exact same order rather than risking a second, divergent
// policy.
var ScanOrder = []cpu.GpReg{cpu.RegA, cpu.RegB, cpu.RegC, cpu.RegD, cpu.RegE, cpu.RegH, cpu.RegL}

// PairOrder is the canonical register-pair scan order: BC, DE, HL.
var PairOrder = []cpu.RegPair{cpu.PairBC, cpu.PairDE, cpu.PairHL}

func (r *registers) free(reg cpu.GpReg) bool {
	s := r.at(reg)
	return s == nil || !s.occupied
}

func (r *registers) pairFree(pair cpu.RegPair) bool {
	hi, lo, err := pair.Split()
	if err != nil {
		return false
	}
	return r.free(hi) && r.free(lo)
}

// RegSelector names either a single GpReg or a RegPair, mirroring
// spec.md §3's RegSelector used by claim_reg/release_reg.
type RegSelector struct {
	isPair bool
	reg    cpu.GpReg
	pair   cpu.RegPair
}

func SelectReg(r cpu.GpReg) RegSelector    { return RegSelector{reg: r} }
func SelectPair(p cpu.RegPair) RegSelector { return RegSelector{isPair: true, pair: p} }

func (r *registers) claim(sel RegSelector, id Id) {
	if sel.isPair {
		hi, lo, err := sel.pair.Split()
		if err != nil {
			return
		}
		if s := r.at(hi); s != nil {
			*s = slot{occupied: true, id: id, rc: 1}
		}
		if s := r.at(lo); s != nil {
			*s = slot{occupied: true, id: id, rc: 1}
		}
		return
	}
	if s := r.at(sel.reg); s != nil {
		*s = slot{occupied: true, id: id, rc: 1}
	}
}

func (r *registers) release(sel RegSelector) {
	if sel.isPair {
		hi, lo, err := sel.pair.Split()
		if err != nil {
			return
		}
		if s := r.at(hi); s != nil {
			*s = slot{}
		}
		if s := r.at(lo); s != nil {
			*s = slot{}
		}
		return
	}
	if s := r.at(sel.reg); s != nil {
		*s = slot{}
	}
}
