package alloc

import "github.com/8bitcraft/gleeby/pkg/cpu"

// noRcSentinel marks a slot whose handle has opted out of reference
// counting via NoRc, distinguishing it from a normal rc count (which is
// always >= 1 while occupied).
const noRcSentinel = -1

// RegHandle is a reference-counted ownership token over a single GpReg
// slot. Go has no destructors, so callers MUST call Release explicitly
// when a handle goes out of scope (spec.md §3: "callers are responsible
// for releasing what they allocate").
type RegHandle struct {
	alloc    *Allocator
	reg      cpu.GpReg
	id       Id
	raw      bool
	released bool
}

func newRegHandle(a *Allocator, reg cpu.GpReg, id Id) *RegHandle {
	return &RegHandle{alloc: a, reg: reg, id: id}
}

// Reg returns the underlying register.
func (h *RegHandle) Reg() cpu.GpReg { return h.reg }

// Id returns the slot's allocation id.
func (h *RegHandle) Id() Id { return h.id }

// Clone increments the slot's reference count and returns a new handle
// aliasing the same register (spec.md §3: "clone bumps rc"). Cloning a
// raw (NoRc'd) handle is a no-op on the count, since a raw slot isn't
// rc-tracked in the first place.
func (h *RegHandle) Clone() *RegHandle {
	if s := h.alloc.regs.at(h.reg); s != nil && s.occupied && s.id == h.id && s.rc != noRcSentinel {
		s.rc++
	}
	return &RegHandle{alloc: h.alloc, reg: h.reg, id: h.id, raw: h.raw}
}

// Release decrements the slot's reference count, freeing it once the
// count reaches zero. The slot's id is checked against the handle's own
// id first, so a stale handle whose register has since been claimed by
// a different allocation cannot release that unrelated occupant. A raw
// handle frees the slot outright on its first Release and is then
// inert: a second call (double-release) is a no-op.
func (h *RegHandle) Release() {
	if h.raw && h.released {
		return
	}
	s := h.alloc.regs.at(h.reg)
	if s == nil || !s.occupied || s.id != h.id {
		return
	}
	if h.raw {
		h.released = true
		*s = slot{}
		return
	}
	if s.rc == noRcSentinel {
		// Ownership was handed to a raw handle via NoRc; this
		// rc-tracked handle has nothing left to release.
		return
	}
	s.rc--
	if s.rc <= 0 {
		*s = slot{}
	}
}

// NoRc detaches this handle from reference counting, producing a "raw"
// handle the caller now owns outright (spec.md §3: "raw handles bypass
// rc bookkeeping; the caller promises to release exactly once"). The
// slot's rc is set to a sentinel rather than a count, so a remaining rc
// clone's Release cannot touch it, and the returned handle tracks its
// own released state to guard against a double Release.
func (h *RegHandle) NoRc() *RegHandle {
	if s := h.alloc.regs.at(h.reg); s != nil && s.occupied && s.id == h.id {
		s.rc = noRcSentinel
	}
	return &RegHandle{alloc: h.alloc, reg: h.reg, id: h.id, raw: true}
}

// RegPairHandle is the pair analogue of RegHandle.
type RegPairHandle struct {
	alloc    *Allocator
	pair     cpu.RegPair
	id       Id
	raw      bool
	released bool
}

func newRegPairHandle(a *Allocator, pair cpu.RegPair, id Id) *RegPairHandle {
	return &RegPairHandle{alloc: a, pair: pair, id: id}
}

func (h *RegPairHandle) Pair() cpu.RegPair { return h.pair }
func (h *RegPairHandle) Id() Id            { return h.id }

func (h *RegPairHandle) pairSlots() (hi, lo *slot) {
	hiReg, loReg, err := h.pair.Split()
	if err != nil {
		return nil, nil
	}
	return h.alloc.regs.at(hiReg), h.alloc.regs.at(loReg)
}

// Clone increments both halves' reference counts; a no-op on a raw
// (NoRc'd) pair, which isn't rc-tracked (see RegHandle.Clone).
func (h *RegPairHandle) Clone() *RegPairHandle {
	hi, lo := h.pairSlots()
	if hi != nil && hi.occupied && hi.id == h.id && hi.rc != noRcSentinel {
		hi.rc++
	}
	if lo != nil && lo.occupied && lo.id == h.id && lo.rc != noRcSentinel {
		lo.rc++
	}
	return &RegPairHandle{alloc: h.alloc, pair: h.pair, id: h.id, raw: h.raw}
}

// Release decrements both halves' reference counts, freeing each
// independently once it reaches zero, guarding against a stale handle
// touching a slot since reused for a different id (see RegHandle.Release).
// A raw pair frees both halves outright on its first Release and is
// inert afterward.
func (h *RegPairHandle) Release() {
	if h.raw && h.released {
		return
	}
	hi, lo := h.pairSlots()
	if h.raw {
		h.released = true
		if hi != nil && hi.occupied && hi.id == h.id {
			*hi = slot{}
		}
		if lo != nil && lo.occupied && lo.id == h.id {
			*lo = slot{}
		}
		return
	}
	if hi != nil && hi.occupied && hi.id == h.id && hi.rc != noRcSentinel {
		hi.rc--
		if hi.rc <= 0 {
			*hi = slot{}
		}
	}
	if lo != nil && lo.occupied && lo.id == h.id && lo.rc != noRcSentinel {
		lo.rc--
		if lo.rc <= 0 {
			*lo = slot{}
		}
	}
}

// NoRc detaches the pair from reference counting (see RegHandle.NoRc).
func (h *RegPairHandle) NoRc() *RegPairHandle {
	hi, lo := h.pairSlots()
	if hi != nil && hi.occupied && hi.id == h.id {
		hi.rc = noRcSentinel
	}
	if lo != nil && lo.occupied && lo.id == h.id {
		lo.rc = noRcSentinel
	}
	return &RegPairHandle{alloc: h.alloc, pair: h.pair, id: h.id, raw: true}
}
