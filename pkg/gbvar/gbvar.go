// Package gbvar implements the variable/constant model from spec.md §3:
// tagged sum types describing where a value lives — unallocated, in a
// register, or in memory — simulated in Go with Kind-tagged structs
// matched exhaustively by switch.
package gbvar

import (
	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/cpu"
)

// ConstKind tags the Constant sum type.
type ConstKind uint8

const (
	ConstInline8 ConstKind = iota
	ConstInline16
	ConstAddr
)

// StoredConstant is a ROM-resident byte blob: Addr is the absolute
// address the constant arena returned (its offset already included),
// and the serializer writes the bytes at Addr.
type StoredConstant struct {
	Id   alloc.Id
	Addr uint16
	Len  uint16
}

// Constant is Inline8(u8) | Inline16(u16) | Addr(StoredConstant).
type Constant struct {
	Kind    ConstKind
	Inline8 uint8
	Inline16 uint16
	Stored  StoredConstant
}

func NewInline8(v uint8) Constant   { return Constant{Kind: ConstInline8, Inline8: v} }
func NewInline16(v uint16) Constant { return Constant{Kind: ConstInline16, Inline16: v} }
func NewStoredConst(sc StoredConstant) Constant {
	return Constant{Kind: ConstAddr, Stored: sc}
}

// MemoryVariable is a RAM-resident variable: addr lives in the
// variable arena, Len in {1,2} for register-loadable variables.
type MemoryVariable struct {
	Id   alloc.Id
	Addr uint16
	Len  uint16
}

// RegVarKind tags the RegVariable sum type.
type RegVarKind uint8

const (
	RegVarUnallocatedR8 RegVarKind = iota
	RegVarUnallocatedR16
	RegVarR8
	RegVarR16
	RegVarMemR8
	RegVarMemR16
)

// RegVariable is the sum:
// UnallocatedR8(id) | UnallocatedR16(id) | R8{reg,id} | R16{pair,id} |
// MemR8{addr,reg,id} | MemR16{addr,pair,id}.
// Mem* variants own both a memory cell and the register mirroring it.
type RegVariable struct {
	Kind RegVarKind
	Id   alloc.Id
	Reg  cpu.GpReg
	Pair cpu.RegPair
	Addr uint16
}

func UnallocatedR8(id alloc.Id) RegVariable {
	return RegVariable{Kind: RegVarUnallocatedR8, Id: id}
}
func UnallocatedR16(id alloc.Id) RegVariable {
	return RegVariable{Kind: RegVarUnallocatedR16, Id: id}
}
func RegR8(reg cpu.GpReg, id alloc.Id) RegVariable {
	return RegVariable{Kind: RegVarR8, Reg: reg, Id: id}
}
func RegR16(pair cpu.RegPair, id alloc.Id) RegVariable {
	return RegVariable{Kind: RegVarR16, Pair: pair, Id: id}
}
func MemR8(addr uint16, reg cpu.GpReg, id alloc.Id) RegVariable {
	return RegVariable{Kind: RegVarMemR8, Addr: addr, Reg: reg, Id: id}
}
func MemR16(addr uint16, pair cpu.RegPair, id alloc.Id) RegVariable {
	return RegVariable{Kind: RegVarMemR16, Addr: addr, Pair: pair, Id: id}
}

// IsUnallocated reports whether this handle still lacks a concrete home.
func (rv RegVariable) IsUnallocated() bool {
	return rv.Kind == RegVarUnallocatedR8 || rv.Kind == RegVarUnallocatedR16
}

// Len reports the variable's width in bytes, per its Kind.
func (rv RegVariable) Len() uint16 {
	switch rv.Kind {
	case RegVarUnallocatedR8, RegVarR8, RegVarMemR8:
		return 1
	case RegVarUnallocatedR16, RegVarR16, RegVarMemR16:
		return 2
	default:
		return 0
	}
}

// VarKind tags the Variable sum type.
type VarKind uint8

const (
	VarUnallocated VarKind = iota
	VarReg
	VarMemory
)

// Variable is Unallocated{len,id} | Reg(RegVariable) | Memory(MemoryVariable).
// len ∈ {1,2} for register-eligible variables; larger lengths are
// memory-only (see spec.md §3).
type Variable struct {
	Kind   VarKind
	Len    uint16
	Id     alloc.Id
	Reg    RegVariable
	Memory MemoryVariable
}

// NewUnallocated creates a fresh Unallocated variable with a new id
// minted from gen.
func NewUnallocated(gen *alloc.IdGen, length uint16) Variable {
	return Variable{Kind: VarUnallocated, Len: length, Id: gen.Next()}
}

func FromReg(rv RegVariable) Variable {
	return Variable{Kind: VarReg, Len: rv.Len(), Id: rv.Id, Reg: rv}
}

func FromMemory(mv MemoryVariable) Variable {
	return Variable{Kind: VarMemory, Len: mv.Len, Id: mv.Id, Memory: mv}
}
