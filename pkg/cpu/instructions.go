package cpu

// Kind tags which instruction family an Instruction value holds.
// Meta and Label are placeholders that must never reach Encode.
type Kind uint8

const (
	KindLdR16Imm Kind = iota
	KindLdR8Imm
	KindLdR8FromR8
	KindJr
	KindJp
	KindIncR16
	KindDecR16
	KindIncR8
	KindDecR8
	KindLdhFromA
	KindLdhToA
	KindLdAToInd
	KindLdAFromInd
	KindPush
	KindPop
	KindBit
	KindRes
	KindSet
	KindLdAFromR16
	KindLdAToR16
	KindCpR8
	KindCpImm
	KindOrR8
	KindAndR8
	KindMeta
	KindLabel
)

// Instruction is a closed tagged union over every supported Game Boy
// instruction plus the Meta/Label placeholder families (spec.md §4.1
// and §6). Only the fields relevant to Kind are meaningful; Encode
// ignores the rest.
type Instruction struct {
	Kind Kind

	Reg     GpReg
	Reg2    GpReg
	Pair    RegPair
	Stack   StackPair
	Ind     IndirectPair
	Cond    Condition
	Bit     Bit
	Imm8    uint8
	Imm16   uint16
	Offset  int8
	MetaRef interface{} // carries a Meta instruction's payload (an *asm.MetaOp)
	Label   string
}

func LdR16Imm(pair RegPair, imm uint16) Instruction {
	return Instruction{Kind: KindLdR16Imm, Pair: pair, Imm16: imm}
}

func LdR8Imm(reg GpReg, imm uint8) Instruction {
	return Instruction{Kind: KindLdR8Imm, Reg: reg, Imm8: imm}
}

func LdR8FromR8(dst, src GpReg) Instruction {
	return Instruction{Kind: KindLdR8FromR8, Reg: dst, Reg2: src}
}

func Jr(cond Condition, offset int8) Instruction {
	return Instruction{Kind: KindJr, Cond: cond, Offset: offset}
}

func Jp(cond Condition, addr uint16) Instruction {
	return Instruction{Kind: KindJp, Cond: cond, Imm16: addr}
}

func IncR16(pair RegPair) Instruction { return Instruction{Kind: KindIncR16, Pair: pair} }
func DecR16(pair RegPair) Instruction { return Instruction{Kind: KindDecR16, Pair: pair} }
func IncR8(reg GpReg) Instruction     { return Instruction{Kind: KindIncR8, Reg: reg} }
func DecR8(reg GpReg) Instruction     { return Instruction{Kind: KindDecR8, Reg: reg} }

func LdhFromA(imm uint8) Instruction { return Instruction{Kind: KindLdhFromA, Imm8: imm} }
func LdhToA(imm uint8) Instruction   { return Instruction{Kind: KindLdhToA, Imm8: imm} }

func LdAToInd(addr uint16) Instruction   { return Instruction{Kind: KindLdAToInd, Imm16: addr} }
func LdAFromInd(addr uint16) Instruction { return Instruction{Kind: KindLdAFromInd, Imm16: addr} }

func Push(sp StackPair) Instruction { return Instruction{Kind: KindPush, Stack: sp} }
func Pop(sp StackPair) Instruction  { return Instruction{Kind: KindPop, Stack: sp} }

func BitOp(reg GpReg, bit Bit) Instruction { return Instruction{Kind: KindBit, Reg: reg, Bit: bit} }
func ResOp(reg GpReg, bit Bit) Instruction { return Instruction{Kind: KindRes, Reg: reg, Bit: bit} }
func SetOp(reg GpReg, bit Bit) Instruction { return Instruction{Kind: KindSet, Reg: reg, Bit: bit} }

func LdAFromR16(pair IndirectPair) Instruction {
	return Instruction{Kind: KindLdAFromR16, Ind: pair}
}

func LdAToR16(pair IndirectPair) Instruction {
	return Instruction{Kind: KindLdAToR16, Ind: pair}
}

func CpR8(reg GpReg) Instruction    { return Instruction{Kind: KindCpR8, Reg: reg} }
func CpImm(imm uint8) Instruction   { return Instruction{Kind: KindCpImm, Imm8: imm} }
func OrR8(reg GpReg) Instruction    { return Instruction{Kind: KindOrR8, Reg: reg} }
func AndR8(reg GpReg) Instruction   { return Instruction{Kind: KindAndR8, Reg: reg} }

// Meta wraps an unresolved placeholder; ref is owned and interpreted by
// package asm. It must be rewritten away before Encode ever sees it.
func Meta(ref interface{}) Instruction { return Instruction{Kind: KindMeta, MetaRef: ref} }

// Label marks a named position. No resolver walks labels to addresses
// in this spec (spec.md §9, Open Question iv); Encode rejects them.
func Label(name string) Instruction { return Instruction{Kind: KindLabel, Label: name} }
