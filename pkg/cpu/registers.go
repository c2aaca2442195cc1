// Package cpu models the Sharp LR35902 register file and instruction
// set and encodes instructions bit-exactly into ROM bytes.
package cpu

import "fmt"

// GpReg is one of the seven general-purpose 8-bit registers, plus the
// pseudo-register IndHL standing in for the "(HL)" operand position in
// instructions that share the 8-bit register encoding space.
type GpReg uint8

const (
	RegB GpReg = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegIndHL
	RegA
)

func (r GpReg) String() string {
	switch r {
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegH:
		return "H"
	case RegL:
		return "L"
	case RegIndHL:
		return "(HL)"
	case RegA:
		return "A"
	default:
		return fmt.Sprintf("GpReg(%d)", uint8(r))
	}
}

// code returns the 3-bit register encoding used by LD/INC/DEC/CB-prefixed
// families (spec.md §6: B=0,C=1,D=2,E=3,H=4,L=5,IndHL=6,A=7).
func (r GpReg) code() uint8 { return uint8(r) }

// RegPair is one of the four 16-bit register pairs. SP cannot be split
// into GpReg halves (spec.md §3, SplitError).
type RegPair uint8

const (
	PairBC RegPair = iota
	PairDE
	PairHL
	PairSP
)

func (p RegPair) String() string {
	switch p {
	case PairBC:
		return "BC"
	case PairDE:
		return "DE"
	case PairHL:
		return "HL"
	case PairSP:
		return "SP"
	default:
		return fmt.Sprintf("RegPair(%d)", uint8(p))
	}
}

func (p RegPair) code() uint8 { return uint8(p) }

// SplitError is returned when attempting to split SP into a GpReg pair.
type SplitError struct{}

func (SplitError) Error() string { return "cannot split SP into 8-bit halves" }

// Split returns the (high, low) GpReg halves of a splittable pair.
func (p RegPair) Split() (hi, lo GpReg, err error) {
	switch p {
	case PairBC:
		return RegB, RegC, nil
	case PairDE:
		return RegD, RegE, nil
	case PairHL:
		return RegH, RegL, nil
	case PairSP:
		return 0, 0, SplitError{}
	default:
		return 0, 0, SplitError{}
	}
}

// StackPair is one of the four pairs usable as a PUSH/POP operand.
// Unlike RegPair, AF replaces SP here (spec.md §6: BC=0,DE=1,HL=2,AF=3).
type StackPair uint8

const (
	StackBC StackPair = iota
	StackDE
	StackHL
	StackAF
)

func (p StackPair) String() string {
	switch p {
	case StackBC:
		return "BC"
	case StackDE:
		return "DE"
	case StackHL:
		return "HL"
	case StackAF:
		return "AF"
	default:
		return fmt.Sprintf("StackPair(%d)", uint8(p))
	}
}

func (p StackPair) code() uint8 { return uint8(p) }

// IndirectPair is a register pair usable as the pointer operand of
// `ld a,[rr]`/`ld [rr],a`: BC, DE, HL+ (post-increment), HL- (post-decrement).
type IndirectPair uint8

const (
	IndBC IndirectPair = iota
	IndDE
	IndHLI
	IndHLD
)

func (p IndirectPair) String() string {
	switch p {
	case IndBC:
		return "BC"
	case IndDE:
		return "DE"
	case IndHLI:
		return "HL+"
	case IndHLD:
		return "HL-"
	default:
		return fmt.Sprintf("IndirectPair(%d)", uint8(p))
	}
}

// IndirectPairFromRegPair converts a RegPair to an IndirectPair where possible.
// SP has no indirect form; HL only converts to the post-increment form
// here (callers needing HL- construct IndHLD directly).
func IndirectPairFromRegPair(p RegPair) (IndirectPair, bool) {
	switch p {
	case PairBC:
		return IndBC, true
	case PairDE:
		return IndDE, true
	case PairHL:
		return IndHLI, true
	default:
		return 0, false
	}
}

// CpuFlag is one of the four branch conditions.
type CpuFlag uint8

const (
	FlagNZ CpuFlag = iota
	FlagZ
	FlagNC
	FlagC
)

func (f CpuFlag) String() string {
	switch f {
	case FlagNZ:
		return "NZ"
	case FlagZ:
		return "Z"
	case FlagNC:
		return "NC"
	case FlagC:
		return "C"
	default:
		return fmt.Sprintf("CpuFlag(%d)", uint8(f))
	}
}

func (f CpuFlag) code() uint8 { return uint8(f) }

// Condition is either Always (unconditional) or a CpuFlag.
type Condition struct {
	always bool
	flag   CpuFlag
}

// Always is the unconditional jump/jr condition.
var Always = Condition{always: true}

// Flag wraps a CpuFlag into a Condition.
func Flag(f CpuFlag) Condition { return Condition{flag: f} }

func (c Condition) IsAlways() bool { return c.always }

func (c Condition) String() string {
	if c.always {
		return "always"
	}
	return c.flag.String()
}

// Bit is a CB-prefixed bit index, 0..7.
type Bit uint8

const (
	Bit0 Bit = iota
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
)
