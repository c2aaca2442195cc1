package block

import (
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/gbvar"
)

// maxBackwardJump is the absolute value a signed 8-bit jr offset may
// take, per spec.md §4.4: "reject if the absolute backward offset
// exceeds 128 bytes."
const maxBackwardJump = 128

// CondKind tags the LoopCondition sum type.
type CondKind uint8

const (
	CondNative CondKind = iota
	CondCountdown
	CondCountup
)

// LoopCondition is spec.md §3's LoopCondition: Native(cpu.Condition) |
// Countdown{counter,end} | Countup{counter,end}.
type LoopCondition struct {
	Kind    CondKind
	Native  cpu.Condition
	Counter *gbvar.Variable
	End     uint16
}

func Native(c cpu.Condition) LoopCondition {
	return LoopCondition{Kind: CondNative, Native: c}
}

// Countdown and Countup require an 8-bit counter variable (SPEC_FULL.md
// §11 Open Question 5: widening to a 16-bit zero check is not
// implemented). A wide counter is rejected here, at construction time,
// rather than deferred to Encode.
func Countdown(counter *gbvar.Variable, end uint16) (LoopCondition, error) {
	if counter.Len != 1 {
		return LoopCondition{}, wideCounter()
	}
	return LoopCondition{Kind: CondCountdown, Counter: counter, End: end}, nil
}

func Countup(counter *gbvar.Variable, end uint16) (LoopCondition, error) {
	if counter.Len != 1 {
		return LoopCondition{}, wideCounter()
	}
	return LoopCondition{Kind: CondCountup, Counter: counter, End: end}, nil
}

// VarOps is the minimal slice of the assembler's variable-operations
// surface that loop lowering needs (load/dec/inc). Defined here rather
// than imported from pkg/asm to avoid a pkg/asm <-> pkg/block import
// cycle: pkg/asm implements this interface and passes it in when
// constructing a countdown/countup loop.
type VarOps interface {
	LoadVar(v *gbvar.Variable) ([]cpu.Instruction, error)
	DecVar(v *gbvar.Variable) ([]cpu.Instruction, error)
	IncVar(v *gbvar.Variable) ([]cpu.Instruction, error)
}

// LoopBlock wraps a BasicBlock body and a LoopCondition (spec.md §4.4).
type LoopBlock struct {
	Inner *BasicBlock
	Cond  LoopCondition
	Ops   VarOps
}

// Encode lowers the loop to bytes: body_bytes ++ encode(tail), where
// tail is derived from Cond per spec.md §4.4's pseudocode.
func (lb *LoopBlock) Encode() ([]byte, error) {
	body, errs := lb.Inner.Encode()
	if len(errs) > 0 {
		return nil, combine(errs)
	}

	var tail []cpu.Instruction
	switch lb.Cond.Kind {
	case CondNative:
		tail = []cpu.Instruction{cpu.Jr(lb.Cond.Native, 0)}
	case CondCountdown:
		if lb.Cond.End != 0 {
			return nil, unsupportedLoopCondition("countdown loops with end != 0 are not yet specified")
		}
		if lb.Ops == nil {
			return nil, missingVarOps()
		}
		loadInstrs, err := lb.Ops.LoadVar(lb.Cond.Counter)
		if err != nil {
			return nil, err
		}
		decInstrs, err := lb.Ops.DecVar(lb.Cond.Counter)
		if err != nil {
			return nil, err
		}
		tail = append(tail, loadInstrs...)
		tail = append(tail, decInstrs...)
		tail = append(tail, cpu.Jr(cpu.Flag(cpu.FlagNZ), 0))
	case CondCountup:
		if lb.Cond.End != 0 {
			return nil, unsupportedLoopCondition("countup loops with end != 0 are not yet specified")
		}
		if lb.Ops == nil {
			return nil, missingVarOps()
		}
		incInstrs, err := lb.Ops.IncVar(lb.Cond.Counter)
		if err != nil {
			return nil, err
		}
		tail = append(tail, incInstrs...)
		tail = append(tail, cpu.Jr(cpu.Flag(cpu.FlagNZ), 0))
	default:
		return nil, unsupportedLoopCondition("unhandled loop condition kind")
	}

	// The backward offset counts from the byte after the jr's own
	// 2-byte encoding, so it must account for the body plus every tail
	// instruction preceding the jr itself.
	tailPrefixLen := 0
	for _, inst := range tail[:len(tail)-1] {
		n, err := cpu.Len(inst)
		if err != nil {
			return nil, err
		}
		tailPrefixLen += n
	}
	offset := -(len(body) + tailPrefixLen + 2)
	if offset < -maxBackwardJump || offset > maxBackwardJump {
		return nil, backwardJumpTooFar(offset)
	}
	tail[len(tail)-1].Offset = int8(offset)

	tailBytes, err := cpu.EncodeAll(tail)
	if err != nil {
		return nil, err
	}
	return append(body, tailBytes...), nil
}
