package block

import (
	"testing"

	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/gbvar"
)

func TestPushInstructionCoalescesIntoRaw(t *testing.T) {
	a := alloc.New()
	b := NewBasicBlock(a)
	b.PushInstruction(cpu.LdR8Imm(cpu.RegA, 1))
	b.PushInstruction(cpu.LdR8Imm(cpu.RegB, 2))

	if len(b.Children) != 1 {
		t.Fatalf("expected instructions to coalesce into one Raw child, got %d children", len(b.Children))
	}
	if b.Children[0].Kind != KindRaw || len(b.Children[0].Instr) != 2 {
		t.Fatalf("unexpected child shape: %+v", b.Children[0])
	}
}

func TestBasicBlockStartsNewRawAfterNesting(t *testing.T) {
	a := alloc.New()
	b := NewBasicBlock(a)
	b.PushInstruction(cpu.LdR8Imm(cpu.RegA, 1))
	nested := b.BasicBlock()
	nested.PushInstruction(cpu.LdR8Imm(cpu.RegB, 2))
	b.PushInstruction(cpu.LdR8Imm(cpu.RegC, 3))

	if len(b.Children) != 3 {
		t.Fatalf("expected 3 children (raw, basic, raw), got %d", len(b.Children))
	}
	if b.Children[0].Kind != KindRaw || b.Children[1].Kind != KindBasic || b.Children[2].Kind != KindRaw {
		t.Fatalf("unexpected child kinds: %v %v %v", b.Children[0].Kind, b.Children[1].Kind, b.Children[2].Kind)
	}
}

func TestBasicBlockEncodeAndLen(t *testing.T) {
	a := alloc.New()
	b := NewBasicBlock(a)
	b.PushInstruction(cpu.LdR8Imm(cpu.RegA, 0x42))
	b.PushInstruction(cpu.IncR8(cpu.RegA))

	n, err := b.Len()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("Len() = %d, want 3", n)
	}

	bytes, errs := b.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []byte{0x3E, 0x42, 0x3C}
	if string(bytes) != string(want) {
		t.Fatalf("Encode() = % X, want % X", bytes, want)
	}
}

func TestAddStoredConstAndGatherConsts(t *testing.T) {
	a := alloc.New()
	b := NewBasicBlock(a)
	sc, err := b.AddStoredConst([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Len != 3 {
		t.Fatalf("StoredConstant.Len = %d, want 3", sc.Len)
	}

	nested := b.BasicBlock()
	sc2, err := nested.AddStoredConst([]byte{4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := b.GatherConsts()
	if len(all) != 2 {
		t.Fatalf("GatherConsts() returned %d entries, want 2", len(all))
	}

	bytes, ok := b.ConstBytes(sc2.Id)
	if !ok {
		t.Fatal("expected to find nested constant's bytes")
	}
	if string(bytes) != string([]byte{4, 5}) {
		t.Fatalf("ConstBytes = % X, want 04 05", bytes)
	}
	_ = sc
}

// fakeVarOps provides a minimal, deterministic VarOps implementation
// for exercising LoopBlock.Encode without wiring the full assembler.
type fakeVarOps struct{}

func (fakeVarOps) LoadVar(v *gbvar.Variable) ([]cpu.Instruction, error) {
	return nil, nil
}

func (fakeVarOps) DecVar(v *gbvar.Variable) ([]cpu.Instruction, error) {
	return []cpu.Instruction{cpu.DecR8(cpu.RegB)}, nil
}

func (fakeVarOps) IncVar(v *gbvar.Variable) ([]cpu.Instruction, error) {
	return []cpu.Instruction{cpu.IncR8(cpu.RegB)}, nil
}

func TestLoopBlockNativeCondition(t *testing.T) {
	a := alloc.New()
	root := NewBasicBlock(a)
	body := root.LoopBlock(Native(cpu.Flag(cpu.FlagNZ)), nil)
	body.PushInstruction(cpu.DecR8(cpu.RegA))

	bytes, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// body = dec a (1 byte); tail = jr nz, -(1+2) = -3
	want := []byte{0x3D, 0x20, 0xFD}
	if string(bytes) != string(want) {
		t.Fatalf("Encode() = % X, want % X", bytes, want)
	}
}

func TestLoopBlockCountdown(t *testing.T) {
	a := alloc.New()
	var gen alloc.IdGen
	counter := gbvar.NewUnallocated(&gen, 1)

	cond, err := Countdown(&counter, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := NewBasicBlock(a)
	body := root.LoopBlock(cond, fakeVarOps{})
	body.PushInstruction(cpu.IncR8(cpu.RegC))

	bytes, errs := root.Encode()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// body = inc c (1 byte); tail = dec b (1 byte) + jr nz, -(1+1+2) = -4
	want := []byte{0x0C, 0x05, 0x20, 0xFC}
	if string(bytes) != string(want) {
		t.Fatalf("Encode() = % X, want % X", bytes, want)
	}
}

func TestLoopBlockCountdownWithNonZeroEndRejected(t *testing.T) {
	a := alloc.New()
	var gen alloc.IdGen
	counter := gbvar.NewUnallocated(&gen, 1)

	cond, err := Countdown(&counter, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := NewBasicBlock(a)
	body := root.LoopBlock(cond, fakeVarOps{})
	body.PushInstruction(cpu.IncR8(cpu.RegC))

	_, errs := root.Encode()
	if len(errs) == 0 {
		t.Fatal("expected an error for countdown with non-zero end")
	}
}

func TestCountdownRejectsWideCounter(t *testing.T) {
	var gen alloc.IdGen
	wide := gbvar.NewUnallocated(&gen, 2)
	if _, err := Countdown(&wide, 0); err == nil {
		t.Fatal("expected an error for a 16-bit countdown counter")
	}
	if _, err := Countup(&wide, 0); err == nil {
		t.Fatal("expected an error for a 16-bit countup counter")
	}
}
