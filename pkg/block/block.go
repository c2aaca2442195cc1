// Package block implements the instruction stream and block tree of
// spec.md §4.4: a BasicBlock holds an ordered list of child Blocks
// sharing one allocator, with Raw children batching consecutive
// instructions and Basic/Loop children nesting sub-trees.
package block

import (
	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/gbvar"
)

// Kind tags the Block sum type: Raw | Basic | Loop.
type Kind uint8

const (
	KindRaw Kind = iota
	KindBasic
	KindLoop
)

// Block is spec.md §3's closed Block union, simulated with a tag field.
type Block struct {
	Kind  Kind
	Instr []cpu.Instruction // KindRaw payload
	Basic *BasicBlock       // KindBasic payload
	Loop  *LoopBlock        // KindLoop payload
}

// constEntry records a StoredConstant's bytes on the block that
// declared it; GatherConsts and ConstBytes read them from there.
type constEntry struct {
	Stored gbvar.StoredConstant
	Bytes  []byte
}

// BasicBlock is spec.md §4.4's BasicBlock: an ordered list of children,
// a shared allocator handle, a local id counter, and owned constants.
type BasicBlock struct {
	Children []Block
	Alloc    *alloc.Allocator
	localGen alloc.IdGen
	consts   map[alloc.Id]constEntry
}

// NewBasicBlock constructs an empty BasicBlock sharing a.
func NewBasicBlock(a *alloc.Allocator) *BasicBlock {
	return &BasicBlock{Alloc: a, consts: make(map[alloc.Id]constEntry)}
}

// NewLocalId mints a block-local id, independent of the allocator's
// generation (spec.md §3: "a map from local IDs to (StoredConstant, bytes)").
func (b *BasicBlock) NewLocalId() alloc.Id { return b.localGen.Next() }

// PushInstruction appends inst to the last child if it is Raw,
// otherwise starts a fresh Raw child (spec.md §4.4).
func (b *BasicBlock) PushInstruction(inst cpu.Instruction) {
	if n := len(b.Children); n > 0 && b.Children[n-1].Kind == KindRaw {
		b.Children[n-1].Instr = append(b.Children[n-1].Instr, inst)
		return
	}
	b.Children = append(b.Children, Block{Kind: KindRaw, Instr: []cpu.Instruction{inst}})
}

// PushBuf appends a batch of instructions with the same Raw-coalescing
// rule as PushInstruction.
func (b *BasicBlock) PushBuf(instrs []cpu.Instruction) {
	for _, inst := range instrs {
		b.PushInstruction(inst)
	}
}

// BasicBlock appends a freshly-constructed Basic child sharing this
// block's allocator and returns it for further composition.
func (b *BasicBlock) BasicBlock() *BasicBlock {
	child := NewBasicBlock(b.Alloc)
	b.Children = append(b.Children, Block{Kind: KindBasic, Basic: child})
	return child
}

// LoopBlock appends a freshly-constructed Loop child and returns its
// inner BasicBlock for composition. ops may be nil for Native
// conditions, which need no variable operations.
func (b *BasicBlock) LoopBlock(cond LoopCondition, ops VarOps) *BasicBlock {
	inner := NewBasicBlock(b.Alloc)
	lb := &LoopBlock{Inner: inner, Cond: cond, Ops: ops}
	b.Children = append(b.Children, Block{Kind: KindLoop, Loop: lb})
	return inner
}

// AddStoredConst bump-allocates a ROM cell for bytes and records it for
// later GatherConsts/ConstBytes lookups.
func (b *BasicBlock) AddStoredConst(bytes []byte) (gbvar.StoredConstant, error) {
	addr, err := b.Alloc.AllocConst(uint16(len(bytes)))
	if err != nil {
		return gbvar.StoredConstant{}, err
	}
	id := b.Alloc.NewId()
	sc := gbvar.StoredConstant{Id: id, Addr: addr, Len: uint16(len(bytes))}
	b.consts[id] = constEntry{Stored: sc, Bytes: bytes}
	return sc, nil
}

// Len sums child lengths recursively, failing if any Raw child still
// contains an unresolved Meta or Label instruction.
func (b *BasicBlock) Len() (int, error) {
	total := 0
	for _, c := range b.Children {
		n, err := c.len()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (c Block) len() (int, error) {
	switch c.Kind {
	case KindRaw:
		total := 0
		for _, inst := range c.Instr {
			n, err := cpu.Len(inst)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case KindBasic:
		return c.Basic.Len()
	case KindLoop:
		b, err := c.Loop.Encode()
		if err != nil {
			return 0, err
		}
		return len(b), nil
	default:
		return 0, Error{Kind: ErrEncode, Message: "unhandled block kind"}
	}
}

// Encode lowers the tree to bytes in child order, collecting every
// per-instruction error it encounters rather than failing fast, the
// same error-aggregation style z80asm.Assembler used.
func (b *BasicBlock) Encode() ([]byte, []error) {
	var out []byte
	var errs []error
	for _, c := range b.Children {
		bytes, cErrs := c.encode()
		out = append(out, bytes...)
		errs = append(errs, cErrs...)
	}
	return out, errs
}

func (c Block) encode() ([]byte, []error) {
	switch c.Kind {
	case KindRaw:
		var out []byte
		var errs []error
		for _, inst := range c.Instr {
			bytes, err := cpu.Encode(inst)
			if err != nil {
				errs = append(errs, Error{Kind: ErrEncode, Message: err.Error()})
				continue
			}
			out = append(out, bytes...)
		}
		return out, errs
	case KindBasic:
		return c.Basic.Encode()
	case KindLoop:
		bytes, err := c.Loop.Encode()
		if err != nil {
			return nil, []error{err}
		}
		return bytes, nil
	default:
		return nil, []error{Error{Kind: ErrEncode, Message: "unhandled block kind"}}
	}
}

// GatherConsts walks the tree and returns every StoredConstant this
// block or its descendants own, for the serializer (spec.md §4.7 step
// 3). The blocks keep their records, so ConstBytes still finds them.
func (b *BasicBlock) GatherConsts() []gbvar.StoredConstant {
	var out []gbvar.StoredConstant
	var bytesOf = map[alloc.Id][]byte{}
	b.gatherConstsInto(&out, bytesOf)
	return out
}

func (b *BasicBlock) gatherConstsInto(out *[]gbvar.StoredConstant, bytesOf map[alloc.Id][]byte) {
	for _, e := range b.consts {
		*out = append(*out, e.Stored)
		bytesOf[e.Stored.Id] = e.Bytes
	}
	for _, c := range b.Children {
		switch c.Kind {
		case KindBasic:
			c.Basic.gatherConstsInto(out, bytesOf)
		case KindLoop:
			c.Loop.Inner.gatherConstsInto(out, bytesOf)
		}
	}
}

// ConstBytes returns the byte payload most recently recorded for id by
// AddStoredConst, searching this block and its descendants.
func (b *BasicBlock) ConstBytes(id alloc.Id) ([]byte, bool) {
	if e, ok := b.consts[id]; ok {
		return e.Bytes, true
	}
	for _, c := range b.Children {
		switch c.Kind {
		case KindBasic:
			if bytes, ok := c.Basic.ConstBytes(id); ok {
				return bytes, true
			}
		case KindLoop:
			if bytes, ok := c.Loop.Inner.ConstBytes(id); ok {
				return bytes, true
			}
		}
	}
	return nil, false
}
