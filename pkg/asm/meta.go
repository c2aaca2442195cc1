package asm

import (
	"github.com/8bitcraft/gleeby/pkg/block"
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/gbvar"
)

// MetaKind tags the deferred-operation sum type of spec.md §4.6.
type MetaKind uint8

const (
	MetaVarSet MetaKind = iota
	MetaVarFromInd
	MetaVarToInd
	MetaVarAdd
	MetaVarInc
	MetaVarSub
	MetaVarDec
)

// MetaOp is the payload a cpu.Meta instruction carries: a forward
// reference to a variable operation whose operands were not fully
// allocated at composition time (spec.md §4.6).
type MetaOp struct {
	Kind     MetaKind
	Dest     *gbvar.Variable
	Src      *gbvar.Variable
	SrcConst *gbvar.Constant
	Addr     uint16
}

// ResolveMetas walks root's tree and rewrites every Meta instruction it
// finds into concrete instructions, now that composition has finished.
// A destination variable that is still Unallocated at this point is
// promoted into a fresh register rather than rejected; only a set whose
// source is still Unallocated fails, with an ErrUnallocatedVariable
// error.
func (a *Assembler) ResolveMetas(root *block.BasicBlock) []error {
	var errs []error
	resolveChildren(a, root.Children, &errs)
	return errs
}

func resolveChildren(a *Assembler, children []block.Block, errs *[]error) {
	for i := range children {
		c := &children[i]
		switch c.Kind {
		case block.KindRaw:
			resolveRaw(a, c, errs)
		case block.KindBasic:
			resolveChildren(a, c.Basic.Children, errs)
		case block.KindLoop:
			resolveChildren(a, c.Loop.Inner.Children, errs)
		}
	}
}

func resolveRaw(a *Assembler, c *block.Block, errs *[]error) {
	var out []cpu.Instruction
	for _, inst := range c.Instr {
		if inst.Kind != cpu.KindMeta {
			out = append(out, inst)
			continue
		}
		op, ok := inst.MetaRef.(*MetaOp)
		if !ok {
			*errs = append(*errs, argumentErr("meta-instruction carries an unrecognized payload"))
			continue
		}
		resolved, err := a.resolveMetaOp(op)
		if err != nil {
			*errs = append(*errs, err)
			continue
		}
		out = append(out, resolved...)
	}
	c.Instr = out
}

func (a *Assembler) resolveMetaOp(op *MetaOp) ([]cpu.Instruction, error) {
	switch op.Kind {
	case MetaVarSet:
		if op.SrcConst != nil {
			return a.SetVarConst(op.Dest, *op.SrcConst)
		}
		return a.setVarResolved(op.Dest, op.Src)
	case MetaVarInc:
		return a.incDecVarResolved(op.Dest, true)
	case MetaVarDec:
		return a.incDecVarResolved(op.Dest, false)
	case MetaVarFromInd:
		return a.LdVarFromInd(op.Dest, op.Addr)
	case MetaVarToInd:
		return a.ldVarToIndResolved(op.Dest, op.Addr)
	case MetaVarAdd, MetaVarSub:
		return nil, notImplemented("var_add/var_sub")
	default:
		return nil, argumentErr("unhandled meta kind %d", op.Kind)
	}
}
