package asm

import "fmt"

// ErrorKind enumerates assembler-level failures (spec.md §7's
// EncoderError/EmitterError family, raised above the instruction
// encoder where variables and addresses are still in play).
type ErrorKind uint8

const (
	ErrUnallocatedVariable ErrorKind = iota
	ErrArgument
	ErrSize
	ErrNotImplemented
)

// Error is returned by every Assembler/MacroAssembler method that can fail.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e Error) Error() string { return e.Message }

func unallocatedVariable() error {
	return Error{Kind: ErrUnallocatedVariable, Message: "variable reached an operation requiring a concrete home"}
}

func argumentErr(format string, args ...interface{}) error {
	return Error{Kind: ErrArgument, Message: fmt.Sprintf(format, args...)}
}

func notImplemented(what string) error {
	return Error{Kind: ErrNotImplemented, Message: fmt.Sprintf("%s is not implemented", what)}
}
