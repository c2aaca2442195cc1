package alloc

import "fmt"

// ErrorKind enumerates the closed set of allocator failures (spec.md §7).
type ErrorKind uint8

const (
	ErrOutOfMemory ErrorKind = iota
	ErrOutOfRegisters
	ErrTooBigForRegister
)

// Error is returned by every Allocator method that can fail.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e Error) Error() string { return e.Message }

func outOfMemory(arena string) error {
	return Error{Kind: ErrOutOfMemory, Message: fmt.Sprintf("%s arena exhausted", arena)}
}

func outOfRegisters() error {
	return Error{Kind: ErrOutOfRegisters, Message: "no free register available"}
}

// OversizedLoad reports an attempt to hold >=3 bytes in a register,
// satisfying the AllocErrorTrait::oversized_load contract from the
// Rust original (original_source/src/codegen/allocator.rs).
func OversizedLoad() error {
	return Error{Kind: ErrTooBigForRegister, Message: "value too large to hold in a register (max 2 bytes)"}
}
