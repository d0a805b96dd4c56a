package msgwire

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/msgwire/message"
)

var (
	ErrEmptyInput            = errors.New("msgwire: empty input")
	ErrUnknownInstruction    = errors.New("msgwire: unknown instruction")
	ErrMissingPriorityFee    = errors.New("msgwire: missing priority fee")
	ErrDiscriminatorMismatch = errors.New("msgwire: discriminator mismatch")
	ErrNilHandler            = errors.New("msgwire: handler is required")
	ErrInvalidOpcodes        = errors.New("msgwire: invalid opcode table")

	// Codec failures, re-exported so callers need only this package.
	ErrSizeMismatch            = message.ErrSizeMismatch
	ErrInvalidOptionalEncoding = message.ErrInvalidOptionalEncoding
)

// errEmptyInput is what the dispatcher returns for empty input. It matches
// ErrEmptyInput but, being unexported, cannot come back from a handler.
var errEmptyInput error = &emptyInputError{}

type emptyInputError struct{}

func (*emptyInputError) Error() string        { return ErrEmptyInput.Error() }
func (*emptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// UnknownInstructionError carries the opcode byte that did not map to an
// Instruction.
type UnknownInstructionError struct {
	Code byte
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("msgwire: unknown instruction 0x%02x", e.Code)
}

func (e *UnknownInstructionError) Is(target error) bool { return target == ErrUnknownInstruction }

// InvalidInstructionError reports an Instruction value outside the closed
// set, passed in by a caller rather than read off the wire.
type InvalidInstructionError struct {
	Instruction Instruction
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("msgwire: invalid instruction %d", uint8(e.Instruction))
}

func (e *InvalidInstructionError) Is(target error) bool { return target == ErrUnknownInstruction }

// InstructionError is a failure after routing: payload decode, discriminator
// cross-check or a missing fee. Handler errors are never wrapped.
type InstructionError struct {
	Instruction Instruction
	Err         error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("msgwire: %s: %v", e.Instruction, e.Err)
}

func (e *InstructionError) Unwrap() error { return e.Err }

// DiscriminatorError reports a record whose discriminator field disagrees
// with the envelope opcode (strict mode only).
type DiscriminatorError struct {
	Code  byte
	Field uint64
}

func (e *DiscriminatorError) Error() string {
	return fmt.Sprintf("msgwire: discriminator mismatch: envelope 0x%02x, record %d", e.Code, e.Field)
}

func (e *DiscriminatorError) Is(target error) bool { return target == ErrDiscriminatorMismatch }
