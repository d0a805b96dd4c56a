package msgwire

import (
	"context"

	"github.com/unkn0wn-root/msgwire/message"
)

// EnvelopeLen is the size of a well-formed instruction envelope.
const EnvelopeLen = 1 + message.Len

// Dispatcher routes instruction envelopes to a Handler.
// It is immutable after New and safe for concurrent use.
type Dispatcher struct {
	h      Handler
	ops    Opcodes
	strict bool
	hooks  Hooks
}

// Opcodes returns the wire numbering in use.
func (d *Dispatcher) Opcodes() Opcodes { return d.ops }

// Dispatch splits raw into opcode and payload, decodes the payload and calls
// the matching handler.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) error {
	ins, msg, err := d.Parse(raw)
	if err != nil {
		return err
	}
	return d.invoke(ctx, ins, msg)
}

// DispatchInstruction is Dispatch for a caller that already holds the
// instruction and a separate payload.
func (d *Dispatcher) DispatchInstruction(ctx context.Context, ins Instruction, payload []byte) error {
	if !ins.Valid() {
		err := &InvalidInstructionError{Instruction: ins}
		d.hooks.Rejected(ReasonUnknownInstruction, err)
		return err
	}
	msg, err := d.check(ins, d.ops.Code(ins), payload)
	if err != nil {
		return err
	}
	return d.invoke(ctx, ins, msg)
}

// Parse runs every Dispatch check without calling a handler.
func (d *Dispatcher) Parse(raw []byte) (Instruction, message.Message, error) {
	if len(raw) == 0 {
		d.hooks.Rejected(ReasonEmptyInput, errEmptyInput)
		return 0, message.Message{}, errEmptyInput
	}
	code, payload := raw[0], raw[1:]
	ins, ok := d.ops.Lookup(code)
	if !ok {
		err := &UnknownInstructionError{Code: code}
		d.hooks.Rejected(ReasonUnknownInstruction, err)
		return 0, message.Message{}, err
	}
	msg, err := d.check(ins, code, payload)
	if err != nil {
		return 0, message.Message{}, err
	}
	return ins, msg, nil
}

// Envelope encodes m behind the opcode for ins.
func (d *Dispatcher) Envelope(ins Instruction, m message.Message) ([]byte, error) {
	if !ins.Valid() {
		return nil, &InvalidInstructionError{Instruction: ins}
	}
	buf := make([]byte, 1, EnvelopeLen)
	buf[0] = d.ops.Code(ins)
	return m.AppendTo(buf), nil
}

// Send encodes m as an ins envelope and dispatches it.
func (d *Dispatcher) Send(ctx context.Context, ins Instruction, m message.Message) error {
	raw, err := d.Envelope(ins, m)
	if err != nil {
		return err
	}
	return d.Dispatch(ctx, raw)
}

func (d *Dispatcher) check(ins Instruction, code byte, payload []byte) (message.Message, error) {
	msg, err := message.Decode(payload)
	if err != nil {
		return message.Message{}, d.reject(ReasonDecode, ins, err)
	}
	if d.strict && msg.Discriminator != uint64(code) {
		return message.Message{}, d.reject(ReasonDiscriminatorMismatch, ins,
			&DiscriminatorError{Code: code, Field: msg.Discriminator})
	}
	if ins.RequiresFee() && !msg.PriorityFee.IsSome() {
		return message.Message{}, d.reject(ReasonMissingFee, ins, ErrMissingPriorityFee)
	}
	return msg, nil
}

func (d *Dispatcher) reject(reason string, ins Instruction, err error) error {
	ierr := &InstructionError{Instruction: ins, Err: err}
	d.hooks.Rejected(reason, ierr)
	return ierr
}

func (d *Dispatcher) invoke(ctx context.Context, ins Instruction, msg message.Message) error {
	var err error
	switch ins {
	case Initialize:
		err = d.h.Initialize(ctx, msg)
	case Close:
		err = d.h.Close(ctx, msg)
	case Update:
		err = d.h.Update(ctx, msg)
	default:
		return &InvalidInstructionError{Instruction: ins}
	}
	if err != nil {
		d.hooks.HandlerFailed(ins, msg.SenderID, err)
		return err
	}
	d.hooks.Dispatched(ins, msg.SenderID)
	return nil
}

// IsInputError reports whether err is a rejection of the input itself rather
// than a handler failure. Only the error the dispatcher returned is examined,
// not its chain, so a handler error that wraps a rejection counts as a
// handler failure.
func IsInputError(err error) bool {
	switch err.(type) {
	case *emptyInputError, *UnknownInstructionError, *InvalidInstructionError, *InstructionError:
		return true
	}
	return false
}
