// Package msgwire routes fixed-layout binary messages to instruction handlers.
//
// An instruction envelope is one opcode byte followed by exactly one encoded
// message.Message (message.Len bytes):
//
//	opcode(1) | message(1080)
//
// The Dispatcher maps the opcode to an Instruction through an Opcodes table,
// decodes the payload, enforces per-instruction preconditions and calls the
// matching Handler method. It keeps no state between calls, performs no I/O
// and never panics on malformed input.
//
// Components:
//   - message: the Message record, its byte layout and zero-copy View.
//   - codec: Codec[V] implementations (Fixed, JSON, CBOR, msgpack, protobuf).
//   - slotstore: a reference Handler keeping one message slot per sender on top
//     of a provider.Provider and a genstore.GenStore.
//   - log/*, sloghooks, hooks/async: Logger and Hooks adapters.
//
// Usage:
//
//	d, _ := msgwire.New(handler, msgwire.Options{})
//	err := d.Dispatch(ctx, raw) // errors.Is(err, msgwire.ErrMissingPriorityFee), ...
package msgwire
