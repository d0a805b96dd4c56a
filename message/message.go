// Package message defines the fixed-layout Message record and its binary codec.
//
// Layout (little-endian, no padding, Len = 1080 bytes):
//
//	discriminator(u64) | sender_id(32) | size(u64) | priority_fee(u64, 0 = absent) | data(1024)
//	0                    8               40          48                                56
//
// Every implementation of this format must use exactly these offsets; nothing
// here depends on Go's in-memory struct layout.
package message

import (
	"encoding/binary"
)

const (
	SenderIDLen = 32
	DataLen     = 1024

	offDiscriminator = 0
	offSenderID      = offDiscriminator + 8
	offSize          = offSenderID + SenderIDLen
	offPriorityFee   = offSize + 8
	offData          = offPriorityFee + 8

	// Len is the exact encoded size of every Message.
	Len = offData + DataLen
)

// Message is the decoded wire record. It is comparable; two messages are equal
// iff their encodings are byte-for-byte equal.
type Message struct {
	Discriminator uint64   `json:"discriminator" msgpack:"discriminator"`
	SenderID      SenderID `json:"sender_id" msgpack:"sender_id"`
	Size          uint64   `json:"size" msgpack:"size"`
	PriorityFee   Fee      `json:"priority_fee" msgpack:"priority_fee"`
	Data          Body     `json:"data" msgpack:"data"`
}

// Encode returns the canonical encoding of m.
func Encode(m Message) [Len]byte {
	var buf [Len]byte
	m.put(buf[:])
	return buf
}

// AppendTo appends the encoding of m to dst.
func (m Message) AppendTo(dst []byte) []byte {
	n := len(dst)
	if cap(dst)-n < Len {
		grown := make([]byte, n, n+Len)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+Len]
	m.put(dst[n:])
	return dst
}

func (m Message) put(b []byte) {
	_ = b[Len-1]
	binary.LittleEndian.PutUint64(b[offDiscriminator:offSenderID], m.Discriminator)
	copy(b[offSenderID:offSize], m.SenderID[:])
	binary.LittleEndian.PutUint64(b[offSize:offPriorityFee], m.Size)
	binary.LittleEndian.PutUint64(b[offPriorityFee:offData], m.PriorityFee.Wire())
	copy(b[offData:Len], m.Data[:])
}

// Decode copies a Message out of b. b must be exactly Len bytes.
func Decode(b []byte) (Message, error) {
	v, err := NewView(b)
	if err != nil {
		return Message{}, err
	}
	return v.Message()
}

// Validate reports whether m satisfies the record invariants.
func (m Message) Validate() error {
	if m.PriorityFee.present && m.PriorityFee.v == 0 {
		return ErrInvalidOptionalEncoding
	}
	return nil
}
