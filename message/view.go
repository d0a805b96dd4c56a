package message

import "encoding/binary"

// View reads Message fields straight from an encoded buffer without copying.
// It aliases the caller's bytes; do not mutate them while a View is in use.
type View []byte

// NewView checks the length of b and returns a View over it.
func NewView(b []byte) (View, error) {
	if len(b) != Len {
		return nil, &SizeError{Got: len(b)}
	}
	return View(b), nil
}

func (v View) Discriminator() uint64 {
	return binary.LittleEndian.Uint64(v[offDiscriminator:offSenderID])
}

func (v View) SenderID() SenderID {
	var id SenderID
	copy(id[:], v[offSenderID:offSize])
	return id
}

func (v View) Size() uint64 {
	return binary.LittleEndian.Uint64(v[offSize:offPriorityFee])
}

func (v View) PriorityFee() Fee {
	return FeeFromWire(binary.LittleEndian.Uint64(v[offPriorityFee:offData]))
}

// Data returns the body region as a sub-slice of the underlying buffer.
func (v View) Data() []byte {
	return v[offData:Len:Len]
}

// Message copies every field into a fresh Message.
func (v View) Message() (Message, error) {
	m := Message{
		Discriminator: v.Discriminator(),
		SenderID:      v.SenderID(),
		Size:          v.Size(),
		PriorityFee:   v.PriorityFee(),
	}
	copy(m.Data[:], v.Data())
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}
