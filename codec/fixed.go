package codec

import "github.com/unkn0wn-root/msgwire/message"

// Fixed is the canonical 1080-byte binary codec for message.Message.
// The zero value is ready to use.
type Fixed struct{}

var _ Codec[message.Message] = Fixed{}

func (Fixed) Encode(m message.Message) ([]byte, error) {
	return m.AppendTo(make([]byte, 0, message.Len)), nil
}

func (Fixed) Decode(b []byte) (message.Message, error) {
	return message.Decode(b)
}
