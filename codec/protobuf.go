package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/unkn0wn-root/msgwire/message"
)

type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *wrapperspb.BytesValue { return &wrapperspb.BytesValue{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// FixedProto carries the Fixed encoding inside a google.protobuf.BytesValue,
// for stores and pipes that only accept protobuf payloads.
type FixedProto struct {
	pb Protobuf[*wrapperspb.BytesValue]
}

var _ Codec[message.Message] = FixedProto{}

func NewFixedProto() FixedProto {
	return FixedProto{pb: NewProtobuf(func() *wrapperspb.BytesValue { return &wrapperspb.BytesValue{} })}
}

func (c FixedProto) Encode(m message.Message) ([]byte, error) {
	enc := message.Encode(m)
	return c.pb.Encode(wrapperspb.Bytes(enc[:]))
}

func (c FixedProto) Decode(b []byte) (message.Message, error) {
	if c.pb.new == nil {
		c = NewFixedProto()
	}
	v, err := c.pb.Decode(b)
	if err != nil {
		return message.Message{}, err
	}
	return message.Decode(v.GetValue())
}
