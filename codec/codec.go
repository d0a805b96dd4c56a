// Package codec converts values to and from bytes for storage or transport.
//
// Fixed is the canonical binary form of message.Message. The other codecs are
// generic and serve integrations that want a self-describing format; all of
// them round-trip message.Message and reject a present zero priority fee.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
