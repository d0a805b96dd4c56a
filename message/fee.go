package message

import (
	"encoding/json"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Fee is an optional non-zero priority fee. The zero value is absent.
//
// On the fixed wire a Fee occupies 8 bytes and zero means absent. Formats with
// an explicit absent marker (JSON, CBOR, msgpack) use null for absent and
// reject a present zero.
type Fee struct {
	v       uint64
	present bool
}

// NoFee is the absent fee.
var NoFee = Fee{}

// SomeFee returns a present fee. v must be non-zero.
func SomeFee(v uint64) (Fee, error) {
	if v == 0 {
		return Fee{}, ErrInvalidOptionalEncoding
	}
	return Fee{v: v, present: true}, nil
}

// MustFee is like SomeFee but panics on zero. Meant for constants and tests.
func MustFee(v uint64) Fee {
	f, err := SomeFee(v)
	if err != nil {
		panic(err)
	}
	return f
}

// FeeFromWire maps the 8-byte wire value to a Fee (0 => absent).
func FeeFromWire(raw uint64) Fee {
	if raw == 0 {
		return Fee{}
	}
	return Fee{v: raw, present: true}
}

// Wire returns the 8-byte wire value (0 when absent).
func (f Fee) Wire() uint64 {
	if !f.present {
		return 0
	}
	return f.v
}

func (f Fee) Get() (uint64, bool) { return f.v, f.present }
func (f Fee) IsSome() bool        { return f.present }

func (f Fee) String() string {
	if !f.present {
		return "none"
	}
	return strconv.FormatUint(f.v, 10)
}

func (f *Fee) fromPtr(p *uint64) error {
	if p == nil {
		*f = Fee{}
		return nil
	}
	v, err := SomeFee(*p)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Fee) ptr() *uint64 {
	if !f.present {
		return nil
	}
	v := f.v
	return &v
}

func (f Fee) MarshalJSON() ([]byte, error) { return json.Marshal(f.ptr()) }

func (f *Fee) UnmarshalJSON(b []byte) error {
	var p *uint64
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	return f.fromPtr(p)
}

func (f Fee) MarshalCBOR() ([]byte, error) { return cbor.Marshal(f.ptr()) }

func (f *Fee) UnmarshalCBOR(b []byte) error {
	var p *uint64
	if err := cbor.Unmarshal(b, &p); err != nil {
		return err
	}
	return f.fromPtr(p)
}

var (
	_ msgpack.CustomEncoder = Fee{}
	_ msgpack.CustomDecoder = (*Fee)(nil)
)

func (f Fee) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !f.present {
		return enc.EncodeNil()
	}
	return enc.EncodeUint(f.v)
}

func (f *Fee) DecodeMsgpack(dec *msgpack.Decoder) error {
	var p *uint64
	if err := dec.Decode(&p); err != nil {
		return err
	}
	return f.fromPtr(p)
}
