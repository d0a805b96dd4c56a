package message

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// SenderID is the opaque 32-byte identity of a message originator.
type SenderID [SenderIDLen]byte

// ParseSenderID parses the 64-char hex form.
func ParseSenderID(s string) (SenderID, error) {
	var id SenderID
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return SenderID{}, err
	}
	return id, nil
}

func (id SenderID) String() string { return hex.EncodeToString(id[:]) }

func (id SenderID) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(SenderIDLen))
	hex.Encode(out, id[:])
	return out, nil
}

func (id *SenderID) UnmarshalText(b []byte) error {
	if len(b) != hex.EncodedLen(SenderIDLen) {
		return fmt.Errorf("message: sender id must be %d hex chars, got %d", hex.EncodedLen(SenderIDLen), len(b))
	}
	var tmp SenderID
	if _, err := hex.Decode(tmp[:], b); err != nil {
		return fmt.Errorf("message: sender id: %w", err)
	}
	*id = tmp
	return nil
}

// Body is the fixed 1024-byte message body. Text form is standard base64.
type Body [DataLen]byte

// BodyFrom copies up to DataLen bytes of b into a Body; the rest stays zero.
func BodyFrom(b []byte) (Body, error) {
	var body Body
	if len(b) > DataLen {
		return body, fmt.Errorf("message: body is %d bytes, max %d", len(b), DataLen)
	}
	copy(body[:], b)
	return body, nil
}

func (b Body) MarshalText() ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(DataLen))
	base64.StdEncoding.Encode(out, b[:])
	return out, nil
}

func (b *Body) UnmarshalText(text []byte) error {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		return fmt.Errorf("message: body: %w", err)
	}
	if n != DataLen {
		return fmt.Errorf("message: body must be %d bytes, got %d", DataLen, n)
	}
	copy(b[:], raw[:n])
	return nil
}
