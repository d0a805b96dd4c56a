// Package wire frames stored slot records.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version  byte = 1
	kindSlot byte = 1

	hdrLen = 4 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("msgwire: corrupt slot record")
	magic4     = [...]byte{'M', 'S', 'G', 'W'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Slot: magic(4) | ver(1) | kind(1=slot) | gen(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeSlot(gen uint64, payload []byte) []byte {
	buf := make([]byte, hdrLen+len(payload))
	copy(buf[0:4], magic4[:])
	buf[4] = version
	buf[5] = kindSlot
	binary.BigEndian.PutUint64(buf[6:14], gen)
	binary.BigEndian.PutUint32(buf[14:18], uint32(len(payload)))
	copy(buf[hdrLen:], payload)
	return buf
}

// DecodeSlot returns the generation and a payload sub-slice of b (no copy).
// Trailing bytes after the payload are rejected.
func DecodeSlot(b []byte) (gen uint64, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindSlot {
		return 0, nil, ErrCorrupt
	}
	gen = binary.BigEndian.Uint64(b[6:14])
	vlen := int(binary.BigEndian.Uint32(b[14:18]))
	if vlen < 0 || vlen != len(b)-hdrLen {
		return 0, nil, ErrCorrupt
	}
	return gen, b[hdrLen:], nil
}
