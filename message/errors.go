package message

import (
	"errors"
	"fmt"
)

var (
	ErrSizeMismatch            = errors.New("message: size mismatch")
	ErrInvalidOptionalEncoding = errors.New("message: invalid optional encoding")
)

// SizeError reports a buffer whose length is not Len.
type SizeError struct {
	Got int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("message: size mismatch: got %d bytes, want %d", e.Got, Len)
}

func (e *SizeError) Is(target error) bool { return target == ErrSizeMismatch }
