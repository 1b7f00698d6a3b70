package export

import (
	"errors"
	"fmt"
)

var (
	// ErrEncodingUnavailable indicates no usable video backend is installed.
	ErrEncodingUnavailable = errors.New("export: video encoding unavailable")

	// ErrUnknownEncoder indicates an encoder name or output extension with no backend.
	ErrUnknownEncoder = errors.New("export: unknown encoder")
)

// EncodingUnavailableError names the backend that could not be used.
type EncodingUnavailableError struct {
	Backend string
	Reason  string
}

func (e *EncodingUnavailableError) Error() string {
	return fmt.Sprintf("export: %s encoder unavailable: %s", e.Backend, e.Reason)
}

func (e *EncodingUnavailableError) Unwrap() error {
	return ErrEncodingUnavailable
}
