// Package lz4errors defines the errors shared by the lz4block entry points.
package lz4errors

type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrInvalidSourceShortBuffer is returned when a compressed block is
	// corrupted or the destination buffer is not large enough for the
	// uncompressed data.
	ErrInvalidSourceShortBuffer Error = "lz4: invalid source or destination buffer too short"
)
