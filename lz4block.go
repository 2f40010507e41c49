// Package lz4block implements decoding of LZ4 compressed blocks.
//
// A block is a raw sequence stream with no framing: callers must convey the
// compressed size and an upper bound on the uncompressed size out of band.
// See https://github.com/lz4/lz4/blob/dev/doc/lz4_Block_format.md for the
// format details.
package lz4block

import "github.com/pierrec/lz4block/internal/lz4errors"

var (
	// ErrInvalidSourceShortBuffer is returned when the compressed data is
	// malformed or the destination buffer is too small.
	ErrInvalidSourceShortBuffer error = lz4errors.ErrInvalidSourceShortBuffer
)

// maxInputSize is the largest uncompressed size for which a compressed bound
// can be computed without overflowing 32-bit arithmetic.
const maxInputSize = 0x7E000000

// CompressBlockBound returns the maximum size of a compressed block given
// the size n of its uncompressed content, or 0 when n is out of range.
// Incompressible data expands slightly, so any destination buffer for block
// compression should be at least this large.
func CompressBlockBound(n int) int {
	if n < 0 || n > maxInputSize {
		return 0
	}
	return n + n/255 + 16
}

// UncompressBlock uncompresses the block src into dst, which caps the
// uncompressed size, and returns the number of bytes written. The block must
// be self-contained: a match reaching before the start of the output is an
// error. src and dst must not overlap.
func UncompressBlock(src, dst []byte) (int, error) {
	if n := decodeGeneric(dst, src, true, false, dictContext{}); n >= 0 {
		return n, nil
	}
	return 0, ErrInvalidSourceShortBuffer
}

// UncompressBlockWithDict uncompresses the block src into dst resolving
// back-references against dict, the content that logically precedes the
// block. Only the last 64 KiB of dict are reachable and the rest is ignored.
func UncompressBlockWithDict(src, dst, dict []byte) (int, error) {
	if len(dict) > winSize {
		dict = dict[len(dict)-winSize:]
	}
	ctx := dictContext{}
	if len(dict) > 0 {
		ctx = dictContext{kind: dictExternal, window: dict}
	}
	if n := decodeGeneric(dst, src, true, false, ctx); n >= 0 {
		return n, nil
	}
	return 0, ErrInvalidSourceShortBuffer
}

// UncompressBlockPartial uncompresses src into dst like UncompressBlock but
// treats a full destination as success: decoding stops once dst is filled,
// even mid-sequence, and the block beyond that point is not validated. It
// returns the number of bytes written, at most len(dst).
func UncompressBlockPartial(src, dst []byte) (int, error) {
	if n := decodeGeneric(dst, src, true, true, dictContext{}); n >= 0 {
		return n, nil
	}
	return 0, ErrInvalidSourceShortBuffer
}

// UncompressBlockTrusted uncompresses the block src into dst, which must
// have exactly the uncompressed size, and returns the number of compressed
// bytes read. The input is not bounds-checked and must come from a trusted
// source: a malformed block is usually detected, but the only guarantee is
// that dst is never written out of range. New code should prefer
// UncompressBlock.
func UncompressBlockTrusted(src, dst []byte) (int, error) {
	if n := decodeGeneric(dst, src, false, false, dictContext{}); n >= 0 {
		return n, nil
	}
	return 0, ErrInvalidSourceShortBuffer
}
