package lz4block

import (
	"encoding/binary"
	"math/bits"
)

// All multi-byte values in a block are little-endian regardless of the host.

func readUint16(b []byte, i int) uint16 { return binary.LittleEndian.Uint16(b[i:]) }

func putUint16(b []byte, i int, v uint16) { binary.LittleEndian.PutUint16(b[i:], v) }

func readUint64(b []byte, i int) uint64 { return binary.LittleEndian.Uint64(b[i:]) }

func putUint64(b []byte, i int, v uint64) { binary.LittleEndian.PutUint64(b[i:], v) }

// wildCopy8 copies 8-byte chunks from src[si:] to dst[di:] until di reaches
// or passes until. At least one chunk is always written, and the last one may
// run up to 7 bytes past until; callers guarantee that slack on both buffers.
func wildCopy8(dst []byte, di int, src []byte, si, until int) {
	for {
		copy(dst[di:di+8], src[si:si+8])
		di += 8
		si += 8
		if di >= until {
			return
		}
	}
}

// wildCopy32 copies 32 bytes per round as two 16-byte halves, so it remains
// correct when src and dst overlap with a distance of at least 16. It may
// overshoot until by up to 31 bytes.
func wildCopy32(dst []byte, di int, src []byte, si, until int) {
	for {
		copy(dst[di:di+16], src[si:si+16])
		copy(dst[di+16:di+32], src[si+16:si+32])
		di += 32
		si += 32
		if di >= until {
			return
		}
	}
}

// repeat8 fills dst[di:di+8] with the pattern of period offset starting at
// dst[match]. offset must be in [1,8).
func repeat8(dst []byte, di, match, offset int) {
	for i := 0; i < 8; i++ {
		dst[di+i] = dst[match+i%offset]
	}
}

// repeatStep returns the smallest multiple of offset that covers a whole
// 8-byte chunk. After repeat8 seeds the first chunk, copying from repeatStep
// bytes back continues the pattern in phase while keeping the copy distance
// at 8 or more.
func repeatStep(offset int) int {
	return offset * ((8 + offset - 1) / offset)
}

// matchLen returns the number of leading bytes common to a and b, up to
// limit. limit must not exceed the length of either slice.
func matchLen(a, b []byte, limit int) int {
	n := 0
	for n+8 <= limit {
		if x := readUint64(a, n) ^ readUint64(b, n); x != 0 {
			return n + bits.TrailingZeros64(x)>>3
		}
		n += 8
	}
	for n < limit && a[n] == b[n] {
		n++
	}
	return n
}
