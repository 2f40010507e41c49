package lz4block

import (
	"bytes"
	"testing"
)

func TestUintPrimitives(t *testing.T) {
	b := make([]byte, 16)
	putUint16(b, 3, 0x1234)
	if b[3] != 0x34 || b[4] != 0x12 {
		t.Errorf("putUint16 wrote %x", b[3:5])
	}
	if got := readUint16(b, 3); got != 0x1234 {
		t.Errorf("readUint16 got %#x", got)
	}
	putUint64(b, 5, 0x0102030405060708)
	if got := readUint64(b, 5); got != 0x0102030405060708 {
		t.Errorf("readUint64 got %#x", got)
	}
	if b[5] != 0x08 {
		t.Errorf("putUint64 is not little-endian: %x", b[5:13])
	}
}

func TestWildCopy(t *testing.T) {
	src := make([]byte, 64)
	for i := range src {
		src[i] = byte(i + 1)
	}

	for _, length := range []int{1, 7, 8, 9, 30, 32, 33} {
		dst := make([]byte, 64+31)
		wildCopy8(dst, 0, src, 0, length)
		if !bytes.Equal(dst[:length], src[:length]) {
			t.Errorf("wildCopy8 length %d: wrong content", length)
		}
		// Whole chunks only: the tail of the last chunk is written too.
		over := (length + 7) / 8 * 8
		if over == 0 {
			over = 8
		}
		if dst[over-1] != src[over-1] {
			t.Errorf("wildCopy8 length %d: chunk tail not written", length)
		}
		if dst[over] != 0 {
			t.Errorf("wildCopy8 length %d: wrote past its chunks", length)
		}

		dst = make([]byte, 64+31)
		wildCopy32(dst, 0, src, 0, length)
		if !bytes.Equal(dst[:length], src[:length]) {
			t.Errorf("wildCopy32 length %d: wrong content", length)
		}
	}
}

func TestRepeatSteps(t *testing.T) {
	want := map[int]int{1: 8, 2: 8, 3: 9, 4: 8, 5: 10, 6: 12, 7: 14}
	for offset, step := range want {
		if got := repeatStep(offset); got != step {
			t.Errorf("repeatStep(%d) = %d, want %d", offset, got, step)
		}
		if got := repeatStep(offset); got < 8 || got%offset != 0 {
			t.Errorf("repeatStep(%d) = %d is not a chunk-covering multiple", offset, got)
		}
	}
}

// TestRepeat8Tiling replays the engine's small-offset copy strategy against
// a byte-at-a-time reference for every offset below 8.
func TestRepeat8Tiling(t *testing.T) {
	const total = 100
	for offset := 1; offset < 8; offset++ {
		// Seed the pattern, then extend it as a match copy would.
		buf := make([]byte, offset+total+8)
		for i := 0; i < offset; i++ {
			buf[i] = byte('A' + i)
		}
		di, match := offset, 0
		end := offset + total

		repeat8(buf, di, match, offset)
		match = di + 8 - repeatStep(offset)
		di += 8
		if di < end {
			wildCopy8(buf, di, buf, match, end)
		}

		for i := offset; i < end; i++ {
			if want := buf[i%offset]; buf[i] != want {
				t.Fatalf("offset %d: byte %d is %q, want %q", offset, i, buf[i], want)
			}
		}
	}
}

func TestMatchLen(t *testing.T) {
	a := bytes.Repeat([]byte("0123456789"), 10)
	b := append([]byte{}, a...)

	if got := matchLen(a, b, len(a)); got != len(a) {
		t.Errorf("identical: got %d", got)
	}
	for _, diff := range []int{0, 1, 7, 8, 9, 63, 64, 99} {
		c := append([]byte{}, a...)
		c[diff]++
		if got := matchLen(a, c, len(a)); got != diff {
			t.Errorf("diff at %d: got %d", diff, got)
		}
	}
	if got := matchLen(a, b, 13); got != 13 {
		t.Errorf("limited: got %d", got)
	}
}
