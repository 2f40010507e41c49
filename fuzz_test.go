package lz4block_test

import (
	"bytes"
	"testing"

	"github.com/pierrec/lz4block"
)

// FuzzUncompressBlock tries to decompress into a buffer the same size as the
// input and checks that nothing is ever written beyond it.
func FuzzUncompressBlock(f *testing.F) {
	f.Add([]byte{0})
	f.Add([]byte{0x40, 'a', 'b', 'c', 'd'})
	f.Add(compressBlock([]byte("the quick brown fox jumps over the lazy dog")))
	f.Add(compressBlock(make([]byte, 100)))

	f.Fuzz(func(t *testing.T, data []byte) {
		decomp := make([]byte, len(data)+16-len(data)%8)
		for i := range decomp {
			decomp[i] = byte(i)
		}
		decomp = decomp[:len(data)]

		n, err := lz4block.UncompressBlock(data, decomp)
		if err == nil && n > len(decomp) {
			t.Fatal("uncompressed length greater than buffer")
		}

		decomp = decomp[:cap(decomp)]
		for i := len(data); i < len(decomp); i++ {
			if decomp[i] != byte(i) {
				t.Fatal("UncompressBlock wrote out of bounds")
			}
		}

		if err != nil {
			return
		}

		// A successful decode truncates consistently.
		buf := make([]byte, n/2)
		pn, perr := lz4block.UncompressBlockPartial(data, buf)
		if perr != nil {
			t.Fatalf("partial decode failed where full decode succeeded: %v", perr)
		}
		if pn != len(buf) || !bytes.Equal(buf, decomp[:pn]) {
			t.Fatal("partial decode disagrees with full decode")
		}
	})
}
