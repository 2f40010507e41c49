package lz4block_test

import (
	"strings"
	"testing"

	"github.com/pierrec/lz4block"
)

func benchmarkUncompress(b *testing.B, data []byte) {
	zdata := compressBlock(data)
	buf := make([]byte, len(data))

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lz4block.UncompressBlock(zdata, buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUncompressBlockText(b *testing.B) {
	benchmarkUncompress(b, []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 3000)))
}

func BenchmarkUncompressBlockZeros(b *testing.B) {
	benchmarkUncompress(b, make([]byte, 128*1024))
}

func BenchmarkUncompressBlockRandom(b *testing.B) {
	benchmarkUncompress(b, testInputs()["random"])
}

func BenchmarkUncompressBlockTrusted(b *testing.B) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 3000))
	zdata := compressBlock(data)
	buf := make([]byte, len(data))

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lz4block.UncompressBlockTrusted(zdata, buf); err != nil {
			b.Fatal(err)
		}
	}
}
