package monitor

import (
	"crypto/rand"
	"math"
	"testing"

	"github.com/bemasher/bosecontrol/gen"
)

func TestLevel(t *testing.T) {
	lut := NewMagLUT()

	tone := lut.Level(gen.CmplxOscillatorU8(1024, 100e3, 2.4e6))
	if math.Abs(tone-127.5) > 2 {
		t.Fatalf("expected tone level near 127.5, got %f\n", tone)
	}

	silence := lut.Level(gen.Silence(1024))
	if silence > 1 {
		t.Fatalf("expected silence level below 1, got %f\n", silence)
	}

	if lut.Level(nil) != 0 {
		t.Fatal("expected zero level for empty block")
	}
}

func BenchmarkLevel(b *testing.B) {
	lut := NewMagLUT()
	input := make([]byte, BlockSize)
	rand.Read(input)

	b.SetBytes(BlockSize)
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		lut.Level(input)
	}
}
