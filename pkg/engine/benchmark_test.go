package engine

import (
	"testing"

	"github.com/notnil/chess"

	"github.com/yourusername/maiaengine/internal/encoding"
)

var benchSink float32

func BenchmarkDecodeOutput(b *testing.B) {
	pos := chess.StartingPosition()
	logits := make([]float32, encoding.MoveSpaceSize)
	for i := range logits {
		logits[i] = float32(i%7) * 0.3
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev, err := decodeOutput(logits, 0.1, pos, false)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = ev.Policy[0].Probability
	}
}

func BenchmarkCacheLookup(b *testing.B) {
	c := NewEvalCache(1 << 12)
	fen := chess.StartingPosition().String()
	_, slot := c.Lookup(fen, 0)
	c.Add(fen, 0, &Evaluation{WinProb: 0.5}, slot)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev, _ := c.Lookup(fen, 0)
		benchSink = ev.WinProb
	}
}
