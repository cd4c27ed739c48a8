package engine

import (
	"math"
	"testing"

	"github.com/notnil/chess"

	"github.com/yourusername/maiaengine/internal/encoding"
)

func mustPosition(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos, err := parseFEN(fen)
	if err != nil {
		t.Fatalf("parseFEN(%q): %v", fen, err)
	}
	return pos
}

// moveIndexFor maps a legal move to its vocabulary index the same way
// the decoder does.
func moveIndexFor(t *testing.T, m *chess.Move, mirrored bool) int {
	t.Helper()
	from, to := m.S1(), m.S2()
	if mirrored {
		from = encoding.MirrorSquare(from)
		to = encoding.MirrorSquare(to)
	}
	idx, ok := encoding.MoveIndex(from, to, m.Promo())
	if !ok {
		t.Fatalf("move %s not in vocabulary", uciString(m))
	}
	return idx
}

func TestDecodeUniformOnZeroLogits(t *testing.T) {
	pos := chess.StartingPosition()
	logits := make([]float32, encoding.MoveSpaceSize)

	ev, err := decodeOutput(logits, 0, pos, false)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}

	if ev.WinProb != 0.5 {
		t.Errorf("WinProb = %f, want 0.5", ev.WinProb)
	}
	if len(ev.Policy) != 20 {
		t.Fatalf("got %d moves, want 20", len(ev.Policy))
	}

	var sum float64
	uniform := float32(1.0 / 20.0)
	for _, mp := range ev.Policy {
		if math.Abs(float64(mp.Probability-uniform)) > 1e-6 {
			t.Errorf("%s: probability %f, want %f", mp.UCI, mp.Probability, uniform)
		}
		sum += float64(mp.Probability)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("probabilities sum to %f, want 1", sum)
	}

	// Equal probabilities break ties by ascending vocabulary index
	byUCI := make(map[string]int)
	for _, m := range pos.ValidMoves() {
		byUCI[uciString(m)] = moveIndexFor(t, m, false)
	}
	prev := -1
	for _, mp := range ev.Policy {
		idx := byUCI[mp.UCI]
		if idx <= prev {
			t.Fatalf("tie-break order broken at %s (index %d after %d)", mp.UCI, idx, prev)
		}
		prev = idx
	}
}

func TestDecodeSingleLegalMove(t *testing.T) {
	// Black has only Kg8-h8; black to move, so the sample is mirrored
	pos := mustPosition(t, "6k1/5R2/6K1/8/8/8/8/8 b - - 0 1")
	if got := len(pos.ValidMoves()); got != 1 {
		t.Fatalf("expected a single legal move, got %d", got)
	}

	logits := make([]float32, encoding.MoveSpaceSize)
	ev, err := decodeOutput(logits, 0.6, pos, true)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}

	if len(ev.Policy) != 1 {
		t.Fatalf("got %d policy entries, want 1", len(ev.Policy))
	}
	if ev.Policy[0].UCI != "g8h8" {
		t.Errorf("move = %s, want g8h8", ev.Policy[0].UCI)
	}
	if ev.Policy[0].Probability != 1 {
		t.Errorf("forced move probability = %f, want 1", ev.Policy[0].Probability)
	}

	// Raw 0.6 maps to 0.8 for the mirrored board, inverted to 0.2
	if math.Abs(float64(ev.WinProb)-0.2) > 1e-6 {
		t.Errorf("WinProb = %f, want 0.2", ev.WinProb)
	}
}

func TestDecodeOrdering(t *testing.T) {
	pos := chess.StartingPosition()
	logits := make([]float32, encoding.MoveSpaceSize)

	e2e4, _ := encoding.MoveIndex(chess.E2, chess.E4, chess.NoPieceType)
	g1f3, _ := encoding.MoveIndex(chess.G1, chess.F3, chess.NoPieceType)
	logits[e2e4] = 4
	logits[g1f3] = 2

	ev, err := decodeOutput(logits, 0, pos, false)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}

	if ev.Policy[0].UCI != "e2e4" {
		t.Errorf("top move = %s, want e2e4", ev.Policy[0].UCI)
	}
	if ev.Policy[1].UCI != "g1f3" {
		t.Errorf("second move = %s, want g1f3", ev.Policy[1].UCI)
	}
	for i := 1; i < len(ev.Policy); i++ {
		if ev.Policy[i].Probability > ev.Policy[i-1].Probability {
			t.Fatalf("policy not sorted at %d", i)
		}
	}
}

func TestDecodeValueClamp(t *testing.T) {
	pos := chess.StartingPosition()
	logits := make([]float32, encoding.MoveSpaceSize)

	ev, err := decodeOutput(logits, 3, pos, false)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}
	if ev.WinProb != 1 {
		t.Errorf("WinProb = %f, want clamp to 1", ev.WinProb)
	}

	ev, err = decodeOutput(logits, -3, pos, false)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}
	if ev.WinProb != 0 {
		t.Errorf("WinProb = %f, want clamp to 0", ev.WinProb)
	}

	ev, err = decodeOutput(logits, 3, pos, true)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}
	if ev.WinProb != 0 {
		t.Errorf("mirrored WinProb = %f, want 0", ev.WinProb)
	}
}

func TestDecodeTerminalPosition(t *testing.T) {
	// Fool's mate: white is checkmated, no legal moves
	pos := mustPosition(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if got := len(pos.ValidMoves()); got != 0 {
		t.Fatalf("expected no legal moves, got %d", got)
	}

	logits := make([]float32, encoding.MoveSpaceSize)
	ev, err := decodeOutput(logits, -1, pos, false)
	if err != nil {
		t.Fatalf("decodeOutput failed: %v", err)
	}
	if len(ev.Policy) != 0 {
		t.Errorf("terminal position returned %d moves", len(ev.Policy))
	}
	if ev.WinProb != 0 {
		t.Errorf("WinProb = %f, want 0", ev.WinProb)
	}
}
