package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/notnil/chess"
	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/maiaengine/internal/encoding"
)

var promoSuffix = map[chess.PieceType]string{
	chess.Queen:  "q",
	chess.Rook:   "r",
	chess.Bishop: "b",
	chess.Knight: "n",
}

// uciString renders a move in UCI notation.
func uciString(m *chess.Move) string {
	s := m.S1().String() + m.S2().String()
	if p := m.Promo(); p != chess.NoPieceType {
		s += promoSuffix[p]
	}
	return s
}

// decodeOutput converts one sample's raw model outputs into an
// Evaluation.
//
// The policy logits are read only at the indices of the position's
// legal moves; everything else is discarded. A numerically stable
// softmax over that subset yields the probabilities, so the result
// always sums to 1 and covers exactly the legal moves. If the sample
// was mirrored during encoding, moves are looked up through their
// mirrored squares and the win probability is inverted, since the
// model answered for the flipped board.
func decodeOutput(logits []float32, rawValue float32, pos *chess.Position, mirrored bool) (*Evaluation, error) {
	winProb := rawValue/2 + 0.5
	if winProb < 0 {
		winProb = 0
	} else if winProb > 1 {
		winProb = 1
	}
	if mirrored {
		winProb = 1 - winProb
	}

	legal := pos.ValidMoves()
	n := len(legal)
	if n == 0 {
		// Terminal position: nothing to rank, only the value head.
		return &Evaluation{Policy: []MoveProbability{}, WinProb: winProb}, nil
	}

	indices := make([]int, n)
	vals := make([]float64, n)
	for i, m := range legal {
		from, to := m.S1(), m.S2()
		if mirrored {
			from = encoding.MirrorSquare(from)
			to = encoding.MirrorSquare(to)
		}
		idx, ok := encoding.MoveIndex(from, to, m.Promo())
		if !ok {
			return nil, fmt.Errorf("%w: move %s (fen %s)", ErrInternalConsistency, uciString(m), pos.String())
		}
		indices[i] = idx
		vals[i] = float64(logits[idx])
	}

	// Stable softmax over the legal subset.
	maxLogit := floats.Max(vals)
	for i := range vals {
		vals[i] = math.Exp(vals[i] - maxLogit)
	}
	sum := floats.Sum(vals)
	if sum > 0 && !math.IsNaN(sum) && !math.IsInf(sum, 0) {
		floats.Scale(1/sum, vals)
	} else {
		// Degenerate outputs fall back to a uniform distribution
		// rather than dividing by zero.
		uniform := 1 / float64(n)
		for i := range vals {
			vals[i] = uniform
		}
	}

	type rankedMove struct {
		mp  MoveProbability
		idx int
	}
	ranked := make([]rankedMove, n)
	for i, m := range legal {
		ranked[i] = rankedMove{
			mp:  MoveProbability{UCI: uciString(m), Probability: float32(vals[i])},
			idx: indices[i],
		}
	}

	// Descending by probability; equal probabilities order by
	// ascending vocabulary index so results are reproducible.
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].mp.Probability != ranked[b].mp.Probability {
			return ranked[a].mp.Probability > ranked[b].mp.Probability
		}
		return ranked[a].idx < ranked[b].idx
	})

	policy := make([]MoveProbability, n)
	for i, r := range ranked {
		policy[i] = r.mp
	}
	return &Evaluation{Policy: policy, WinProb: winProb}, nil
}
