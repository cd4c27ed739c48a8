package encoding

import (
	"sort"
	"sync"

	"github.com/notnil/chess"
)

// MoveSpaceSize is the length of the model's policy vector. The
// vocabulary holds 1792 queen-slide and knight moves plus 88 explicit
// promotion moves (22 seventh-to-eighth-rank pawn steps, four pieces
// each).
const MoveSpaceSize = 1880

// moveKey identifies a move in the fixed vocabulary. Promotions to a
// queen use an explicit entry with promo set; every other move,
// including castling (king from/to squares) and en passant captures,
// resolves through a plain queen-slide or knight entry with promo
// equal to chess.NoPieceType.
type moveKey struct {
	from  chess.Square
	to    chess.Square
	promo chess.PieceType
}

var (
	movesOnce   sync.Once
	moveToIndex map[moveKey]int
	indexToMove []moveKey
)

// buildMoveTable reproduces the enumeration the model was trained
// with: for every square in ascending order, all queen-slide targets
// in descending square order, then all knight targets in descending
// square order; then a second pass over that list appending, for each
// single-step seventh-to-eighth-rank pair, promotion entries in
// queen, rook, bishop, knight order. The resulting order is a fixed
// contract with the network; changing it corrupts every evaluation.
func buildMoveTable() {
	indexToMove = make([]moveKey, 0, MoveSpaceSize)
	for sq := 0; sq < 64; sq++ {
		for _, to := range slideTargets(sq) {
			indexToMove = append(indexToMove, moveKey{
				from: chess.Square(sq),
				to:   chess.Square(to),
			})
		}
		for _, to := range knightTargets(sq) {
			indexToMove = append(indexToMove, moveKey{
				from: chess.Square(sq),
				to:   chess.Square(to),
			})
		}
	}

	promoPieces := []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}
	base := len(indexToMove)
	for i := 0; i < base; i++ {
		m := indexToMove[i]
		fromRank, toRank := int(m.from)/8, int(m.to)/8
		fileDiff := int(m.from)%8 - int(m.to)%8
		if fromRank != 6 || toRank != 7 || fileDiff < -1 || fileDiff > 1 {
			continue
		}
		for _, p := range promoPieces {
			indexToMove = append(indexToMove, moveKey{from: m.from, to: m.to, promo: p})
		}
	}

	if len(indexToMove) != MoveSpaceSize {
		panic("encoding: move vocabulary size mismatch")
	}

	moveToIndex = make(map[moveKey]int, MoveSpaceSize)
	for i, m := range indexToMove {
		moveToIndex[m] = i
	}
}

// slideTargets returns every square a queen on sq reaches on an empty
// board, in descending square order.
func slideTargets(sq int) []int {
	rank, file := sq/8, sq%8
	var targets []int
	for _, d := range [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	} {
		r, f := rank+d[0], file+d[1]
		for r >= 0 && r < 8 && f >= 0 && f < 8 {
			targets = append(targets, r*8+f)
			r += d[0]
			f += d[1]
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(targets)))
	return targets
}

// knightTargets returns every knight destination from sq, in
// descending square order.
func knightTargets(sq int) []int {
	rank, file := sq/8, sq%8
	var targets []int
	for _, d := range [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	} {
		r, f := rank+d[0], file+d[1]
		if r >= 0 && r < 8 && f >= 0 && f < 8 {
			targets = append(targets, r*8+f)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(targets)))
	return targets
}

// MoveIndex returns the policy-vector index for a move given by its
// origin, destination, and promotion piece (chess.NoPieceType for
// none). The second return value is false if the move is not in the
// vocabulary, which for a legal chess move indicates a table bug
// rather than a caller error.
func MoveIndex(from, to chess.Square, promo chess.PieceType) (int, bool) {
	movesOnce.Do(buildMoveTable)
	idx, ok := moveToIndex[moveKey{from: from, to: to, promo: promo}]
	return idx, ok
}

// MoveAt is the inverse of MoveIndex. ok is false when idx is outside
// [0, MoveSpaceSize).
func MoveAt(idx int) (from, to chess.Square, promo chess.PieceType, ok bool) {
	movesOnce.Do(buildMoveTable)
	if idx < 0 || idx >= len(indexToMove) {
		return 0, 0, chess.NoPieceType, false
	}
	m := indexToMove[idx]
	return m.from, m.to, m.promo, true
}

// MirrorSquare reflects a square across the horizontal axis of the
// board (a1 <-> a8). Used to canonicalize black-to-move positions.
func MirrorSquare(sq chess.Square) chess.Square {
	return sq ^ 56
}
