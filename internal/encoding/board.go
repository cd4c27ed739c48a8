package encoding

import (
	"fmt"

	"github.com/notnil/chess"
)

// Input tensor layout, fixed by the model export. One sample is
// NumChannels 8x8 planes in row-major order: rank 1 is row 0 and file
// a is column 0.
//
// Channels 0-5 hold the side-to-move's pawns, knights, bishops,
// rooks, queens, and king; channels 6-11 the opponent's in the same
// order. Channel 12 is a side-to-move fill, channels 13-16 are
// castling-right fills (own kingside, own queenside, opponent
// kingside, opponent queenside), and channel 17 one-hots the
// en passant target square.
const (
	NumChannels = 18
	planeSize   = 64
	SampleSize  = NumChannels * planeSize

	channelTurn      = 12
	channelCastling  = 13
	channelEnPassant = 17
)

// EncodePosition writes the plane encoding of pos into dst, which
// must have length SampleSize. The model was trained from White's
// perspective, so a black-to-move position is mirrored (board flipped
// vertically, colors and castling rights swapped) before encoding;
// the returned flag reports whether that happened so the decoder can
// mirror moves and invert the win probability on the way back out.
func EncodePosition(pos *chess.Position, dst []float32) (mirrored bool, err error) {
	if len(dst) != SampleSize {
		return false, fmt.Errorf("%w: sample buffer has %d values, want %d", ErrShape, len(dst), SampleSize)
	}
	for i := range dst {
		dst[i] = 0
	}
	mirrored = pos.Turn() == chess.Black

	board := pos.Board()
	for sq := chess.Square(0); sq < 64; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		own := p.Color() == chess.White
		enc := sq
		if mirrored {
			own = !own
			enc = MirrorSquare(sq)
		}
		ch := pieceChannel(p.Type())
		if !own {
			ch += 6
		}
		dst[ch*planeSize+int(enc)] = 1
	}

	// After mirroring the encoded side to move is always White.
	fillPlane(dst, channelTurn)

	cr := pos.CastleRights()
	rights := [4]bool{
		cr.CanCastle(chess.White, chess.KingSide),
		cr.CanCastle(chess.White, chess.QueenSide),
		cr.CanCastle(chess.Black, chess.KingSide),
		cr.CanCastle(chess.Black, chess.QueenSide),
	}
	if mirrored {
		rights[0], rights[1], rights[2], rights[3] = rights[2], rights[3], rights[0], rights[1]
	}
	for i, ok := range rights {
		if ok {
			fillPlane(dst, channelCastling+i)
		}
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		enc := ep
		if mirrored {
			enc = MirrorSquare(ep)
		}
		dst[channelEnPassant*planeSize+int(enc)] = 1
	}

	return mirrored, nil
}

func pieceChannel(pt chess.PieceType) int {
	switch pt {
	case chess.Pawn:
		return 0
	case chess.Knight:
		return 1
	case chess.Bishop:
		return 2
	case chess.Rook:
		return 3
	case chess.Queen:
		return 4
	default: // chess.King
		return 5
	}
}

func fillPlane(dst []float32, channel int) {
	plane := dst[channel*planeSize : (channel+1)*planeSize]
	for i := range plane {
		plane[i] = 1
	}
}
