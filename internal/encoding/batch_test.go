package encoding

import (
	"errors"
	"testing"

	"github.com/notnil/chess"
)

func TestPackPreservesOrder(t *testing.T) {
	positions := []*chess.Position{
		chess.StartingPosition(),
		mustPosition(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"),
		mustPosition(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"),
	}
	eloSelf := []int64{1, 5, 10}
	eloOppo := []int64{2, 6, 9}

	b, err := Pack(positions, eloSelf, eloOppo)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if b.Size != len(positions) {
		t.Fatalf("Size = %d, want %d", b.Size, len(positions))
	}
	if len(b.Boards) != b.Size*SampleSize {
		t.Fatalf("Boards length = %d, want %d", len(b.Boards), b.Size*SampleSize)
	}

	for i := range positions {
		if b.EloSelf[i] != eloSelf[i] || b.EloOppo[i] != eloOppo[i] {
			t.Errorf("sample %d: ratings reordered", i)
		}

		want := make([]float32, SampleSize)
		wantMirrored, err := EncodePosition(positions[i], want)
		if err != nil {
			t.Fatalf("EncodePosition failed: %v", err)
		}
		if b.Mirrored[i] != wantMirrored {
			t.Errorf("sample %d: Mirrored = %v, want %v", i, b.Mirrored[i], wantMirrored)
		}
		got := b.Boards[i*SampleSize : (i+1)*SampleSize]
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("sample %d differs from single encode at offset %d", i, j)
				break
			}
		}
	}
}

func TestPackValidation(t *testing.T) {
	if _, err := Pack(nil, nil, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("empty batch: got %v, want ErrEmptyBatch", err)
	}

	positions := []*chess.Position{chess.StartingPosition(), chess.StartingPosition()}
	if _, err := Pack(positions, []int64{1}, []int64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short eloSelf: got %v, want ErrLengthMismatch", err)
	}
	if _, err := Pack(positions, []int64{1, 2}, []int64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short eloOppo: got %v, want ErrLengthMismatch", err)
	}
}

func TestUnpackPolicy(t *testing.T) {
	data := make([]float32, 3*MoveSpaceSize)
	data[0] = 1.5
	data[MoveSpaceSize] = -2

	rows, err := UnpackPolicy(data, 3)
	if err != nil {
		t.Fatalf("UnpackPolicy failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != 1.5 || rows[1][0] != -2 {
		t.Error("rows do not alias the source data")
	}

	if _, err := UnpackPolicy(data, 2); !errors.Is(err, ErrShape) {
		t.Errorf("wrong count: got %v, want ErrShape", err)
	}
	if _, err := UnpackPolicy(data, 0); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("zero count: got %v, want ErrEmptyBatch", err)
	}
}

func TestUnpackValues(t *testing.T) {
	data := []float32{0.1, -0.5}
	vals, err := UnpackValues(data, 2)
	if err != nil {
		t.Fatalf("UnpackValues failed: %v", err)
	}
	if len(vals) != 2 || vals[1] != -0.5 {
		t.Errorf("unexpected values %v", vals)
	}

	if _, err := UnpackValues(data, 3); !errors.Is(err, ErrShape) {
		t.Errorf("wrong count: got %v, want ErrShape", err)
	}
}
