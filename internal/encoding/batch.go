package encoding

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
	"golang.org/x/sync/errgroup"
)

// Boundary validation errors for batch packing and unpacking.
var (
	ErrEmptyBatch     = errors.New("encoding: empty batch")
	ErrLengthMismatch = errors.New("encoding: mismatched input lengths")
	ErrShape          = errors.New("encoding: tensor shape mismatch")
)

// Batch holds the packed model inputs for a group of positions.
// Sample i of every field corresponds to position i of the Pack call;
// that ordering is the contract for unpacking the model's outputs.
type Batch struct {
	Boards   []float32 // flat [Size * SampleSize] board planes
	EloSelf  []int64   // [Size] side-to-move rating buckets
	EloOppo  []int64   // [Size] opponent rating buckets
	Mirrored []bool    // [Size] whether sample i was mirrored
	Size     int
}

// Pack encodes positions and their rating buckets into one contiguous
// batch, preserving input order. Samples are encoded concurrently;
// the per-sample buffers are disjoint slices of one allocation.
func Pack(positions []*chess.Position, eloSelf, eloOppo []int64) (*Batch, error) {
	n := len(positions)
	if n == 0 {
		return nil, ErrEmptyBatch
	}
	if len(eloSelf) != n || len(eloOppo) != n {
		return nil, fmt.Errorf("%w: %d positions, %d self ratings, %d opponent ratings",
			ErrLengthMismatch, n, len(eloSelf), len(eloOppo))
	}

	b := &Batch{
		Boards:   make([]float32, n*SampleSize),
		EloSelf:  make([]int64, n),
		EloOppo:  make([]int64, n),
		Mirrored: make([]bool, n),
		Size:     n,
	}
	copy(b.EloSelf, eloSelf)
	copy(b.EloOppo, eloOppo)

	var g errgroup.Group
	for i := range positions {
		g.Go(func() error {
			mirrored, err := EncodePosition(positions[i], b.Boards[i*SampleSize:(i+1)*SampleSize])
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
			b.Mirrored[i] = mirrored
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}

// UnpackPolicy slices a flat batch policy tensor into count rows of
// MoveSpaceSize values each, in batch order. The rows alias data.
func UnpackPolicy(data []float32, count int) ([][]float32, error) {
	if count <= 0 {
		return nil, ErrEmptyBatch
	}
	if len(data) != count*MoveSpaceSize {
		return nil, fmt.Errorf("%w: policy tensor has %d values, want %d (batch %d x %d)",
			ErrShape, len(data), count*MoveSpaceSize, count, MoveSpaceSize)
	}
	rows := make([][]float32, count)
	for i := range rows {
		rows[i] = data[i*MoveSpaceSize : (i+1)*MoveSpaceSize]
	}
	return rows, nil
}

// UnpackValues validates and returns the per-sample value scalars.
func UnpackValues(data []float32, count int) ([]float32, error) {
	if count <= 0 {
		return nil, ErrEmptyBatch
	}
	if len(data) != count {
		return nil, fmt.Errorf("%w: value tensor has %d values, want %d", ErrShape, len(data), count)
	}
	return data, nil
}
