package engine

import (
	"errors"

	"github.com/yourusername/maiaengine/internal/encoding"
)

// Failure kinds surfaced by the engine. Collaborator failures (model
// loading, session execution, FEN parsing) are wrapped with call and
// batch-index context; none of them are retried here.
var (
	// ErrNoModel is returned by NewEngine when neither a model file
	// nor model bytes were configured.
	ErrNoModel = errors.New("engine: no model file or model bytes configured")

	// ErrInvalidFEN wraps position-string parse failures from the
	// chess library.
	ErrInvalidFEN = errors.New("engine: invalid FEN")

	// ErrEmptyBatch is returned for batch calls with no positions.
	ErrEmptyBatch = encoding.ErrEmptyBatch

	// ErrLengthMismatch is returned when the position and rating
	// slices of a batch call disagree in length.
	ErrLengthMismatch = encoding.ErrLengthMismatch

	// ErrShape is returned when a tensor does not have the dimensions
	// the model contract declares.
	ErrShape = encoding.ErrShape

	// ErrInternalConsistency is returned when a legal move has no
	// index in the move vocabulary. It indicates the vocabulary does
	// not match the loaded model and every result is suspect.
	ErrInternalConsistency = errors.New("engine: move vocabulary does not cover a legal move")
)
