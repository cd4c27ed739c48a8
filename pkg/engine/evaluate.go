package engine

import (
	"fmt"

	"github.com/notnil/chess"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/yourusername/maiaengine/internal/encoding"
)

// MoveProbability is one legal move and the probability the model
// assigns to it.
type MoveProbability struct {
	UCI         string  // move in UCI notation, e.g. "e2e4" or "a7a8q"
	Probability float32 // in [0, 1]
}

// Evaluation is the decoded model output for one position: the legal
// moves sorted by descending probability (summing to 1), and the win
// probability for the side to move.
type Evaluation struct {
	Policy  []MoveProbability
	WinProb float32
}

// parseFEN converts a FEN string into a chess position.
func parseFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidFEN, fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// EvaluateFEN evaluates a single position given as a FEN string.
// eloSelf conditions the model on the side to move's rating, eloOppo
// on the opponent's; both clamp to the supported rating range.
func (e *Engine) EvaluateFEN(fen string, eloSelf, eloOppo int) (*Evaluation, error) {
	pos, err := parseFEN(fen)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(pos, eloSelf, eloOppo)
}

// Evaluate evaluates a single parsed position.
func (e *Engine) Evaluate(pos *chess.Position, eloSelf, eloOppo int) (*Evaluation, error) {
	results, err := e.EvaluateBatch([]*chess.Position{pos}, []int{eloSelf}, []int{eloOppo})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// EvaluateBatchFEN parses a batch of FEN strings and evaluates them
// in one inference call. All three slices must have equal length.
func (e *Engine) EvaluateBatchFEN(fens []string, eloSelfs, eloOppos []int) ([]*Evaluation, error) {
	n := len(fens)
	if n == 0 {
		return nil, ErrEmptyBatch
	}
	if len(eloSelfs) != n || len(eloOppos) != n {
		return nil, fmt.Errorf("%w: %d positions, %d self ratings, %d opponent ratings",
			ErrLengthMismatch, n, len(eloSelfs), len(eloOppos))
	}
	positions := make([]*chess.Position, n)
	for i, fen := range fens {
		pos, err := parseFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("batch index %d: %w", i, err)
		}
		positions[i] = pos
	}
	return e.EvaluateBatch(positions, eloSelfs, eloOppos)
}

// EvaluateBatch evaluates a batch of parsed positions in one
// inference call. Results are returned in input order and match what
// N separate Evaluate calls would produce.
func (e *Engine) EvaluateBatch(positions []*chess.Position, eloSelfs, eloOppos []int) ([]*Evaluation, error) {
	n := len(positions)
	if n == 0 {
		return nil, ErrEmptyBatch
	}
	if len(eloSelfs) != n || len(eloOppos) != n {
		return nil, fmt.Errorf("%w: %d positions, %d self ratings, %d opponent ratings",
			ErrLengthMismatch, n, len(eloSelfs), len(eloOppos))
	}

	selfBuckets := encoding.EloBuckets(eloSelfs)
	oppoBuckets := encoding.EloBuckets(eloOppos)

	results := make([]*Evaluation, n)

	// Serve what we can from the cache, then run one inference call
	// for the misses.
	var missIdx []int
	slots := make([]uint32, n)
	fens := make([]string, n)
	for i, pos := range positions {
		if e.cache == nil {
			missIdx = append(missIdx, i)
			continue
		}
		fens[i] = pos.String()
		ctx := cacheContext(selfBuckets[i], oppoBuckets[i])
		ev, slot := e.cache.Lookup(fens[i], ctx)
		if ev != nil {
			results[i] = ev
			continue
		}
		slots[i] = slot
		missIdx = append(missIdx, i)
	}

	if len(missIdx) > 0 {
		missPos := make([]*chess.Position, len(missIdx))
		missSelf := make([]int64, len(missIdx))
		missOppo := make([]int64, len(missIdx))
		for k, i := range missIdx {
			missPos[k] = positions[i]
			missSelf[k] = selfBuckets[i]
			missOppo[k] = oppoBuckets[i]
		}

		evals, err := e.run(missPos, missSelf, missOppo)
		if err != nil {
			return nil, err
		}
		for k, i := range missIdx {
			results[i] = evals[k]
			if e.cache != nil {
				e.cache.Add(fens[i], cacheContext(selfBuckets[i], oppoBuckets[i]), evals[k], slots[i])
			}
		}
	}

	return results, nil
}

// run packs positions into input tensors, executes the session, and
// decodes every sample's outputs.
func (e *Engine) run(positions []*chess.Position, selfBuckets, oppoBuckets []int64) ([]*Evaluation, error) {
	n := len(positions)

	batch, err := encoding.Pack(positions, selfBuckets, oppoBuckets)
	if err != nil {
		return nil, err
	}

	var tensors []ort.Value
	defer func() {
		for _, t := range tensors {
			_ = t.Destroy()
		}
	}()

	boards, err := ort.NewTensor(ort.NewShape(int64(n), encoding.NumChannels, 8, 8), batch.Boards)
	if err != nil {
		return nil, fmt.Errorf("create board tensor: %w", err)
	}
	tensors = append(tensors, boards)

	eloSelf, err := ort.NewTensor(ort.NewShape(int64(n)), batch.EloSelf)
	if err != nil {
		return nil, fmt.Errorf("create elo_self tensor: %w", err)
	}
	tensors = append(tensors, eloSelf)

	eloOppo, err := ort.NewTensor(ort.NewShape(int64(n)), batch.EloOppo)
	if err != nil {
		return nil, fmt.Errorf("create elo_oppo tensor: %w", err)
	}
	tensors = append(tensors, eloOppo)

	policy, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(n), encoding.MoveSpaceSize))
	if err != nil {
		return nil, fmt.Errorf("create policy tensor: %w", err)
	}
	tensors = append(tensors, policy)

	value, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(n)))
	if err != nil {
		return nil, fmt.Errorf("create value tensor: %w", err)
	}
	tensors = append(tensors, value)

	err = e.session.Run(
		[]ort.Value{boards, eloSelf, eloOppo},
		[]ort.Value{policy, value},
	)
	if err != nil {
		return nil, fmt.Errorf("run inference (batch of %d): %w", n, err)
	}

	rows, err := encoding.UnpackPolicy(policy.GetData(), n)
	if err != nil {
		return nil, err
	}
	values, err := encoding.UnpackValues(value.GetData(), n)
	if err != nil {
		return nil, err
	}

	evals := make([]*Evaluation, n)
	for i := range rows {
		ev, err := decodeOutput(rows[i], values[i], positions[i], batch.Mirrored[i])
		if err != nil {
			return nil, fmt.Errorf("batch index %d: %w", i, err)
		}
		evals[i] = ev
	}
	return evals, nil
}
