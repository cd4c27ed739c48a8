// Package engine evaluates chess positions with the Maia-2
// rating-conditioned policy/value network, served by ONNX Runtime.
package engine

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/yourusername/maiaengine/internal/encoding"
)

// Rating range accepted by the model; out-of-range ratings clamp to
// the nearest bucket rather than failing.
const (
	MinElo = encoding.MinElo
	MaxElo = encoding.MaxElo
)

// Tensor slot names fixed by the model export.
const (
	inputBoards  = "boards"
	inputEloSelf = "elo_self"
	inputEloOppo = "elo_oppo"
	outputPolicy = "logits_maia"
	outputValue  = "logits_value"
)

// Engine owns one ONNX Runtime session running the Maia-2 model and
// exposes single and batched position evaluation.
//
// The session is created in NewEngine and destroyed in Close; nothing
// else in the process can produce an evaluation without one. ONNX
// Runtime permits concurrent Run calls on one session, so an Engine
// may be shared across goroutines; the engine itself adds no
// concurrency beyond parallel input encoding.
type Engine struct {
	session *ort.DynamicAdvancedSession
	cache   *EvalCache
}

// EngineOptions configures the engine.
type EngineOptions struct {
	ModelFile      string // Path to the .onnx model file
	ModelBytes     []byte // In-memory model, used when ModelFile is empty
	ORTLibraryPath string // Path to the onnxruntime shared library (falls back to ONNXRUNTIME_SHARED_LIBRARY_PATH)
	CacheSize      uint32 // Evaluation cache entries (0 = default)
	DisableCache   bool   // Disable the in-memory evaluation cache
}

// The ONNX Runtime environment is process-global; initialize it once
// for all engines.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initRuntime(libPath string) error {
	ortInitOnce.Do(func() {
		if libPath == "" {
			libPath = os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")
		}
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if !ort.IsInitialized() {
			if err := ort.InitializeEnvironment(); err != nil {
				ortInitErr = fmt.Errorf("initialize onnxruntime: %w", err)
			}
		}
	})
	return ortInitErr
}

// NewEngine loads the model and creates an inference session.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if err := initRuntime(opts.ORTLibraryPath); err != nil {
		return nil, err
	}

	inputNames := []string{inputBoards, inputEloSelf, inputEloOppo}
	outputNames := []string{outputPolicy, outputValue}

	var (
		session *ort.DynamicAdvancedSession
		err     error
	)
	switch {
	case opts.ModelFile != "":
		session, err = ort.NewDynamicAdvancedSession(opts.ModelFile, inputNames, outputNames, nil)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", opts.ModelFile, err)
		}
	case len(opts.ModelBytes) > 0:
		session, err = ort.NewDynamicAdvancedSessionWithONNXData(opts.ModelBytes, inputNames, outputNames, nil)
		if err != nil {
			return nil, fmt.Errorf("load model from memory: %w", err)
		}
	default:
		return nil, ErrNoModel
	}

	e := &Engine{session: session}

	if !opts.DisableCache {
		cacheSize := opts.CacheSize
		if cacheSize == 0 {
			cacheSize = DefaultCacheSize
		}
		e.cache = NewEvalCache(cacheSize)
	}

	return e, nil
}

// Cache returns the evaluation cache (nil if disabled).
func (e *Engine) Cache() *EvalCache {
	return e.cache
}

// Close destroys the inference session. The engine must not be used
// afterwards.
func (e *Engine) Close() error {
	if e.session != nil {
		err := e.session.Destroy()
		e.session = nil
		return err
	}
	return nil
}
