// Command testeval exercises the evaluation pipeline end to end.
package main

import (
	"fmt"
	"os"

	"github.com/notnil/chess"

	"github.com/yourusername/maiaengine/internal/encoding"
	"github.com/yourusername/maiaengine/pkg/engine"
)

func main() {
	fmt.Println("=== Maia Evaluation Engine Test ===")
	fmt.Println()

	// Define file paths - prefer local data directory
	modelFile := "data/maia2.onnx"
	if env := os.Getenv("MAIA_MODEL_PATH"); env != "" {
		modelFile = env
	}

	// Test 1: Move Vocabulary
	fmt.Println("1. Testing Move Vocabulary...")
	fmt.Printf("   Vocabulary size: %d\n", encoding.MoveSpaceSize)
	roundTripOK := true
	for i := 0; i < encoding.MoveSpaceSize; i++ {
		from, to, promo, ok := encoding.MoveAt(i)
		if !ok {
			roundTripOK = false
			break
		}
		if j, ok := encoding.MoveIndex(from, to, promo); !ok || j != i {
			roundTripOK = false
			break
		}
	}
	if roundTripOK {
		fmt.Println("   OK: every index round-trips through MoveIndex")
	} else {
		fmt.Println("   FAIL: vocabulary round-trip broken")
	}
	fmt.Println()

	// Test 2: Rating Buckets
	fmt.Println("2. Testing Rating Buckets...")
	for _, elo := range []int{800, 1100, 1500, 1999, 2000, 2400} {
		fmt.Printf("   %4d -> bucket %d\n", elo, encoding.EloBucket(elo))
	}
	fmt.Println()

	// Test 3: Position Encoding
	fmt.Println("3. Testing Position Encoding...")
	buf := make([]float32, encoding.SampleSize)
	mirrored, err := encoding.EncodePosition(chess.StartingPosition(), buf)
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
	} else {
		nonzero := 0
		for _, v := range buf {
			if v != 0 {
				nonzero++
			}
		}
		fmt.Printf("   Starting position: mirrored=%v, %d nonzero cells\n", mirrored, nonzero)
	}
	fmt.Println()

	// Test 4: Full Engine Evaluation
	fmt.Println("4. Testing Full Engine Evaluation...")
	if _, err := os.Stat(modelFile); err != nil {
		fmt.Printf("   SKIP: %s not found\n", modelFile)
		fmt.Println()
		fmt.Println("=== Test Complete ===")
		return
	}

	eng, err := engine.NewEngine(engine.EngineOptions{ModelFile: modelFile})
	if err != nil {
		fmt.Printf("   FAIL: engine creation: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	startFEN := chess.StartingPosition().String()
	ev, err := eng.EvaluateFEN(startFEN, 1500, 1500)
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("   Starting position (1500 vs 1500):\n")
	fmt.Printf("       Win prob:    %.4f\n", ev.WinProb)
	fmt.Printf("       Legal moves: %d\n", len(ev.Policy))
	fmt.Println("   Top moves:")
	n := 5
	if n > len(ev.Policy) {
		n = len(ev.Policy)
	}
	for i := 0; i < n; i++ {
		mp := ev.Policy[i]
		fmt.Printf("     %d. %-6s %.4f\n", i+1, mp.UCI, mp.Probability)
	}
	fmt.Println()

	fmt.Println("=== Test Complete ===")
}
