// Command maiaeval evaluates positions read from stdin, one per line,
// in the form "FEN;eloSelf;eloOppo". The ratings may be omitted and
// default to 1500.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/maiaengine/pkg/engine"
)

func main() {
	modelFile := flag.String("model", "data/maia2.onnx", "Path to the ONNX model")
	ortLib := flag.String("ort-lib", "", "Path to the ONNX Runtime shared library (default: ONNXRUNTIME_SHARED_LIBRARY_PATH)")
	topN := flag.Int("top", 5, "Number of moves to print per position")
	flag.Parse()

	eng, err := engine.NewEngine(engine.EngineOptions{
		ModelFile:      *modelFile,
		ORTLibraryPath: *ortLib,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fen, eloSelf, eloOppo, err := parseLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping line: %v\n", err)
			continue
		}

		ev, err := eng.EvaluateFEN(fen, eloSelf, eloOppo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "evaluate %q: %v\n", fen, err)
			continue
		}

		fmt.Printf("%s (%d vs %d)\n", fen, eloSelf, eloOppo)
		fmt.Printf("  win prob: %.4f\n", ev.WinProb)
		n := *topN
		if n > len(ev.Policy) {
			n = len(ev.Policy)
		}
		for i := 0; i < n; i++ {
			mp := ev.Policy[i]
			fmt.Printf("  %d. %-6s %.4f\n", i+1, mp.UCI, mp.Probability)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}

func parseLine(line string) (fen string, eloSelf, eloOppo int, err error) {
	eloSelf, eloOppo = 1500, 1500

	parts := strings.Split(line, ";")
	fen = strings.TrimSpace(parts[0])
	if fen == "" {
		return "", 0, 0, fmt.Errorf("empty FEN in %q", line)
	}

	if len(parts) > 1 {
		eloSelf, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return "", 0, 0, fmt.Errorf("bad elo_self in %q: %w", line, err)
		}
	}
	if len(parts) > 2 {
		eloOppo, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return "", 0, 0, fmt.Errorf("bad elo_oppo in %q: %w", line, err)
		}
	}

	return fen, eloSelf, eloOppo, nil
}
