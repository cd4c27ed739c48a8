package engine

import (
	"fmt"
	"testing"
)

func testEval() *Evaluation {
	return &Evaluation{
		Policy: []MoveProbability{
			{UCI: "e2e4", Probability: 0.6},
			{UCI: "d2d4", Probability: 0.4},
		},
		WinProb: 0.55,
	}
}

func TestCacheAddLookup(t *testing.T) {
	c := NewEvalCache(1024)
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	ctx := cacheContext(5, 5)

	if ev, _ := c.Lookup(fen, ctx); ev != nil {
		t.Fatal("expected miss on empty cache")
	}

	_, slot := c.Lookup(fen, ctx)
	c.Add(fen, ctx, testEval(), slot)

	ev, _ := c.Lookup(fen, ctx)
	if ev == nil {
		t.Fatal("expected hit after Add")
	}
	if ev.WinProb != 0.55 || len(ev.Policy) != 2 || ev.Policy[0].UCI != "e2e4" {
		t.Errorf("cached evaluation mangled: %+v", ev)
	}

	// A different rating context is a different entry
	if ev, _ := c.Lookup(fen, cacheContext(1, 5)); ev != nil {
		t.Error("different context should miss")
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewEvalCache(1024)
	fen := "8/8/8/8/8/8/8/K1k5 w - - 0 1"
	ctx := cacheContext(3, 7)

	_, slot := c.Lookup(fen, ctx)
	c.Add(fen, ctx, testEval(), slot)

	ev, _ := c.Lookup(fen, ctx)
	ev.Policy[0].Probability = 0.99
	ev.WinProb = 0

	again, _ := c.Lookup(fen, ctx)
	if again.Policy[0].Probability != 0.6 || again.WinProb != 0.55 {
		t.Error("mutating a returned evaluation changed the cached copy")
	}
}

func TestCacheTwoWayEviction(t *testing.T) {
	// Size 2 gives a single node, so every entry shares primary and
	// secondary slots.
	c := NewEvalCache(2)

	for i := 0; i < 3; i++ {
		fen := fmt.Sprintf("fen-%d", i)
		_, slot := c.Lookup(fen, 0)
		c.Add(fen, 0, testEval(), slot)
	}

	// The two most recent entries survive
	if ev, _ := c.Lookup("fen-2", 0); ev == nil {
		t.Error("most recent entry evicted")
	}
	if ev, _ := c.Lookup("fen-1", 0); ev == nil {
		t.Error("secondary entry evicted")
	}
	if ev, _ := c.Lookup("fen-0", 0); ev != nil {
		t.Error("oldest entry should have been evicted")
	}
}

func TestCacheStatsAndFlush(t *testing.T) {
	c := NewEvalCache(1024)
	fen := "4k3/8/8/8/8/8/8/4K3 w - - 0 1"

	_, slot := c.Lookup(fen, 0) // miss
	c.Add(fen, 0, testEval(), slot)
	c.Lookup(fen, 0) // hit

	lookups, hits, adds := c.Stats()
	if lookups != 2 || hits != 1 || adds != 1 {
		t.Errorf("Stats() = %d/%d/%d, want 2/1/1", lookups, hits, adds)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate() = %f, want 50", rate)
	}

	c.Flush()
	if ev, _ := c.Lookup(fen, 0); ev != nil {
		t.Error("entry survived Flush")
	}
	if _, hits, _ := c.Stats(); hits != 0 {
		t.Error("stats survived Flush")
	}
}

func TestCacheSizeRounding(t *testing.T) {
	// Sizes round up to a power of two; one node holds two entries
	c := NewEvalCache(1000)
	if c.size != 1024 {
		t.Errorf("size = %d, want 1024", c.size)
	}
	if len(c.entries) != 512 {
		t.Errorf("nodes = %d, want 512", len(c.entries))
	}
}
