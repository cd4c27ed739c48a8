package api

import (
	"context"
	"testing"
	"time"
)

func TestPoolAcquireRelease(t *testing.T) {
	p := NewWorkerPool(PoolConfig{MaxFastWorkers: 2, MaxSlowWorkers: 1})

	ctx := context.Background()
	if err := p.AcquireFast(ctx); err != nil {
		t.Fatalf("AcquireFast failed: %v", err)
	}
	if err := p.AcquireFast(ctx); err != nil {
		t.Fatalf("AcquireFast failed: %v", err)
	}
	if p.TryAcquireFast() {
		t.Error("pool should be full")
	}

	p.ReleaseFast()
	if !p.TryAcquireFast() {
		t.Error("slot should be free after release")
	}

	stats := p.Stats()
	if stats.ActiveFast != 2 {
		t.Errorf("ActiveFast = %d, want 2", stats.ActiveFast)
	}
	if stats.TotalFast != 1 {
		t.Errorf("TotalFast = %d, want 1", stats.TotalFast)
	}
	if stats.MaxFast != 2 || stats.MaxSlow != 1 {
		t.Errorf("limits = %d/%d, want 2/1", stats.MaxFast, stats.MaxSlow)
	}
}

func TestPoolAcquireCancelled(t *testing.T) {
	p := NewWorkerPool(PoolConfig{MaxFastWorkers: 10, MaxSlowWorkers: 1})

	if err := p.AcquireSlow(context.Background()); err != nil {
		t.Fatalf("AcquireSlow failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.AcquireSlow(ctx); err == nil {
		t.Fatal("expected error when pool is full and context expires")
	}
}

func TestPoolDefaults(t *testing.T) {
	p := NewWorkerPool(PoolConfig{})
	stats := p.Stats()
	if stats.MaxFast != 100 || stats.MaxSlow != 4 {
		t.Errorf("defaults = %d/%d, want 100/4", stats.MaxFast, stats.MaxSlow)
	}
}
