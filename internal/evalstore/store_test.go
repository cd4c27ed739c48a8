package evalstore

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{
		FEN:     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		EloSelf: 1500,
		EloOppo: 1600,
		WinProb: 0.52,
		Policy: []MoveProbability{
			{UCI: "e2e4", Probability: 0.3},
			{UCI: "d2d4", Probability: 0.25},
		},
	}
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(rec.FEN, 1500, 1600)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.WinProb != rec.WinProb {
		t.Errorf("WinProb = %f, want %f", got.WinProb, rec.WinProb)
	}
	if len(got.Policy) != 2 || got.Policy[0].UCI != "e2e4" {
		t.Errorf("policy mangled: %+v", got.Policy)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("8/8/8/8/8/8/8/K1k5 w - - 0 1", 1500, 1500)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKeysBucketRatings(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{
		FEN:     "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
		EloSelf: 1550,
		EloOppo: 1550,
		WinProb: 0.5,
	}
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// 1530 shares a rating bucket with 1550, so the stored result applies
	if _, err := s.Get(rec.FEN, 1530, 1599); err != nil {
		t.Errorf("same-bucket lookup missed: %v", err)
	}
	// 1650 is a different bucket
	if _, err := s.Get(rec.FEN, 1650, 1550); !errors.Is(err, ErrNotFound) {
		t.Errorf("different-bucket lookup should miss, got %v", err)
	}
}
