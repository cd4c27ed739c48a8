// Package evalstore persists evaluation results between runs so
// positions that were already scored never hit the model again.
package evalstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/yourusername/maiaengine/internal/encoding"
)

// ErrNotFound is returned by Get when a position has no stored result.
var ErrNotFound = errors.New("evalstore: not found")

// MoveProbability is one entry of a stored policy.
type MoveProbability struct {
	UCI         string  `json:"uci"`
	Probability float32 `json:"probability"`
}

// Record is the stored form of one evaluation result.
type Record struct {
	FEN     string            `json:"fen"`
	EloSelf int               `json:"elo_self"`
	EloOppo int               `json:"elo_oppo"`
	WinProb float32           `json:"win_prob"`
	Policy  []MoveProbability `json:"policy"`
}

// Store wraps BadgerDB for persistent evaluation storage
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("evalstore: open %s: %w", dir, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// key buckets both ratings so any rating inside a bucket shares the
// stored result, matching how the model itself sees ratings.
func key(fen string, eloSelf, eloOppo int) []byte {
	return fmt.Appendf(nil, "eval|%d|%d|%s",
		encoding.EloBucket(eloSelf), encoding.EloBucket(eloOppo), fen)
}

// Put stores a result for one position and rating pairing.
func (s *Store) Put(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("evalstore: marshal: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(rec.FEN, rec.EloSelf, rec.EloOppo), data)
	})
}

// Get loads the stored result for a position and rating pairing.
// Returns ErrNotFound when none exists.
func (s *Store) Get(fen string, eloSelf, eloOppo int) (*Record, error) {
	var rec Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(fen, eloSelf, eloOppo))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
