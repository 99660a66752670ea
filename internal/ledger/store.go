package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/thistlenet/thistle-sim/internal/storage"
	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// coinStore persists the unspent coin set with a puzzle-hash index.
// Each record family lives in its own key namespace:
//
//	c/<coin_id>                -> coin JSON
//	s/<coin_id>                -> empty (consumed coins)
//	p/<puzzle_hash><coin_id>   -> empty (index)
type coinStore struct {
	coins    storage.DB
	spent    storage.DB
	byPuzzle storage.DB
}

func newCoinStore(db storage.DB) *coinStore {
	return &coinStore{
		coins:    storage.NewPrefixDB(db, []byte("c/")),
		spent:    storage.NewPrefixDB(db, []byte("s/")),
		byPuzzle: storage.NewPrefixDB(db, []byte("p/")),
	}
}

// puzzleKey builds an index key: puzzle_hash(32) + id(32).
func puzzleKey(puzzleHash, id types.Hash) []byte {
	key := make([]byte, types.HashSize*2)
	copy(key, puzzleHash[:])
	copy(key[types.HashSize:], id[:])
	return key
}

// Get retrieves an unspent coin by ID.
func (s *coinStore) Get(id types.Hash) (*coin.Coin, error) {
	data, err := s.coins.Get(id[:])
	if err != nil {
		return nil, err
	}
	var c coin.Coin
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("coin unmarshal: %w", err)
	}
	return &c, nil
}

// Has reports whether an unspent coin with the given ID exists.
func (s *coinStore) Has(id types.Hash) (bool, error) {
	return s.coins.Has(id[:])
}

// WasSpent reports whether a coin with the given ID was consumed.
func (s *coinStore) WasSpent(id types.Hash) (bool, error) {
	return s.spent.Has(id[:])
}

// Add stores a new unspent coin and indexes it by puzzle hash.
func (s *coinStore) Add(c coin.Coin) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("coin marshal: %w", err)
	}
	id := c.ID()
	if err := s.coins.Put(id[:], data); err != nil {
		return fmt.Errorf("coin put: %w", err)
	}
	if err := s.byPuzzle.Put(puzzleKey(c.PuzzleHash, id), nil); err != nil {
		return fmt.Errorf("puzzle index put: %w", err)
	}
	return nil
}

// Spend removes a coin from the unspent set and marks it consumed.
func (s *coinStore) Spend(c coin.Coin) error {
	id := c.ID()
	if err := s.coins.Delete(id[:]); err != nil {
		return fmt.Errorf("coin delete: %w", err)
	}
	if err := s.byPuzzle.Delete(puzzleKey(c.PuzzleHash, id)); err != nil {
		return fmt.Errorf("puzzle index delete: %w", err)
	}
	if err := s.spent.Put(id[:], nil); err != nil {
		return fmt.Errorf("spent marker put: %w", err)
	}
	return nil
}

// UnspentByPuzzleHash returns all unspent coins locked to the given
// puzzle hash, sorted by coin ID for deterministic iteration.
func (s *coinStore) UnspentByPuzzleHash(puzzleHash types.Hash) ([]coin.Coin, error) {
	var ids []types.Hash
	err := s.byPuzzle.ForEach(puzzleHash[:], func(key, _ []byte) error {
		if len(key) != types.HashSize*2 {
			return fmt.Errorf("malformed puzzle index key (%d bytes)", len(key))
		}
		var id types.Hash
		copy(id[:], key[types.HashSize:])
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("puzzle index scan: %w", err)
	}

	sortHashes(ids)

	coins := make([]coin.Coin, 0, len(ids))
	for _, id := range ids {
		c, err := s.Get(id)
		if err != nil {
			return nil, fmt.Errorf("indexed coin %s: %w", id.Short(), err)
		}
		coins = append(coins, *c)
	}
	return coins, nil
}

// sortHashes orders hashes lexicographically in place.
func sortHashes(hashes []types.Hash) {
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})
}
