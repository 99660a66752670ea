// Package ledger implements the simulated ledger service the session
// drives: it accepts signed spend bundles, validates them against the
// unspent coin set, commits them one production step at a time, and
// answers point queries by puzzle hash.
package ledger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thistlenet/thistle-sim/config"
	"github.com/thistlenet/thistle-sim/internal/log"
	"github.com/thistlenet/thistle-sim/internal/storage"
	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/spend"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// StepResult reports the effects of one committed production step.
type StepResult struct {
	Created   []coin.Coin
	Destroyed []coin.Coin
}

// Ledger is the simulated ledger service.
type Ledger struct {
	proto  config.Protocol
	db     storage.DB
	coins  *coinStore
	logger zerolog.Logger

	height    uint64
	timestamp time.Duration
	pending   *spend.Bundle
}

// New creates a ledger over the given database. Height and timestamp are
// restored from the database when present, so persistent sessions resume
// where they stopped.
func New(proto config.Protocol, db storage.DB) (*Ledger, error) {
	l := &Ledger{
		proto:     proto,
		db:        db,
		coins:     newCoinStore(db),
		logger:    log.Ledger,
		timestamp: proto.InitialTimestamp,
	}
	if err := l.loadMeta(); err != nil {
		return nil, fmt.Errorf("load ledger state: %w", err)
	}
	return l, nil
}

// Height returns the number of committed steps.
func (l *Ledger) Height() uint64 {
	return l.height
}

// Timestamp returns the current simulated clock value.
func (l *Ledger) Timestamp() time.Duration {
	return l.timestamp
}

// UnspentByPuzzleHash returns all unspent coins locked to puzzleHash.
func (l *Ledger) UnspentByPuzzleHash(puzzleHash types.Hash) ([]coin.Coin, error) {
	return l.coins.UnspentByPuzzleHash(puzzleHash)
}

// Submit validates a bundle against the current unspent set and stages it
// for the next production step. A validation failure leaves the ledger
// untouched. Only one bundle may be pending at a time.
func (l *Ledger) Submit(b *spend.Bundle) error {
	if l.pending != nil {
		return fmt.Errorf("a transaction is already pending")
	}
	if err := l.validateBundle(b); err != nil {
		l.logger.Debug().Err(err).Msg("bundle rejected")
		return err
	}
	l.pending = b
	return nil
}

// AdvanceStep commits the pending bundle (if any), mints the step reward
// to beneficiary, and advances the simulated clock by one block time.
func (l *Ledger) AdvanceStep(beneficiary types.Hash) (*StepResult, error) {
	result := &StepResult{}

	if l.pending != nil {
		b := l.pending
		l.pending = nil
		for _, sp := range b.Spends {
			if err := l.coins.Spend(sp.Coin); err != nil {
				return nil, fmt.Errorf("consume coin %s: %w", sp.Coin.ID().Short(), err)
			}
			result.Destroyed = append(result.Destroyed, sp.Coin)

			parentID := sp.Coin.ID()
			for _, cond := range sp.Solution.Conditions {
				if cond.Op != spend.OpCreateCoin {
					continue
				}
				created := coin.New(parentID, cond.PuzzleHash, cond.Amount)
				if err := l.coins.Add(created); err != nil {
					return nil, fmt.Errorf("create coin %s: %w", created.ID().Short(), err)
				}
				result.Created = append(result.Created, created)
			}
		}
	}

	reward := coin.New(l.rewardParent(), beneficiary, l.proto.BlockReward)
	if err := l.coins.Add(reward); err != nil {
		return nil, fmt.Errorf("mint reward: %w", err)
	}
	result.Created = append(result.Created, reward)

	l.height++
	l.timestamp += l.proto.BlockTime
	if err := l.saveMeta(); err != nil {
		return nil, fmt.Errorf("save ledger state: %w", err)
	}

	l.logger.Debug().
		Uint64("height", l.height).
		Int("created", len(result.Created)).
		Int("destroyed", len(result.Destroyed)).
		Msg("step committed")
	return result, nil
}

// rewardParent derives the unique parent ID of the coin minted at the
// current height, namespaced by the genesis challenge.
func (l *Ledger) rewardParent() types.Hash {
	var buf [types.HashSize + 8]byte
	copy(buf[:], l.proto.GenesisChallenge[:])
	binary.BigEndian.PutUint64(buf[types.HashSize:], l.height)
	return crypto.Hash(buf[:])
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Metadata keys, under the "m/" namespace.
var (
	metaHeightKey    = []byte("m/height")
	metaTimestampKey = []byte("m/timestamp")
)

func (l *Ledger) loadMeta() error {
	if data, err := l.db.Get(metaHeightKey); err == nil && len(data) == 8 {
		l.height = binary.LittleEndian.Uint64(data)
	}
	if data, err := l.db.Get(metaTimestampKey); err == nil && len(data) == 8 {
		l.timestamp = time.Duration(binary.LittleEndian.Uint64(data))
	}
	return nil
}

func (l *Ledger) saveMeta() error {
	var h [8]byte
	binary.LittleEndian.PutUint64(h[:], l.height)
	if err := l.db.Put(metaHeightKey, h[:]); err != nil {
		return err
	}
	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(l.timestamp))
	return l.db.Put(metaTimestampKey, ts[:])
}
