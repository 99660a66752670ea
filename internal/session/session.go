// Package session wires the simulated ledger, the key service, and a
// set of actors into one driveable environment. The session is the only
// path between actors and the ledger: it forwards their bundles and
// refreshes every actor's coin view after each committed step.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thistlenet/thistle-sim/config"
	"github.com/thistlenet/thistle-sim/internal/keys"
	"github.com/thistlenet/thistle-sim/internal/ledger"
	"github.com/thistlenet/thistle-sim/internal/log"
	"github.com/thistlenet/thistle-sim/internal/storage"
	"github.com/thistlenet/thistle-sim/internal/wallet"
	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/spend"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// ErrClosed reports an operation on a closed session.
var ErrClosed = errors.New("session is closed")

// Session owns a ledger and the actors driving it.
type Session struct {
	cfg     *config.Config
	ledger  *ledger.Ledger
	keyring *keys.Keyring
	actors  []*wallet.Actor
	nobody  *wallet.Actor
	logger  zerolog.Logger
	closed  bool
}

// New opens a session over the configured store. An empty DataDir keeps
// all state in memory; otherwise state persists under DataDir and a
// reopened session resumes at its previous height.
func New(cfg *config.Config) (*Session, error) {
	var db storage.DB
	var err error
	if cfg.DataDir == "" {
		db = storage.NewMemory()
	} else {
		db, err = storage.NewBadger(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	l, err := ledger.New(cfg.Protocol, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	var keyring *keys.Keyring
	if len(cfg.Seed) > 0 {
		keyring, err = keys.NewKeyringFromSeed(cfg.Seed)
	} else {
		keyring, err = keys.NewKeyring(cfg.Mnemonic, "")
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	s := &Session{
		cfg:     cfg,
		ledger:  l,
		keyring: keyring,
		logger:  log.Session,
	}

	// Rewards with no designated beneficiary accrue to this actor.
	nobody, err := s.MakeActor("nobody")
	if err != nil {
		db.Close()
		return nil, err
	}
	s.nobody = nobody

	s.logger.Info().
		Uint64("height", l.Height()).
		Str("store", storeKind(cfg.DataDir)).
		Msg("session opened")
	return s, nil
}

func storeKind(dataDir string) string {
	if dataDir == "" {
		return "memory"
	}
	return dataDir
}

// MakeActor derives the next key from the keyring and registers a new
// actor for it. Names must be unique within the session. Derivation is
// positional, so a persistent session reopened with the same mnemonic
// and the same MakeActor order hands each actor its previous coins.
func (s *Session) MakeActor(name string) (*wallet.Actor, error) {
	if s.closed {
		return nil, ErrClosed
	}
	for _, a := range s.actors {
		if a.Name() == name {
			return nil, fmt.Errorf("actor %q already exists", name)
		}
	}
	key, err := s.keyring.Derive(uint32(len(s.actors)))
	if err != nil {
		return nil, fmt.Errorf("derive key for %q: %w", name, err)
	}
	a := wallet.NewActor(s, name, key, s.cfg.Protocol.GenesisChallenge)
	s.actors = append(s.actors, a)
	if err := s.refreshActor(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Nobody returns the default reward beneficiary.
func (s *Session) Nobody() *wallet.Actor {
	return s.nobody
}

// Height returns the number of committed steps.
func (s *Session) Height() uint64 {
	return s.ledger.Height()
}

// Timestamp returns the current simulated clock value.
func (s *Session) Timestamp() time.Duration {
	return s.ledger.Timestamp()
}

// Unspent returns the unspent coins locked to puzzleHash. Contract
// coins have no owning actor, so this is how callers watch them.
func (s *Session) Unspent(puzzleHash types.Hash) ([]coin.Coin, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.ledger.UnspentByPuzzleHash(puzzleHash)
}

// PushTx submits a bundle and, when the ledger accepts it, commits it
// in an immediately farmed step. A rejection travels back as data in
// the result with no coins created; errors are infrastructure
// failures.
func (s *Session) PushTx(b *spend.Bundle) (*wallet.SpendResult, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.ledger.Submit(b); err != nil {
		s.logger.Debug().Err(err).Msg("transaction rejected")
		return &wallet.SpendResult{Error: err.Error()}, nil
	}
	step, err := s.FarmBlock(nil)
	if err != nil {
		return nil, err
	}
	return &wallet.SpendResult{Created: step.Created}, nil
}

// FarmBlock commits one production step, minting the step reward to
// beneficiary (nil means the nobody actor), then refreshes every
// actor's coin view.
func (s *Session) FarmBlock(beneficiary *wallet.Actor) (*ledger.StepResult, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if beneficiary == nil {
		beneficiary = s.nobody
	}
	step, err := s.ledger.AdvanceStep(beneficiary.PuzzleHash())
	if err != nil {
		return nil, err
	}
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return step, nil
}

// SkipTime farms steps until the simulated clock has advanced by at
// least d, crediting rewards to beneficiary (nil means nobody).
func (s *Session) SkipTime(d time.Duration, beneficiary *wallet.Actor) error {
	if s.closed {
		return ErrClosed
	}
	target := s.ledger.Timestamp() + d
	for s.ledger.Timestamp() < target {
		if _, err := s.FarmBlock(beneficiary); err != nil {
			return err
		}
	}
	return nil
}

// refresh reloads every actor's unspent set from the ledger.
func (s *Session) refresh() error {
	for _, a := range s.actors {
		if err := s.refreshActor(a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) refreshActor(a *wallet.Actor) error {
	coins, err := s.ledger.UnspentByPuzzleHash(a.PuzzleHash())
	if err != nil {
		return fmt.Errorf("refresh %s: %w", a.Name(), err)
	}
	a.SetCoins(coins)
	return nil
}

// Close releases the session's store. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info().Uint64("height", s.ledger.Height()).Msg("session closed")
	return s.ledger.Close()
}
