package ledger

import (
	"errors"
	"fmt"

	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/spend"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Bundle validation errors.
var (
	ErrEmptyBundle         = errors.New("bundle has no spends")
	ErrUnknownCoin         = errors.New("coin does not exist")
	ErrCoinSpent           = errors.New("coin already spent")
	ErrDuplicateSpend      = errors.New("coin spent twice in one bundle")
	ErrPuzzleMismatch      = errors.New("puzzle does not match coin's puzzle hash")
	ErrBadSignature        = errors.New("invalid spend signature")
	ErrMissingAnnouncement = errors.New("asserted announcement not created in bundle")
	ErrValueMismatch       = errors.New("created value does not equal consumed value")
	ErrDuplicateOutput     = errors.New("duplicate output coin")
	ErrBadPubKey           = errors.New("malformed public key in locking script")
)

// validateBundle checks a bundle against the committed unspent set.
// The whole bundle stands or falls together: any failing spend rejects
// every spend.
func (l *Ledger) validateBundle(b *spend.Bundle) error {
	if b == nil || len(b.Spends) == 0 {
		return ErrEmptyBundle
	}

	sigs, err := crypto.SplitAggregate(b.Signature, len(b.Spends))
	if err != nil {
		return fmt.Errorf("bundle signature: %w", err)
	}

	seen := make(map[types.Hash]bool, len(b.Spends))
	for i, sp := range b.Spends {
		id := sp.Coin.ID()
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateSpend, id.Short())
		}
		seen[id] = true

		if coin.ScriptHash(sp.Puzzle) != sp.Coin.PuzzleHash {
			return fmt.Errorf("%w: spend %d", ErrPuzzleMismatch, i)
		}

		exists, err := l.coins.Has(id)
		if err != nil {
			return fmt.Errorf("look up coin %s: %w", id.Short(), err)
		}
		if !exists {
			wasSpent, err := l.coins.WasSpent(id)
			if err != nil {
				return fmt.Errorf("look up spent marker %s: %w", id.Short(), err)
			}
			if wasSpent {
				return fmt.Errorf("%w: %s", ErrCoinSpent, id.Short())
			}
			return fmt.Errorf("%w: %s", ErrUnknownCoin, id.Short())
		}

		if err := l.verifySpendSignature(sp, sigs[i]); err != nil {
			return fmt.Errorf("spend %d: %w", i, err)
		}
	}

	if err := checkAnnouncements(b); err != nil {
		return err
	}

	if err := l.checkOutputs(b); err != nil {
		return err
	}

	if in, out := b.TotalInput(), b.TotalOutput(); in != out {
		return fmt.Errorf("%w: consumed %d, created %d", ErrValueMismatch, in, out)
	}
	return nil
}

// verifySpendSignature enforces the locking script's signing requirement.
// Pay-to-pubkey scripts require a Schnorr signature from the embedded
// key. Contract scripts are opaque: the ledger accepts the supplied
// conditions without a signature check.
func (l *Ledger) verifySpendSignature(sp spend.Spend, sig []byte) error {
	switch sp.Puzzle.Type {
	case types.ScriptTypeP2PK:
		if len(sp.Puzzle.Data) != crypto.PubKeySize {
			return fmt.Errorf("%w: %d bytes", ErrBadPubKey, len(sp.Puzzle.Data))
		}
		digest := sp.SigningDigest(l.proto.GenesisChallenge)
		if !crypto.VerifySignature(digest[:], sig, sp.Puzzle.Data) {
			return ErrBadSignature
		}
		return nil
	case types.ScriptTypeContract:
		return nil
	default:
		return fmt.Errorf("unknown script type %d", sp.Puzzle.Type)
	}
}

// checkOutputs predicts every coin the bundle would create and rejects
// the bundle when two creations collapse to one content-addressed ID,
// or when a predicted ID already exists on the ledger. The totals still
// balance in those cases, so without this check the store would silently
// fold the duplicates into one coin and destroy value.
func (l *Ledger) checkOutputs(b *spend.Bundle) error {
	created := make(map[types.Hash]bool)
	for i, sp := range b.Spends {
		parentID := sp.Coin.ID()
		for _, cond := range sp.Solution.Conditions {
			if cond.Op != spend.OpCreateCoin {
				continue
			}
			id := coin.New(parentID, cond.PuzzleHash, cond.Amount).ID()
			if created[id] {
				return fmt.Errorf("%w: spend %d recreates %s", ErrDuplicateOutput, i, id.Short())
			}
			created[id] = true

			exists, err := l.coins.Has(id)
			if err != nil {
				return fmt.Errorf("look up output %s: %w", id.Short(), err)
			}
			if !exists {
				exists, err = l.coins.WasSpent(id)
				if err != nil {
					return fmt.Errorf("look up output %s: %w", id.Short(), err)
				}
			}
			if exists {
				return fmt.Errorf("%w: %s already on the ledger", ErrDuplicateOutput, id.Short())
			}
		}
	}
	return nil
}

// checkAnnouncements verifies that every asserted announcement is created
// somewhere in the same bundle. Creation is gathered in a first pass so
// spend order does not matter.
func checkAnnouncements(b *spend.Bundle) error {
	created := make(map[types.Hash]bool)
	for _, sp := range b.Spends {
		coinID := sp.Coin.ID()
		for _, cond := range sp.Solution.Conditions {
			if cond.Op == spend.OpCreateAnnouncement {
				created[spend.AnnouncementID(coinID, cond.Message)] = true
			}
		}
	}
	for i, sp := range b.Spends {
		for _, cond := range sp.Solution.Conditions {
			if cond.Op == spend.OpAssertAnnouncement && !created[cond.Message] {
				return fmt.Errorf("%w: spend %d asserts %s", ErrMissingAnnouncement, i, cond.Message.Short())
			}
		}
	}
	return nil
}
