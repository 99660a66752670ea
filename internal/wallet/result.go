package wallet

import (
	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/spend"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Network is the ledger-facing surface actors submit bundles through.
// Actors never talk to the ledger service directly; the session owns
// their visibility into it.
type Network interface {
	// PushTx submits a bundle. A ledger rejection is reported inside
	// the result rather than as an error; a non-nil error means the
	// submission itself could not be carried out.
	PushTx(b *spend.Bundle) (*SpendResult, error)
}

// SpendResult is the outcome of a submitted bundle. A ledger rejection
// travels as data in Error so callers can branch on it; Created holds
// the coins the commit brought into existence, including the step
// reward.
type SpendResult struct {
	Error   string
	Created []coin.Coin
}

// OK reports whether the bundle was accepted and committed.
func (r *SpendResult) OK() bool {
	return r.Error == ""
}

// FindCoins filters the created coins by locking script hash,
// recovering "which of my coins did this transaction give me."
func (r *SpendResult) FindCoins(puzzleHash types.Hash) []coin.Coin {
	var out []coin.Coin
	for _, c := range r.Created {
		if c.PuzzleHash == puzzleHash {
			out = append(out, c)
		}
	}
	return out
}
