package wallet

import (
	"errors"

	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// ErrInvalidRecipient reports a transfer target that cannot be resolved
// to a locking script hash, such as a nil actor or contract.
var ErrInvalidRecipient = errors.New("invalid recipient")

type recipientKind uint8

const (
	recipientNone recipientKind = iota
	recipientInvalid
	recipientActor
	recipientContract
)

// Recipient names the target of a value transfer: an actor or a
// contract, resolved to its locking script hash at construction. The
// zero Recipient is "unset" and lets operations fall back to their
// default target.
type Recipient struct {
	kind       recipientKind
	puzzleHash types.Hash
}

// ToActor targets a transfer at another actor's standard script.
func ToActor(a *Actor) Recipient {
	if a == nil {
		return Recipient{kind: recipientInvalid}
	}
	return Recipient{kind: recipientActor, puzzleHash: a.puzzleHash}
}

// ToContract targets a transfer at a contract's script.
func ToContract(c *coin.Contract) Recipient {
	if c == nil {
		return Recipient{kind: recipientInvalid}
	}
	return Recipient{kind: recipientContract, puzzleHash: c.PuzzleHash()}
}

func (r Recipient) isSet() bool {
	return r.kind != recipientNone
}

// resolve returns the recipient's script hash, or fallback when the
// recipient is unset. Invalid recipients fail before any spend is
// constructed.
func (r Recipient) resolve(fallback types.Hash) (types.Hash, error) {
	switch r.kind {
	case recipientNone:
		return fallback, nil
	case recipientActor, recipientContract:
		return r.puzzleHash, nil
	default:
		return types.Hash{}, ErrInvalidRecipient
	}
}
