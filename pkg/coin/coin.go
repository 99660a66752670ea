// Package coin defines the coin and contract value objects.
//
// A coin is a discrete, all-or-nothing-spendable unit of value locked by a
// script. Coins are content-addressed: the ID is a hash of the parent coin
// ID, the locking script hash and the amount, so a coin's identity is fixed
// the moment its creating spend is known, before the ledger commits it.
package coin

import (
	"encoding/binary"

	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Coin is a spendable unit of ledger value.
type Coin struct {
	ParentID   types.Hash `json:"parent_id"`
	PuzzleHash types.Hash `json:"puzzle_hash"`
	Amount     uint64     `json:"amount"`
}

// New constructs a coin record.
func New(parentID, puzzleHash types.Hash, amount uint64) Coin {
	return Coin{ParentID: parentID, PuzzleHash: puzzleHash, Amount: amount}
}

// ID returns the coin's content-addressed identity:
// hash(parent_id(32) | puzzle_hash(32) | amount(8, big-endian)).
func (c Coin) ID() types.Hash {
	var buf [types.HashSize*2 + 8]byte
	copy(buf[:types.HashSize], c.ParentID[:])
	copy(buf[types.HashSize:], c.PuzzleHash[:])
	binary.BigEndian.PutUint64(buf[types.HashSize*2:], c.Amount)
	return crypto.Hash(buf[:])
}

// ScriptHash returns the puzzle hash of a locking script.
func ScriptHash(s types.Script) types.Hash {
	return crypto.Hash(s.Serialize())
}

// P2PKScript builds the standard pay-to-pubkey locking script for a
// compressed public key.
func P2PKScript(pubKey []byte) types.Script {
	data := make([]byte, len(pubKey))
	copy(data, pubKey)
	return types.Script{Type: types.ScriptTypeP2PK, Data: data}
}
