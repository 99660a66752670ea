// Package spend defines spend records, condition lists and spend bundles.
//
// A spend unlocks exactly one coin and carries a solution: the list of
// conditions the spend asserts or emits. A bundle groups spends with one
// aggregate signature and is committed atomically by the ledger.
package spend

import (
	"encoding/binary"

	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Op identifies a condition opcode.
type Op uint8

const (
	// OpCreateCoin creates a new coin locked to PuzzleHash for Amount.
	OpCreateCoin Op = 0x33

	// OpCreateAnnouncement publishes a commitment from the spent coin.
	// The announcement ID is hash(coin_id || message).
	OpCreateAnnouncement Op = 0x3c

	// OpAssertAnnouncement requires an announcement with the given ID to
	// be created elsewhere in the same bundle.
	OpAssertAnnouncement Op = 0x3d
)

// String returns a human-readable opcode name.
func (op Op) String() string {
	switch op {
	case OpCreateCoin:
		return "CREATE_COIN"
	case OpCreateAnnouncement:
		return "CREATE_ANNOUNCEMENT"
	case OpAssertAnnouncement:
		return "ASSERT_ANNOUNCEMENT"
	default:
		return "UNKNOWN"
	}
}

// Condition is one instruction emitted by a spend.
type Condition struct {
	Op         Op         `json:"op"`
	PuzzleHash types.Hash `json:"puzzle_hash"`      // CreateCoin target.
	Amount     uint64     `json:"amount,omitempty"` // CreateCoin value.
	Message    types.Hash `json:"message"`          // Announcement payload or ID.
}

// CreateCoin builds a condition creating a coin of amount locked to
// puzzleHash.
func CreateCoin(puzzleHash types.Hash, amount uint64) Condition {
	return Condition{Op: OpCreateCoin, PuzzleHash: puzzleHash, Amount: amount}
}

// CreateAnnouncement builds a condition publishing message from the
// spent coin.
func CreateAnnouncement(message types.Hash) Condition {
	return Condition{Op: OpCreateAnnouncement, Message: message}
}

// AssertAnnouncement builds a condition requiring announcementID to be
// present in the same bundle.
func AssertAnnouncement(announcementID types.Hash) Condition {
	return Condition{Op: OpAssertAnnouncement, Message: announcementID}
}

// AnnouncementID derives the assertable ID of an announcement published
// by the coin with the given ID: hash(coin_id || message).
func AnnouncementID(coinID, message types.Hash) types.Hash {
	return crypto.HashConcat(coinID, message)
}

// appendTo serializes the condition into buf for signing.
// Format: op(1) | puzzle_hash(32) | amount(8) | message(32).
func (c Condition) appendTo(buf []byte) []byte {
	buf = append(buf, byte(c.Op))
	buf = append(buf, c.PuzzleHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, c.Amount)
	buf = append(buf, c.Message[:]...)
	return buf
}
