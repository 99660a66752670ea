package spend

import (
	"encoding/binary"
	"fmt"

	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Solution carries the conditions a spend supplies to its locking script.
type Solution struct {
	Conditions []Condition `json:"conditions"`
}

// SigningBytes returns the canonical byte representation of the solution.
// Format: count(4) | [op(1) | puzzle_hash(32) | amount(8) | message(32)]...
func (s Solution) SigningBytes() []byte {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Conditions)))
	for _, c := range s.Conditions {
		buf = c.appendTo(buf)
	}
	return buf
}

// Hash returns the hash of the solution's canonical serialization.
func (s Solution) Hash() types.Hash {
	return crypto.Hash(s.SigningBytes())
}

// Spend unlocks one coin, emitting the conditions in its solution.
type Spend struct {
	Coin     coin.Coin    `json:"coin"`
	Puzzle   types.Script `json:"puzzle"`
	Solution Solution     `json:"solution"`
}

// SigningDigest returns the 32-byte digest a spend signature covers:
// hash(solution_hash || coin_id || genesis_challenge). Binding the coin ID
// prevents replaying the signature against another coin; binding the
// genesis challenge prevents cross-network replay.
func (sp Spend) SigningDigest(genesisChallenge types.Hash) types.Hash {
	var buf [types.HashSize * 3]byte
	solHash := sp.Solution.Hash()
	coinID := sp.Coin.ID()
	copy(buf[:types.HashSize], solHash[:])
	copy(buf[types.HashSize:], coinID[:])
	copy(buf[types.HashSize*2:], genesisChallenge[:])
	return crypto.Hash(buf[:])
}

// Bundle is an atomically-committed group of spends plus one aggregate
// signature covering all of them, in spend order.
type Bundle struct {
	Spends    []Spend `json:"spends"`
	Signature []byte  `json:"signature"`
}

// TotalInput returns the summed amount of all coins consumed by the bundle.
func (b *Bundle) TotalInput() uint64 {
	var total uint64
	for _, sp := range b.Spends {
		total += sp.Coin.Amount
	}
	return total
}

// TotalOutput returns the summed amount of all coins the bundle creates.
func (b *Bundle) TotalOutput() uint64 {
	var total uint64
	for _, sp := range b.Spends {
		for _, c := range sp.Solution.Conditions {
			if c.Op == OpCreateCoin {
				total += c.Amount
			}
		}
	}
	return total
}

// SignatureFor returns the signature slice covering spend i.
func (b *Bundle) SignatureFor(i int) ([]byte, error) {
	sigs, err := crypto.SplitAggregate(b.Signature, len(b.Spends))
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(sigs) {
		return nil, fmt.Errorf("spend index %d out of range", i)
	}
	return sigs[i], nil
}
