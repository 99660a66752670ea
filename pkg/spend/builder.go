package spend

import (
	"fmt"

	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Builder constructs spend bundles incrementally.
type Builder struct {
	genesisChallenge types.Hash
	spends           []Spend
}

// NewBuilder creates a bundle builder bound to a genesis challenge.
func NewBuilder(genesisChallenge types.Hash) *Builder {
	return &Builder{genesisChallenge: genesisChallenge}
}

// AddSpend adds a spend of c unlocked by puzzle with the given conditions.
func (b *Builder) AddSpend(c coin.Coin, puzzle types.Script, conditions []Condition) *Builder {
	b.spends = append(b.spends, Spend{
		Coin:     c,
		Puzzle:   puzzle,
		Solution: Solution{Conditions: conditions},
	})
	return b
}

// Sign signs every spend individually with key and aggregates the
// signatures into the bundle signature.
func (b *Builder) Sign(key *crypto.PrivateKey) (*Bundle, error) {
	if len(b.spends) == 0 {
		return nil, fmt.Errorf("bundle has no spends")
	}

	sigs := make([][]byte, 0, len(b.spends))
	for i, sp := range b.spends {
		digest := sp.SigningDigest(b.genesisChallenge)
		sig, err := key.Sign(digest[:])
		if err != nil {
			return nil, fmt.Errorf("sign spend %d: %w", i, err)
		}
		sigs = append(sigs, sig)
	}

	agg, err := crypto.Aggregate(sigs)
	if err != nil {
		return nil, fmt.Errorf("aggregate signatures: %w", err)
	}
	return &Bundle{Spends: b.spends, Signature: agg}, nil
}
