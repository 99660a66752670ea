package coin

import "github.com/thistlenet/thistle-sim/pkg/types"

// Contract wraps an opaque contract program together with the genesis
// challenge it was compiled against. A contract is not itself spendable;
// it identifies the locking script of the coins it owns.
type Contract struct {
	GenesisChallenge types.Hash
	Program          []byte
}

// NewContract creates a contract for the given program blob.
func NewContract(genesisChallenge types.Hash, program []byte) *Contract {
	p := make([]byte, len(program))
	copy(p, program)
	return &Contract{GenesisChallenge: genesisChallenge, Program: p}
}

// Script returns the contract's locking script.
func (c *Contract) Script() types.Script {
	return types.Script{Type: types.ScriptTypeContract, Data: c.Program}
}

// PuzzleHash returns the hash identifying the contract's locking script.
func (c *Contract) PuzzleHash() types.Hash {
	return ScriptHash(c.Script())
}

// Child predicts the coin this contract will own once a spend of parent
// creates it for the given amount. The prediction becomes a ledger fact
// only after that spend is committed.
func (c *Contract) Child(parent Coin, amount uint64) Coin {
	return New(parent.ID(), c.PuzzleHash(), amount)
}
