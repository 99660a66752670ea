package coin

import (
	"testing"

	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

func TestCoin_ID_Deterministic(t *testing.T) {
	parent := crypto.Hash([]byte("parent"))
	puzzle := crypto.Hash([]byte("puzzle"))

	c1 := New(parent, puzzle, 100)
	c2 := New(parent, puzzle, 100)
	if c1.ID() != c2.ID() {
		t.Error("identical coins should have identical IDs")
	}
	if c1.ID().IsZero() {
		t.Error("coin ID should not be zero")
	}
}

func TestCoin_ID_SensitiveToFields(t *testing.T) {
	parent := crypto.Hash([]byte("parent"))
	puzzle := crypto.Hash([]byte("puzzle"))
	base := New(parent, puzzle, 100)

	diffAmount := New(parent, puzzle, 101)
	if base.ID() == diffAmount.ID() {
		t.Error("amount change should change the coin ID")
	}

	diffParent := New(crypto.Hash([]byte("other")), puzzle, 100)
	if base.ID() == diffParent.ID() {
		t.Error("parent change should change the coin ID")
	}

	diffPuzzle := New(parent, crypto.Hash([]byte("other")), 100)
	if base.ID() == diffPuzzle.ID() {
		t.Error("puzzle hash change should change the coin ID")
	}
}

func TestP2PKScript(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	pub := key.PublicKey()

	s := P2PKScript(pub)
	if s.Type != types.ScriptTypeP2PK {
		t.Errorf("script type = %v, want P2PK", s.Type)
	}

	// The script must copy the key, not alias it.
	s.Data[0] ^= 0xff
	if P2PKScript(pub).Data[0] == s.Data[0] {
		t.Error("P2PKScript should copy the public key")
	}
}

func TestScriptHash_MatchesSerialization(t *testing.T) {
	s := types.Script{Type: types.ScriptTypeContract, Data: []byte("prog")}
	if ScriptHash(s) != crypto.Hash(s.Serialize()) {
		t.Error("ScriptHash should hash the canonical serialization")
	}
}

func TestContract_ChildPrediction(t *testing.T) {
	genesis := crypto.Hash([]byte("genesis"))
	c := NewContract(genesis, []byte("contract program"))

	parent := New(crypto.Hash([]byte("p")), crypto.Hash([]byte("q")), 5)
	child := c.Child(parent, 1)

	if child.ParentID != parent.ID() {
		t.Error("child parent should be the parent coin's ID")
	}
	if child.PuzzleHash != c.PuzzleHash() {
		t.Error("child should be locked to the contract's puzzle hash")
	}
	if child.Amount != 1 {
		t.Errorf("child amount = %d, want 1", child.Amount)
	}
}

func TestContract_ProgramCopied(t *testing.T) {
	prog := []byte("mutable")
	c := NewContract(types.Hash{}, prog)
	before := c.PuzzleHash()
	prog[0] = 'X'
	if c.PuzzleHash() != before {
		t.Error("contract should copy its program blob")
	}
}
