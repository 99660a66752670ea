package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Protocol.GenesisChallenge.IsZero() {
		t.Error("default genesis challenge should not be zero")
	}
	if cfg.Protocol.BlockTime <= 0 {
		t.Error("default block time should be positive")
	}
	if cfg.Protocol.BlockReward == 0 {
		t.Error("default block reward should be positive")
	}
	if cfg.Mnemonic == "" {
		t.Error("default mnemonic should be set")
	}
	if cfg.DataDir != "" {
		t.Error("default should use the in-memory ledger")
	}
}

func TestGenesisChallengeFor(t *testing.T) {
	a := GenesisChallengeFor("simulator")
	b := GenesisChallengeFor("simulator")
	if a != b {
		t.Error("genesis challenge should be deterministic per network")
	}
	if a == GenesisChallengeFor("other") {
		t.Error("different networks should have different challenges")
	}
}
