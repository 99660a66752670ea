// Package config handles simulator configuration.
//
// Configuration is split into two categories:
//   - Protocol rules: fixed for a simulation, shared by every participant
//   - Runtime settings: per-process knobs (storage location, logging)
package config

import (
	"time"

	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Protocol holds the ledger rules a session runs under.
type Protocol struct {
	// GenesisChallenge domain-separates signatures from other networks.
	GenesisChallenge types.Hash

	// BlockTime is how far the simulated clock advances per step.
	BlockTime time.Duration

	// BlockReward is the amount minted to the beneficiary each step.
	BlockReward uint64

	// InitialTimestamp is the simulated clock value at session start.
	InitialTimestamp time.Duration
}

// Config holds per-process runtime configuration.
type Config struct {
	Protocol Protocol

	// DataDir, when non-empty, backs the ledger with a persistent
	// database at this path instead of memory.
	DataDir string

	// Mnemonic seeds the deterministic actor keyring.
	Mnemonic string

	// Seed, when non-empty, seeds the keyring directly and takes
	// precedence over Mnemonic. Keystore-backed runs load it from an
	// encrypted seed file.
	Seed []byte

	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// GenesisChallengeFor derives a genesis challenge from a network name.
func GenesisChallengeFor(network string) types.Hash {
	return crypto.Hash([]byte("genesis-challenge/" + network))
}
