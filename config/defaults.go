package config

import "time"

// Default protocol parameters.
const (
	// DefaultBlockTime is the target block interval: 600 seconds per
	// 32 blocks.
	DefaultBlockTime = 600 * time.Second / 32

	// DefaultBlockReward is the per-step issuance in base units.
	DefaultBlockReward uint64 = 2_000_000_000_000

	// DefaultInitialTimestamp places the simulated clock past the
	// initial transaction freeze period.
	DefaultInitialTimestamp = 18750*24*time.Hour + 61201*time.Second

	// DefaultMnemonic is the fixed BIP-39 phrase seeding the simulator
	// keyring, so key indices map to the same keys in every run.
	DefaultMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

// Default returns a Config with an in-memory ledger and the standard
// protocol parameters.
func Default() *Config {
	return &Config{
		Protocol: Protocol{
			GenesisChallenge: GenesisChallengeFor("simulator"),
			BlockTime:        DefaultBlockTime,
			BlockReward:      DefaultBlockReward,
			InitialTimestamp: DefaultInitialTimestamp,
		},
		Mnemonic: DefaultMnemonic,
		Log: LogConfig{
			Level: "info",
		},
	}
}
