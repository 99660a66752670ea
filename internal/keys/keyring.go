// Package keys implements the simulator's deterministic key service.
//
// Actors are assigned keys by index: the keyring derives child keys from a
// BIP-39 seed along a fixed BIP-44-style path, so the same index maps to
// the same key pair in every run seeded with the same mnemonic.
package keys

import (
	"fmt"

	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
)

// Derivation path constants. Full path: m/44'/CoinType'/0'/0/index.
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeSim is the simulator's coin type (hardened).
	CoinTypeSim = bip32.FirstHardenedChild + 8444
)

// Keyring derives index-addressed key pairs from a master seed.
type Keyring struct {
	account *bip32.Key
}

// NewKeyring builds a keyring from a BIP-39 mnemonic and passphrase.
func NewKeyring(mnemonic, passphrase string) (*Keyring, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewKeyringFromSeed(seed)
}

// NewKeyringFromSeed builds a keyring from a raw 64-byte seed.
func NewKeyringFromSeed(seed []byte) (*Keyring, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	// Pre-derive the account node m/44'/8444'/0'/0 once; per-index
	// derivation then needs a single child step.
	account := master
	for _, idx := range []uint32{PurposeBIP44, CoinTypeSim, bip32.FirstHardenedChild, 0} {
		account, err = account.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive account node: %w", err)
		}
	}
	return &Keyring{account: account}, nil
}

// Derive returns the key pair for the given index.
func (kr *Keyring) Derive(index uint32) (*crypto.PrivateKey, error) {
	child, err := kr.account.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive key %d: %w", index, err)
	}
	return privateKeyFromBIP32(child)
}

// privateKeyFromBIP32 extracts the 32-byte scalar from a bip32 key.
// bip32 private keys are 33 bytes with a leading 0x00.
func privateKeyFromBIP32(k *bip32.Key) (*crypto.PrivateKey, error) {
	raw := k.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	key, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("keyring child key: %w", err)
	}
	return key, nil
}
