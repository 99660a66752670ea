package keys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// keystoreFile is the on-disk JSON format for an encrypted seed.
type keystoreFile struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	EncryptedSeed []byte    `json:"encrypted_seed"`
}

const keystoreVersion = 1

// Keystore persists encrypted keyring seeds on disk, so a persistent
// session can reopen with the same actor keys.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// seedPath returns the file path for a named seed.
func (ks *Keystore) seedPath(name string) string {
	return filepath.Join(ks.path, name+".seed")
}

// Exists reports whether a seed with the given name is stored.
func (ks *Keystore) Exists(name string) bool {
	_, err := os.Stat(ks.seedPath(name))
	return err == nil
}

// SaveSeed encrypts and writes a seed under the given name.
func (ks *Keystore) SaveSeed(name string, seed, password []byte) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	encrypted, err := Encrypt(seed, password, DefaultParams())
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	data, err := json.MarshalIndent(keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		EncryptedSeed: encrypted,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keystore: %w", err)
	}

	if err := os.WriteFile(ks.seedPath(name), data, 0600); err != nil {
		return fmt.Errorf("write keystore: %w", err)
	}
	return nil
}

// LoadSeed reads and decrypts the seed stored under the given name.
func (ks *Keystore) LoadSeed(name string, password []byte) ([]byte, error) {
	data, err := os.ReadFile(ks.seedPath(name))
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}

	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", kf.Version)
	}

	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return nil, err
	}
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("stored seed is %d bytes, want %d", len(seed), SeedSize)
	}
	return seed, nil
}
