package keys

import (
	"bytes"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestKeyring_DeriveDeterministic(t *testing.T) {
	kr1, err := NewKeyring(testMnemonic, "")
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}
	kr2, err := NewKeyring(testMnemonic, "")
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}

	for idx := uint32(0); idx < 5; idx++ {
		k1, err := kr1.Derive(idx)
		if err != nil {
			t.Fatalf("Derive(%d): %v", idx, err)
		}
		k2, err := kr2.Derive(idx)
		if err != nil {
			t.Fatalf("Derive(%d): %v", idx, err)
		}
		if !bytes.Equal(k1.PublicKey(), k2.PublicKey()) {
			t.Errorf("index %d: same mnemonic should derive the same key", idx)
		}
	}
}

func TestKeyring_DistinctIndices(t *testing.T) {
	kr, err := NewKeyring(testMnemonic, "")
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}

	k0, err := kr.Derive(0)
	if err != nil {
		t.Fatalf("Derive(0): %v", err)
	}
	k1, err := kr.Derive(1)
	if err != nil {
		t.Fatalf("Derive(1): %v", err)
	}
	if bytes.Equal(k0.PublicKey(), k1.PublicKey()) {
		t.Error("different indices should derive different keys")
	}
}

func TestKeyring_PassphraseChangesKeys(t *testing.T) {
	kr1, err := NewKeyring(testMnemonic, "")
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}
	kr2, err := NewKeyring(testMnemonic, "trezor")
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}

	k1, _ := kr1.Derive(0)
	k2, _ := kr2.Derive(0)
	if bytes.Equal(k1.PublicKey(), k2.PublicKey()) {
		t.Error("passphrase should change derived keys")
	}
}

func TestNewKeyring_InvalidMnemonic(t *testing.T) {
	if _, err := NewKeyring("definitely not a mnemonic", ""); err == nil {
		t.Error("invalid mnemonic should fail")
	}
}

func TestNewKeyringFromSeed_WrongLength(t *testing.T) {
	if _, err := NewKeyringFromSeed(make([]byte, 32)); err == nil {
		t.Error("short seed should fail")
	}
}

func TestGenerateMnemonic(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	if !ValidateMnemonic(m) {
		t.Error("generated mnemonic should validate")
	}
}
