package crypto

import (
	"bytes"
	"testing"
)

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	digest := Hash([]byte("message"))
	sig, err := key.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != SignatureSize {
		t.Errorf("signature length = %d, want %d", len(sig), SignatureSize)
	}

	if !VerifySignature(digest[:], sig, key.PublicKey()) {
		t.Error("signature should verify")
	}

	other := Hash([]byte("other message"))
	if VerifySignature(other[:], sig, key.PublicKey()) {
		t.Error("signature should not verify against a different digest")
	}
}

func TestSign_RejectsBadHashLength(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if _, err := key.Sign([]byte("short")); err == nil {
		t.Error("signing a non-32-byte digest should fail")
	}
}

func TestVerifySignature_WrongKey(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()

	digest := Hash([]byte("message"))
	sig, err := key1.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if VerifySignature(digest[:], sig, key2.PublicKey()) {
		t.Error("signature should not verify under another key")
	}
}

func TestVerifySignature_Garbage(t *testing.T) {
	digest := Hash([]byte("message"))
	if VerifySignature(digest[:], []byte("garbage"), []byte("not a key")) {
		t.Error("garbage inputs should not verify")
	}
}

func TestPrivateKeyFromBytes_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	restored, err := PrivateKeyFromBytes(key.Serialize())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	if !bytes.Equal(restored.PublicKey(), key.PublicKey()) {
		t.Error("restored key should have the same public key")
	}

	if _, err := PrivateKeyFromBytes([]byte("short")); err == nil {
		t.Error("wrong-length secret should fail")
	}
}

func TestAggregate_SplitRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	var sigs [][]byte
	for _, msg := range []string{"one", "two", "three"} {
		digest := Hash([]byte(msg))
		sig, err := key.Sign(digest[:])
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		sigs = append(sigs, sig)
	}

	agg, err := Aggregate(sigs)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(agg) != 3*SignatureSize {
		t.Errorf("aggregate length = %d, want %d", len(agg), 3*SignatureSize)
	}

	split, err := SplitAggregate(agg, 3)
	if err != nil {
		t.Fatalf("SplitAggregate: %v", err)
	}
	for i := range sigs {
		if !bytes.Equal(split[i], sigs[i]) {
			t.Errorf("signature %d altered by aggregate round trip", i)
		}
	}
}

func TestSplitAggregate_WrongCount(t *testing.T) {
	if _, err := SplitAggregate(make([]byte, SignatureSize), 2); err == nil {
		t.Error("splitting with wrong count should fail")
	}
}

func TestAggregate_RejectsBadLength(t *testing.T) {
	if _, err := Aggregate([][]byte{[]byte("short")}); err == nil {
		t.Error("aggregating a malformed signature should fail")
	}
}
