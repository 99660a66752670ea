package crypto

import (
	"testing"

	"github.com/thistlenet/thistle-sim/pkg/types"
)

func TestHash_Deterministic(t *testing.T) {
	data := []byte("thistle")
	h1 := Hash(data)
	h2 := Hash(data)
	if h1 != h2 {
		t.Error("Hash() should be deterministic")
	}
	if h1.IsZero() {
		t.Error("Hash() of non-empty data should not be zero")
	}
}

func TestHash_DifferentInputs(t *testing.T) {
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("different inputs should produce different hashes")
	}
}

func TestHashConcat(t *testing.T) {
	a := Hash([]byte("left"))
	b := Hash([]byte("right"))

	if HashConcat(a, b) != HashConcat(a, b) {
		t.Error("HashConcat should be deterministic")
	}
	if HashConcat(a, b) == HashConcat(b, a) {
		t.Error("HashConcat should be order-sensitive")
	}

	// Must match hashing the raw concatenation.
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	if HashConcat(a, b) != Hash(buf[:]) {
		t.Error("HashConcat should equal Hash(a||b)")
	}
}

func TestHash_ZeroInput(t *testing.T) {
	var h types.Hash = Hash(nil)
	if h.IsZero() {
		t.Error("BLAKE3 of empty input is a defined non-zero value")
	}
}
