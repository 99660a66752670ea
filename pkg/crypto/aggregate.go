package crypto

import "fmt"

// Aggregate combines per-spend Schnorr signatures into a single bundle
// signature. Signature order must match spend order; verification splits
// the aggregate back along the same order.
func Aggregate(sigs [][]byte) ([]byte, error) {
	out := make([]byte, 0, len(sigs)*SignatureSize)
	for i, sig := range sigs {
		if len(sig) != SignatureSize {
			return nil, fmt.Errorf("signature %d is %d bytes, want %d", i, len(sig), SignatureSize)
		}
		out = append(out, sig...)
	}
	return out, nil
}

// SplitAggregate recovers the individual signatures from an aggregate.
// Returns an error if the aggregate does not hold exactly n signatures.
func SplitAggregate(agg []byte, n int) ([][]byte, error) {
	if len(agg) != n*SignatureSize {
		return nil, fmt.Errorf("aggregate is %d bytes, want %d for %d signatures", len(agg), n*SignatureSize, n)
	}
	sigs := make([][]byte, n)
	for i := 0; i < n; i++ {
		sigs[i] = agg[i*SignatureSize : (i+1)*SignatureSize]
	}
	return sigs, nil
}
