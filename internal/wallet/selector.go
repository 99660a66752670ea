package wallet

import (
	"errors"
	"fmt"

	"github.com/thistlenet/thistle-sim/pkg/coin"
)

// ErrInsufficientFunds reports that the candidate coins cannot cover a
// requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Selector picks coins covering a target amount from a stream of
// candidates. It keeps a working set sorted by descending amount and,
// after each insertion, evicts the smallest kept coin while the rest
// still covers the target. The policy is greedy and online: the result
// is whatever set the stream settles on, not a globally minimal cover.
// Downstream merge behavior depends on this exact policy, so it must
// not be replaced by a true minimal-subset search.
type Selector struct {
	target uint64
	total  uint64
	kept   []coin.Coin
}

// NewSelector creates a selector for the given target amount.
func NewSelector(target uint64) *Selector {
	return &Selector{target: target}
}

// Add offers one candidate coin to the selector.
func (s *Selector) Add(c coin.Coin) {
	// Insert before the first strictly smaller coin; equal amounts
	// keep their arrival order.
	i := 0
	for i < len(s.kept) && s.kept[i].Amount >= c.Amount {
		i++
	}
	s.kept = append(s.kept, coin.Coin{})
	copy(s.kept[i+1:], s.kept[i:])
	s.kept[i] = c
	s.total += c.Amount

	for n := len(s.kept); n > 0; n = len(s.kept) {
		smallest := s.kept[n-1].Amount
		if s.total-smallest < s.target {
			break
		}
		s.kept = s.kept[:n-1]
		s.total -= smallest
	}
}

// Funded reports whether the working set covers the target.
func (s *Selector) Funded() bool {
	return s.total >= s.target
}

// Result returns the kept coins, largest first, and their total.
func (s *Selector) Result() ([]coin.Coin, uint64) {
	return s.kept, s.total
}

// Select runs the selector over candidates in their given order and
// returns the coins it settles on. Candidates must already be in the
// caller's deterministic order. Returns ErrInsufficientFunds when the
// candidates' total falls short of target.
func Select(candidates []coin.Coin, target uint64) ([]coin.Coin, error) {
	s := NewSelector(target)
	for _, c := range candidates {
		s.Add(c)
	}
	selected, total := s.Result()
	if total < target {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, total, target)
	}
	return selected, nil
}
