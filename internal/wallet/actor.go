// Package wallet implements actors: key-holding wallets that select,
// merge, and spend the coins locked to their standard script. Actors
// construct and sign spend bundles and submit them through a Network,
// never touching the ledger service directly.
package wallet

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/thistlenet/thistle-sim/internal/log"
	"github.com/thistlenet/thistle-sim/pkg/coin"
	"github.com/thistlenet/thistle-sim/pkg/crypto"
	"github.com/thistlenet/thistle-sim/pkg/spend"
	"github.com/thistlenet/thistle-sim/pkg/types"
)

// Actor owns a key pair and a view of the unspent coins locked to its
// standard pay-to-pubkey script. The view is maintained by the session
// after every committed step.
type Actor struct {
	name             string
	network          Network
	genesisChallenge types.Hash
	key              *crypto.PrivateKey
	puzzle           types.Script
	puzzleHash       types.Hash
	coins            map[types.Hash]coin.Coin
	logger           zerolog.Logger
}

// NewActor creates an actor around a derived private key.
func NewActor(network Network, name string, key *crypto.PrivateKey, genesisChallenge types.Hash) *Actor {
	puzzle := coin.P2PKScript(key.PublicKey())
	return &Actor{
		name:             name,
		network:          network,
		genesisChallenge: genesisChallenge,
		key:              key,
		puzzle:           puzzle,
		puzzleHash:       coin.ScriptHash(puzzle),
		coins:            make(map[types.Hash]coin.Coin),
		logger:           log.Wallet.With().Str("actor", name).Logger(),
	}
}

// Name returns the actor's session-unique name.
func (a *Actor) Name() string {
	return a.name
}

// PublicKey returns the actor's compressed public key.
func (a *Actor) PublicKey() []byte {
	return a.key.PublicKey()
}

// Puzzle returns the actor's standard locking script.
func (a *Actor) Puzzle() types.Script {
	return a.puzzle
}

// PuzzleHash returns the hash of the actor's standard locking script.
func (a *Actor) PuzzleHash() types.Hash {
	return a.puzzleHash
}

// Balance sums the actor's unspent coin amounts.
func (a *Actor) Balance() uint64 {
	var total uint64
	for _, c := range a.coins {
		total += c.Amount
	}
	return total
}

// CoinCount returns the number of unspent coins the actor sees.
func (a *Actor) CoinCount() int {
	return len(a.coins)
}

// Coins returns the actor's unspent coins sorted by coin ID, so every
// selection pass sees candidates in the same order.
func (a *Actor) Coins() []coin.Coin {
	ids := make([]types.Hash, 0, len(a.coins))
	for id := range a.coins {
		ids = append(ids, id)
	}
	sortHashes(ids)
	coins := make([]coin.Coin, 0, len(ids))
	for _, id := range ids {
		coins = append(coins, a.coins[id])
	}
	return coins
}

func sortHashes(hashes []types.Hash) {
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})
}

// SetCoins replaces the actor's view of its unspent set. The session
// calls this after every committed step.
func (a *Actor) SetCoins(coins []coin.Coin) {
	a.coins = make(map[types.Hash]coin.Coin, len(coins))
	for _, c := range coins {
		a.coins[c.ID()] = c
	}
}

// ChooseCoin returns one coin whose amount is at least the requested
// amount, merging smaller coins on the ledger until such a coin exists.
// Every merge strictly shrinks the coin count, so the loop is bounded
// by the count at entry.
func (a *Actor) ChooseCoin(amount uint64) (coin.Coin, error) {
	if amount == 0 {
		return coin.Coin{}, fmt.Errorf("%s: choose amount must be positive", a.name)
	}
	for attempts := a.CoinCount(); attempts > 0; attempts-- {
		selected, err := Select(a.Coins(), amount)
		if err != nil {
			return coin.Coin{}, fmt.Errorf("%s: %w", a.name, err)
		}
		if len(selected) == 1 {
			return selected[0], nil
		}
		if err := a.CombineCoins(selected); err != nil {
			return coin.Coin{}, err
		}
	}
	return coin.Coin{}, fmt.Errorf("%s: %w", a.name, ErrInsufficientFunds)
}

// CombineCoins merges the given coins into a single coin of their
// summed value, locked back to the actor. The merge is atomic: every
// donor spend asserts an announcement that only the final spend
// creates, so the ledger consumes all inputs or none.
func (a *Actor) CombineCoins(coins []coin.Coin) error {
	if len(coins) < 2 {
		return fmt.Errorf("combine needs at least two coins, got %d", len(coins))
	}
	var total uint64
	for _, c := range coins {
		if c.PuzzleHash != a.puzzleHash {
			return fmt.Errorf("coin %s is not locked to %s", c.ID().Short(), a.name)
		}
		total += c.Amount
	}

	// Predict the merged coin before constructing any spend. The
	// announcement couples every donor to the spend that creates it.
	anchor := coins[len(coins)-1]
	merged := coin.New(anchor.ID(), a.puzzleHash, total)
	coupon := spend.AnnouncementID(anchor.ID(), merged.ID())

	balanceBefore := a.Balance()
	countBefore := a.CoinCount()

	builder := spend.NewBuilder(a.genesisChallenge)
	for _, c := range coins[:len(coins)-1] {
		builder.AddSpend(c, a.puzzle, []spend.Condition{
			spend.AssertAnnouncement(coupon),
		})
	}
	builder.AddSpend(anchor, a.puzzle, []spend.Condition{
		spend.CreateAnnouncement(merged.ID()),
		spend.CreateCoin(a.puzzleHash, total),
	})

	bundle, err := builder.Sign(a.key)
	if err != nil {
		return fmt.Errorf("sign combine: %w", err)
	}

	a.logger.Debug().
		Int("inputs", len(coins)).
		Uint64("total", total).
		Str("merged", merged.ID().Short()).
		Msg("combining coins")

	res, err := a.network.PushTx(bundle)
	if err != nil {
		return fmt.Errorf("push combine: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("combine rejected: %s", res.Error)
	}

	if got := a.Balance(); got != balanceBefore {
		return fmt.Errorf("combine changed balance: %d before, %d after", balanceBefore, got)
	}
	if want := countBefore - (len(coins) - 1); a.CoinCount() != want {
		return fmt.Errorf("combine left %d coins, want %d", a.CoinCount(), want)
	}
	return nil
}

// SpendOptions configures SpendCoin. The zero value transfers one unit
// back to the actor itself.
type SpendOptions struct {
	// Amount is the value to transfer. Zero means 1.
	Amount uint64
	// To receives the transferred value. Unset means the actor itself.
	To Recipient
	// Remainder receives any coin value beyond Amount. When the coin is
	// larger than Amount and Remainder is unset, the bundle creates less
	// value than it consumes and the ledger rejects it.
	Remainder Recipient
	// Conditions bypasses the value-transfer defaults and passes the
	// given script conditions through verbatim. Mutually exclusive with
	// Amount, To, and Remainder; this is the escape hatch for driving
	// non-standard contract coins.
	Conditions []spend.Condition
}

// SpendCoin builds, signs, and pushes a single-spend bundle consuming c.
func (a *Actor) SpendCoin(c coin.Coin, opts SpendOptions) (*SpendResult, error) {
	if c.PuzzleHash != a.puzzleHash {
		return nil, fmt.Errorf("coin %s is not locked to %s", c.ID().Short(), a.name)
	}

	conditions := opts.Conditions
	if conditions != nil {
		if opts.Amount != 0 || opts.To.isSet() || opts.Remainder.isSet() {
			return nil, fmt.Errorf("explicit conditions exclude amount and recipients")
		}
	} else {
		amount := opts.Amount
		if amount == 0 {
			amount = 1
		}
		if amount > c.Amount {
			return nil, fmt.Errorf("coin %s holds %d, cannot transfer %d", c.ID().Short(), c.Amount, amount)
		}
		target, err := opts.To.resolve(a.puzzleHash)
		if err != nil {
			return nil, err
		}
		conditions = []spend.Condition{spend.CreateCoin(target, amount)}
		if opts.Remainder.isSet() {
			change, err := opts.Remainder.resolve(a.puzzleHash)
			if err != nil {
				return nil, err
			}
			if c.Amount > amount {
				conditions = append(conditions, spend.CreateCoin(change, c.Amount-amount))
			}
		}
	}

	bundle, err := spend.NewBuilder(a.genesisChallenge).
		AddSpend(c, a.puzzle, conditions).
		Sign(a.key)
	if err != nil {
		return nil, fmt.Errorf("sign spend: %w", err)
	}
	return a.network.PushTx(bundle)
}

// LaunchContract funds a new contract-locked coin of the given amount.
// It returns the predicted contract coin on success and (nil, nil) when
// the ledger rejects the transaction, so callers can branch on the
// outcome directly. It returns an error only when the attempt cannot be
// made at all, such as insufficient funds.
func (a *Actor) LaunchContract(contract *coin.Contract, amount uint64) (*coin.Coin, error) {
	if contract == nil {
		return nil, ErrInvalidRecipient
	}
	funding, res, err := a.transferFrom(contract.PuzzleHash(), amount)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		a.logger.Debug().Str("reason", res.Error).Msg("contract launch rejected")
		return nil, nil
	}
	created := contract.Child(funding, amount)
	return &created, nil
}

// Give transfers amount to another actor's standard script. Like
// LaunchContract it returns the coin now owned by target, or (nil, nil)
// on ledger rejection.
func (a *Actor) Give(target *Actor, amount uint64) (*coin.Coin, error) {
	if target == nil {
		return nil, ErrInvalidRecipient
	}
	funding, res, err := a.transferFrom(target.puzzleHash, amount)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		a.logger.Debug().Str("reason", res.Error).Msg("transfer rejected")
		return nil, nil
	}
	created := coin.New(funding.ID(), target.puzzleHash, amount)
	return &created, nil
}

// transferFrom selects a funding coin covering amount and spends it,
// sending amount to target and any excess back to the actor.
func (a *Actor) transferFrom(target types.Hash, amount uint64) (coin.Coin, *SpendResult, error) {
	funding, err := a.ChooseCoin(amount)
	if err != nil {
		return coin.Coin{}, nil, err
	}

	conditions := []spend.Condition{spend.CreateCoin(target, amount)}
	if funding.Amount > amount {
		conditions = append(conditions, spend.CreateCoin(a.puzzleHash, funding.Amount-amount))
	}

	bundle, err := spend.NewBuilder(a.genesisChallenge).
		AddSpend(funding, a.puzzle, conditions).
		Sign(a.key)
	if err != nil {
		return coin.Coin{}, nil, fmt.Errorf("sign transfer: %w", err)
	}
	res, err := a.network.PushTx(bundle)
	if err != nil {
		return coin.Coin{}, nil, err
	}
	return funding, res, nil
}
