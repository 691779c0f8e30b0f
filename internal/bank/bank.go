// Package bank provides an in-memory asset custody: external account
// balances plus the pool's own holdings, moved by pull/push transfers.
// It is the engine's AssetTransfer collaborator; a real deployment would
// replace it with a token or native-currency transport behind the same
// interface.
package bank

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid transfer amount")
	ErrBalanceOverflow   = errors.New("balance limit exceeded")
)

// maxBalanceBits bounds every stored balance so additions can never
// overflow the 256-bit ledger integers.
const maxBalanceBits = 255

type balanceKey struct {
	asset  common.Address
	holder common.Address
}

// Bank tracks per-asset account balances and the pool custody balance.
// All methods are safe for concurrent use.
type Bank struct {
	mu       sync.Mutex
	accounts map[balanceKey]sdkmath.Int
	custody  map[common.Address]sdkmath.Int
}

func New() *Bank {
	return &Bank{
		accounts: make(map[balanceKey]sdkmath.Int),
		custody:  make(map[common.Address]sdkmath.Int),
	}
}

// Deposit credits an external account. This is the funding surface used by
// the development faucet and tests.
func (b *Bank) Deposit(asset, to common.Address, amount sdkmath.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	k := balanceKey{asset, to}
	next, err := checkedAdd(b.account(k), amount)
	if err != nil {
		return fmt.Errorf("%w: account %s of %s", err, to.Hex(), asset.Hex())
	}
	b.accounts[k] = next
	return nil
}

// DepositCustody credits the pool's own holdings directly, without touching
// any reserve. Balance pushed in this way shows up as withdrawable fee
// surplus.
func (b *Bank) DepositCustody(asset common.Address, amount sdkmath.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := checkedAdd(b.poolBalance(asset), amount)
	if err != nil {
		return fmt.Errorf("%w: custody of %s", err, asset.Hex())
	}
	b.custody[asset] = next
	return nil
}

// Pull moves amount of asset from an external account into pool custody.
func (b *Bank) Pull(asset, from common.Address, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if amount.IsZero() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	k := balanceKey{asset, from}
	have := b.account(k)
	if have.LT(amount) {
		return fmt.Errorf("%w: %s holds %s of %s, pulling %s", ErrInsufficientFunds, from.Hex(), have, asset.Hex(), amount)
	}
	next, err := checkedAdd(b.poolBalance(asset), amount)
	if err != nil {
		return fmt.Errorf("%w: custody of %s", err, asset.Hex())
	}
	b.accounts[k] = have.Sub(amount)
	b.custody[asset] = next
	return nil
}

// Push moves amount of asset from pool custody to an external account.
func (b *Bank) Push(asset, to common.Address, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if amount.IsZero() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	have := b.poolBalance(asset)
	if have.LT(amount) {
		return fmt.Errorf("%w: custody holds %s of %s, pushing %s", ErrInsufficientFunds, have, asset.Hex(), amount)
	}
	k := balanceKey{asset, to}
	next, err := checkedAdd(b.account(k), amount)
	if err != nil {
		return fmt.Errorf("%w: account %s of %s", err, to.Hex(), asset.Hex())
	}
	b.custody[asset] = have.Sub(amount)
	b.accounts[k] = next
	return nil
}

// Balance returns the pool's observed holdings of one asset.
func (b *Bank) Balance(asset common.Address) sdkmath.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.poolBalance(asset)
}

// BalanceOf returns an external account's balance of one asset.
func (b *Bank) BalanceOf(asset, holder common.Address) sdkmath.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.account(balanceKey{asset, holder})
}

func (b *Bank) account(k balanceKey) sdkmath.Int {
	if v, ok := b.accounts[k]; ok {
		return v
	}
	return sdkmath.ZeroInt()
}

func (b *Bank) poolBalance(asset common.Address) sdkmath.Int {
	if v, ok := b.custody[asset]; ok {
		return v
	}
	return sdkmath.ZeroInt()
}

// checkedAdd sums in arbitrary precision and rejects results beyond the
// balance bound, so no stored value can ever overflow a later addition.
func checkedAdd(cur, amount sdkmath.Int) (sdkmath.Int, error) {
	sum := new(big.Int).Add(cur.BigInt(), amount.BigInt())
	if sum.BitLen() > maxBalanceBits {
		return sdkmath.Int{}, ErrBalanceOverflow
	}
	return sdkmath.NewIntFromBigInt(sum), nil
}
