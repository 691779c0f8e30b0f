package pool

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Ledger is the authoritative record of per-asset reserves, total
// outstanding liquidity, and per-holder liquidity claims. Its four
// mutators are the only writes the engine performs; they keep every
// quantity non-negative and the claim sum equal to the total.
type Ledger struct {
	reserves []sdkmath.Int
	total    sdkmath.Int
	balances map[common.Address]sdkmath.Int
}

func newLedger(assetCount int) *Ledger {
	reserves := make([]sdkmath.Int, assetCount)
	for i := range reserves {
		reserves[i] = sdkmath.ZeroInt()
	}
	return &Ledger{
		reserves: reserves,
		total:    sdkmath.ZeroInt(),
		balances: make(map[common.Address]sdkmath.Int),
	}
}

// Reserve returns the recorded reserve for one asset index.
func (l *Ledger) Reserve(i int) sdkmath.Int { return l.reserves[i] }

// Reserves returns a copy of all recorded reserves.
func (l *Ledger) Reserves() []sdkmath.Int {
	return append([]sdkmath.Int(nil), l.reserves...)
}

// Total returns the outstanding liquidity.
func (l *Ledger) Total() sdkmath.Int { return l.total }

// BalanceOf returns a holder's liquidity claim; absent holders hold zero.
func (l *Ledger) BalanceOf(holder common.Address) sdkmath.Int {
	if b, ok := l.balances[holder]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}

func (l *Ledger) credit(i int, amount sdkmath.Int) {
	l.reserves[i] = l.reserves[i].Add(amount)
}

func (l *Ledger) debit(i int, amount sdkmath.Int) error {
	if l.reserves[i].LT(amount) {
		return fmt.Errorf("%w: asset %d has %s, debit %s", ErrInsufficientReserve, i, l.reserves[i], amount)
	}
	l.reserves[i] = l.reserves[i].Sub(amount)
	return nil
}

func (l *Ledger) mint(holder common.Address, amount sdkmath.Int) {
	l.balances[holder] = l.BalanceOf(holder).Add(amount)
	l.total = l.total.Add(amount)
}

func (l *Ledger) burn(holder common.Address, amount sdkmath.Int) error {
	b := l.BalanceOf(holder)
	if b.LT(amount) {
		return fmt.Errorf("%w: holder %s has %s, burn %s", ErrInsufficientBalance, holder.Hex(), b, amount)
	}
	remaining := b.Sub(amount)
	if remaining.IsZero() {
		delete(l.balances, holder)
	} else {
		l.balances[holder] = remaining
	}
	l.total = l.total.Sub(amount)
	return nil
}
