// Package pool implements the reserve/liquidity ledger and pricing engine
// for a multi-asset constant-product pool: deposits mint a fungible
// liquidity claim, redemptions burn it for a proportional share of every
// reserve, and swaps between any two pooled assets are priced by the
// constant-product curve with a basis-point fee.
package pool

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openpool/poold/pkg/cpamm"
	"github.com/openpool/poold/pkg/fixedpoint"
)

// maxAmountBits bounds externally supplied amounts and maxLedgerBits
// bounds stored reserves and total liquidity, so every ledger sum and
// every pricing product stays inside the 256-bit ledger integers.
const (
	maxAmountBits = 128
	maxLedgerBits = 255
)

func ledgerFits(cur, add sdkmath.Int) bool {
	return new(big.Int).Add(cur.BigInt(), add.BigInt()).BitLen() <= maxLedgerBits
}

// Custody moves value between external accounts and the pool's own
// holdings, and exposes the pool's observed balance per asset. Custody
// implementations must not call back into the pool; the reentrancy guard
// rejects such calls with ErrReentrantCall.
type Custody interface {
	Pull(asset, from common.Address, amount sdkmath.Int) error
	Push(asset, to common.Address, amount sdkmath.Int) error
	Balance(asset common.Address) sdkmath.Int
}

// PauseGate gates the ledger-affecting operations. Deposits, redemptions
// and swaps fail with ErrPoolPaused while the gate reports inactive; fee
// withdrawal is unaffected.
type PauseGate interface {
	IsActive() bool
}

// Pool is the engine. Every operation runs as a single indivisible step
// against the ledger: callers must serialize operations on one pool (the
// service layer holds a per-pool lock), and the guard converts any
// overlapping or reentrant entry into ErrReentrantCall rather than
// interleaved writes.
type Pool struct {
	mu      sync.RWMutex
	entered atomic.Bool

	assets  *AssetSet
	ledger  *Ledger
	feeBps  uint64
	custody Custody
	gate    PauseGate
	emitter Emitter
}

// New constructs a pool over a frozen asset set. A nil gate means never
// paused; a nil emitter discards events.
func New(assets *AssetSet, custody Custody, feeBps uint64, gate PauseGate, emitter Emitter) (*Pool, error) {
	if assets == nil || custody == nil {
		return nil, fmt.Errorf("%w: asset set and custody are required", ErrInvalidConfiguration)
	}
	if feeBps > cpamm.FeeDenominator {
		return nil, fmt.Errorf("%w: fee rate %d exceeds %d bps", ErrInvalidConfiguration, feeBps, cpamm.FeeDenominator)
	}
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &Pool{
		assets:  assets,
		ledger:  newLedger(assets.Count()),
		feeBps:  feeBps,
		custody: custody,
		gate:    gate,
		emitter: emitter,
	}, nil
}

func (p *Pool) acquire() error {
	if !p.entered.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	p.mu.Lock()
	return nil
}

func (p *Pool) release() {
	p.mu.Unlock()
	p.entered.Store(false)
}

func (p *Pool) active() bool {
	return p.gate == nil || p.gate.IsActive()
}

// AddLiquidity deposits assets and mints a liquidity claim to the
// provider. The first deposit into an empty pool must offer a positive
// amount of every asset and mints the geometric mean of the amounts; later
// deposits are priced proportionally against asset 0 and pull only the
// required amount per asset, rounded up. Returns the minted liquidity and
// the amounts actually pulled.
func (p *Pool) AddLiquidity(provider common.Address, amounts []sdkmath.Int) (sdkmath.Int, []sdkmath.Int, error) {
	if err := p.acquire(); err != nil {
		return sdkmath.Int{}, nil, err
	}
	defer p.release()

	if !p.active() {
		return sdkmath.Int{}, nil, ErrPoolPaused
	}
	n := p.assets.Count()
	if len(amounts) != n {
		return sdkmath.Int{}, nil, fmt.Errorf("%w: expected %d amounts, got %d", ErrInvalidInput, n, len(amounts))
	}
	for i, a := range amounts {
		if a.IsNil() || a.IsNegative() {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: amount %d is negative or unset", ErrInvalidInput, i)
		}
		if a.BigInt().BitLen() > maxAmountBits {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: amount %d exceeds %d bits", ErrInvalidInput, i, maxAmountBits)
		}
	}

	var minted sdkmath.Int
	pulls := make([]sdkmath.Int, n)
	total := p.ledger.Total()

	if total.IsZero() {
		xs := make([]*big.Int, n)
		for i, a := range amounts {
			if !a.IsPositive() {
				return sdkmath.Int{}, nil, fmt.Errorf("%w: bootstrap deposit requires a positive amount of every asset", ErrInvalidInput)
			}
			xs[i] = a.BigInt()
		}
		g, err := fixedpoint.GeometricMean(xs)
		if err != nil {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: geometric mean: %v", ErrArithmeticInvariant, err)
		}
		minted = sdkmath.NewIntFromBigInt(g)
		if !minted.IsPositive() {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: bootstrap mint is zero", ErrArithmeticInvariant)
		}
		copy(pulls, amounts)
	} else {
		var err error
		minted, err = cpamm.ProportionalMint(total, amounts[0], p.ledger.Reserve(0))
		if err != nil {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !minted.IsPositive() {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: deposit too small to mint liquidity", ErrArithmeticInvariant)
		}
		for i := 0; i < n; i++ {
			required, err := cpamm.RequiredDeposit(p.ledger.Reserve(i), minted, total)
			if err != nil {
				return sdkmath.Int{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			if amounts[i].LT(required) {
				return sdkmath.Int{}, nil, fmt.Errorf("%w: asset %d needs %s, offered %s", ErrInsufficientInput, i, required, amounts[i])
			}
			pulls[i] = required
		}
	}

	if !ledgerFits(total, minted) {
		return sdkmath.Int{}, nil, fmt.Errorf("%w: total liquidity limit reached", ErrInvalidInput)
	}
	for i := 0; i < n; i++ {
		if !ledgerFits(p.ledger.Reserve(i), pulls[i]) {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: reserve limit reached for asset %d", ErrInvalidInput, i)
		}
	}

	for i := 0; i < n; i++ {
		if pulls[i].IsZero() {
			continue
		}
		if err := p.custody.Pull(p.assets.At(i), provider, pulls[i]); err != nil {
			p.refund(provider, pulls[:i])
			return sdkmath.Int{}, nil, fmt.Errorf("%w: pull asset %d: %v", ErrTransferFailed, i, err)
		}
	}

	for i := 0; i < n; i++ {
		p.ledger.credit(i, pulls[i])
	}
	p.ledger.mint(provider, minted)

	p.emitter.LiquidityAdded(provider, append([]sdkmath.Int(nil), pulls...), minted)
	return minted, pulls, nil
}

// refund returns already-pulled amounts after a mid-sequence pull failure.
// The custody holds the value either way; push errors here leave it parked
// in custody as surplus rather than losing it.
func (p *Pool) refund(provider common.Address, pulled []sdkmath.Int) {
	for i, amt := range pulled {
		if amt.IsZero() {
			continue
		}
		_ = p.custody.Push(p.assets.At(i), provider, amt)
	}
}

// RemoveLiquidity burns part of the provider's claim and pays out the
// proportional share of every reserve, rounded down. Burning the entire
// outstanding liquidity drains every reserve to exactly zero.
func (p *Pool) RemoveLiquidity(provider common.Address, liquidity sdkmath.Int) ([]sdkmath.Int, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	if !p.active() {
		return nil, ErrPoolPaused
	}
	if liquidity.IsNil() || !liquidity.IsPositive() {
		return nil, fmt.Errorf("%w: liquidity must be positive", ErrInvalidInput)
	}
	balance := p.ledger.BalanceOf(provider)
	if balance.LT(liquidity) {
		return nil, fmt.Errorf("%w: holder has %s, redeeming %s", ErrInsufficientBalance, balance, liquidity)
	}

	total := p.ledger.Total()
	n := p.assets.Count()
	outs := make([]sdkmath.Int, n)
	for i := 0; i < n; i++ {
		outs[i] = cpamm.RedeemShare(p.ledger.Reserve(i), liquidity, total)
	}

	// All ledger mutations land before any value leaves custody.
	for i := 0; i < n; i++ {
		if err := p.ledger.debit(i, outs[i]); err != nil {
			for j := 0; j < i; j++ {
				p.ledger.credit(j, outs[j])
			}
			return nil, fmt.Errorf("%w: %v", ErrArithmeticInvariant, err)
		}
	}
	if err := p.ledger.burn(provider, liquidity); err != nil {
		for i := 0; i < n; i++ {
			p.ledger.credit(i, outs[i])
		}
		return nil, fmt.Errorf("%w: %v", ErrArithmeticInvariant, err)
	}

	for i := 0; i < n; i++ {
		if outs[i].IsZero() {
			continue
		}
		if err := p.custody.Push(p.assets.At(i), provider, outs[i]); err != nil {
			return nil, p.compensateRedeem(provider, outs, liquidity, i, err)
		}
	}

	p.emitter.LiquidityRemoved(provider, append([]sdkmath.Int(nil), outs...), liquidity)
	return outs, nil
}

// compensateRedeem unwinds a redemption after the push of asset `failed`
// was rejected. Assets already pushed are pulled back and their reserves
// restored along with the untouched ones; the provider's claim is
// re-minted in full. A claw-back that itself fails leaves that share with
// the provider and its reserve debited, so the ledger never records value
// the custody no longer holds; the double failure is reported as
// ErrCompensationFailed instead of ErrTransferFailed.
func (p *Pool) compensateRedeem(provider common.Address, outs []sdkmath.Int, liquidity sdkmath.Int, failed int, pushErr error) error {
	var lost []int
	for j := range outs {
		if outs[j].IsZero() {
			continue
		}
		if j < failed {
			if err := p.custody.Pull(p.assets.At(j), provider, outs[j]); err != nil {
				lost = append(lost, j)
				continue
			}
		}
		p.ledger.credit(j, outs[j])
	}
	p.ledger.mint(provider, liquidity)

	if len(lost) > 0 {
		return fmt.Errorf("%w: push asset %d failed (%v) and claw-back failed for assets %v, which remain paid out", ErrCompensationFailed, failed, pushErr, lost)
	}
	return fmt.Errorf("%w: push asset %d: %v", ErrTransferFailed, failed, pushErr)
}

// Swap exchanges amountIn of one pooled asset for the other at the
// constant-product price after the fee. The output is computed against the
// pre-swap reserves; the full input amount is credited to the input
// reserve, so the fee accrues to liquidity holders through the curve.
func (p *Pool) Swap(trader common.Address, assetIn, assetOut int, amountIn, minAmountOut sdkmath.Int) (sdkmath.Int, error) {
	if err := p.acquire(); err != nil {
		return sdkmath.Int{}, err
	}
	defer p.release()

	if !p.active() {
		return sdkmath.Int{}, ErrPoolPaused
	}
	if !p.assets.Valid(assetIn) || !p.assets.Valid(assetOut) {
		return sdkmath.Int{}, fmt.Errorf("%w: asset index out of range", ErrInvalidInput)
	}
	if assetIn == assetOut {
		return sdkmath.Int{}, fmt.Errorf("%w: cannot swap an asset for itself", ErrInvalidInput)
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("%w: amount in must be positive", ErrInvalidInput)
	}
	if amountIn.BigInt().BitLen() > maxAmountBits {
		return sdkmath.Int{}, fmt.Errorf("%w: amount in exceeds %d bits", ErrInvalidInput, maxAmountBits)
	}
	if minAmountOut.IsNil() || minAmountOut.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("%w: min amount out must not be negative", ErrInvalidInput)
	}

	rIn := p.ledger.Reserve(assetIn)
	rOut := p.ledger.Reserve(assetOut)
	if rIn.IsZero() || rOut.IsZero() {
		return sdkmath.Int{}, fmt.Errorf("%w: empty reserve", ErrInsufficientLiquidity)
	}
	if !ledgerFits(rIn, amountIn) {
		return sdkmath.Int{}, fmt.Errorf("%w: reserve limit reached", ErrInvalidInput)
	}

	out := cpamm.AmountOut(amountIn, rIn, rOut, p.feeBps)
	if out.LT(minAmountOut) {
		return sdkmath.Int{}, fmt.Errorf("%w: amount out %s below minimum %s", ErrSlippageExceeded, out, minAmountOut)
	}
	if out.GT(rOut) {
		// Structurally impossible under the formula, checked anyway.
		return sdkmath.Int{}, fmt.Errorf("%w: output exceeds reserve", ErrInsufficientLiquidity)
	}

	if err := p.custody.Pull(p.assets.At(assetIn), trader, amountIn); err != nil {
		return sdkmath.Int{}, fmt.Errorf("%w: pull: %v", ErrTransferFailed, err)
	}

	// revert undoes the two reserve writes and returns the pulled input.
	revert := func(debited bool) {
		if debited {
			p.ledger.credit(assetOut, out)
		}
		_ = p.ledger.debit(assetIn, amountIn)
		_ = p.custody.Push(p.assets.At(assetIn), trader, amountIn)
	}

	p.ledger.credit(assetIn, amountIn)
	if err := p.ledger.debit(assetOut, out); err != nil {
		revert(false)
		return sdkmath.Int{}, fmt.Errorf("%w: %v", ErrArithmeticInvariant, err)
	}

	// The fee-adjusted product for the touched pair must not decrease.
	pre := rIn.Mul(rOut)
	post := p.ledger.Reserve(assetIn).Mul(p.ledger.Reserve(assetOut))
	if post.LT(pre) {
		revert(true)
		return sdkmath.Int{}, fmt.Errorf("%w: invariant product decreased", ErrArithmeticInvariant)
	}

	if !out.IsZero() {
		if err := p.custody.Push(p.assets.At(assetOut), trader, out); err != nil {
			revert(true)
			return sdkmath.Int{}, fmt.Errorf("%w: push: %v", ErrTransferFailed, err)
		}
	}

	p.emitter.Swap(trader, p.assets.At(assetIn), p.assets.At(assetOut), amountIn, out)
	return out, nil
}

// WithdrawFees skims the surplus of one asset — custody balance above the
// recorded reserve — to the given account. Reserves are never touched.
// Works while the pool is paused.
func (p *Pool) WithdrawFees(asset int, to common.Address) (sdkmath.Int, error) {
	if err := p.acquire(); err != nil {
		return sdkmath.Int{}, err
	}
	defer p.release()

	if !p.assets.Valid(asset) {
		return sdkmath.Int{}, fmt.Errorf("%w: asset index out of range", ErrInvalidInput)
	}
	observed := p.custody.Balance(p.assets.At(asset))
	reserve := p.ledger.Reserve(asset)
	if observed.LT(reserve) {
		return sdkmath.Int{}, fmt.Errorf("%w: custody balance %s below reserve %s", ErrArithmeticInvariant, observed, reserve)
	}
	surplus := observed.Sub(reserve)
	if !surplus.IsPositive() {
		return sdkmath.Int{}, ErrNoFeesAvailable
	}
	if err := p.custody.Push(p.assets.At(asset), to, surplus); err != nil {
		return sdkmath.Int{}, fmt.Errorf("%w: push: %v", ErrTransferFailed, err)
	}
	return surplus, nil
}

// RequiredAmounts previews a proportional deposit referenced against asset
// 0 without mutating state: the liquidity that would be minted and the
// amount of every asset the deposit would pull.
func (p *Pool) RequiredAmounts(reference sdkmath.Int) (sdkmath.Int, []sdkmath.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	total := p.ledger.Total()
	if total.IsZero() {
		return sdkmath.Int{}, nil, ErrEmptyPool
	}
	if reference.IsNil() || !reference.IsPositive() {
		return sdkmath.Int{}, nil, fmt.Errorf("%w: reference amount must be positive", ErrInvalidInput)
	}
	if reference.BigInt().BitLen() > maxAmountBits {
		return sdkmath.Int{}, nil, fmt.Errorf("%w: reference amount exceeds %d bits", ErrInvalidInput, maxAmountBits)
	}
	minted, err := cpamm.ProportionalMint(total, reference, p.ledger.Reserve(0))
	if err != nil {
		return sdkmath.Int{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !minted.IsPositive() {
		return sdkmath.Int{}, nil, fmt.Errorf("%w: reference amount too small", ErrArithmeticInvariant)
	}
	n := p.assets.Count()
	required := make([]sdkmath.Int, n)
	for i := 0; i < n; i++ {
		required[i], err = cpamm.RequiredDeposit(p.ledger.Reserve(i), minted, total)
		if err != nil {
			return sdkmath.Int{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return minted, required, nil
}

// SetFeeRate replaces the swap fee. The engine takes the rate as plain
// configuration; admin gating belongs to the caller.
func (p *Pool) SetFeeRate(bps uint64) error {
	if bps > cpamm.FeeDenominator {
		return fmt.Errorf("%w: fee rate %d exceeds %d bps", ErrInvalidInput, bps, cpamm.FeeDenominator)
	}
	p.mu.Lock()
	p.feeBps = bps
	p.mu.Unlock()
	p.emitter.FeeRateUpdated(bps)
	return nil
}

// FeeRate returns the current swap fee in basis points.
func (p *Pool) FeeRate() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.feeBps
}

// Assets returns the pool's asset set.
func (p *Pool) Assets() *AssetSet { return p.assets }

// AssetIndex resolves an asset identifier to its index in the set.
func (p *Pool) AssetIndex(asset common.Address) (int, bool) {
	return p.assets.Index(asset)
}

// Reserves returns a snapshot of the recorded reserves.
func (p *Pool) Reserves() []sdkmath.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Reserves()
}

// TotalLiquidity returns the outstanding liquidity.
func (p *Pool) TotalLiquidity() sdkmath.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Total()
}

// LiquidityOf returns a holder's liquidity claim.
func (p *Pool) LiquidityOf(holder common.Address) sdkmath.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.BalanceOf(holder)
}
