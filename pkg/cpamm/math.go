// Package cpamm holds the constant-product pricing and proportional-share
// arithmetic used by the pool engine. All functions are pure: callers pass
// reserve snapshots in and apply the results themselves. Intermediate
// products are taken in arbitrary precision, so no argument combination
// can overflow mid-computation; results that cannot be represented as a
// ledger integer are reported as ErrAmountOverflow.
package cpamm

import (
	"errors"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// FeeDenominator is the basis-point scale for swap fees.
const FeeDenominator = 10_000

// ErrAmountOverflow is returned when a computed amount exceeds the range
// of the ledger integers.
var ErrAmountOverflow = errors.New("amount exceeds ledger range")

// AmountOut prices a swap against the pre-swap reserves: the input is
// reduced by the fee, then the constant-product curve is solved for the
// output, rounding down. The result is bounded by reserveOut and always
// representable.
//
//	inWithFee = floor(amountIn * (10000 - feeBps) / 10000)
//	out       = floor(inWithFee * reserveOut / (reserveIn + inWithFee))
func AmountOut(amountIn, reserveIn, reserveOut sdkmath.Int, feeBps uint64) sdkmath.Int {
	inWithFee := new(big.Int).Mul(amountIn.BigInt(), big.NewInt(FeeDenominator-int64(feeBps)))
	inWithFee.Quo(inWithFee, big.NewInt(FeeDenominator))
	if inWithFee.Sign() <= 0 {
		return sdkmath.ZeroInt()
	}
	out := new(big.Int).Mul(inWithFee, reserveOut.BigInt())
	out.Quo(out, new(big.Int).Add(reserveIn.BigInt(), inWithFee))
	return sdkmath.NewIntFromBigInt(out)
}

// ProportionalMint returns the liquidity minted for a deposit referenced
// against asset 0: floor(total * ref / refReserve).
func ProportionalMint(total, ref, refReserve sdkmath.Int) (sdkmath.Int, error) {
	m := new(big.Int).Mul(total.BigInt(), ref.BigInt())
	m.Quo(m, refReserve.BigInt())
	if m.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, ErrAmountOverflow
	}
	return sdkmath.NewIntFromBigInt(m), nil
}

// RequiredDeposit returns the amount of one asset a proportional deposit
// must contribute for the given mint: ceil(reserve * minted / total).
// Rounding up means the pool never under-collects relative to the
// liquidity it issues.
func RequiredDeposit(reserve, minted, total sdkmath.Int) (sdkmath.Int, error) {
	r := new(big.Int).Mul(reserve.BigInt(), minted.BigInt())
	r.Add(r, new(big.Int).Sub(total.BigInt(), big.NewInt(1)))
	r.Quo(r, total.BigInt())
	if r.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, ErrAmountOverflow
	}
	return sdkmath.NewIntFromBigInt(r), nil
}

// RedeemShare returns the amount of one asset paid out when burning
// liquidity: floor(reserve * burn / total). Rounding down means the pool
// never over-pays relative to the claim redeemed; with burn <= total the
// result is bounded by reserve and always representable.
func RedeemShare(reserve, burn, total sdkmath.Int) sdkmath.Int {
	s := new(big.Int).Mul(reserve.BigInt(), burn.BigInt())
	s.Quo(s, total.BigInt())
	return sdkmath.NewIntFromBigInt(s)
}
