// Package fixedpoint implements deterministic Q64.64 binary logarithm and
// exponential arithmetic on big integers. All intermediate rounding is
// truncation, so results are reproducible bit-for-bit on any platform;
// no floating point is involved anywhere.
package fixedpoint

import (
	"errors"
	"math/big"
)

// FracBits is the number of fractional bits in the Q64.64 representation.
const FracBits = 64

// maxExpInt bounds the integer part accepted by Exp2. 2^(1<<20) already
// exceeds any quantity a pool ledger can hold.
const maxExpInt = 1 << 20

var (
	ErrNonPositive = errors.New("fixedpoint: argument must be positive")
	ErrNegative    = errors.New("fixedpoint: argument must not be negative")
	ErrOutOfRange  = errors.New("fixedpoint: argument out of range")
	ErrEmptySet    = errors.New("fixedpoint: empty value set")
)

var (
	fracMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), FracBits), big.NewInt(1))

	// exp2Roots[i] holds 2^(2^-i) in Q127, generated once by repeated
	// integer square roots of 2. exp2Roots[0] is 2 itself.
	exp2Roots = buildExp2Roots()
)

func buildExp2Roots() [FracBits + 1]*big.Int {
	var roots [FracBits + 1]*big.Int
	roots[0] = new(big.Int).Lsh(big.NewInt(2), 127)
	for i := 1; i <= FracBits; i++ {
		roots[i] = new(big.Int).Sqrt(new(big.Int).Lsh(roots[i-1], 127))
	}
	return roots
}

// Log2 returns log2(x) for a positive integer x as a Q64.64 value, truncated
// toward zero. The integer part comes from the position of the most
// significant bit; fractional bits are produced by the square-and-compare
// recurrence on a 128-bit normalized mantissa.
func Log2(x *big.Int) (*big.Int, error) {
	if x == nil || x.Sign() <= 0 {
		return nil, ErrNonPositive
	}

	msb := x.BitLen() - 1
	result := new(big.Int).Lsh(big.NewInt(int64(msb)), FracBits)

	// Normalize x into [2^127, 2^128).
	ux := new(big.Int)
	if shift := 127 - msb; shift >= 0 {
		ux.Lsh(x, uint(shift))
	} else {
		ux.Rsh(x, uint(-shift))
	}

	for bit := FracBits - 1; bit >= 0; bit-- {
		ux.Mul(ux, ux)
		ux.Rsh(ux, 127)
		if ux.BitLen() > 128 {
			result.SetBit(result, bit, 1)
			ux.Rsh(ux, 1)
		}
	}
	return result, nil
}

// Exp2 returns 2^x for a non-negative Q64.64 value x, as a Q64.64 value.
// The fractional factor is assembled from the precomputed dyadic roots of
// two, truncating after each multiplication.
func Exp2(x *big.Int) (*big.Int, error) {
	if x == nil || x.Sign() < 0 {
		return nil, ErrNegative
	}

	intPart := new(big.Int).Rsh(x, FracBits)
	if !intPart.IsInt64() || intPart.Int64() > maxExpInt {
		return nil, ErrOutOfRange
	}
	frac := new(big.Int).And(x, fracMask)

	r := new(big.Int).Lsh(big.NewInt(1), 127)
	for i := 1; i <= FracBits; i++ {
		if frac.Bit(FracBits-i) == 1 {
			r.Mul(r, exp2Roots[i])
			r.Rsh(r, 127)
		}
	}

	// Q127 -> Q64.64, then apply the integer exponent.
	r.Rsh(r, 127-FracBits)
	r.Lsh(r, uint(intPart.Int64()))
	return r, nil
}

// GeometricMean returns the floor of the n-th root of the product of the
// given positive integers. The estimate is computed in the log domain
// (mean of Log2 values, exponentiated with Exp2); its truncation error is
// relative, so it is used only to seed a Newton descent on the exact
// integer product, which converges in a logarithmic number of steps and
// returns the g satisfying g^n <= product < (g+1)^n.
func GeometricMean(xs []*big.Int) (*big.Int, error) {
	n := len(xs)
	if n == 0 {
		return nil, ErrEmptySet
	}

	sum := new(big.Int)
	product := big.NewInt(1)
	for _, x := range xs {
		l, err := Log2(x)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, l)
		product.Mul(product, x)
	}
	if n == 1 {
		return product, nil
	}

	avg := sum.Quo(sum, big.NewInt(int64(n)))
	f, err := Exp2(avg)
	if err != nil {
		return nil, err
	}
	est := f.Rsh(f, FracBits)

	return nthRoot(product, n, est), nil
}

// nthRoot returns floor(a^(1/n)) for a >= 1, n >= 2 by integer Newton
// descent. The descent requires a start at or above the true root; est+1
// qualifies whenever (est+1)^n exceeds a, otherwise the bit-length bound
// 2^ceil(bits/n) does.
func nthRoot(a *big.Int, n int, est *big.Int) *big.Int {
	one := big.NewInt(1)
	nn := big.NewInt(int64(n))
	nm1 := big.NewInt(int64(n - 1))

	x := new(big.Int).Add(est, one)
	if new(big.Int).Exp(x, nn, nil).Cmp(a) <= 0 {
		x = new(big.Int).Lsh(one, uint((a.BitLen()+n-1)/n))
	}
	for {
		y := new(big.Int).Exp(x, nm1, nil)
		y.Quo(a, y)
		y.Add(y, new(big.Int).Mul(nm1, x))
		y.Quo(y, nn)
		if y.Cmp(x) >= 0 {
			return x
		}
		x = y
	}
}
