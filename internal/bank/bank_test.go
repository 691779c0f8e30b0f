package bank

import (
	"errors"
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	assetA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice  = common.HexToAddress("0x0000000000000000000000000000000000000001")
	bob    = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func TestPullPush(t *testing.T) {
	b := New()
	require.NoError(t, b.Deposit(assetA, alice, sdkmath.NewInt(1000)))

	require.NoError(t, b.Pull(assetA, alice, sdkmath.NewInt(400)))
	require.Equal(t, "600", b.BalanceOf(assetA, alice).String())
	require.Equal(t, "400", b.Balance(assetA).String())

	require.NoError(t, b.Push(assetA, bob, sdkmath.NewInt(150)))
	require.Equal(t, "250", b.Balance(assetA).String())
	require.Equal(t, "150", b.BalanceOf(assetA, bob).String())
}

func TestPull_InsufficientFunds(t *testing.T) {
	b := New()
	require.NoError(t, b.Deposit(assetA, alice, sdkmath.NewInt(10)))

	err := b.Pull(assetA, alice, sdkmath.NewInt(11))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	// nothing moved
	require.Equal(t, "10", b.BalanceOf(assetA, alice).String())
	require.True(t, b.Balance(assetA).IsZero())
}

func TestPush_InsufficientCustody(t *testing.T) {
	b := New()
	err := b.Push(assetA, alice, sdkmath.NewInt(1))
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestZeroAmountIsNoop(t *testing.T) {
	b := New()
	require.NoError(t, b.Pull(assetA, alice, sdkmath.ZeroInt()))
	require.NoError(t, b.Push(assetA, alice, sdkmath.ZeroInt()))
}

func TestInvalidAmounts(t *testing.T) {
	b := New()
	require.ErrorIs(t, b.Deposit(assetA, alice, sdkmath.ZeroInt()), ErrInvalidAmount)
	require.ErrorIs(t, b.Pull(assetA, alice, sdkmath.NewInt(-1)), ErrInvalidAmount)
	require.True(t, errors.Is(b.DepositCustody(assetA, sdkmath.NewInt(0)), ErrInvalidAmount))
}

func TestBalanceLimitEnforced(t *testing.T) {
	b := New()
	nearCap := sdkmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 254))

	require.NoError(t, b.Deposit(assetA, alice, nearCap))
	err := b.Deposit(assetA, alice, nearCap)
	require.ErrorIs(t, err, ErrBalanceOverflow)
	// the rejected deposit left the balance untouched
	require.Equal(t, nearCap, b.BalanceOf(assetA, alice))

	require.NoError(t, b.DepositCustody(assetA, nearCap))
	require.ErrorIs(t, b.DepositCustody(assetA, nearCap), ErrBalanceOverflow)
	// a pull that would breach the custody bound fails without moving funds
	require.ErrorIs(t, b.Pull(assetA, alice, nearCap), ErrBalanceOverflow)
	require.Equal(t, nearCap, b.BalanceOf(assetA, alice))
	require.Equal(t, nearCap, b.Balance(assetA))
}

func TestDepositCustody_ShowsAsBalance(t *testing.T) {
	b := New()
	require.NoError(t, b.DepositCustody(assetA, sdkmath.NewInt(77)))
	require.Equal(t, "77", b.Balance(assetA).String())
}
