package service

import (
	"io"
	"log/slog"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/openpool/poold/internal/bank"
	"github.com/openpool/poold/internal/pool"
)

var (
	assetA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	assetB = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	admin  = common.HexToAddress("0x0000000000000000000000000000000000000042")
	alice  = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

func newTestService(t *testing.T) (*PoolService, *bank.Bank) {
	t.Helper()
	set, err := pool.NewAssetSet([]common.Address{assetA, assetB})
	require.NoError(t, err)
	b := bank.New()
	pause := NewPauseSwitch()
	p, err := pool.New(set, b, 30, pause, nil)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPoolService(logger, p, b, NewSingleAdmin(admin, true), pause), b
}

func fund(t *testing.T, s *PoolService, acct common.Address, amount int64) {
	t.Helper()
	require.NoError(t, s.Fund(acct, assetA, sdkmath.NewInt(amount)))
	require.NoError(t, s.Fund(acct, assetB, sdkmath.NewInt(amount)))
}

func TestServiceFlow(t *testing.T) {
	s, _ := newTestService(t)
	fund(t, s, alice, 10_000)

	minted, _, err := s.AddLiquidity(alice, []sdkmath.Int{sdkmath.NewInt(1000), sdkmath.NewInt(1000)})
	require.NoError(t, err)
	require.Equal(t, "1000", minted.String())

	out, err := s.Swap(alice, assetA, assetB, sdkmath.NewInt(500), sdkmath.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, "332", out.String())

	st := s.State()
	require.Equal(t, []common.Address{assetA, assetB}, st.Assets)
	require.Equal(t, "1500", st.Reserves[0].String())
	require.Equal(t, "668", st.Reserves[1].String())
	require.Equal(t, uint64(30), st.FeeRateBps)
	require.False(t, st.Paused)
	require.Equal(t, "1000", s.LiquidityOf(alice).String())

	outs, err := s.RemoveLiquidity(alice, sdkmath.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, "750", outs[0].String())
	require.Equal(t, "334", outs[1].String())
}

func TestSwap_UnknownAsset(t *testing.T) {
	s, _ := newTestService(t)
	other := common.HexToAddress("0xdead")
	_, err := s.Swap(alice, other, assetB, sdkmath.NewInt(1), sdkmath.ZeroInt())
	require.ErrorIs(t, err, ErrUnknownAsset)
}

func TestFund_UnknownAsset(t *testing.T) {
	s, _ := newTestService(t)
	err := s.Fund(alice, common.HexToAddress("0xdead"), sdkmath.NewInt(1))
	require.ErrorIs(t, err, ErrUnknownAsset)
}

func TestAdminGating(t *testing.T) {
	s, _ := newTestService(t)

	require.ErrorIs(t, s.Pause(alice), ErrUnauthorized)
	require.ErrorIs(t, s.Unpause(alice), ErrUnauthorized)
	require.ErrorIs(t, s.SetFeeRate(alice, 10), ErrUnauthorized)
	_, err := s.WithdrawFees(alice, assetA)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, s.SetFeeRate(admin, 10))
	require.Equal(t, uint64(10), s.State().FeeRateBps)
}

func TestPauseBlocksTrading(t *testing.T) {
	s, _ := newTestService(t)
	fund(t, s, alice, 10_000)
	_, _, err := s.AddLiquidity(alice, []sdkmath.Int{sdkmath.NewInt(1000), sdkmath.NewInt(1000)})
	require.NoError(t, err)

	require.NoError(t, s.Pause(admin))
	require.True(t, s.State().Paused)
	_, err = s.Swap(alice, assetA, assetB, sdkmath.NewInt(10), sdkmath.ZeroInt())
	require.ErrorIs(t, err, pool.ErrPoolPaused)

	require.NoError(t, s.Unpause(admin))
	_, err = s.Swap(alice, assetA, assetB, sdkmath.NewInt(10), sdkmath.ZeroInt())
	require.NoError(t, err)
}

func TestWithdrawFees(t *testing.T) {
	s, b := newTestService(t)
	fund(t, s, alice, 10_000)
	_, _, err := s.AddLiquidity(alice, []sdkmath.Int{sdkmath.NewInt(1000), sdkmath.NewInt(1000)})
	require.NoError(t, err)

	_, err = s.WithdrawFees(admin, assetA)
	require.ErrorIs(t, err, pool.ErrNoFeesAvailable)

	require.NoError(t, b.DepositCustody(assetA, sdkmath.NewInt(25)))
	surplus, err := s.WithdrawFees(admin, assetA)
	require.NoError(t, err)
	require.Equal(t, "25", surplus.String())
	require.Equal(t, "25", s.BalanceOf(assetA, admin).String())
}

func TestNoAdminConfigured(t *testing.T) {
	access := NewSingleAdmin(common.Address{}, false)
	require.False(t, access.HasAdminRole(common.Address{}))
	require.False(t, access.HasAdminRole(admin))
}

func TestQuote(t *testing.T) {
	s, _ := newTestService(t)
	_, _, err := s.Quote(sdkmath.NewInt(100))
	require.ErrorIs(t, err, pool.ErrEmptyPool)

	fund(t, s, alice, 10_000)
	_, _, err = s.AddLiquidity(alice, []sdkmath.Int{sdkmath.NewInt(1000), sdkmath.NewInt(2000)})
	require.NoError(t, err)

	minted, required, err := s.Quote(sdkmath.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, "707", minted.String())
	require.Equal(t, "500", required[0].String())
	require.Equal(t, "1000", required[1].String())
}
