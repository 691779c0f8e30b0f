package service

import (
	"fmt"
	"log/slog"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openpool/poold/internal/bank"
	"github.com/openpool/poold/internal/pool"
)

// PoolService fronts the pool engine for the HTTP layer: it serializes
// mutating operations, resolves asset addresses to pool indexes, and
// enforces the admin role on management operations.
type PoolService struct {
	BaseService

	mu     sync.Mutex
	pool   *pool.Pool
	bank   *bank.Bank
	access AccessControl
	pause  *PauseSwitch
}

func NewPoolService(logger *slog.Logger, p *pool.Pool, b *bank.Bank, access AccessControl, pause *PauseSwitch) *PoolService {
	return &PoolService{
		BaseService: BaseService{logger: logger},
		pool:        p,
		bank:        b,
		access:      access,
		pause:       pause,
	}
}

// PoolState is a read-only snapshot of the pool.
type PoolState struct {
	Assets         []common.Address
	Reserves       []sdkmath.Int
	TotalLiquidity sdkmath.Int
	FeeRateBps     uint64
	Paused         bool
}

func (s *PoolService) AddLiquidity(provider common.Address, amounts []sdkmath.Int) (sdkmath.Int, []sdkmath.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.AddLiquidity(provider, amounts)
}

func (s *PoolService) RemoveLiquidity(provider common.Address, liquidity sdkmath.Int) ([]sdkmath.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.RemoveLiquidity(provider, liquidity)
}

func (s *PoolService) Swap(trader, assetIn, assetOut common.Address, amountIn, minAmountOut sdkmath.Int) (sdkmath.Int, error) {
	in, ok := s.pool.AssetIndex(assetIn)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("%w: %s", ErrUnknownAsset, assetIn.Hex())
	}
	out, ok := s.pool.AssetIndex(assetOut)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("%w: %s", ErrUnknownAsset, assetOut.Hex())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Swap(trader, in, out, amountIn, minAmountOut)
}

// WithdrawFees skims the fee surplus of one asset to the caller. Admin
// only.
func (s *PoolService) WithdrawFees(caller, asset common.Address) (sdkmath.Int, error) {
	if !s.access.HasAdminRole(caller) {
		return sdkmath.Int{}, ErrUnauthorized
	}
	idx, ok := s.pool.AssetIndex(asset)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.WithdrawFees(idx, caller)
}

func (s *PoolService) Pause(caller common.Address) error {
	if !s.access.HasAdminRole(caller) {
		return ErrUnauthorized
	}
	s.pause.Pause()
	s.logger.Warn("pool paused", "by", caller.Hex())
	return nil
}

func (s *PoolService) Unpause(caller common.Address) error {
	if !s.access.HasAdminRole(caller) {
		return ErrUnauthorized
	}
	s.pause.Resume()
	s.logger.Info("pool unpaused", "by", caller.Hex())
	return nil
}

func (s *PoolService) SetFeeRate(caller common.Address, bps uint64) error {
	if !s.access.HasAdminRole(caller) {
		return ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.SetFeeRate(bps)
}

// Fund credits an external account in the development bank. It exists so a
// deployment without a real settlement layer can seed balances.
func (s *PoolService) Fund(account, asset common.Address, amount sdkmath.Int) error {
	if _, ok := s.pool.AssetIndex(asset); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	return s.bank.Deposit(asset, account, amount)
}

func (s *PoolService) State() PoolState {
	return PoolState{
		Assets:         s.pool.Assets().List(),
		Reserves:       s.pool.Reserves(),
		TotalLiquidity: s.pool.TotalLiquidity(),
		FeeRateBps:     s.pool.FeeRate(),
		Paused:         !s.pause.IsActive(),
	}
}

func (s *PoolService) LiquidityOf(holder common.Address) sdkmath.Int {
	return s.pool.LiquidityOf(holder)
}

// Quote previews a proportional deposit referenced against the pool's
// first asset.
func (s *PoolService) Quote(reference sdkmath.Int) (sdkmath.Int, []sdkmath.Int, error) {
	return s.pool.RequiredAmounts(reference)
}

// BalanceOf reports an account's bank balance of one asset.
func (s *PoolService) BalanceOf(asset, holder common.Address) sdkmath.Int {
	return s.bank.BalanceOf(asset, holder)
}
