package pool

import (
	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Emitter receives notifications after a state mutation commits. Emission
// is observational only; the engine makes no ordering promises beyond
// "after commit".
type Emitter interface {
	LiquidityAdded(provider common.Address, amounts []sdkmath.Int, minted sdkmath.Int)
	LiquidityRemoved(provider common.Address, amounts []sdkmath.Int, burned sdkmath.Int)
	Swap(user common.Address, assetIn, assetOut common.Address, amountIn, amountOut sdkmath.Int)
	FeeRateUpdated(bps uint64)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) LiquidityAdded(common.Address, []sdkmath.Int, sdkmath.Int)   {}
func (NopEmitter) LiquidityRemoved(common.Address, []sdkmath.Int, sdkmath.Int) {}
func (NopEmitter) Swap(common.Address, common.Address, common.Address, sdkmath.Int, sdkmath.Int) {
}
func (NopEmitter) FeeRateUpdated(uint64) {}
