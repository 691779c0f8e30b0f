package service

import (
	"log/slog"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// LogEmitter publishes pool events as structured log records.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) LiquidityAdded(provider common.Address, amounts []sdkmath.Int, minted sdkmath.Int) {
	e.logger.Info("liquidity added",
		"provider", provider.Hex(),
		"amounts", intStrings(amounts),
		"minted", minted.String(),
	)
}

func (e *LogEmitter) LiquidityRemoved(provider common.Address, amounts []sdkmath.Int, burned sdkmath.Int) {
	e.logger.Info("liquidity removed",
		"provider", provider.Hex(),
		"amounts", intStrings(amounts),
		"burned", burned.String(),
	)
}

func (e *LogEmitter) Swap(user common.Address, assetIn, assetOut common.Address, amountIn, amountOut sdkmath.Int) {
	e.logger.Info("swap",
		"user", user.Hex(),
		"asset_in", assetIn.Hex(),
		"asset_out", assetOut.Hex(),
		"amount_in", amountIn.String(),
		"amount_out", amountOut.String(),
	)
}

func (e *LogEmitter) FeeRateUpdated(bps uint64) {
	e.logger.Info("fee rate updated", "bps", bps)
}

func intStrings(vs []sdkmath.Int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
