package handler

import (
	"log/slog"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"

	"github.com/openpool/poold/internal/service"
)

type PoolHandler struct {
	BaseHandler
	service *service.PoolService
}

func NewPoolHandler(logger *slog.Logger, svc *service.PoolService) *PoolHandler {
	return &PoolHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// Register mounts all pool routes on the app.
func (h *PoolHandler) Register(app *fiber.App) {
	app.Post("/liquidity/add", h.AddLiquidity())
	app.Post("/liquidity/remove", h.RemoveLiquidity())
	app.Post("/swap", h.Swap())
	app.Post("/fees/withdraw", h.WithdrawFees())
	app.Post("/admin/pause", h.Pause())
	app.Post("/admin/unpause", h.Unpause())
	app.Post("/admin/fee-rate", h.SetFeeRate())
	app.Post("/bank/fund", h.Fund())
	app.Get("/pool", h.State())
	app.Get("/pool/liquidity/:holder", h.LiquidityOf())
	app.Get("/pool/quote", h.Quote())
}

type AddLiquidityRequest struct {
	From    string   `json:"from"`
	Amounts []string `json:"amounts"`
}

func (h *PoolHandler) AddLiquidity() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req AddLiquidityRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		amounts := make([]sdkmath.Int, len(req.Amounts))
		for i, raw := range req.Amounts {
			amounts[i], err = parseAmount("amounts", raw)
			if err != nil {
				return err
			}
		}

		minted, pulled, err := h.service.AddLiquidity(from, amounts)
		if err != nil {
			return h.handleServiceError("add liquidity", err)
		}

		return c.JSON(fiber.Map{
			"minted": minted.String(),
			"pulled": intStrings(pulled),
		})
	}
}

type RemoveLiquidityRequest struct {
	From      string `json:"from"`
	Liquidity string `json:"liquidity"`
}

func (h *PoolHandler) RemoveLiquidity() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req RemoveLiquidityRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		liquidity, err := parseAmount("liquidity", req.Liquidity)
		if err != nil {
			return err
		}

		outs, err := h.service.RemoveLiquidity(from, liquidity)
		if err != nil {
			return h.handleServiceError("remove liquidity", err)
		}

		return c.JSON(fiber.Map{"amounts": intStrings(outs)})
	}
}

type SwapRequest struct {
	From         string `json:"from"`
	AssetIn      string `json:"asset_in"`
	AssetOut     string `json:"asset_out"`
	AmountIn     string `json:"amount_in"`
	MinAmountOut string `json:"min_amount_out"`
}

func (h *PoolHandler) Swap() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req SwapRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		assetIn, err := parseAsset("asset_in", req.AssetIn)
		if err != nil {
			return err
		}
		assetOut, err := parseAsset("asset_out", req.AssetOut)
		if err != nil {
			return err
		}
		amountIn, err := parseAmount("amount_in", req.AmountIn)
		if err != nil {
			return err
		}
		minOut := sdkmath.ZeroInt()
		if req.MinAmountOut != "" {
			minOut, err = parseAmount("min_amount_out", req.MinAmountOut)
			if err != nil {
				return err
			}
		}

		out, err := h.service.Swap(from, assetIn, assetOut, amountIn, minOut)
		if err != nil {
			return h.handleServiceError("swap", err)
		}

		h.logger.Debug("swap executed", "from", from.Hex(), "in", amountIn.String(), "out", out.String())
		return c.JSON(fiber.Map{"amount_out": out.String()})
	}
}

type WithdrawFeesRequest struct {
	From  string `json:"from"`
	Asset string `json:"asset"`
}

func (h *PoolHandler) WithdrawFees() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req WithdrawFeesRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		asset, err := parseAsset("asset", req.Asset)
		if err != nil {
			return err
		}

		amount, err := h.service.WithdrawFees(from, asset)
		if err != nil {
			return h.handleServiceError("withdraw fees", err)
		}

		return c.JSON(fiber.Map{"amount": amount.String()})
	}
}

type AdminRequest struct {
	From string `json:"from"`
}

func (h *PoolHandler) Pause() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req AdminRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		if err := h.service.Pause(from); err != nil {
			return h.handleServiceError("pause", err)
		}
		return c.JSON(fiber.Map{"paused": true})
	}
}

func (h *PoolHandler) Unpause() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req AdminRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		if err := h.service.Unpause(from); err != nil {
			return h.handleServiceError("unpause", err)
		}
		return c.JSON(fiber.Map{"paused": false})
	}
}

type SetFeeRateRequest struct {
	From       string `json:"from"`
	FeeRateBps uint64 `json:"fee_rate_bps"`
}

func (h *PoolHandler) SetFeeRate() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req SetFeeRateRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		if err := h.service.SetFeeRate(from, req.FeeRateBps); err != nil {
			return h.handleServiceError("set fee rate", err)
		}
		return c.JSON(fiber.Map{"fee_rate_bps": req.FeeRateBps})
	}
}

type FundRequest struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Amount  string `json:"amount"`
}

func (h *PoolHandler) Fund() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req FundRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidBody
		}
		account, err := parseAddress("account", req.Account)
		if err != nil {
			return err
		}
		asset, err := parseAsset("asset", req.Asset)
		if err != nil {
			return err
		}
		amount, err := parseAmount("amount", req.Amount)
		if err != nil {
			return err
		}
		if err := h.service.Fund(account, asset, amount); err != nil {
			return h.handleServiceError("fund", err)
		}
		return c.JSON(fiber.Map{
			"balance": h.service.BalanceOf(asset, account).String(),
		})
	}
}

func (h *PoolHandler) State() fiber.Handler {
	return func(c fiber.Ctx) error {
		st := h.service.State()
		assets := make([]string, len(st.Assets))
		for i, a := range st.Assets {
			assets[i] = a.Hex()
		}
		return c.JSON(fiber.Map{
			"assets":          assets,
			"reserves":        intStrings(st.Reserves),
			"total_liquidity": st.TotalLiquidity.String(),
			"fee_rate_bps":    st.FeeRateBps,
			"paused":          st.Paused,
		})
	}
}

func (h *PoolHandler) LiquidityOf() fiber.Handler {
	return func(c fiber.Ctx) error {
		holder, err := parseAddress("holder", c.Params("holder"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"holder":    holder.Hex(),
			"liquidity": h.service.LiquidityOf(holder).String(),
		})
	}
}

type QuoteRequest struct {
	ReferenceAmount string `query:"reference_amount" json:"reference_amount"`
}

func (h *PoolHandler) Quote() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req QuoteRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		reference, err := parseAmount("reference_amount", req.ReferenceAmount)
		if err != nil {
			return err
		}
		minted, required, err := h.service.Quote(reference)
		if err != nil {
			return h.handleServiceError("quote", err)
		}
		return c.JSON(fiber.Map{
			"minted":   minted.String(),
			"required": intStrings(required),
		})
	}
}

func (h *PoolHandler) handleServiceError(op string, err error) error {
	mapped := mapServiceError(err)
	if mapped == ErrOperationFailedInternal {
		h.logger.Error(op+" failed", "err", err)
	} else {
		h.logger.Debug(op+" rejected", "err", err)
	}
	return mapped
}

func parseAddress(field, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, NewAddressRequired(field)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, NewInvalidAddress(field)
	}
	return common.HexToAddress(value), nil
}

// parseAsset accepts a hex address or the keyword "native" for the zero
// address.
func parseAsset(field, value string) (common.Address, error) {
	if strings.EqualFold(value, "native") {
		return common.Address{}, nil
	}
	return parseAddress(field, value)
}

func parseAmount(field, value string) (sdkmath.Int, error) {
	if value == "" {
		return sdkmath.Int{}, NewInvalidAmount(field)
	}
	amount, ok := sdkmath.NewIntFromString(value)
	if !ok || amount.IsNegative() {
		return sdkmath.Int{}, NewInvalidAmount(field)
	}
	return amount, nil
}

func intStrings(vs []sdkmath.Int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
