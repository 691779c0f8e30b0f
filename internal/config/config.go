package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const defaultFeeRateBps = 30

type Config struct {
	Addr       string
	LogLevel   string
	Assets     []common.Address
	FeeRateBps uint64
	Admin      common.Address
	HasAdmin   bool
}

func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	assets, err := parseAssets(os.Getenv("POOL_ASSETS"))
	if err != nil {
		return nil, err
	}

	feeBps := uint64(defaultFeeRateBps)
	if raw := os.Getenv("FEE_RATE_BPS"); raw != "" {
		feeBps, err = strconv.ParseUint(raw, 10, 64)
		if err != nil || feeBps > 10_000 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFeeRate, raw)
		}
	}

	cfg := &Config{
		Addr:       addr,
		LogLevel:   logLevel,
		Assets:     assets,
		FeeRateBps: feeBps,
	}

	if raw := os.Getenv("ADMIN_ADDRESS"); raw != "" {
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAdmin, raw)
		}
		cfg.Admin = common.HexToAddress(raw)
		cfg.HasAdmin = true
	}

	return cfg, nil
}

// parseAssets reads the comma-separated pool asset list. Each entry is a
// hex address or the keyword "native", which maps to the zero address.
func parseAssets(raw string) ([]common.Address, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingAssets
	}
	parts := strings.Split(raw, ",")
	assets := make([]common.Address, 0, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		switch {
		case strings.EqualFold(entry, "native"):
			assets = append(assets, common.Address{})
		case common.IsHexAddress(entry):
			assets = append(assets, common.HexToAddress(entry))
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidAsset, entry)
		}
	}
	return assets, nil
}
