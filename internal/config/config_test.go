package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("POOL_ASSETS", "native,0x00000000000000000000000000000000000000aa")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":1337", cfg.Addr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, uint64(30), cfg.FeeRateBps)
	require.False(t, cfg.HasAdmin)
	require.Len(t, cfg.Assets, 2)
	require.Equal(t, common.Address{}, cfg.Assets[0])
}

func TestFromEnv_Full(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POOL_ASSETS", "0x00000000000000000000000000000000000000aa, 0x00000000000000000000000000000000000000bb")
	t.Setenv("FEE_RATE_BPS", "100")
	t.Setenv("ADMIN_ADDRESS", "0x0000000000000000000000000000000000000042")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, uint64(100), cfg.FeeRateBps)
	require.True(t, cfg.HasAdmin)
	require.Equal(t, common.HexToAddress("0x42"), cfg.Admin)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Setenv("POOL_ASSETS", "")
	_, err := FromEnv()
	require.ErrorIs(t, err, ErrMissingAssets)

	t.Setenv("POOL_ASSETS", "native,notanaddress")
	_, err = FromEnv()
	require.ErrorIs(t, err, ErrInvalidAsset)

	t.Setenv("POOL_ASSETS", "native,0x00000000000000000000000000000000000000aa")
	t.Setenv("FEE_RATE_BPS", "10001")
	_, err = FromEnv()
	require.ErrorIs(t, err, ErrInvalidFeeRate)

	t.Setenv("FEE_RATE_BPS", "30")
	t.Setenv("ADMIN_ADDRESS", "xyz")
	_, err = FromEnv()
	require.ErrorIs(t, err, ErrInvalidAdmin)
}
