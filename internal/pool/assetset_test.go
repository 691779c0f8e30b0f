package pool

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestNewAssetSet(t *testing.T) {
	set, err := NewAssetSet([]common.Address{assetA, assetB, NativeAsset})
	require.NoError(t, err)
	require.Equal(t, 3, set.Count())

	i, ok := set.Index(assetB)
	require.True(t, ok)
	require.Equal(t, 1, i)
	require.Equal(t, assetB, set.At(1))

	_, ok = set.Index(assetC)
	require.False(t, ok)

	require.True(t, set.Valid(0))
	require.True(t, set.Valid(2))
	require.False(t, set.Valid(3))
	require.False(t, set.Valid(-1))
}

func TestNewAssetSet_Rejections(t *testing.T) {
	_, err := NewAssetSet([]common.Address{assetA})
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewAssetSet([]common.Address{assetA, assetA})
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewAssetSet(nil)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAssetSet_ListIsCopy(t *testing.T) {
	set, err := NewAssetSet([]common.Address{assetA, assetB})
	require.NoError(t, err)
	list := set.List()
	list[0] = assetC
	require.Equal(t, assetA, set.At(0))
}
