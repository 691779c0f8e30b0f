package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAsset is the sentinel identifier for the pool's native currency,
// as opposed to a registered token.
var NativeAsset = common.Address{}

// AssetSet is the fixed, ordered list of assets a pool supports. It is
// immutable after construction.
type AssetSet struct {
	assets []common.Address
	index  map[common.Address]int
}

// NewAssetSet validates and freezes the requested asset list: at least two
// entries, no duplicates, at most one native-currency sentinel.
func NewAssetSet(assets []common.Address) (*AssetSet, error) {
	if len(assets) < 2 {
		return nil, fmt.Errorf("%w: need at least two assets, got %d", ErrInvalidConfiguration, len(assets))
	}
	index := make(map[common.Address]int, len(assets))
	natives := 0
	for i, a := range assets {
		if _, dup := index[a]; dup {
			return nil, fmt.Errorf("%w: duplicate asset %s", ErrInvalidConfiguration, a.Hex())
		}
		if a == NativeAsset {
			natives++
		}
		index[a] = i
	}
	if natives > 1 {
		return nil, fmt.Errorf("%w: more than one native asset", ErrInvalidConfiguration)
	}
	return &AssetSet{assets: append([]common.Address(nil), assets...), index: index}, nil
}

// Count returns the number of assets in the set.
func (s *AssetSet) Count() int { return len(s.assets) }

// At returns the asset at index i. Callers must validate i first.
func (s *AssetSet) At(i int) common.Address { return s.assets[i] }

// Index returns the position of an asset in the set.
func (s *AssetSet) Index(a common.Address) (int, bool) {
	i, ok := s.index[a]
	return i, ok
}

// Valid reports whether i is a usable asset index.
func (s *AssetSet) Valid(i int) bool { return i >= 0 && i < len(s.assets) }

// List returns a copy of the ordered asset identifiers.
func (s *AssetSet) List() []common.Address {
	return append([]common.Address(nil), s.assets...)
}
