package config

import "errors"

// ErrMissingAssets indicates that the required POOL_ASSETS variable is not
// set in the environment.
var ErrMissingAssets = errors.New("missing POOL_ASSETS environment variable")

// ErrInvalidAsset indicates a POOL_ASSETS entry that is neither a hex
// address nor the "native" keyword.
var ErrInvalidAsset = errors.New("invalid asset in POOL_ASSETS")

// ErrInvalidFeeRate indicates a FEE_RATE_BPS value that is not an integer
// between 0 and 10000.
var ErrInvalidFeeRate = errors.New("invalid FEE_RATE_BPS value")

// ErrInvalidAdmin indicates an ADMIN_ADDRESS value that is not a hex
// address.
var ErrInvalidAdmin = errors.New("invalid ADMIN_ADDRESS value")
