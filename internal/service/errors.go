package service

import "errors"

// ErrUnauthorized indicates the caller lacks the admin role required for
// the operation.
var ErrUnauthorized = errors.New("caller is not authorized")

// ErrUnknownAsset indicates an asset identifier that is not part of the
// pool's asset set.
var ErrUnknownAsset = errors.New("asset is not in the pool")
