package pool

import "errors"

var (
	// ErrInvalidConfiguration rejects a bad asset set or fee rate at
	// construction; the pool is never created.
	ErrInvalidConfiguration = errors.New("invalid pool configuration")

	// ErrInvalidInput rejects malformed caller arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientInput is returned when a proportional deposit offers
	// less of an asset than the mint requires.
	ErrInsufficientInput = errors.New("insufficient input amount")

	// ErrInsufficientBalance is returned when a holder redeems more
	// liquidity than they own.
	ErrInsufficientBalance = errors.New("insufficient liquidity balance")

	// ErrInsufficientReserve is returned when a debit would drive a
	// reserve negative.
	ErrInsufficientReserve = errors.New("insufficient reserve")

	// ErrInsufficientLiquidity is returned when a swap touches an empty
	// reserve or would drain the output reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrSlippageExceeded is returned when the priced output falls below
	// the caller's minimum.
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrArithmeticInvariant is returned when a computed quantity violates
	// a required positivity or monotonicity bound.
	ErrArithmeticInvariant = errors.New("arithmetic invariant violated")

	// ErrNoFeesAvailable is returned when the custody balance carries no
	// surplus over the recorded reserve.
	ErrNoFeesAvailable = errors.New("no fees available")

	// ErrEmptyPool is returned by read-only previews against a pool that
	// has no outstanding liquidity.
	ErrEmptyPool = errors.New("pool is empty")

	// ErrPoolPaused is returned while the pause gate is inactive.
	ErrPoolPaused = errors.New("pool is paused")

	// ErrTransferFailed wraps failures propagated from the asset-transfer
	// collaborator; the whole operation is rolled back.
	ErrTransferFailed = errors.New("asset transfer failed")

	// ErrCompensationFailed reports that a rollback transfer also failed:
	// the unrecovered share stays with its recipient and off the ledger,
	// keeping custody and reserves consistent.
	ErrCompensationFailed = errors.New("compensation transfer failed")

	// ErrReentrantCall rejects nested entry into any pool operation while
	// one is in progress.
	ErrReentrantCall = errors.New("reentrant pool call")
)
