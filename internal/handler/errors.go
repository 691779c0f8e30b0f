package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/openpool/poold/internal/bank"
	"github.com/openpool/poold/internal/pool"
	"github.com/openpool/poold/internal/service"
)

// ErrInvalidBody indicates that the request body could not be parsed into
// the expected structure.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrUnauthorized maps a failed admin check to a 403.
var ErrUnauthorized = fiber.NewError(fiber.StatusForbidden, "caller is not authorized")

// ErrPoolPausedLocked maps a paused pool to a 423 Locked.
var ErrPoolPausedLocked = fiber.NewError(fiber.StatusLocked, "pool is paused")

// ErrOperationFailedInternal signals a generic server-side failure.
var ErrOperationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "operation failed")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// NewInvalidAmount returns a 400 Bad Request for a malformed amount field.
func NewInvalidAmount(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" amount")
}

// badRequestErrs are domain failures caused by the request itself.
var badRequestErrs = []error{
	pool.ErrInvalidInput,
	pool.ErrInsufficientInput,
	pool.ErrInsufficientBalance,
	pool.ErrInsufficientReserve,
	pool.ErrInsufficientLiquidity,
	pool.ErrSlippageExceeded,
	pool.ErrNoFeesAvailable,
	pool.ErrEmptyPool,
	service.ErrUnknownAsset,
	bank.ErrInsufficientFunds,
	bank.ErrInvalidAmount,
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return ErrUnauthorized
	case errors.Is(err, pool.ErrPoolPaused):
		return ErrPoolPausedLocked
	}
	for _, candidate := range badRequestErrs {
		if errors.Is(err, candidate) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return ErrOperationFailedInternal
}
