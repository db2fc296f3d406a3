package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gofiber/fiber/v2"
)

type submitOperationResult struct {
	Sequence  uint64               `json:"sequence"`
	TokenId   tokens.TokenId       `json:"tokenId"`
	Type      tokens.OperationType `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
}

type submitOperationResponse = HttpResponse[submitOperationResult]

// guardErrors are ledger precondition failures surfaced to the caller as-is.
var guardErrors = []error{
	tokens.ErrNotOwner,
	tokens.ErrMintCapExceeded,
	tokens.ErrInsufficientBalance,
	tokens.ErrInsufficientAllowance,
	tokens.ErrZeroAmount,
	tokens.ErrInitialSupplyExceedsCap,
	tokens.ErrInvalidSignature,
	tokens.ErrInvalidNonce,
}

func (h *HttpHandler) SubmitOperation(ctx *fiber.Ctx) error {
	var op tokens.Operation
	if err := ctx.BodyParser(&op); err != nil {
		return errs.NewPublicError("invalid operation payload")
	}

	tx, err := h.usecase.SubmitOperation(ctx.UserContext(), op)
	if err != nil {
		for _, guardErr := range guardErrors {
			if errors.Is(err, guardErr) {
				return errs.WithPublicMessage(err, guardErr.Error())
			}
		}
		if errors.Is(err, errs.NotFound) {
			return errs.WithPublicMessage(err, "token not found")
		}
		if errors.Is(err, errs.Duplicate) {
			return errs.WithPublicMessage(err, "token is already deployed")
		}
		if errors.Is(err, errs.InvalidArgument) || errors.Is(err, errs.Unsupported) {
			return errs.WithPublicMessage(err, "invalid operation")
		}
		return errors.Wrap(err, "error during SubmitOperation")
	}

	resp := submitOperationResponse{
		Result: &submitOperationResult{
			Sequence:  tx.Sequence,
			TokenId:   tx.TokenId,
			Type:      tx.Type,
			Timestamp: tx.Timestamp,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
