package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
)

type getAllowanceRequest struct {
	Id      string `params:"id"`
	Owner   string `params:"owner"`
	Spender string `params:"spender"`
}

type getAllowanceResult struct {
	TokenId tokens.TokenId  `json:"tokenId"`
	Owner   string          `json:"owner"`
	Spender string          `json:"spender"`
	Amount  uint128.Uint128 `json:"amount"`
}

type getAllowanceResponse = HttpResponse[getAllowanceResult]

func (h *HttpHandler) GetAllowance(ctx *fiber.Ctx) error {
	var req getAllowanceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	id, err := resolveTokenId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	owner, err := resolveAccount(req.Owner)
	if err != nil {
		return errors.WithStack(err)
	}
	spender, err := resolveAccount(req.Spender)
	if err != nil {
		return errors.WithStack(err)
	}

	amount := uint128.Zero
	allowance, err := h.usecase.GetAllowance(ctx.UserContext(), owner, spender, id)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "error during GetAllowance")
	}
	if err == nil {
		amount = allowance.Amount
	}

	resp := getAllowanceResponse{
		Result: &getAllowanceResult{
			TokenId: id,
			Owner:   owner,
			Spender: spender,
			Amount:  amount,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
