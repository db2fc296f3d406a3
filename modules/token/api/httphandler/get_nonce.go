package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getNonceRequest struct {
	Wallet string `params:"wallet"`
}

type getNonceResult struct {
	Account string `json:"account"`
	Nonce   uint64 `json:"nonce"`
}

type getNonceResponse = HttpResponse[getNonceResult]

// GetNonce returns the latest applied nonce for an account. Clients must
// submit their next operation with nonce+1.
func (h *HttpHandler) GetNonce(ctx *fiber.Ctx) error {
	var req getNonceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	account, err := resolveAccount(req.Wallet)
	if err != nil {
		return errors.WithStack(err)
	}

	nonce, err := h.usecase.GetAccountNonce(ctx.UserContext(), account)
	if err != nil {
		return errors.Wrap(err, "error during GetAccountNonce")
	}

	resp := getNonceResponse{
		Result: &getNonceResult{
			Account: account,
			Nonce:   nonce,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
