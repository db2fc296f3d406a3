package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getTokenInfoRequest struct {
	Id string `params:"id"`
}

type getTokenInfoResult struct {
	tokenInfo
	Holders int64 `json:"holders"`
}

type getTokenInfoResponse = HttpResponse[getTokenInfoResult]

func (h *HttpHandler) GetTokenInfo(ctx *fiber.Ctx) error {
	var req getTokenInfoRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	id, err := resolveTokenId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}

	entry, err := h.usecase.GetTokenEntry(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetTokenEntry")
	}
	holders, err := h.usecase.CountHolders(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during CountHolders")
	}

	resp := getTokenInfoResponse{
		Result: &getTokenInfoResult{
			tokenInfo: tokenInfoFromEntry(entry),
			Holders:   holders,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
