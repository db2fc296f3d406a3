package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBalancesRequest struct {
	Wallet string `params:"wallet"`
}

type balanceItem struct {
	TokenId tokens.TokenId  `json:"tokenId"`
	Amount  uint128.Uint128 `json:"amount"`
}

type getBalancesResult struct {
	Account string        `json:"account"`
	List    []balanceItem `json:"list"`
}

type getBalancesResponse = HttpResponse[getBalancesResult]

func (h *HttpHandler) GetBalances(ctx *fiber.Ctx) error {
	var req getBalancesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	account, err := resolveAccount(req.Wallet)
	if err != nil {
		return errors.WithStack(err)
	}

	balances, err := h.usecase.GetBalancesByAccount(ctx.UserContext(), account)
	if err != nil {
		return errors.Wrap(err, "error during GetBalancesByAccount")
	}

	resp := getBalancesResponse{
		Result: &getBalancesResult{
			Account: account,
			List: lo.Map(balances, func(balance *entity.Balance, _ int) balanceItem {
				return balanceItem{
					TokenId: balance.TokenId,
					Amount:  balance.Amount,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
