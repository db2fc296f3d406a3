package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getHoldersRequest struct {
	paginationRequest
	Id string `params:"id"`
}

const getHoldersMaxLimit = 1000

func (r *getHoldersRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > getHoldersMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getHoldersMaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type holdingBalance struct {
	Account string          `json:"account"`
	Amount  uint128.Uint128 `json:"amount"`
	Percent float64         `json:"percent"`
}

type getHoldersResult struct {
	TotalSupply uint128.Uint128  `json:"totalSupply"`
	Decimals    uint8            `json:"decimals"`
	List        []holdingBalance `json:"list"`
}

type getHoldersResponse = HttpResponse[getHoldersResult]

func (h *HttpHandler) GetHolders(ctx *fiber.Ctx) error {
	var req getHoldersRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
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
	balances, err := h.usecase.GetHolders(ctx.UserContext(), id, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetHolders")
	}

	totalSupply := entry.TotalSupply()
	totalSupplyDecimal := decimals.ToDecimal(totalSupply, entry.Decimals)
	resp := getHoldersResponse{
		Result: &getHoldersResult{
			TotalSupply: totalSupply,
			Decimals:    entry.Decimals,
			List: lo.Map(balances, func(balance *entity.Balance, _ int) holdingBalance {
				percent := float64(0)
				if !totalSupply.IsZero() {
					percent, _ = decimals.ToDecimal(balance.Amount, entry.Decimals).Div(totalSupplyDecimal).Float64()
				}
				return holdingBalance{
					Account: balance.Account,
					Amount:  balance.Amount,
					Percent: percent,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
