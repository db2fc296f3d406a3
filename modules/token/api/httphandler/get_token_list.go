package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type tokenInfo struct {
	Id          tokens.TokenId  `json:"id"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	MaxSupply   uint128.Uint128 `json:"maxSupply"`
	Minted      uint128.Uint128 `json:"minted"`
	Burned      uint128.Uint128 `json:"burned"`
	TotalSupply uint128.Uint128 `json:"totalSupply"`
	Mintable    uint128.Uint128 `json:"mintableAmount"`
	Owner       string          `json:"owner"`
	DeployedAt  time.Time       `json:"deployedAt"`
}

func tokenInfoFromEntry(entry *tokens.TokenEntry) tokenInfo {
	return tokenInfo{
		Id:          entry.Id,
		Name:        entry.Name,
		Symbol:      entry.Symbol,
		Decimals:    entry.Decimals,
		MaxSupply:   entry.MaxSupply,
		Minted:      entry.Minted,
		Burned:      entry.Burned,
		TotalSupply: entry.TotalSupply(),
		Mintable:    entry.MintableAmount(),
		Owner:       entry.Owner,
		DeployedAt:  entry.CreatedAt,
	}
}

type getTokenListResult struct {
	List []tokenInfo `json:"list"`
}

type getTokenListResponse = HttpResponse[getTokenListResult]

func (h *HttpHandler) GetTokenList(ctx *fiber.Ctx) error {
	entries, err := h.usecase.GetTokenEntries(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetTokenEntries")
	}

	resp := getTokenListResponse{
		Result: &getTokenListResult{
			List: lo.Map(entries, func(entry *tokens.TokenEntry, _ int) tokenInfo {
				return tokenInfoFromEntry(entry)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
