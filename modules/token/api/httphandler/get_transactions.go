package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getTransactionsRequest struct {
	paginationRequest
	Id     string `query:"id"`
	Wallet string `query:"wallet"`
}

const getTransactionsMaxLimit = 1000

func (r *getTransactionsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > getTransactionsMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getTransactionsMaxLimit))
	}
	if r.Wallet != "" && !tokens.IsValidAccount(r.Wallet) {
		errList = append(errList, errors.Errorf("wallet %q is not a valid account", r.Wallet))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type transactionItem struct {
	Sequence  uint64               `json:"sequence"`
	TokenId   tokens.TokenId       `json:"tokenId"`
	Type      tokens.OperationType `json:"type"`
	From      string               `json:"from"`
	To        string               `json:"to,omitempty"`
	Source    string               `json:"source,omitempty"`
	Amount    uint128.Uint128      `json:"amount"`
	Nonce     uint64               `json:"nonce"`
	Timestamp time.Time            `json:"timestamp"`
}

type getTransactionsResult struct {
	List []transactionItem `json:"list"`
}

type getTransactionsResponse = HttpResponse[getTransactionsResult]

func (h *HttpHandler) GetTransactions(ctx *fiber.Ctx) error {
	var req getTransactionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	var id tokens.TokenId
	if req.Id != "" {
		var err error
		if id, err = resolveTokenId(req.Id); err != nil {
			return errors.WithStack(err)
		}
	}

	txs, err := h.usecase.GetTransactions(ctx.UserContext(), id, req.Wallet, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetTransactions")
	}

	resp := getTransactionsResponse{
		Result: &getTransactionsResult{
			List: lo.Map(txs, func(tx *entity.TokenTransaction, _ int) transactionItem {
				return transactionItem{
					Sequence:  tx.Sequence,
					TokenId:   tx.TokenId,
					Type:      tx.Type,
					From:      tx.From,
					To:        tx.To,
					Source:    tx.Source,
					Amount:    tx.Amount,
					Nonce:     tx.Nonce,
					Timestamp: tx.Timestamp,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
