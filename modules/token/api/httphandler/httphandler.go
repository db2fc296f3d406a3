package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/forge-network/token-ledger/modules/token/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	network common.Network
}

func New(network common.Network, usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		network: network,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

type paginationRequest struct {
	Limit int32 `query:"limit"`
}

const defaultLimit = 100

func (r *paginationRequest) ParseDefault() error {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	return nil
}

func resolveTokenId(raw string) (tokens.TokenId, error) {
	id, err := tokens.NewTokenIdFromString(raw)
	if err != nil {
		return "", errs.WithPublicMessage(errors.Wrapf(errs.InvalidArgument, "id %q is not a valid token id", raw), "validation error")
	}
	return id, nil
}

func resolveAccount(raw string) (string, error) {
	if !tokens.IsValidAccount(raw) {
		return "", errs.WithPublicMessage(errors.Wrapf(errs.InvalidArgument, "%q is not a valid account", raw), "validation error")
	}
	return raw, nil
}
