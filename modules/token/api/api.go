package api

import (
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/modules/token/api/httphandler"
	"github.com/forge-network/token-ledger/modules/token/usecase"
)

func NewHTTPHandler(network common.Network, usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(network, usecase)
}
