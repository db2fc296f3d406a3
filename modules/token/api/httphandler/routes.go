package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/tokens")

	r.Get("/", h.GetTokenList)
	r.Get("/info/:id", h.GetTokenInfo)
	r.Get("/holders/:id", h.GetHolders)
	r.Get("/balances/wallet/:wallet", h.GetBalances)
	r.Get("/allowance/:id/:owner/:spender", h.GetAllowance)
	r.Get("/transactions", h.GetTransactions)
	r.Get("/nonce/:wallet", h.GetNonce)
	r.Get("/ledger", h.GetLedgerInfo)
	r.Post("/operations", h.SubmitOperation)
	return nil
}
