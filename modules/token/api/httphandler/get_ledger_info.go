package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/gofiber/fiber/v2"
)

type getLedgerInfoResult struct {
	Network        common.Network `json:"network"`
	ChainId        uint64         `json:"chainId"`
	DBVersion      int32          `json:"dbVersion"`
	LatestSequence uint64         `json:"latestSequence"`
	InitializedAt  time.Time      `json:"initializedAt"`
}

type getLedgerInfoResponse = HttpResponse[getLedgerInfoResult]

func (h *HttpHandler) GetLedgerInfo(ctx *fiber.Ctx) error {
	state, sequence, err := h.usecase.GetLedgerInfo(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetLedgerInfo")
	}

	resp := getLedgerInfoResponse{
		Result: &getLedgerInfoResult{
			Network:        state.Network,
			ChainId:        state.Network.ChainId(),
			DBVersion:      state.DBVersion,
			LatestSequence: sequence,
			InitializedAt:  state.CreatedAt,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
