package datagateway

import (
	"context"

	"github.com/forge-network/token-ledger/modules/token/entity"
)

type LedgerInfoDataGateway interface {
	GetLatestLedgerState(ctx context.Context) (entity.LedgerState, error)
	CreateLedgerState(ctx context.Context, state entity.LedgerState) error
}
