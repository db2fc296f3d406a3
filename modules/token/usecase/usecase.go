package usecase

import (
	"context"

	"github.com/forge-network/token-ledger/modules/token/datagateway"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
)

// OperationApplier applies a signed operation to the ledger. Implemented by
// the module's processor.
type OperationApplier interface {
	Apply(ctx context.Context, op tokens.Operation) (*entity.TokenTransaction, error)
}

type Usecase struct {
	tokenDg      datagateway.TokenDataGateway
	ledgerInfoDg datagateway.LedgerInfoDataGateway
	applier      OperationApplier
}

func New(tokenDg datagateway.TokenDataGateway, ledgerInfoDg datagateway.LedgerInfoDataGateway, applier OperationApplier) *Usecase {
	return &Usecase{
		tokenDg:      tokenDg,
		ledgerInfoDg: ledgerInfoDg,
		applier:      applier,
	}
}
