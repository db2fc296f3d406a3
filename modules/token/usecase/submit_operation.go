package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
)

func (u *Usecase) SubmitOperation(ctx context.Context, op tokens.Operation) (*entity.TokenTransaction, error) {
	tx, err := u.applier.Apply(ctx, op)
	if err != nil {
		return nil, errors.Wrap(err, "error during Apply")
	}
	return tx, nil
}
