package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
)

func (u *Usecase) GetTransactions(ctx context.Context, id tokens.TokenId, account string, limit int32) ([]*entity.TokenTransaction, error) {
	txs, err := u.tokenDg.GetTransactions(ctx, id, account, limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTransactions")
	}
	return txs, nil
}

func (u *Usecase) GetLedgerInfo(ctx context.Context) (entity.LedgerState, uint64, error) {
	state, err := u.ledgerInfoDg.GetLatestLedgerState(ctx)
	if err != nil {
		return entity.LedgerState{}, 0, errors.Wrap(err, "error during GetLatestLedgerState")
	}
	sequence, err := u.tokenDg.GetLatestSequence(ctx)
	if err != nil {
		return entity.LedgerState{}, 0, errors.Wrap(err, "error during GetLatestSequence")
	}
	return state, sequence, nil
}

func (u *Usecase) GetAccountNonce(ctx context.Context, account string) (uint64, error) {
	nonce, err := u.tokenDg.GetAccountNonce(ctx, account)
	if err != nil {
		return 0, errors.Wrap(err, "error during GetAccountNonce")
	}
	return nonce, nil
}
