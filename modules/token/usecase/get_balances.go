package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
)

func (u *Usecase) GetBalancesByAccount(ctx context.Context, account string) ([]*entity.Balance, error) {
	balances, err := u.tokenDg.GetBalancesByAccount(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetBalancesByAccount")
	}
	return balances, nil
}

func (u *Usecase) GetBalance(ctx context.Context, account string, id tokens.TokenId) (*entity.Balance, error) {
	balance, err := u.tokenDg.GetBalance(ctx, account, id)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetBalance")
	}
	return balance, nil
}

func (u *Usecase) GetHolders(ctx context.Context, id tokens.TokenId, limit int32) ([]*entity.Balance, error) {
	balances, err := u.tokenDg.GetBalancesByTokenId(ctx, id, limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetBalancesByTokenId")
	}
	return balances, nil
}

func (u *Usecase) GetAllowance(ctx context.Context, owner, spender string, id tokens.TokenId) (*entity.Allowance, error) {
	allowance, err := u.tokenDg.GetAllowance(ctx, owner, spender, id)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetAllowance")
	}
	return allowance, nil
}
