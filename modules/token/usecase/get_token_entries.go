package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/tokens"
)

func (u *Usecase) GetTokenEntries(ctx context.Context) ([]*tokens.TokenEntry, error) {
	entries, err := u.tokenDg.GetTokenEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTokenEntries")
	}
	return entries, nil
}

func (u *Usecase) GetTokenEntry(ctx context.Context, id tokens.TokenId) (*tokens.TokenEntry, error) {
	entry, err := u.tokenDg.GetTokenEntry(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTokenEntry")
	}
	return entry, nil
}

func (u *Usecase) CountHolders(ctx context.Context, id tokens.TokenId) (int64, error) {
	count, err := u.tokenDg.CountHolders(ctx, id)
	if err != nil {
		return 0, errors.Wrap(err, "error during CountHolders")
	}
	return count, nil
}
