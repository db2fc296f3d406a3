package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) GetBalance(ctx context.Context, account string, id tokens.TokenId) (*entity.Balance, error) {
	row := r.q().QueryRow(ctx, `
		SELECT account, token_id, amount, sequence FROM balances
		WHERE account = $1 AND token_id = $2
	`, account, id.String())
	balance, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return balance, nil
}

func (r *Repository) GetBalancesByAccount(ctx context.Context, account string) ([]*entity.Balance, error) {
	rows, err := r.q().Query(ctx, `
		SELECT account, token_id, amount, sequence FROM balances
		WHERE account = $1 AND amount > 0
		ORDER BY token_id
	`, account)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()
	return collectBalances(rows)
}

func (r *Repository) GetBalancesByTokenId(ctx context.Context, id tokens.TokenId, limit int32) ([]*entity.Balance, error) {
	rows, err := r.q().Query(ctx, `
		SELECT account, token_id, amount, sequence FROM balances
		WHERE token_id = $1 AND amount > 0
		ORDER BY amount DESC, account
		LIMIT $2
	`, id.String(), limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()
	return collectBalances(rows)
}

func (r *Repository) CountHolders(ctx context.Context, id tokens.TokenId) (int64, error) {
	var count int64
	err := r.q().QueryRow(ctx, `
		SELECT COUNT(*) FROM balances WHERE token_id = $1 AND amount > 0
	`, id.String()).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return count, nil
}

func (r *Repository) GetTotalBalance(ctx context.Context, id tokens.TokenId) (uint128.Uint128, error) {
	var total pgtype.Numeric
	err := r.q().QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM balances WHERE token_id = $1
	`, id.String()).Scan(&total)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "error during query")
	}
	result, err := uint128FromNumeric(total)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to parse total balance")
	}
	return result, nil
}

func (r *Repository) SetBalance(ctx context.Context, balance *entity.Balance) error {
	amount, err := numericFromUint128(balance.Amount)
	if err != nil {
		return errors.Wrap(err, "failed to convert amount")
	}
	_, err = r.q().Exec(ctx, `
		INSERT INTO balances (account, token_id, amount, sequence)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account, token_id) DO UPDATE SET amount = $3, sequence = $4
	`, balance.Account, balance.TokenId.String(), amount, balance.Sequence)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetAllowance(ctx context.Context, owner, spender string, id tokens.TokenId) (*entity.Allowance, error) {
	var (
		allowance entity.Allowance
		tokenId   string
		amount    pgtype.Numeric
	)
	err := r.q().QueryRow(ctx, `
		SELECT owner, spender, token_id, amount, sequence FROM allowances
		WHERE owner = $1 AND spender = $2 AND token_id = $3
	`, owner, spender, id.String()).Scan(&allowance.Owner, &allowance.Spender, &tokenId, &amount, &allowance.Sequence)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	allowance.TokenId = tokens.TokenId(tokenId)
	if allowance.Amount, err = uint128FromNumeric(amount); err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &allowance, nil
}

func (r *Repository) SetAllowance(ctx context.Context, allowance *entity.Allowance) error {
	amount, err := numericFromUint128(allowance.Amount)
	if err != nil {
		return errors.Wrap(err, "failed to convert amount")
	}
	_, err = r.q().Exec(ctx, `
		INSERT INTO allowances (owner, spender, token_id, amount, sequence)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner, spender, token_id) DO UPDATE SET amount = $4, sequence = $5
	`, allowance.Owner, allowance.Spender, allowance.TokenId.String(), amount, allowance.Sequence)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetAccountNonce(ctx context.Context, account string) (uint64, error) {
	var nonce uint64
	err := r.q().QueryRow(ctx, `
		SELECT nonce FROM accounts WHERE account = $1
	`, account).Scan(&nonce)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "error during query")
	}
	return nonce, nil
}

func (r *Repository) SetAccountNonce(ctx context.Context, account string, nonce uint64) error {
	_, err := r.q().Exec(ctx, `
		INSERT INTO accounts (account, nonce)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET nonce = $2
	`, account, nonce)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func scanBalance(row pgx.Row) (*entity.Balance, error) {
	var (
		balance entity.Balance
		tokenId string
		amount  pgtype.Numeric
	)
	if err := row.Scan(&balance.Account, &tokenId, &amount, &balance.Sequence); err != nil {
		return nil, errors.WithStack(err)
	}
	balance.TokenId = tokens.TokenId(tokenId)
	var err error
	if balance.Amount, err = uint128FromNumeric(amount); err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &balance, nil
}

func collectBalances(rows pgx.Rows) ([]*entity.Balance, error) {
	balances := make([]*entity.Balance, 0)
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		balances = append(balances, balance)
	}
	return balances, errors.WithStack(rows.Err())
}
