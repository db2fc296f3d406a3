package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) GetTokenEntry(ctx context.Context, id tokens.TokenId) (*tokens.TokenEntry, error) {
	row := r.q().QueryRow(ctx, `
		SELECT id, name, symbol, decimals, max_supply, minted, burned, owner, created_at, created_at_sequence
		FROM tokens WHERE id = $1
	`, id.String())
	entry, err := scanTokenEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return entry, nil
}

func (r *Repository) GetTokenEntries(ctx context.Context) ([]*tokens.TokenEntry, error) {
	rows, err := r.q().Query(ctx, `
		SELECT id, name, symbol, decimals, max_supply, minted, burned, owner, created_at, created_at_sequence
		FROM tokens ORDER BY created_at_sequence
	`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	entries := make([]*tokens.TokenEntry, 0)
	for rows.Next() {
		entry, err := scanTokenEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		entries = append(entries, entry)
	}
	return entries, errors.WithStack(rows.Err())
}

func (r *Repository) CreateTokenEntry(ctx context.Context, entry *tokens.TokenEntry) error {
	maxSupply, err := numericFromUint128(entry.MaxSupply)
	if err != nil {
		return errors.Wrap(err, "failed to convert max supply")
	}
	minted, err := numericFromUint128(entry.Minted)
	if err != nil {
		return errors.Wrap(err, "failed to convert minted")
	}
	burned, err := numericFromUint128(entry.Burned)
	if err != nil {
		return errors.Wrap(err, "failed to convert burned")
	}
	_, err = r.q().Exec(ctx, `
		INSERT INTO tokens (id, name, symbol, decimals, max_supply, minted, burned, owner, created_at, created_at_sequence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, entry.Id.String(), entry.Name, entry.Symbol, entry.Decimals, maxSupply, minted, burned, entry.Owner, entry.CreatedAt, entry.CreatedAtSequence)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.WithStack(errs.Duplicate)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateTokenEntry(ctx context.Context, entry *tokens.TokenEntry) error {
	minted, err := numericFromUint128(entry.Minted)
	if err != nil {
		return errors.Wrap(err, "failed to convert minted")
	}
	burned, err := numericFromUint128(entry.Burned)
	if err != nil {
		return errors.Wrap(err, "failed to convert burned")
	}
	tag, err := r.q().Exec(ctx, `
		UPDATE tokens SET minted = $2, burned = $3, owner = $4 WHERE id = $1
	`, entry.Id.String(), minted, burned, entry.Owner)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func scanTokenEntry(row pgx.Row) (*tokens.TokenEntry, error) {
	var (
		entry     tokens.TokenEntry
		id        string
		maxSupply pgtype.Numeric
		minted    pgtype.Numeric
		burned    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &entry.Name, &entry.Symbol, &entry.Decimals, &maxSupply, &minted, &burned, &entry.Owner, &createdAt, &entry.CreatedAtSequence); err != nil {
		return nil, errors.WithStack(err)
	}
	entry.Id = tokens.TokenId(id)
	var err error
	if entry.MaxSupply, err = uint128FromNumeric(maxSupply); err != nil {
		return nil, errors.Wrap(err, "failed to parse max supply")
	}
	if entry.Minted, err = uint128FromNumeric(minted); err != nil {
		return nil, errors.Wrap(err, "failed to parse minted")
	}
	if entry.Burned, err = uint128FromNumeric(burned); err != nil {
		return nil, errors.Wrap(err, "failed to parse burned")
	}
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time.UTC()
	}
	return &entry, nil
}
