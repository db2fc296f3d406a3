package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) GetTransactions(ctx context.Context, id tokens.TokenId, account string, limit int32) ([]*entity.TokenTransaction, error) {
	// empty id or account matches everything
	rows, err := r.q().Query(ctx, `
		SELECT sequence, token_id, type, "from", "to", source, amount, nonce, timestamp
		FROM token_transactions
		WHERE ($1 = '' OR token_id = $1)
		  AND ($2 = '' OR "from" = $2 OR "to" = $2 OR source = $2)
		ORDER BY sequence DESC
		LIMIT $3
	`, id.String(), account, limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	txs := make([]*entity.TokenTransaction, 0)
	for rows.Next() {
		var (
			tx        entity.TokenTransaction
			tokenId   string
			txType    string
			amount    pgtype.Numeric
			timestamp pgtype.Timestamptz
		)
		if err := rows.Scan(&tx.Sequence, &tokenId, &txType, &tx.From, &tx.To, &tx.Source, &amount, &tx.Nonce, &timestamp); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		tx.TokenId = tokens.TokenId(tokenId)
		tx.Type = tokens.OperationType(txType)
		if tx.Amount, err = uint128FromNumeric(amount); err != nil {
			return nil, errors.Wrap(err, "failed to parse amount")
		}
		if timestamp.Valid {
			tx.Timestamp = timestamp.Time.UTC()
		}
		txs = append(txs, &tx)
	}
	return txs, errors.WithStack(rows.Err())
}

func (r *Repository) GetLatestSequence(ctx context.Context) (uint64, error) {
	var sequence uint64
	err := r.q().QueryRow(ctx, `
		SELECT COALESCE(MAX(sequence), 0) FROM token_transactions
	`).Scan(&sequence)
	if err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return sequence, nil
}

func (r *Repository) CreateTokenTransaction(ctx context.Context, tx *entity.TokenTransaction) error {
	amount, err := numericFromUint128(tx.Amount)
	if err != nil {
		return errors.Wrap(err, "failed to convert amount")
	}
	_, err = r.q().Exec(ctx, `
		INSERT INTO token_transactions (sequence, token_id, type, "from", "to", source, amount, nonce, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, tx.Sequence, tx.TokenId.String(), tx.Type.String(), tx.From, tx.To, tx.Source, amount, tx.Nonce, tx.Timestamp)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
