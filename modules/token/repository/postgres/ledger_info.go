package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) GetLatestLedgerState(ctx context.Context) (entity.LedgerState, error) {
	var (
		state     entity.LedgerState
		network   string
		createdAt pgtype.Timestamptz
	)
	err := r.q().QueryRow(ctx, `
		SELECT db_version, network, created_at FROM ledger_states
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&state.DBVersion, &network, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.LedgerState{}, errors.WithStack(errs.NotFound)
		}
		return entity.LedgerState{}, errors.Wrap(err, "error during query")
	}
	state.Network = common.Network(network)
	if createdAt.Valid {
		state.CreatedAt = createdAt.Time.UTC()
	}
	return state, nil
}

func (r *Repository) CreateLedgerState(ctx context.Context, state entity.LedgerState) error {
	_, err := r.q().Exec(ctx, `
		INSERT INTO ledger_states (db_version, network, created_at)
		VALUES ($1, $2, $3)
	`, state.DBVersion, state.Network.String(), state.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
