package token

import (
	"context"
	"testing"

	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/forge-network/token-ledger/pkg/parquetutils"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotterExport(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)
	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(25_000_000),
	})

	snapshotter := NewSnapshotter(s.store, common.NetworkTestnet)
	files, err := snapshotter.Export(context.Background())
	require.NoError(t, err)
	require.Contains(t, files, "tokens.parquet")
	require.Contains(t, files, "balances.parquet")
	require.Contains(t, files, "transactions.parquet")

	tokenRows, err := parquetutils.ReadAll[TokenSnapshotRow](parquetutils.NewBufferFileFrom(files["tokens.parquet"]))
	require.NoError(t, err)
	require.Len(t, tokenRows, 1)
	assert.Equal(t, "FORGE", tokenRows[0].Id)
	assert.Equal(t, "100000000", tokenRows[0].Minted)

	balanceRows, err := parquetutils.ReadAll[BalanceSnapshotRow](parquetutils.NewBufferFileFrom(files["balances.parquet"]))
	require.NoError(t, err)
	require.Len(t, balanceRows, 2)

	total := uint128.Zero
	for _, row := range balanceRows {
		amount, err := uint128.FromString(row.Amount)
		require.NoError(t, err)
		total = total.Add(amount)
	}
	assert.Equal(t, uint128.From64(100_000_000), total)

	txRows, err := parquetutils.ReadAll[TransactionSnapshotRow](parquetutils.NewBufferFileFrom(files["transactions.parquet"]))
	require.NoError(t, err)
	require.Len(t, txRows, 2)
}
