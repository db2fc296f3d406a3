package token

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/modules/token/datagateway"
	"github.com/forge-network/token-ledger/pkg/parquetutils"
)

// Snapshotter exports the full ledger state as parquet files, one per table.
type Snapshotter struct {
	tokenDg datagateway.TokenDataGateway
	network common.Network
}

func NewSnapshotter(tokenDg datagateway.TokenDataGateway, network common.Network) *Snapshotter {
	return &Snapshotter{
		tokenDg: tokenDg,
		network: network,
	}
}

type TokenSnapshotRow struct {
	Id         string `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name       string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Decimals   int32  `parquet:"name=decimals, type=INT32"`
	MaxSupply  string `parquet:"name=max_supply, type=BYTE_ARRAY, convertedtype=UTF8"`
	Minted     string `parquet:"name=minted, type=BYTE_ARRAY, convertedtype=UTF8"`
	Burned     string `parquet:"name=burned, type=BYTE_ARRAY, convertedtype=UTF8"`
	Owner      string `parquet:"name=owner, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeployedAt int64  `parquet:"name=deployed_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

type BalanceSnapshotRow struct {
	Account  string `parquet:"name=account, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TokenId  string `parquet:"name=token_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Amount   string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	Sequence int64  `parquet:"name=sequence, type=INT64"`
}

type TransactionSnapshotRow struct {
	Sequence  int64  `parquet:"name=sequence, type=INT64"`
	TokenId   string `parquet:"name=token_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Type      string `parquet:"name=type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	From      string `parquet:"name=from, type=BYTE_ARRAY, convertedtype=UTF8"`
	To        string `parquet:"name=to, type=BYTE_ARRAY, convertedtype=UTF8"`
	Amount    string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	Nonce     int64  `parquet:"name=nonce, type=INT64"`
	Timestamp int64  `parquet:"name=timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

const snapshotTransactionsLimit = 1_000_000

// Export builds the parquet files of the current ledger state, keyed by file
// name.
func (s *Snapshotter) Export(ctx context.Context) (map[string][]byte, error) {
	entries, err := s.tokenDg.GetTokenEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token entries")
	}

	tokenRows := make([]TokenSnapshotRow, 0, len(entries))
	balanceRows := make([]BalanceSnapshotRow, 0)
	for _, entry := range entries {
		tokenRows = append(tokenRows, TokenSnapshotRow{
			Id:         entry.Id.String(),
			Name:       entry.Name,
			Decimals:   int32(entry.Decimals),
			MaxSupply:  entry.MaxSupply.String(),
			Minted:     entry.Minted.String(),
			Burned:     entry.Burned.String(),
			Owner:      entry.Owner,
			DeployedAt: entry.CreatedAt.UnixMilli(),
		})

		holders, err := s.tokenDg.GetBalancesByTokenId(ctx, entry.Id, snapshotTransactionsLimit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get balances for token %q", entry.Id)
		}
		for _, balance := range holders {
			balanceRows = append(balanceRows, BalanceSnapshotRow{
				Account:  balance.Account,
				TokenId:  balance.TokenId.String(),
				Amount:   balance.Amount.String(),
				Sequence: int64(balance.Sequence),
			})
		}
	}

	txs, err := s.tokenDg.GetTransactions(ctx, "", "", snapshotTransactionsLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transactions")
	}
	transactionRows := make([]TransactionSnapshotRow, 0, len(txs))
	for _, tx := range txs {
		transactionRows = append(transactionRows, TransactionSnapshotRow{
			Sequence:  int64(tx.Sequence),
			TokenId:   tx.TokenId.String(),
			Type:      tx.Type.String(),
			From:      tx.From,
			To:        tx.To,
			Amount:    tx.Amount.String(),
			Nonce:     int64(tx.Nonce),
			Timestamp: tx.Timestamp.UnixMilli(),
		})
	}

	files := make(map[string][]byte, 3)
	if files["tokens.parquet"], err = marshalParquet(tokenRows); err != nil {
		return nil, errors.Wrap(err, "failed to export tokens")
	}
	if files["balances.parquet"], err = marshalParquet(balanceRows); err != nil {
		return nil, errors.Wrap(err, "failed to export balances")
	}
	if files["transactions.parquet"], err = marshalParquet(transactionRows); err != nil {
		return nil, errors.Wrap(err, "failed to export transactions")
	}
	return files, nil
}

// KeyPrefix returns the object key prefix for a snapshot taken at ts.
func (s *Snapshotter) KeyPrefix(ts time.Time) string {
	return "snapshots/" + s.network.String() + "/" + ts.UTC().Format("2006-01-02T15-04-05Z")
}

func marshalParquet[T any](rows []T) ([]byte, error) {
	buf := parquetutils.NewBufferFile()
	if err := parquetutils.WriteAll(buf, rows); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}
