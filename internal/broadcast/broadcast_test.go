package broadcast

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadLatest(t *testing.T) {
	dir := t.TempDir()
	record := Record{
		Network:       common.NetworkTestnet,
		ChainId:       common.NetworkTestnet.ChainId(),
		Endpoint:      "https://rpc.testnet.example.com",
		TokenId:       "FORGE",
		Name:          "Forge Token",
		Decimals:      8,
		MaxSupply:     uint128.From64(1_000_000_000),
		InitialSupply: uint128.From64(100_000_000),
		Owner:         "0251e2dfcdeea17cc9726e4be0855cd0bae19e64f3e247b10760cd76851e7df47e",
		Sequence:      1,
		Timestamp:     time.Now().UTC().Truncate(time.Second),
	}

	latestFile, err := Write(dir, record)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "testnet", "run-latest.json"), latestFile)

	got, err := ReadLatest(dir, common.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestWriteKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	record := Record{
		Network:   common.NetworkTestnet,
		TokenId:   "FORGE",
		Timestamp: time.Unix(1700000000, 0).UTC(),
	}
	_, err := Write(dir, record)
	require.NoError(t, err)

	record.Timestamp = time.Unix(1700000100, 0).UTC()
	record.Sequence = 2
	_, err = Write(dir, record)
	require.NoError(t, err)

	got, err := ReadLatest(dir, common.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Sequence)

	assert.FileExists(t, filepath.Join(dir, "testnet", "run-1700000000.json"))
	assert.FileExists(t, filepath.Join(dir, "testnet", "run-1700000100.json"))
}

func TestReadLatestMissing(t *testing.T) {
	_, err := ReadLatest(t.TempDir(), common.NetworkMainnet)
	assert.ErrorIs(t, err, errs.NotFound)
}
