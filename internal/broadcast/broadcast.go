package broadcast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
)

// Record is the on-disk receipt of a broadcast deployment. The deploy command
// writes one per run; the verify command reads the latest back.
type Record struct {
	Network       common.Network  `json:"network"`
	ChainId       uint64          `json:"chainId"`
	Endpoint      string          `json:"endpoint"`
	TokenId       string          `json:"tokenId"`
	Name          string          `json:"name"`
	Decimals      uint8           `json:"decimals"`
	MaxSupply     uint128.Uint128 `json:"maxSupply"`
	InitialSupply uint128.Uint128 `json:"initialSupply"`
	Owner         string          `json:"owner"`
	Sequence      uint64          `json:"sequence"`
	Timestamp     time.Time       `json:"timestamp"`
}

const (
	defaultDir     = "broadcast"
	latestFileName = "run-latest.json"
)

func dirFor(baseDir string, network common.Network) string {
	if baseDir == "" {
		baseDir = defaultDir
	}
	return filepath.Join(baseDir, network.String())
}

// Write persists the record twice: a timestamped file for history and
// run-latest.json for tooling that wants the most recent run.
func Write(baseDir string, record Record) (string, error) {
	dir := dirFor(baseDir, record.Network)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "can't create broadcast directory %q", dir)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "can't marshal record")
	}
	data = append(data, '\n')

	runFile := filepath.Join(dir, fmt.Sprintf("run-%d.json", record.Timestamp.Unix()))
	if err := os.WriteFile(runFile, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "can't write %q", runFile)
	}
	latestFile := filepath.Join(dir, latestFileName)
	if err := os.WriteFile(latestFile, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "can't write %q", latestFile)
	}
	return latestFile, nil
}

// ReadLatest loads the most recent deployment record of the network.
func ReadLatest(baseDir string, network common.Network) (Record, error) {
	latestFile := filepath.Join(dirFor(baseDir, network), latestFileName)
	data, err := os.ReadFile(latestFile)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, errors.Wrapf(errs.NotFound, "no deployment record for network %q, run deploy first", network)
		}
		return Record{}, errors.Wrapf(err, "can't read %q", latestFile)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, errors.Wrapf(err, "can't unmarshal %q", latestFile)
	}
	return record, nil
}
