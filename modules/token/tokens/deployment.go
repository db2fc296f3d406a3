package tokens

import (
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/pkg/decimals"
	"github.com/gaze-network/uint128"
)

// Deployment is the construction request of a new token.
type Deployment struct {
	Name     string
	Symbol   string
	Decimals uint8
	// MaxSupply is the fixed cap of the token.
	MaxSupply uint128.Uint128
	// InitialSupply is minted to the deployer at construction time.
	InitialSupply uint128.Uint128
}

var ErrInitialSupplyExceedsCap = errors.New("initial supply exceeds max supply")

const maxNameLength = 64

func (d Deployment) Validate() error {
	if _, err := NewTokenIdFromString(d.Symbol); err != nil {
		return errors.Wrap(err, "invalid symbol")
	}
	if d.Name == "" || len(d.Name) > maxNameLength {
		return errors.Wrapf(errs.InvalidArgument, "name must be 1-%d characters", maxNameLength)
	}
	if d.Decimals > decimals.MaxDecimals {
		return errors.Wrapf(errs.InvalidArgument, "decimals must not exceed %d", decimals.MaxDecimals)
	}
	if d.MaxSupply.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "max supply must be positive")
	}
	if d.InitialSupply.Cmp(d.MaxSupply) > 0 {
		return errors.WithStack(ErrInitialSupplyExceedsCap)
	}
	return nil
}

// TokenId derives the ledger id of the deployed token.
func (d Deployment) TokenId() TokenId {
	id, _ := NewTokenIdFromString(d.Symbol)
	return id
}
