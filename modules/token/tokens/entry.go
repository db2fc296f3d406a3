package tokens

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
)

// TokenEntry is the ledger's record of a deployed token.
type TokenEntry struct {
	Id       TokenId
	Name     string
	Symbol   string
	Decimals uint8
	// MaxSupply is the fixed cap: total supply may never exceed it.
	MaxSupply uint128.Uint128
	// Minted is the cumulative amount ever minted, including the initial supply.
	Minted uint128.Uint128
	// Burned is the cumulative amount ever burned.
	Burned uint128.Uint128
	// Owner is the only account authorized to mint and to transfer ownership.
	Owner             string
	CreatedAt         time.Time
	CreatedAtSequence uint64
}

var (
	ErrNotOwner            = errors.New("caller is not the token owner")
	ErrMintCapExceeded     = errors.New("mint would exceed the max supply")
	ErrInsufficientBalance = errors.New("amount exceeds balance")
	ErrZeroAmount          = errors.New("amount must be positive")

	ErrInsufficientAllowance = errors.New("amount exceeds allowance")
)

// TotalSupply is the circulating supply: everything minted minus everything burned.
func (e TokenEntry) TotalSupply() uint128.Uint128 {
	return e.Minted.Sub(e.Burned)
}

// MintableAmount returns how much can still be minted before hitting the cap.
func (e TokenEntry) MintableAmount() uint128.Uint128 {
	supply := e.TotalSupply()
	if supply.Cmp(e.MaxSupply) >= 0 {
		return uint128.Zero
	}
	return e.MaxSupply.Sub(supply)
}

// ValidateMint checks the two mint preconditions: the minter must be the
// owner, and the cap must hold after the mint.
func (e TokenEntry) ValidateMint(minter string, amount uint128.Uint128) error {
	if minter != e.Owner {
		return errors.WithStack(ErrNotOwner)
	}
	if amount.IsZero() {
		return errors.WithStack(ErrZeroAmount)
	}
	newSupply, overflow := e.TotalSupply().AddOverflow(amount)
	if overflow {
		return errors.WithStack(errs.OverflowUint128)
	}
	if newSupply.Cmp(e.MaxSupply) > 0 {
		return errors.WithStack(ErrMintCapExceeded)
	}
	return nil
}

// ValidateBurn checks that the holder's balance covers the burn.
func (e TokenEntry) ValidateBurn(balance, amount uint128.Uint128) error {
	if amount.IsZero() {
		return errors.WithStack(ErrZeroAmount)
	}
	if balance.Cmp(amount) < 0 {
		return errors.WithStack(ErrInsufficientBalance)
	}
	return nil
}
