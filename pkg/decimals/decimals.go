package decimals

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36

	// MaxDecimals bounds a token's divisibility. 10^38 overflows uint128
	// multiplied amounts quickly, 18 matches the common ledger convention.
	MaxDecimals uint8 = 18
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal converts a raw ledger amount to its display value using the
// token's decimals.
func ToDecimal(amount uint128.Uint128, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(amount.Big(), -int32(decimals))
}

// FromDecimal converts a display value to a raw ledger amount.
func FromDecimal(value decimal.Decimal, decimals uint8) (uint128.Uint128, error) {
	scaled := value.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount %q has more than %d decimal places", value.String(), decimals)
	}
	if scaled.IsNegative() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount %q is negative", value.String())
	}
	big := scaled.BigInt()
	if big.BitLen() > 128 {
		return uint128.Zero, errors.WithStack(errs.OverflowUint128)
	}
	return uint128.FromBig(big)
}

// PowerOfTen returns 10^n as a decimal.
func PowerOfTen(n int32) decimal.Decimal {
	return decimal.New(1, n)
}
