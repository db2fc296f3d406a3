package decimals

import (
	"testing"

	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "1", ToDecimal(uint128.From64(100_000_000), 8).String())
	assert.Equal(t, "0.00000001", ToDecimal(uint128.From64(1), 8).String())
	assert.Equal(t, "12345", ToDecimal(uint128.From64(12345), 0).String())
}

func TestFromDecimal(t *testing.T) {
	amount, err := FromDecimal(MustFromString("1"), 8)
	assert.NoError(t, err)
	assert.Equal(t, uint128.From64(100_000_000), amount)

	amount, err = FromDecimal(MustFromString("0.00000001"), 8)
	assert.NoError(t, err)
	assert.Equal(t, uint128.From64(1), amount)

	_, err = FromDecimal(MustFromString("0.000000001"), 8)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = FromDecimal(MustFromString("-1"), 8)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestPowerOfTen(t *testing.T) {
	assert.Equal(t, "1000", PowerOfTen(3).String())
	assert.Equal(t, "0.001", PowerOfTen(-3).String())
	assert.Equal(t, "1", PowerOfTen(0).String())
}
