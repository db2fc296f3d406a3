package postgres

import (
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundtrip(t *testing.T) {
	values := []uint128.Uint128{
		uint128.Zero,
		uint128.From64(1),
		uint128.From64(1_000_000_000),
		uint128.Max,
	}
	for _, value := range values {
		numeric, err := numericFromUint128(value)
		require.NoError(t, err)
		back, err := uint128FromNumeric(numeric)
		require.NoError(t, err)
		assert.Equal(t, value, back)
	}
}

func TestUint128FromInvalidNumeric(t *testing.T) {
	// a NULL numeric maps to zero
	value, err := uint128FromNumeric(pgtype.Numeric{})
	assert.NoError(t, err)
	assert.Equal(t, uint128.Zero, value)
}
