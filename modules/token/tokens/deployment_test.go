package tokens

import (
	"fmt"
	"strings"
	"testing"

	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
)

func TestDeploymentValidate(t *testing.T) {
	valid := Deployment{
		Name:          "Forge Token",
		Symbol:        "FORGE",
		Decimals:      8,
		MaxSupply:     uint128.From64(1_000_000_000),
		InitialSupply: uint128.From64(100_000_000),
	}

	testNumber := 0
	test := func(mutate func(d *Deployment), expectedErr error) {
		t.Run(fmt.Sprintf("case_%d", testNumber), func(t *testing.T) {
			t.Parallel()
			d := valid
			mutate(&d)
			err := d.Validate()
			if expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, expectedErr)
			}
		})
		testNumber++
	}

	test(func(d *Deployment) {}, nil)
	test(func(d *Deployment) { d.InitialSupply = d.MaxSupply }, nil)
	test(func(d *Deployment) { d.InitialSupply = uint128.Zero }, nil)
	test(func(d *Deployment) { d.InitialSupply = d.MaxSupply.Add64(1) }, ErrInitialSupplyExceedsCap)
	test(func(d *Deployment) { d.MaxSupply = uint128.Zero; d.InitialSupply = uint128.Zero }, errs.InvalidArgument)
	test(func(d *Deployment) { d.Symbol = "" }, errs.InvalidArgument)
	test(func(d *Deployment) { d.Symbol = "has space" }, errs.InvalidArgument)
	test(func(d *Deployment) { d.Name = "" }, errs.InvalidArgument)
	test(func(d *Deployment) { d.Name = strings.Repeat("x", maxNameLength+1) }, errs.InvalidArgument)
	test(func(d *Deployment) { d.Decimals = 19 }, errs.InvalidArgument)
}

func TestDeploymentTokenId(t *testing.T) {
	d := Deployment{Symbol: "forge"}
	assert.Equal(t, TokenId("FORGE"), d.TokenId())
}

func TestNewTokenIdFromString(t *testing.T) {
	id, err := NewTokenIdFromString(" forge ")
	assert.NoError(t, err)
	assert.Equal(t, TokenId("FORGE"), id)

	_, err = NewTokenIdFromString("")
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = NewTokenIdFromString(strings.Repeat("A", maxTokenIdLength+1))
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = NewTokenIdFromString("BAD-CHAR")
	assert.ErrorIs(t, err, errs.InvalidArgument)
}
