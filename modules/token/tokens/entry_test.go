package tokens

import (
	"fmt"
	"testing"

	"github.com/forge-network/token-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
)

const (
	ownerAccount = "0251e2dfcdeea17cc9726e4be0855cd0bae19e64f3e247b10760cd76851e7df47e"
	otherAccount = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
)

func TestTotalSupply(t *testing.T) {
	e := TokenEntry{
		Minted: uint128.From64(1000),
		Burned: uint128.From64(300),
	}
	assert.Equal(t, uint128.From64(700), e.TotalSupply())
}

func TestMintableAmount(t *testing.T) {
	testNumber := 0
	test := func(e TokenEntry, expected uint128.Uint128) {
		t.Run(fmt.Sprintf("case_%d", testNumber), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, expected, e.MintableAmount())
		})
		testNumber++
	}

	test(TokenEntry{
		MaxSupply: uint128.From64(1000),
	}, uint128.From64(1000))

	test(TokenEntry{
		MaxSupply: uint128.From64(1000),
		Minted:    uint128.From64(400),
	}, uint128.From64(600))

	test(TokenEntry{
		MaxSupply: uint128.From64(1000),
		Minted:    uint128.From64(1000),
	}, uint128.Zero)

	// burned amounts free up room below the cap
	test(TokenEntry{
		MaxSupply: uint128.From64(1000),
		Minted:    uint128.From64(1000),
		Burned:    uint128.From64(250),
	}, uint128.From64(250))
}

func TestValidateMint(t *testing.T) {
	entry := TokenEntry{
		Id:        "TEST",
		MaxSupply: uint128.From64(1_000_000),
		Minted:    uint128.From64(600_000),
		Owner:     ownerAccount,
	}

	testNumber := 0
	test := func(minter string, amount uint128.Uint128, expectedErr error) {
		t.Run(fmt.Sprintf("case_%d", testNumber), func(t *testing.T) {
			t.Parallel()
			err := entry.ValidateMint(minter, amount)
			if expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, expectedErr)
			}
		})
		testNumber++
	}

	test(ownerAccount, uint128.From64(400_000), nil)
	test(ownerAccount, uint128.From64(400_001), ErrMintCapExceeded)
	test(ownerAccount, uint128.Zero, ErrZeroAmount)
	test(otherAccount, uint128.From64(1), ErrNotOwner)
	// non-owner is rejected before the cap check
	test(otherAccount, uint128.From64(400_001), ErrNotOwner)
}

func TestValidateMintOverflow(t *testing.T) {
	entry := TokenEntry{
		Id:        "TEST",
		MaxSupply: uint128.Max,
		Minted:    uint128.Max,
		Owner:     ownerAccount,
	}
	err := entry.ValidateMint(ownerAccount, uint128.From64(1))
	assert.ErrorIs(t, err, errs.OverflowUint128)
}

func TestValidateBurn(t *testing.T) {
	entry := TokenEntry{Id: "TEST"}

	assert.NoError(t, entry.ValidateBurn(uint128.From64(100), uint128.From64(100)))
	assert.NoError(t, entry.ValidateBurn(uint128.From64(100), uint128.From64(1)))
	assert.ErrorIs(t, entry.ValidateBurn(uint128.From64(100), uint128.From64(101)), ErrInsufficientBalance)
	assert.ErrorIs(t, entry.ValidateBurn(uint128.From64(100), uint128.Zero), ErrZeroAmount)
}
