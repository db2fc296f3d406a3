package entity

import (
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
)

// Allowance is the amount Spender may transfer out of Owner's balance.
type Allowance struct {
	Owner    string
	Spender  string
	TokenId  tokens.TokenId
	Amount   uint128.Uint128
	Sequence uint64
}
