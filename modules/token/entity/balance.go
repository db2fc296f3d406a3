package entity

import (
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
)

type Balance struct {
	Account string
	TokenId tokens.TokenId
	Amount  uint128.Uint128
	// Sequence of the ledger operation that last touched this balance.
	Sequence uint64
}
