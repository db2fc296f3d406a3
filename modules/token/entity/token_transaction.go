package entity

import (
	"time"

	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
)

// TokenTransaction is an applied ledger operation. Sequence is assigned by the
// processor and totally orders all operations across all tokens.
type TokenTransaction struct {
	Sequence  uint64
	TokenId   tokens.TokenId
	Type      tokens.OperationType
	From      string
	To        string
	Source    string
	Amount    uint128.Uint128
	Nonce     uint64
	Timestamp time.Time
}
