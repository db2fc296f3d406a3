package entity

import (
	"time"

	"github.com/forge-network/token-ledger/common"
)

type LedgerState struct {
	DBVersion int32
	Network   common.Network
	CreatedAt time.Time
}
