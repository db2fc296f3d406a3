package datagateway

import (
	"context"

	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/gaze-network/uint128"
)

type TokenDataGateway interface {
	TokenReaderDataGateway
	TokenWriterDataGateway

	// BeginTokenTx returns a TokenDataGateway tied to a new transaction.
	// All writes through it become visible atomically on Commit.
	BeginTokenTx(ctx context.Context) (TokenDataGatewayWithTx, error)
}

type TokenDataGatewayWithTx interface {
	TokenReaderDataGateway
	TokenWriterDataGateway
	Tx
}

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type TokenReaderDataGateway interface {
	GetTokenEntry(ctx context.Context, id tokens.TokenId) (*tokens.TokenEntry, error)
	GetTokenEntries(ctx context.Context) ([]*tokens.TokenEntry, error)
	GetBalance(ctx context.Context, account string, id tokens.TokenId) (*entity.Balance, error)
	GetBalancesByAccount(ctx context.Context, account string) ([]*entity.Balance, error)
	// GetBalancesByTokenId returns non-zero balances ordered by amount descending.
	GetBalancesByTokenId(ctx context.Context, id tokens.TokenId, limit int32) ([]*entity.Balance, error)
	CountHolders(ctx context.Context, id tokens.TokenId) (int64, error)
	GetAllowance(ctx context.Context, owner, spender string, id tokens.TokenId) (*entity.Allowance, error)
	GetAccountNonce(ctx context.Context, account string) (uint64, error)
	GetTransactions(ctx context.Context, id tokens.TokenId, account string, limit int32) ([]*entity.TokenTransaction, error)
	GetLatestSequence(ctx context.Context) (uint64, error)
	// GetTotalBalance sums every balance of the token. Used by the audit
	// worker to check the supply invariant.
	GetTotalBalance(ctx context.Context, id tokens.TokenId) (uint128.Uint128, error)
}

type TokenWriterDataGateway interface {
	CreateTokenEntry(ctx context.Context, entry *tokens.TokenEntry) error
	UpdateTokenEntry(ctx context.Context, entry *tokens.TokenEntry) error
	SetBalance(ctx context.Context, balance *entity.Balance) error
	SetAllowance(ctx context.Context, allowance *entity.Allowance) error
	SetAccountNonce(ctx context.Context, account string, nonce uint64) error
	CreateTokenTransaction(ctx context.Context, tx *entity.TokenTransaction) error
}
