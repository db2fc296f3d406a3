package token

import (
	"context"
	"encoding/hex"
	"sort"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/datagateway"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/forge-network/token-ledger/pkg/crypto"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory TokenDataGateway. BeginTokenTx copies the whole
// state; Commit swaps the copy back in, so a failed operation leaves the
// parent store untouched, like a rolled-back database transaction.
type memStore struct {
	parent      *memStore
	ledgerState *entity.LedgerState

	tokens     map[tokens.TokenId]tokens.TokenEntry
	balances   map[string]map[tokens.TokenId]uint128.Uint128
	allowances map[string]map[string]map[tokens.TokenId]uint128.Uint128
	nonces     map[string]uint64
	txs        []*entity.TokenTransaction
}

func newMemStore() *memStore {
	return &memStore{
		tokens:     make(map[tokens.TokenId]tokens.TokenEntry),
		balances:   make(map[string]map[tokens.TokenId]uint128.Uint128),
		allowances: make(map[string]map[string]map[tokens.TokenId]uint128.Uint128),
		nonces:     make(map[string]uint64),
	}
}

func (s *memStore) clone() *memStore {
	out := newMemStore()
	for id, entry := range s.tokens {
		out.tokens[id] = entry
	}
	for account, byToken := range s.balances {
		out.balances[account] = make(map[tokens.TokenId]uint128.Uint128, len(byToken))
		for id, amount := range byToken {
			out.balances[account][id] = amount
		}
	}
	for owner, bySpender := range s.allowances {
		out.allowances[owner] = make(map[string]map[tokens.TokenId]uint128.Uint128, len(bySpender))
		for spender, byToken := range bySpender {
			out.allowances[owner][spender] = make(map[tokens.TokenId]uint128.Uint128, len(byToken))
			for id, amount := range byToken {
				out.allowances[owner][spender][id] = amount
			}
		}
	}
	for account, nonce := range s.nonces {
		out.nonces[account] = nonce
	}
	out.txs = append(out.txs, s.txs...)
	out.ledgerState = s.ledgerState
	return out
}

func (s *memStore) BeginTokenTx(ctx context.Context) (datagateway.TokenDataGatewayWithTx, error) {
	tx := s.clone()
	tx.parent = s
	return tx, nil
}

func (s *memStore) Commit(ctx context.Context) error {
	if s.parent == nil {
		return errors.New("not in a transaction")
	}
	s.parent.tokens = s.tokens
	s.parent.balances = s.balances
	s.parent.allowances = s.allowances
	s.parent.nonces = s.nonces
	s.parent.txs = s.txs
	s.parent.ledgerState = s.ledgerState
	s.parent = nil
	return nil
}

func (s *memStore) Rollback(ctx context.Context) error {
	s.parent = nil
	return nil
}

func (s *memStore) GetTokenEntry(ctx context.Context, id tokens.TokenId) (*tokens.TokenEntry, error) {
	entry, ok := s.tokens[id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &entry, nil
}

func (s *memStore) GetTokenEntries(ctx context.Context) ([]*tokens.TokenEntry, error) {
	out := make([]*tokens.TokenEntry, 0, len(s.tokens))
	for id := range s.tokens {
		entry := s.tokens[id]
		out = append(out, &entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtSequence < out[j].CreatedAtSequence })
	return out, nil
}

func (s *memStore) GetBalance(ctx context.Context, account string, id tokens.TokenId) (*entity.Balance, error) {
	amount, ok := s.balances[account][id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &entity.Balance{Account: account, TokenId: id, Amount: amount}, nil
}

func (s *memStore) GetBalancesByAccount(ctx context.Context, account string) ([]*entity.Balance, error) {
	out := make([]*entity.Balance, 0)
	for id, amount := range s.balances[account] {
		if !amount.IsZero() {
			out = append(out, &entity.Balance{Account: account, TokenId: id, Amount: amount})
		}
	}
	return out, nil
}

func (s *memStore) GetBalancesByTokenId(ctx context.Context, id tokens.TokenId, limit int32) ([]*entity.Balance, error) {
	out := make([]*entity.Balance, 0)
	for account, byToken := range s.balances {
		if amount, ok := byToken[id]; ok && !amount.IsZero() {
			out = append(out, &entity.Balance{Account: account, TokenId: id, Amount: amount})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount.Cmp(out[j].Amount) > 0 })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) CountHolders(ctx context.Context, id tokens.TokenId) (int64, error) {
	var count int64
	for _, byToken := range s.balances {
		if amount, ok := byToken[id]; ok && !amount.IsZero() {
			count++
		}
	}
	return count, nil
}

func (s *memStore) GetAllowance(ctx context.Context, owner, spender string, id tokens.TokenId) (*entity.Allowance, error) {
	amount, ok := s.allowances[owner][spender][id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &entity.Allowance{Owner: owner, Spender: spender, TokenId: id, Amount: amount}, nil
}

func (s *memStore) GetAccountNonce(ctx context.Context, account string) (uint64, error) {
	return s.nonces[account], nil
}

func (s *memStore) GetTransactions(ctx context.Context, id tokens.TokenId, account string, limit int32) ([]*entity.TokenTransaction, error) {
	out := make([]*entity.TokenTransaction, 0)
	for i := len(s.txs) - 1; i >= 0 && int32(len(out)) < limit; i-- {
		tx := s.txs[i]
		if id != "" && tx.TokenId != id {
			continue
		}
		if account != "" && tx.From != account && tx.To != account && tx.Source != account {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *memStore) GetLatestSequence(ctx context.Context) (uint64, error) {
	if len(s.txs) == 0 {
		return 0, nil
	}
	return s.txs[len(s.txs)-1].Sequence, nil
}

func (s *memStore) GetTotalBalance(ctx context.Context, id tokens.TokenId) (uint128.Uint128, error) {
	total := uint128.Zero
	for _, byToken := range s.balances {
		if amount, ok := byToken[id]; ok {
			total = total.Add(amount)
		}
	}
	return total, nil
}

func (s *memStore) CreateTokenEntry(ctx context.Context, entry *tokens.TokenEntry) error {
	if _, ok := s.tokens[entry.Id]; ok {
		return errors.WithStack(errs.Duplicate)
	}
	s.tokens[entry.Id] = *entry
	return nil
}

func (s *memStore) UpdateTokenEntry(ctx context.Context, entry *tokens.TokenEntry) error {
	if _, ok := s.tokens[entry.Id]; !ok {
		return errors.WithStack(errs.NotFound)
	}
	s.tokens[entry.Id] = *entry
	return nil
}

func (s *memStore) SetBalance(ctx context.Context, balance *entity.Balance) error {
	if s.balances[balance.Account] == nil {
		s.balances[balance.Account] = make(map[tokens.TokenId]uint128.Uint128)
	}
	s.balances[balance.Account][balance.TokenId] = balance.Amount
	return nil
}

func (s *memStore) SetAllowance(ctx context.Context, allowance *entity.Allowance) error {
	if s.allowances[allowance.Owner] == nil {
		s.allowances[allowance.Owner] = make(map[string]map[tokens.TokenId]uint128.Uint128)
	}
	if s.allowances[allowance.Owner][allowance.Spender] == nil {
		s.allowances[allowance.Owner][allowance.Spender] = make(map[tokens.TokenId]uint128.Uint128)
	}
	s.allowances[allowance.Owner][allowance.Spender][allowance.TokenId] = allowance.Amount
	return nil
}

func (s *memStore) SetAccountNonce(ctx context.Context, account string, nonce uint64) error {
	s.nonces[account] = nonce
	return nil
}

func (s *memStore) CreateTokenTransaction(ctx context.Context, tx *entity.TokenTransaction) error {
	s.txs = append(s.txs, tx)
	return nil
}

func (s *memStore) GetLatestLedgerState(ctx context.Context) (entity.LedgerState, error) {
	if s.ledgerState == nil {
		return entity.LedgerState{}, errors.WithStack(errs.NotFound)
	}
	return *s.ledgerState, nil
}

func (s *memStore) CreateLedgerState(ctx context.Context, state entity.LedgerState) error {
	s.ledgerState = &state
	return nil
}

type processorTestSuite struct {
	store     *memStore
	processor *Processor
	owner     *crypto.Client
	holder    *crypto.Client
	nonces    map[string]uint64
}

func newProcessorTestSuite(t *testing.T) *processorTestSuite {
	t.Helper()
	owner, err := crypto.New("ce9c2fd75623e82a83ed743518ec7749f6f355f7301dd432400b087717fed2f2")
	require.NoError(t, err)
	holderKey, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	holder, err := crypto.New(hex.EncodeToString(holderKey))
	require.NoError(t, err)

	store := newMemStore()
	return &processorTestSuite{
		store:     store,
		processor: NewProcessor(store, store, common.NetworkTestnet),
		owner:     owner,
		holder:    holder,
		nonces:    make(map[string]uint64),
	}
}

// signedOp builds, signs and numbers an operation from the given signer.
func (s *processorTestSuite) signedOp(signer *crypto.Client, op tokens.Operation) tokens.Operation {
	s.nonces[signer.Account()]++
	op.Nonce = s.nonces[signer.Account()]
	op.ChainId = common.NetworkTestnet.ChainId()
	op.SignWith(signer)
	return op
}

func (s *processorTestSuite) apply(t *testing.T, signer *crypto.Client, op tokens.Operation) *entity.TokenTransaction {
	t.Helper()
	tx, err := s.processor.Apply(context.Background(), s.signedOp(signer, op))
	require.NoError(t, err)
	return tx
}

func (s *processorTestSuite) applyExpectingError(t *testing.T, signer *crypto.Client, op tokens.Operation, expectedErr error) {
	t.Helper()
	signed := s.signedOp(signer, op)
	_, err := s.processor.Apply(context.Background(), signed)
	require.ErrorIs(t, err, expectedErr)
	// the failed operation must not consume the nonce
	s.nonces[signer.Account()]--
}

func (s *processorTestSuite) deployDefault(t *testing.T) tokens.TokenId {
	t.Helper()
	s.apply(t, s.owner, tokens.Operation{
		Type: tokens.OperationDeploy,
		Deployment: &tokens.Deployment{
			Name:          "Forge Token",
			Symbol:        "FORGE",
			Decimals:      8,
			MaxSupply:     uint128.From64(1_000_000_000),
			InitialSupply: uint128.From64(100_000_000),
		},
	})
	return tokens.TokenId("FORGE")
}

func (s *processorTestSuite) balance(t *testing.T, account string, id tokens.TokenId) uint128.Uint128 {
	t.Helper()
	balance, err := s.store.GetBalance(context.Background(), account, id)
	if errors.Is(err, errs.NotFound) {
		return uint128.Zero
	}
	require.NoError(t, err)
	return balance.Amount
}

func (s *processorTestSuite) assertSupplyInvariant(t *testing.T, id tokens.TokenId) {
	t.Helper()
	entry, err := s.store.GetTokenEntry(context.Background(), id)
	require.NoError(t, err)
	total, err := s.store.GetTotalBalance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entry.TotalSupply(), total, "sum of balances must equal total supply")
	assert.Equal(t, entry.Minted.Sub(entry.Burned), entry.TotalSupply())
}

func TestProcessorDeploy(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	entry, err := s.store.GetTokenEntry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, s.owner.Account(), entry.Owner)
	assert.Equal(t, uint128.From64(100_000_000), entry.TotalSupply())
	assert.Equal(t, uint128.From64(100_000_000), s.balance(t, s.owner.Account(), id))
	s.assertSupplyInvariant(t, id)

	// the same symbol cannot be deployed twice
	s.applyExpectingError(t, s.owner, tokens.Operation{
		Type: tokens.OperationDeploy,
		Deployment: &tokens.Deployment{
			Name:          "Forge Token",
			Symbol:        "FORGE",
			Decimals:      8,
			MaxSupply:     uint128.From64(1),
			InitialSupply: uint128.Zero,
		},
	}, errs.Duplicate)
}

func TestProcessorDeployPremineExceedsCap(t *testing.T) {
	s := newProcessorTestSuite(t)
	s.applyExpectingError(t, s.owner, tokens.Operation{
		Type: tokens.OperationDeploy,
		Deployment: &tokens.Deployment{
			Name:          "Forge Token",
			Symbol:        "FORGE",
			Decimals:      8,
			MaxSupply:     uint128.From64(1_000_000_000),
			InitialSupply: uint128.From64(1_000_000_001),
		},
	}, tokens.ErrInitialSupplyExceedsCap)
}

func TestProcessorMint(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationMint,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(900_000_000),
	})
	entry, err := s.store.GetTokenEntry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entry.MaxSupply, entry.TotalSupply())
	assert.Equal(t, uint128.From64(900_000_000), s.balance(t, s.holder.Account(), id))
	s.assertSupplyInvariant(t, id)

	// the cap is reached, nothing more can be minted
	s.applyExpectingError(t, s.owner, tokens.Operation{
		Type:    tokens.OperationMint,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
	}, tokens.ErrMintCapExceeded)
	s.assertSupplyInvariant(t, id)
}

func TestProcessorMintNotOwner(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.applyExpectingError(t, s.holder, tokens.Operation{
		Type:    tokens.OperationMint,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
	}, tokens.ErrNotOwner)

	// a failed mint leaves the ledger untouched
	assert.Equal(t, uint128.Zero, s.balance(t, s.holder.Account(), id))
	s.assertSupplyInvariant(t, id)
}

func TestProcessorBurn(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationBurn,
		TokenId: id,
		Amount:  uint128.From64(40_000_000),
	})
	entry, err := s.store.GetTokenEntry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(60_000_000), entry.TotalSupply())
	assert.Equal(t, uint128.From64(40_000_000), entry.Burned)
	assert.Equal(t, uint128.From64(60_000_000), s.balance(t, s.owner.Account(), id))
	s.assertSupplyInvariant(t, id)

	// burning frees room below the cap for future mints
	assert.Equal(t, uint128.From64(940_000_000), entry.MintableAmount())

	s.applyExpectingError(t, s.owner, tokens.Operation{
		Type:    tokens.OperationBurn,
		TokenId: id,
		Amount:  uint128.From64(60_000_001),
	}, tokens.ErrInsufficientBalance)
	s.assertSupplyInvariant(t, id)
}

func TestProcessorTransfer(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(25_000_000),
	})
	assert.Equal(t, uint128.From64(75_000_000), s.balance(t, s.owner.Account(), id))
	assert.Equal(t, uint128.From64(25_000_000), s.balance(t, s.holder.Account(), id))
	s.assertSupplyInvariant(t, id)

	s.applyExpectingError(t, s.holder, tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.owner.Account(),
		Amount:  uint128.From64(25_000_001),
	}, tokens.ErrInsufficientBalance)
	s.assertSupplyInvariant(t, id)
}

func TestProcessorSelfTransfer(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.owner.Account(),
		Amount:  uint128.From64(1_000),
	})
	assert.Equal(t, uint128.From64(100_000_000), s.balance(t, s.owner.Account(), id))
	s.assertSupplyInvariant(t, id)
}

func TestProcessorApproveAndTransferFrom(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationApprove,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(10_000),
	})

	s.apply(t, s.holder, tokens.Operation{
		Type:    tokens.OperationTransferFrom,
		TokenId: id,
		Source:  s.owner.Account(),
		To:      s.holder.Account(),
		Amount:  uint128.From64(4_000),
	})
	assert.Equal(t, uint128.From64(4_000), s.balance(t, s.holder.Account(), id))

	allowance, err := s.store.GetAllowance(context.Background(), s.owner.Account(), s.holder.Account(), id)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(6_000), allowance.Amount)

	s.applyExpectingError(t, s.holder, tokens.Operation{
		Type:    tokens.OperationTransferFrom,
		TokenId: id,
		Source:  s.owner.Account(),
		To:      s.holder.Account(),
		Amount:  uint128.From64(6_001),
	}, tokens.ErrInsufficientAllowance)
	s.assertSupplyInvariant(t, id)
}

func TestProcessorTransferOwnership(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	s.apply(t, s.owner, tokens.Operation{
		Type:    tokens.OperationTransferOwnership,
		TokenId: id,
		To:      s.holder.Account(),
	})

	// the old owner can no longer mint, the new owner can
	s.applyExpectingError(t, s.owner, tokens.Operation{
		Type:    tokens.OperationMint,
		TokenId: id,
		To:      s.owner.Account(),
		Amount:  uint128.From64(1),
	}, tokens.ErrNotOwner)

	s.apply(t, s.holder, tokens.Operation{
		Type:    tokens.OperationMint,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
	})
	s.assertSupplyInvariant(t, id)
}

func TestProcessorRejectsBadNonce(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	op := tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
		Nonce:   99,
		ChainId: common.NetworkTestnet.ChainId(),
	}
	op.SignWith(s.owner)
	_, err := s.processor.Apply(context.Background(), op)
	require.ErrorIs(t, err, tokens.ErrInvalidNonce)
}

func TestProcessorRejectsReplay(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	op := s.signedOp(s.owner, tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
	})
	_, err := s.processor.Apply(context.Background(), op)
	require.NoError(t, err)

	// replaying the exact same signed operation must fail
	_, err = s.processor.Apply(context.Background(), op)
	require.ErrorIs(t, err, tokens.ErrInvalidNonce)
}

func TestProcessorRejectsWrongChainId(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	op := tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
		Nonce:   2,
		ChainId: common.NetworkMainnet.ChainId(),
	}
	op.SignWith(s.owner)
	_, err := s.processor.Apply(context.Background(), op)
	require.ErrorIs(t, err, errs.InvalidArgument)
}

func TestProcessorRejectsTamperedSignature(t *testing.T) {
	s := newProcessorTestSuite(t)
	id := s.deployDefault(t)

	op := s.signedOp(s.owner, tokens.Operation{
		Type:    tokens.OperationTransfer,
		TokenId: id,
		To:      s.holder.Account(),
		Amount:  uint128.From64(1),
	})
	op.Amount = uint128.From64(100_000_000)
	_, err := s.processor.Apply(context.Background(), op)
	require.ErrorIs(t, err, tokens.ErrInvalidSignature)
}

func TestProcessorVerifyStates(t *testing.T) {
	s := newProcessorTestSuite(t)
	ctx := context.Background()

	require.NoError(t, s.processor.VerifyStates(ctx))
	state, err := s.store.GetLatestLedgerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(DBVersion), state.DBVersion)
	assert.Equal(t, common.NetworkTestnet, state.Network)

	// a second run against the same store is a no-op
	require.NoError(t, s.processor.VerifyStates(ctx))

	// a processor configured for another network must refuse to start
	other := NewProcessor(s.store, s.store, common.NetworkMainnet)
	require.ErrorIs(t, other.VerifyStates(ctx), errs.ConflictSetting)
}
