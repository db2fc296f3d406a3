package token

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/modules/token/datagateway"
	"github.com/forge-network/token-ledger/modules/token/entity"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/forge-network/token-ledger/pkg/logger"
	"github.com/forge-network/token-ledger/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
)

type Processor struct {
	tokenDg      datagateway.TokenDataGateway
	ledgerInfoDg datagateway.LedgerInfoDataGateway
	network      common.Network
}

func NewProcessor(tokenDg datagateway.TokenDataGateway, ledgerInfoDg datagateway.LedgerInfoDataGateway, network common.Network) *Processor {
	return &Processor{
		tokenDg:      tokenDg,
		ledgerInfoDg: ledgerInfoDg,
		network:      network,
	}
}

// VerifyStates ensures the database schema version and configured network
// match what the ledger was initialized with.
func (p *Processor) VerifyStates(ctx context.Context) error {
	state, err := p.ledgerInfoDg.GetLatestLedgerState(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get latest ledger state")
	}
	if errors.Is(err, errs.NotFound) {
		if err := p.ledgerInfoDg.CreateLedgerState(ctx, entity.LedgerState{
			DBVersion: DBVersion,
			Network:   p.network,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return errors.Wrap(err, "failed to create ledger state")
		}
		return nil
	}
	if state.DBVersion != DBVersion {
		return errors.Wrapf(errs.ConflictSetting, "db version mismatch: current version is %d. Please migrate to version %d", state.DBVersion, DBVersion)
	}
	if state.Network != p.network {
		return errors.Wrapf(errs.ConflictSetting, "network mismatch: ledger was initialized on %q, configured network is %q. If you want to change the network, please reset the database", state.Network, p.network)
	}
	return nil
}

// Apply validates op against the current ledger state and applies it in a
// single database transaction. Either every state change of the operation
// becomes visible or none does.
func (p *Processor) Apply(ctx context.Context, op tokens.Operation) (*entity.TokenTransaction, error) {
	if err := op.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := op.VerifySignature(); err != nil {
		return nil, errors.WithStack(err)
	}
	if op.ChainId != p.network.ChainId() {
		return nil, errors.Wrapf(errs.InvalidArgument, "operation chain id %d does not match network chain id %d", op.ChainId, p.network.ChainId())
	}

	dg, err := p.tokenDg.BeginTokenTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := dg.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(err))
		}
	}()

	nonce, err := dg.GetAccountNonce(ctx, op.From)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account nonce")
	}
	if op.Nonce != nonce+1 {
		return nil, errors.Wrapf(tokens.ErrInvalidNonce, "expected nonce %d, got %d", nonce+1, op.Nonce)
	}

	latestSequence, err := dg.GetLatestSequence(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest sequence")
	}
	sequence := latestSequence + 1

	tokenTx := &entity.TokenTransaction{
		Sequence:  sequence,
		TokenId:   op.TokenId,
		Type:      op.Type,
		From:      op.From,
		To:        op.To,
		Source:    op.Source,
		Amount:    op.Amount,
		Nonce:     op.Nonce,
		Timestamp: time.Now().UTC(),
	}

	switch op.Type {
	case tokens.OperationDeploy:
		tokenTx.TokenId = op.Deployment.TokenId()
		tokenTx.Amount = op.Deployment.InitialSupply
		err = p.applyDeploy(ctx, dg, op, sequence)
	case tokens.OperationMint:
		err = p.applyMint(ctx, dg, op, sequence)
	case tokens.OperationBurn:
		err = p.applyBurn(ctx, dg, op, sequence)
	case tokens.OperationTransfer:
		err = p.applyTransfer(ctx, dg, op, sequence)
	case tokens.OperationApprove:
		err = p.applyApprove(ctx, dg, op, sequence)
	case tokens.OperationTransferFrom:
		err = p.applyTransferFrom(ctx, dg, op, sequence)
	case tokens.OperationTransferOwnership:
		err = p.applyTransferOwnership(ctx, dg, op)
	default:
		err = errors.Wrapf(errs.Unsupported, "%q operation is not supported", op.Type)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := dg.SetAccountNonce(ctx, op.From, op.Nonce); err != nil {
		return nil, errors.Wrap(err, "failed to set account nonce")
	}
	if err := dg.CreateTokenTransaction(ctx, tokenTx); err != nil {
		return nil, errors.Wrap(err, "failed to create token transaction")
	}
	if err := dg.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return tokenTx, nil
}

func (p *Processor) applyDeploy(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation, sequence uint64) error {
	deployment := op.Deployment
	id := deployment.TokenId()
	if _, err := dg.GetTokenEntry(ctx, id); err == nil {
		return errors.Wrapf(errs.Duplicate, "token %q is already deployed", id)
	} else if !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get token entry")
	}

	entry := &tokens.TokenEntry{
		Id:                id,
		Name:              deployment.Name,
		Symbol:            id.String(),
		Decimals:          deployment.Decimals,
		MaxSupply:         deployment.MaxSupply,
		Minted:            deployment.InitialSupply,
		Burned:            uint128.Zero,
		Owner:             op.From,
		CreatedAt:         time.Now().UTC(),
		CreatedAtSequence: sequence,
	}
	if err := dg.CreateTokenEntry(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to create token entry")
	}
	// the initial supply is credited to the deployer
	if !deployment.InitialSupply.IsZero() {
		if err := p.creditBalance(ctx, dg, op.From, id, deployment.InitialSupply, sequence); err != nil {
			return errors.Wrap(err, "failed to credit initial supply")
		}
	}
	return nil
}

func (p *Processor) applyMint(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation, sequence uint64) error {
	entry, err := dg.GetTokenEntry(ctx, op.TokenId)
	if err != nil {
		return errors.Wrap(err, "failed to get token entry")
	}
	if err := entry.ValidateMint(op.From, op.Amount); err != nil {
		return errors.WithStack(err)
	}
	entry.Minted = entry.Minted.Add(op.Amount)
	if err := dg.UpdateTokenEntry(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to update token entry")
	}
	if err := p.creditBalance(ctx, dg, op.To, op.TokenId, op.Amount, sequence); err != nil {
		return errors.Wrap(err, "failed to credit balance")
	}
	return nil
}

func (p *Processor) applyBurn(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation, sequence uint64) error {
	entry, err := dg.GetTokenEntry(ctx, op.TokenId)
	if err != nil {
		return errors.Wrap(err, "failed to get token entry")
	}
	balance, err := p.getBalanceAmount(ctx, dg, op.From, op.TokenId)
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}
	if err := entry.ValidateBurn(balance, op.Amount); err != nil {
		return errors.WithStack(err)
	}
	entry.Burned = entry.Burned.Add(op.Amount)
	if err := dg.UpdateTokenEntry(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to update token entry")
	}
	if err := dg.SetBalance(ctx, &entity.Balance{
		Account:  op.From,
		TokenId:  op.TokenId,
		Amount:   balance.Sub(op.Amount),
		Sequence: sequence,
	}); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

func (p *Processor) applyTransfer(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation, sequence uint64) error {
	if _, err := dg.GetTokenEntry(ctx, op.TokenId); err != nil {
		return errors.Wrap(err, "failed to get token entry")
	}
	return p.moveBalance(ctx, dg, op.From, op.To, op.TokenId, op.Amount, sequence)
}

func (p *Processor) applyApprove(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation, sequence uint64) error {
	if _, err := dg.GetTokenEntry(ctx, op.TokenId); err != nil {
		return errors.Wrap(err, "failed to get token entry")
	}
	// approve overwrites any previous allowance, zero included
	if err := dg.SetAllowance(ctx, &entity.Allowance{
		Owner:    op.From,
		Spender:  op.To,
		TokenId:  op.TokenId,
		Amount:   op.Amount,
		Sequence: sequence,
	}); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

func (p *Processor) applyTransferFrom(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation, sequence uint64) error {
	if _, err := dg.GetTokenEntry(ctx, op.TokenId); err != nil {
		return errors.Wrap(err, "failed to get token entry")
	}
	allowance, err := dg.GetAllowance(ctx, op.Source, op.From, op.TokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(tokens.ErrInsufficientAllowance)
		}
		return errors.Wrap(err, "failed to get allowance")
	}
	if allowance.Amount.Cmp(op.Amount) < 0 {
		return errors.WithStack(tokens.ErrInsufficientAllowance)
	}
	if err := p.moveBalance(ctx, dg, op.Source, op.To, op.TokenId, op.Amount, sequence); err != nil {
		return errors.WithStack(err)
	}
	if err := dg.SetAllowance(ctx, &entity.Allowance{
		Owner:    op.Source,
		Spender:  op.From,
		TokenId:  op.TokenId,
		Amount:   allowance.Amount.Sub(op.Amount),
		Sequence: sequence,
	}); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

func (p *Processor) applyTransferOwnership(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, op tokens.Operation) error {
	entry, err := dg.GetTokenEntry(ctx, op.TokenId)
	if err != nil {
		return errors.Wrap(err, "failed to get token entry")
	}
	if op.From != entry.Owner {
		return errors.WithStack(tokens.ErrNotOwner)
	}
	entry.Owner = op.To
	if err := dg.UpdateTokenEntry(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to update token entry")
	}
	return nil
}

func (p *Processor) moveBalance(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, from, to string, id tokens.TokenId, amount uint128.Uint128, sequence uint64) error {
	if amount.IsZero() {
		return errors.WithStack(tokens.ErrZeroAmount)
	}
	fromBalance, err := p.getBalanceAmount(ctx, dg, from, id)
	if err != nil {
		return errors.Wrap(err, "failed to get sender balance")
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.WithStack(tokens.ErrInsufficientBalance)
	}
	// self transfer must not double-apply
	if from == to {
		return nil
	}
	if err := dg.SetBalance(ctx, &entity.Balance{
		Account:  from,
		TokenId:  id,
		Amount:   fromBalance.Sub(amount),
		Sequence: sequence,
	}); err != nil {
		return errors.Wrap(err, "failed to set sender balance")
	}
	if err := p.creditBalance(ctx, dg, to, id, amount, sequence); err != nil {
		return errors.Wrap(err, "failed to credit recipient balance")
	}
	return nil
}

func (p *Processor) creditBalance(ctx context.Context, dg datagateway.TokenDataGatewayWithTx, account string, id tokens.TokenId, amount uint128.Uint128, sequence uint64) error {
	current, err := p.getBalanceAmount(ctx, dg, account, id)
	if err != nil {
		return errors.WithStack(err)
	}
	newAmount, overflow := current.AddOverflow(amount)
	if overflow {
		return errors.WithStack(errs.OverflowUint128)
	}
	return errors.WithStack(dg.SetBalance(ctx, &entity.Balance{
		Account:  account,
		TokenId:  id,
		Amount:   newAmount,
		Sequence: sequence,
	}))
}

func (p *Processor) getBalanceAmount(ctx context.Context, dg datagateway.TokenReaderDataGateway, account string, id tokens.TokenId) (uint128.Uint128, error) {
	balance, err := dg.GetBalance(ctx, account, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return uint128.Zero, nil
		}
		return uint128.Zero, errors.WithStack(err)
	}
	return balance.Amount, nil
}
