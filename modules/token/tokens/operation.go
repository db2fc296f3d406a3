package tokens

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/pkg/crypto"
	"github.com/gaze-network/uint128"
)

type OperationType string

const (
	OperationDeploy            OperationType = "deploy"
	OperationMint              OperationType = "mint"
	OperationBurn              OperationType = "burn"
	OperationTransfer          OperationType = "transfer"
	OperationApprove           OperationType = "approve"
	OperationTransferFrom      OperationType = "transfer_from"
	OperationTransferOwnership OperationType = "transfer_ownership"
)

var supportedOperationTypes = map[OperationType]struct{}{
	OperationDeploy:            {},
	OperationMint:              {},
	OperationBurn:              {},
	OperationTransfer:          {},
	OperationApprove:           {},
	OperationTransferFrom:      {},
	OperationTransferOwnership: {},
}

func (t OperationType) IsSupported() bool {
	_, ok := supportedOperationTypes[t]
	return ok
}

func (t OperationType) String() string {
	return string(t)
}

// Operation is a signed state transition of the ledger. The signer (From) is
// authenticated by the Signature over SigningPayload.
type Operation struct {
	Type    OperationType   `json:"type"`
	TokenId TokenId         `json:"tokenId,omitempty"`
	From    string          `json:"from"`
	To      string          `json:"to,omitempty"`
	// Source is the debited account of a transfer_from; From is the spender.
	Source  string          `json:"source,omitempty"`
	Amount  uint128.Uint128 `json:"amount"`
	Nonce   uint64          `json:"nonce"`
	ChainId uint64          `json:"chainId"`
	// Deployment carries the construction parameters of a deploy operation.
	Deployment *Deployment `json:"deployment,omitempty"`
	Signature  string      `json:"signature,omitempty"`
}

var (
	ErrInvalidSignature = errors.New("operation signature is invalid")
	ErrInvalidNonce     = errors.New("operation nonce does not match account nonce")
)

// SigningPayload is the canonical string covered by the operation signature.
func (o Operation) SigningPayload() string {
	fields := []string{
		fmt.Sprintf("%d", o.ChainId),
		o.Type.String(),
		o.TokenId.String(),
		o.From,
		o.To,
		o.Source,
		o.Amount.String(),
		fmt.Sprintf("%d", o.Nonce),
	}
	if o.Deployment != nil {
		fields = append(fields,
			o.Deployment.Name,
			o.Deployment.Symbol,
			fmt.Sprintf("%d", o.Deployment.Decimals),
			o.Deployment.MaxSupply.String(),
			o.Deployment.InitialSupply.String(),
		)
	}
	return strings.Join(fields, "|")
}

// SignWith signs the operation, setting From to the signer's account.
func (o *Operation) SignWith(signer *crypto.Client) {
	o.From = signer.Account()
	o.Signature = signer.Sign(o.SigningPayload())
}

// VerifySignature checks the signature against the From account.
func (o Operation) VerifySignature() error {
	verifier, err := crypto.New("")
	if err != nil {
		return errors.WithStack(err)
	}
	ok, err := verifier.Verify(o.SigningPayload(), o.Signature, o.From)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	if !ok {
		return errors.WithStack(ErrInvalidSignature)
	}
	return nil
}

// Validate checks the structural validity of the operation. Ledger-state
// preconditions (ownership, balances, the cap) are checked at apply time.
func (o Operation) Validate() error {
	if !o.Type.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q operation is not supported", o.Type)
	}
	if !IsValidAccount(o.From) {
		return errors.Wrap(errs.InvalidArgument, "'from' is not a valid account")
	}
	switch o.Type {
	case OperationDeploy:
		if o.Deployment == nil {
			return errors.Wrap(errs.InvalidArgument, "deploy operation requires deployment parameters")
		}
		if err := o.Deployment.Validate(); err != nil {
			return errors.WithStack(err)
		}
	case OperationMint, OperationTransfer:
		if !IsValidAccount(o.To) {
			return errors.Wrap(errs.InvalidArgument, "'to' is not a valid account")
		}
	case OperationTransferFrom:
		if !IsValidAccount(o.To) {
			return errors.Wrap(errs.InvalidArgument, "'to' is not a valid account")
		}
		if !IsValidAccount(o.Source) {
			return errors.Wrap(errs.InvalidArgument, "'source' is not a valid account")
		}
	case OperationApprove:
		if !IsValidAccount(o.To) {
			return errors.Wrap(errs.InvalidArgument, "'to' (spender) is not a valid account")
		}
	case OperationTransferOwnership:
		if !IsValidAccount(o.To) {
			return errors.Wrap(errs.InvalidArgument, "'to' (new owner) is not a valid account")
		}
	}
	if o.Type != OperationDeploy {
		if o.TokenId == "" {
			return errors.Wrap(errs.InvalidArgument, "'tokenId' is required")
		}
		if _, err := NewTokenIdFromString(o.TokenId.String()); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
