package tokens

import (
	"testing"

	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/pkg/crypto"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "ce9c2fd75623e82a83ed743518ec7749f6f355f7301dd432400b087717fed2f2"

func testSigner(t *testing.T) *crypto.Client {
	t.Helper()
	signer, err := crypto.New(testPrivateKey)
	require.NoError(t, err)
	return signer
}

func TestOperationSignVerify(t *testing.T) {
	signer := testSigner(t)

	op := Operation{
		Type:    OperationMint,
		TokenId: "FORGE",
		To:      otherAccount,
		Amount:  uint128.From64(1000),
		Nonce:   1,
		ChainId: 7770,
	}
	op.SignWith(signer)

	assert.Equal(t, signer.Account(), op.From)
	assert.NoError(t, op.VerifySignature())

	// any covered field change invalidates the signature
	tampered := op
	tampered.Amount = uint128.From64(1001)
	assert.ErrorIs(t, tampered.VerifySignature(), ErrInvalidSignature)

	tampered = op
	tampered.To = ownerAccount
	assert.ErrorIs(t, tampered.VerifySignature(), ErrInvalidSignature)

	tampered = op
	tampered.ChainId = 7771
	assert.ErrorIs(t, tampered.VerifySignature(), ErrInvalidSignature)

	tampered = op
	tampered.Signature = ""
	assert.ErrorIs(t, tampered.VerifySignature(), ErrInvalidSignature)
}

func TestOperationSigningPayloadCoversDeployment(t *testing.T) {
	signer := testSigner(t)

	op := Operation{
		Type:    OperationDeploy,
		ChainId: 7770,
		Nonce:   1,
		Deployment: &Deployment{
			Name:          "Forge Token",
			Symbol:        "FORGE",
			Decimals:      8,
			MaxSupply:     uint128.From64(1_000_000_000),
			InitialSupply: uint128.From64(100_000_000),
		},
	}
	op.SignWith(signer)
	assert.NoError(t, op.VerifySignature())

	tampered := op
	deployment := *op.Deployment
	deployment.MaxSupply = uint128.Max
	tampered.Deployment = &deployment
	assert.ErrorIs(t, tampered.VerifySignature(), ErrInvalidSignature)
}

func TestOperationValidate(t *testing.T) {
	valid := func() Operation {
		return Operation{
			Type:    OperationTransfer,
			TokenId: "FORGE",
			From:    ownerAccount,
			To:      otherAccount,
			Amount:  uint128.From64(1),
			Nonce:   1,
			ChainId: 7770,
		}
	}

	assert.NoError(t, valid().Validate())

	op := valid()
	op.Type = "freeze"
	assert.ErrorIs(t, op.Validate(), errs.Unsupported)

	op = valid()
	op.From = "not-an-account"
	assert.ErrorIs(t, op.Validate(), errs.InvalidArgument)

	op = valid()
	op.To = "not-an-account"
	assert.ErrorIs(t, op.Validate(), errs.InvalidArgument)

	op = valid()
	op.TokenId = ""
	assert.ErrorIs(t, op.Validate(), errs.InvalidArgument)

	op = valid()
	op.Type = OperationDeploy
	op.Deployment = nil
	assert.ErrorIs(t, op.Validate(), errs.InvalidArgument)

	op = valid()
	op.Type = OperationTransferFrom
	op.Source = ""
	assert.ErrorIs(t, op.Validate(), errs.InvalidArgument)
}
