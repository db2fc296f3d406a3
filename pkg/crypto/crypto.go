package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// Client signs and verifies ledger operation payloads with a secp256k1
// keypair. Accounts on the ledger are hex-encoded compressed public keys.
type Client struct {
	privateKey *btcec.PrivateKey
}

func New(privateKeyStr string) (*Client, error) {
	if privateKeyStr != "" {
		privateKeyBytes, err := hex.DecodeString(privateKeyStr)
		if err != nil {
			return nil, errors.Wrap(err, "decode private key")
		}
		if len(privateKeyBytes) != 32 {
			return nil, errors.Errorf("invalid private key length: %d", len(privateKeyBytes))
		}
		privateKey, _ := btcec.PrivKeyFromBytes(privateKeyBytes)
		return &Client{
			privateKey: privateKey,
		}, nil
	}
	return &Client{}, nil
}

// GeneratePrivateKey returns a new random 32-byte private key.
func GeneratePrivateKey() ([]byte, error) {
	privKeyBytes := make([]byte, 32)
	if _, err := rand.Read(privKeyBytes); err != nil {
		return nil, errors.Wrap(err, "random bytes")
	}
	return privKeyBytes, nil
}

// Account returns the signer's ledger account (hex-encoded compressed public key).
func (c *Client) Account() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(c.privateKey.PubKey().SerializeCompressed())
}

func (c *Client) Sign(message string) string {
	messageHash := chainhash.DoubleHashB([]byte(message))
	signature := ecdsa.Sign(c.privateKey, messageHash)
	return hex.EncodeToString(signature.Serialize())
}

func (c *Client) Verify(message, sigStr, pubKeyStr string) (bool, error) {
	sigBytes, err := hex.DecodeString(sigStr)
	if err != nil {
		return false, errors.Wrap(err, "signature decode")
	}

	pubBytes, err := hex.DecodeString(pubKeyStr)
	if err != nil {
		return false, errors.Wrap(err, "pubkey decode")
	}
	pubKey, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return false, errors.Wrap(err, "pubkey parse")
	}

	messageHash := chainhash.DoubleHashB([]byte(message))

	signature, err := ecdsa.ParseSignature(sigBytes)
	if err != nil {
		return false, errors.Wrap(err, "signature parse")
	}
	return signature.Verify(messageHash, pubKey), nil
}
