package tokens

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
)

// IsValidAccount reports whether s is a valid ledger account: a hex-encoded
// compressed secp256k1 public key.
func IsValidAccount(s string) bool {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return false
	}
	if len(raw) != btcec.PubKeyBytesLenCompressed {
		return false
	}
	_, err = btcec.ParsePubKey(raw)
	return err == nil
}
