package tokens

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
)

// TokenId identifies a token on the ledger. It is the token's symbol in
// canonical (uppercase) form, unique per network.
type TokenId string

const (
	minTokenIdLength = 1
	maxTokenIdLength = 16
)

func NewTokenIdFromString(s string) (TokenId, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < minTokenIdLength || len(s) > maxTokenIdLength {
		return "", errors.Wrapf(errs.InvalidArgument, "token id must be %d-%d characters", minTokenIdLength, maxTokenIdLength)
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", errors.Wrapf(errs.InvalidArgument, "token id contains invalid character %q", r)
		}
	}
	return TokenId(s), nil
}

func (id TokenId) String() string {
	return string(id)
}
