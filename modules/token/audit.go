package token

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/modules/token/datagateway"
	"github.com/forge-network/token-ledger/pkg/logger"
	"github.com/forge-network/token-ledger/pkg/logger/slogx"
	"github.com/forge-network/token-ledger/pkg/verifier"
)

// AuditChecker verifies the supply invariant of every deployed token: the sum
// of all balances must equal minted minus burned. Reports each audited token
// to the verifier when one is configured.
type AuditChecker struct {
	tokenDg        datagateway.TokenDataGateway
	network        common.Network
	verifierClient *verifier.Client
}

func NewAuditChecker(tokenDg datagateway.TokenDataGateway, network common.Network, verifierClient *verifier.Client) *AuditChecker {
	return &AuditChecker{
		tokenDg:        tokenDg,
		network:        network,
		verifierClient: verifierClient,
	}
}

func (c *AuditChecker) Name() string {
	return "token-supply"
}

var ErrSupplyMismatch = errors.New("sum of balances does not equal total supply")

func (c *AuditChecker) Check(ctx context.Context) error {
	entries, err := c.tokenDg.GetTokenEntries(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get token entries")
	}
	latestSequence, err := c.tokenDg.GetLatestSequence(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get latest sequence")
	}
	for _, entry := range entries {
		total, err := c.tokenDg.GetTotalBalance(ctx, entry.Id)
		if err != nil {
			return errors.Wrapf(err, "failed to sum balances for token %q", entry.Id)
		}
		if total.Cmp(entry.TotalSupply()) != 0 {
			return errors.Wrapf(ErrSupplyMismatch, "token %q: balances sum to %s, total supply is %s", entry.Id, total, entry.TotalSupply())
		}
		if c.verifierClient != nil {
			if err := c.verifierClient.SubmitLedgerReport(ctx, verifier.SubmitLedgerReportPayload{
				ClientVersion:  Version,
				DBVersion:      DBVersion,
				Network:        c.network,
				TokenId:        entry.Id.String(),
				TotalSupply:    entry.TotalSupply(),
				LatestSequence: latestSequence,
			}); err != nil {
				logger.WarnContext(ctx, "failed to submit ledger report", slogx.Error(err), slogx.Stringer("tokenId", entry.Id))
			}
		}
	}
	logger.DebugContext(ctx, "supply audit passed", slogx.Int("tokens", len(entries)))
	return nil
}

func (c *AuditChecker) Shutdown(ctx context.Context) error {
	return nil
}
