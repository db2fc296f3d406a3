package verifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/pkg/httpclient"
	"github.com/forge-network/token-ledger/pkg/logger"
	"github.com/gaze-network/uint128"
)

type Config struct {
	Disabled bool   `mapstructure:"disabled"`
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Name     string `mapstructure:"name"`
}

// Client talks to the public verification service that attests deployed
// token parameters and ledger consistency reports.
type Client struct {
	httpClient *httpclient.Client
	config     Config
}

const defaultEndpoint = "https://verifier.forge.network"

func New(config Config) (*Client, error) {
	endpoint := utils.Default(config.Endpoint, defaultEndpoint)
	headers := make(map[string]string)
	if config.APIKey != "" {
		headers["X-API-Key"] = config.APIKey
	}
	httpClient, err := httpclient.New(endpoint, httpclient.Config{Headers: headers})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	if config.Name == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "verifier.name config is required if verifier is enabled")
	}
	return &Client{
		httpClient: httpClient,
		config:     config,
	}, nil
}

type SubmitDeploymentPayload struct {
	Name          string          `json:"name"`
	Network       common.Network  `json:"network"`
	ChainId       uint64          `json:"chainId"`
	TokenId       string          `json:"tokenId"`
	TokenName     string          `json:"tokenName"`
	Decimals      uint8           `json:"decimals"`
	MaxSupply     uint128.Uint128 `json:"maxSupply"`
	InitialSupply uint128.Uint128 `json:"initialSupply"`
	Owner         string          `json:"owner"`
	Sequence      uint64          `json:"sequence"`
}

// SubmitDeployment publishes the deployment parameters for verification.
func (c *Client) SubmitDeployment(ctx context.Context, payload SubmitDeploymentPayload) error {
	payload.Name = c.config.Name
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := c.httpClient.Post(ctx, "/v1/verify/deployment", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		return errors.Errorf("verifier rejected deployment submission: status %d", resp.StatusCode())
	}
	logger.InfoContext(ctx, "deployment submitted for verification", slog.Any("payload", payload))
	return nil
}

type VerificationStatus struct {
	TokenId  string `json:"tokenId"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Verified bool   `json:"verified"`
}

// GetVerificationStatus polls the verification state of a submitted deployment.
func (c *Client) GetVerificationStatus(ctx context.Context, network common.Network, tokenId string) (VerificationStatus, error) {
	resp, err := c.httpClient.Get(ctx, "/v1/verify/status", httpclient.RequestOptions{
		Query: url.Values{
			"network": []string{network.String()},
			"tokenId": []string{tokenId},
		},
	})
	if err != nil {
		return VerificationStatus{}, errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() == 404 {
		return VerificationStatus{}, errors.Wrapf(errs.NotFound, "no verification submission for token %q", tokenId)
	}
	if resp.StatusCode() >= 400 {
		return VerificationStatus{}, errors.Errorf("verifier returned status %d", resp.StatusCode())
	}
	var status VerificationStatus
	if err := resp.UnmarshalBody(&status); err != nil {
		return VerificationStatus{}, errors.Wrap(err, "can't unmarshal response")
	}
	return status, nil
}

type SubmitLedgerReportPayload struct {
	Name           string          `json:"name"`
	ClientVersion  string          `json:"clientVersion"`
	DBVersion      int32           `json:"dbVersion"`
	Network        common.Network  `json:"network"`
	TokenId        string          `json:"tokenId"`
	TotalSupply    uint128.Uint128 `json:"totalSupply"`
	LatestSequence uint64          `json:"latestSequence"`
}

// SubmitLedgerReport reports a supply audit snapshot. Failures are logged,
// not returned: reporting must not take the ledger down.
func (c *Client) SubmitLedgerReport(ctx context.Context, payload SubmitLedgerReportPayload) error {
	payload.Name = c.config.Name
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := c.httpClient.Post(ctx, "/v1/report/ledger", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		logger.WarnContext(ctx, "failed to submit ledger report", slog.Any("payload", payload), slog.Int("status", resp.StatusCode()))
	}
	logger.DebugContext(ctx, "ledger report submitted", slog.Any("payload", payload))
	return nil
}
