package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/internal/broadcast"
	"github.com/forge-network/token-ledger/internal/config"
	"github.com/forge-network/token-ledger/modules/token/tokens"
	"github.com/forge-network/token-ledger/pkg/crypto"
	"github.com/forge-network/token-ledger/pkg/decimals"
	"github.com/forge-network/token-ledger/pkg/httpclient"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type deployCmdOptions struct {
	Name          string
	Symbol        string
	Decimals      uint8
	MaxSupply     string
	InitialSupply string
}

func NewDeployCommand() *cobra.Command {
	opts := &deployCmdOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Sign a token deployment and broadcast it to the configured network",
		Long: `Sign a token deployment and broadcast it to the configured network.

The signing key is read from the PRIVATE_KEY environment variable. The node
endpoint is read from MAINNET_RPC_URL or TESTNET_RPC_URL depending on the
--network flag. A deployment record is written under the broadcast directory
on success.`,
		Example: `PRIVATE_KEY=... TESTNET_RPC_URL=https://rpc.testnet.example.com \
  forge deploy --network testnet --name "Forge Token" --symbol FORGE --decimals 8 \
  --max-supply 1000000000 --initial-supply 100000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deployHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Name, "name", "", "Token name. E.g. \"Forge Token\"")
	flags.StringVar(&opts.Symbol, "symbol", "", "Token symbol, 1-16 characters A-Z0-9. Doubles as the token id")
	flags.Uint8Var(&opts.Decimals, "decimals", 8, "Token divisibility, max 18")
	flags.StringVar(&opts.MaxSupply, "max-supply", "", "Fixed supply cap in display units")
	flags.StringVar(&opts.InitialSupply, "initial-supply", "0", "Amount minted to the deployer at deployment, in display units")

	return cmd
}

// submitResult mirrors the POST /v1/tokens/operations response body.
type submitResult struct {
	Error  *string `json:"error"`
	Result *struct {
		Sequence uint64 `json:"sequence"`
		TokenId  string `json:"tokenId"`
	} `json:"result"`
}

type nonceResult struct {
	Error  *string `json:"error"`
	Result *struct {
		Nonce uint64 `json:"nonce"`
	} `json:"result"`
}

func deployHandler(opts *deployCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Load()

	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network)
	}
	endpoint := conf.Deployer.Endpoint(conf.Network)
	if endpoint == "" {
		return errors.Wrapf(errs.InvalidArgument, "node endpoint for network %q is not set, set MAINNET_RPC_URL or TESTNET_RPC_URL", conf.Network)
	}
	if conf.Deployer.PrivateKey == "" {
		return errors.Wrap(errs.InvalidArgument, "signing key is not set, set the PRIVATE_KEY environment variable")
	}

	signer, err := crypto.New(conf.Deployer.PrivateKey)
	if err != nil {
		return errors.Wrap(err, "invalid signing key")
	}

	deployment, err := parseDeployment(opts)
	if err != nil {
		return errors.WithStack(err)
	}

	client, err := httpclient.New(endpoint)
	if err != nil {
		return errors.Wrapf(err, "invalid node endpoint %q", endpoint)
	}

	nonce, err := fetchNonce(cmd, client, signer.Account())
	if err != nil {
		return errors.WithStack(err)
	}

	op := tokens.Operation{
		Type:       tokens.OperationDeploy,
		Nonce:      nonce + 1,
		ChainId:    conf.Network.ChainId(),
		Deployment: &deployment,
	}
	op.SignWith(signer)

	body, err := json.Marshal(op)
	if err != nil {
		return errors.Wrap(err, "can't marshal operation")
	}
	resp, err := client.Post(ctx, "/v1/tokens/operations", httpclient.RequestOptions{Body: body})
	if err != nil {
		return errors.Wrap(err, "can't broadcast operation")
	}
	var result submitResult
	if err := resp.UnmarshalBody(&result); err != nil {
		return errors.Wrap(err, "can't unmarshal response")
	}
	if result.Error != nil {
		return errors.Errorf("node rejected deployment: %s", *result.Error)
	}
	if resp.StatusCode() >= 400 || result.Result == nil {
		return errors.Errorf("node rejected deployment: status %d", resp.StatusCode())
	}

	record := broadcast.Record{
		Network:       conf.Network,
		ChainId:       conf.Network.ChainId(),
		Endpoint:      endpoint,
		TokenId:       result.Result.TokenId,
		Name:          deployment.Name,
		Decimals:      deployment.Decimals,
		MaxSupply:     deployment.MaxSupply,
		InitialSupply: deployment.InitialSupply,
		Owner:         signer.Account(),
		Sequence:      result.Result.Sequence,
		Timestamp:     time.Now().UTC(),
	}
	recordFile, err := broadcast.Write(conf.Deployer.BroadcastDir, record)
	if err != nil {
		return errors.Wrap(err, "can't write deployment record")
	}

	fmt.Printf("Token %s deployed at sequence %d (owner %s)\n", record.TokenId, record.Sequence, record.Owner)
	fmt.Printf("Deployment record saved at %s\n", recordFile)
	return nil
}

func parseDeployment(opts *deployCmdOptions) (tokens.Deployment, error) {
	if opts.MaxSupply == "" {
		return tokens.Deployment{}, errors.Wrap(errs.InvalidArgument, "--max-supply is required")
	}
	maxSupply, err := parseAmount(opts.MaxSupply, opts.Decimals)
	if err != nil {
		return tokens.Deployment{}, errors.Wrap(err, "invalid --max-supply")
	}
	initialSupply, err := parseAmount(opts.InitialSupply, opts.Decimals)
	if err != nil {
		return tokens.Deployment{}, errors.Wrap(err, "invalid --initial-supply")
	}
	deployment := tokens.Deployment{
		Name:          opts.Name,
		Symbol:        opts.Symbol,
		Decimals:      opts.Decimals,
		MaxSupply:     maxSupply,
		InitialSupply: initialSupply,
	}
	if err := deployment.Validate(); err != nil {
		return tokens.Deployment{}, errors.WithStack(err)
	}
	return deployment, nil
}

func parseAmount(raw string, tokenDecimals uint8) (uint128.Uint128, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%q is not a valid amount", raw)
	}
	amount, err := decimals.FromDecimal(value, tokenDecimals)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return amount, nil
}

func fetchNonce(cmd *cobra.Command, client *httpclient.Client, account string) (uint64, error) {
	resp, err := client.Get(cmd.Context(), "/v1/tokens/nonce/"+account, httpclient.RequestOptions{})
	if err != nil {
		return 0, errors.Wrap(err, "can't fetch account nonce")
	}
	var result nonceResult
	if err := resp.UnmarshalBody(&result); err != nil {
		return 0, errors.Wrap(err, "can't unmarshal nonce response")
	}
	if resp.StatusCode() >= 400 || result.Result == nil {
		return 0, errors.Errorf("can't fetch account nonce: status %d", resp.StatusCode())
	}
	return result.Result.Nonce, nil
}
