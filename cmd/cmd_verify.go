package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/internal/broadcast"
	"github.com/forge-network/token-ledger/internal/config"
	"github.com/forge-network/token-ledger/pkg/verifier"
	"github.com/spf13/cobra"
)

type verifyCmdOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

func NewVerifyCommand() *cobra.Command {
	opts := &verifyCmdOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Submit the latest broadcast deployment for source verification",
		Long: `Submit the latest broadcast deployment for source verification.

Reads the most recent deployment record written by the deploy command,
submits its parameters to the verification service and polls until the
deployment is verified or the timeout is reached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.PollInterval, "poll-interval", 5*time.Second, "Interval between verification status checks")
	flags.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Give up waiting for verification after this long")

	return cmd
}

func verifyHandler(opts *verifyCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network)
	}
	if conf.Verifier.Disabled {
		return errors.Wrap(errs.ConflictSetting, "verifier is disabled in configuration")
	}

	record, err := broadcast.ReadLatest(conf.Deployer.BroadcastDir, conf.Network)
	if err != nil {
		return errors.WithStack(err)
	}

	verifierClient, err := verifier.New(conf.Verifier)
	if err != nil {
		return errors.Wrap(err, "can't create verifier client")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	err = verifierClient.SubmitDeployment(ctx, verifier.SubmitDeploymentPayload{
		Network:       record.Network,
		ChainId:       record.ChainId,
		TokenId:       record.TokenId,
		TokenName:     record.Name,
		Decimals:      record.Decimals,
		MaxSupply:     record.MaxSupply,
		InitialSupply: record.InitialSupply,
		Owner:         record.Owner,
		Sequence:      record.Sequence,
	})
	if err != nil {
		return errors.Wrap(err, "can't submit deployment for verification")
	}
	fmt.Printf("Submitted token %s (%s, sequence %d) for verification\n", record.TokenId, record.Network, record.Sequence)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()
	for {
		status, err := verifierClient.GetVerificationStatus(ctx, record.Network, record.TokenId)
		if err != nil && !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "can't fetch verification status")
		}
		if err == nil {
			if status.Verified {
				fmt.Printf("Token %s is verified\n", record.TokenId)
				return nil
			}
			if status.Message != "" {
				fmt.Printf("Verification status: %s (%s)\n", status.Status, status.Message)
			} else {
				fmt.Printf("Verification status: %s\n", status.Status)
			}
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(errs.Timeout, "token %s was not verified within %s", record.TokenId, opts.Timeout)
		case <-ticker.C:
		}
	}
}
