package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/internal/config"
	"github.com/forge-network/token-ledger/internal/postgres"
	"github.com/forge-network/token-ledger/modules/token"
	tokenpostgres "github.com/forge-network/token-ledger/modules/token/repository/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type snapshotCmdOptions struct {
	OutDir   string
	S3Bucket string
}

func NewSnapshotCommand() *cobra.Command {
	opts := &snapshotCmdOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export the ledger state as parquet files",
		Long: `Export the ledger state as parquet files.

Writes tokens, balances and transactions parquet files under the output
directory. If an S3 bucket is given, the files are uploaded there as well,
using the default AWS credential chain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshotHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.OutDir, "out", ".", "Directory to write snapshot files under")
	flags.StringVar(&opts.S3Bucket, "s3-bucket", "", "Upload the snapshot files to this S3 bucket")

	return cmd
}

func snapshotHandler(opts *snapshotCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Load()

	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network)
	}

	switch strings.ToLower(conf.Modules.Token.Database) {
	case "postgresql", "postgres", "pg":
	default:
		return errors.Wrapf(errs.Unsupported, "%q database for ledger is not supported", conf.Modules.Token.Database)
	}
	pg, err := postgres.NewPool(ctx, conf.Modules.Token.Postgres)
	if err != nil {
		return errors.Wrap(err, "can't create Postgres connection pool")
	}
	defer pg.Close()

	snapshotter := token.NewSnapshotter(tokenpostgres.NewRepository(pg), conf.Network)
	files, err := snapshotter.Export(ctx)
	if err != nil {
		return errors.Wrap(err, "can't export ledger snapshot")
	}

	keyPrefix := snapshotter.KeyPrefix(time.Now())
	outDir := filepath.Join(opts.OutDir, filepath.FromSlash(keyPrefix))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "can't create output directory %q", outDir)
	}
	for name, data := range files {
		outFile := filepath.Join(outDir, name)
		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			return errors.Wrapf(err, "can't write %q", outFile)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outFile, len(data))
	}

	if opts.S3Bucket != "" {
		if err := uploadSnapshot(cmd, opts.S3Bucket, keyPrefix, files); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func uploadSnapshot(cmd *cobra.Command, bucket, keyPrefix string, files map[string][]byte) error {
	ctx := cmd.Context()
	awsConf, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "can't load AWS configuration")
	}
	uploader := manager.NewUploader(s3.NewFromConfig(awsConf))
	eg, egCtx := errgroup.WithContext(ctx)
	for name, data := range files {
		name, data := name, data
		eg.Go(func() error {
			key := path.Join(keyPrefix, name)
			if _, err := uploader.Upload(egCtx, &s3.PutObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
				Body:   bytes.NewReader(data),
			}); err != nil {
				return errors.Wrapf(err, "can't upload %q to bucket %q", key, bucket)
			}
			fmt.Printf("Uploaded s3://%s/%s\n", bucket, key)
			return nil
		})
	}
	return errors.WithStack(eg.Wait())
}
