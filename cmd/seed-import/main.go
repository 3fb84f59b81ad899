// Command seed-import loads comment seed records into the DynamoDB table the
// service reads with SEED_SOURCE=dynamodb.
//
// Usage:
//
//	seed-import --file seed.yaml --thread default
//	seed-import --sample --table comments --dry-run
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"comments-backend/infrastructure/config"
	"comments-backend/infrastructure/di"
	"comments-backend/infrastructure/persistence/dynamodb"
	"comments-backend/infrastructure/persistence/file"
	"comments-backend/infrastructure/persistence/memory"
	"comments-backend/infrastructure/persistence/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type importOptions struct {
	file   string
	sample bool
	table  string
	thread string
	region string
	dryRun bool
}

// clientFactory builds the DynamoDB client lazily so dry runs need no AWS
// credentials
type clientFactory func(ctx context.Context, cfg *config.Config) (dynamodb.BatchWriteAPI, error)

func awsClient(ctx context.Context, cfg *config.Config) (dynamodb.BatchWriteAPI, error) {
	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return di.ProvideDynamoDBClient(awsCfg), nil
}

func newRootCmd(newClient clientFactory) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "seed-import",
		Short: "Import seed comments into DynamoDB",
		Long: `Reads seed comments from a YAML or JSON file, or the built-in sample
thread, validates them and writes them under THREAD#<thread> in the table.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts, newClient)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "seed file (.yaml, .yml or .json)")
	flags.BoolVar(&opts.sample, "sample", false, "import the built-in sample thread")
	flags.StringVar(&opts.table, "table", envOr("DYNAMODB_TABLE", "comments"), "DynamoDB table name")
	flags.StringVar(&opts.thread, "thread", envOr("THREAD_ID", "default"), "thread id to write under")
	flags.StringVar(&opts.region, "region", envOr("AWS_REGION", "us-west-2"), "AWS region")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "validate records without writing")
	cmd.MarkFlagsMutuallyExclusive("file", "sample")
	cmd.MarkFlagsOneRequired("file", "sample")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, opts *importOptions, newClient clientFactory) error {
	records, source, err := loadRecords(opts)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Environment:   envOr("ENVIRONMENT", "development"),
		SeedSource:    config.SeedSourceDynamoDB,
		AWSRegion:     opts.region,
		DynamoDBTable: opts.table,
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}
	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.dryRun {
		if _, err := seed.ToComments(records, time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d comments from %s are valid\n", len(records), source)
		return nil
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	writer := dynamodb.NewSeedWriter(client, opts.table, logger)
	written, err := writer.WriteRecords(ctx, opts.thread, records)
	if err != nil {
		logger.Error("Seed import failed", zap.Int("written", written), zap.Error(err))
		return err
	}

	fmt.Fprintf(out, "imported %d comments from %s into %s (thread %s)\n", written, source, opts.table, opts.thread)
	return nil
}

func loadRecords(opts *importOptions) ([]seed.Record, string, error) {
	switch {
	case opts.sample:
		return memory.SampleRecords, "sample", nil
	case opts.file != "":
		records, err := file.ReadRecords(opts.file)
		return records, opts.file, err
	default:
		return nil, "", errors.New("one of --file or --sample is required")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd(awsClient).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
