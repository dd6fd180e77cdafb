package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/klauern/s3up/internal/config"
	"github.com/klauern/s3up/internal/ignore"
	"github.com/klauern/s3up/internal/logging"
	"github.com/klauern/s3up/internal/progress"
	"github.com/klauern/s3up/internal/storage"
	"github.com/klauern/s3up/internal/sync"
	"github.com/klauern/s3up/internal/ui"
)

// uploadAction is the root command: upload the given paths to the bucket
// named by the last positional argument.
func uploadAction(ctx context.Context, cmd *cli.Command) error {
	sources, bucket, err := splitArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	// A .env in the working directory is honored but optional.
	_ = godotenv.Load()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := loadRunConfig(cmd, workDir)
	if err != nil {
		return err
	}

	accessKey, secretKey, err := config.Credentials()
	if err != nil {
		return err
	}

	acl, err := storage.ParseACL(cfg.Upload.ACL)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, storage.Config{
		Bucket:          bucket,
		Region:          cfg.Storage.Region,
		EndpointURL:     cfg.Storage.EndpointURL,
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		ACL:             acl,
	})
	if err != nil {
		return err
	}

	return runUpload(ctx, store, cfg, workDir, sources, cmd.Bool("dry-run"))
}

// splitArgs separates the source paths from the destination bucket, which
// is the last positional argument.
func splitArgs(args []string) (sources []string, bucket string, err error) {
	if len(args) < 2 {
		return nil, "", errors.New("expected at least one source path followed by the destination bucket")
	}
	return args[:len(args)-1], args[len(args)-1], nil
}

// loadRunConfig loads file/env configuration for workDir and applies
// command-line overrides on top.
func loadRunConfig(cmd *cli.Command, workDir string) (*config.Config, error) {
	cfg, err := config.Load(workDir)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, cmd)
	return cfg, nil
}

// applyFlags lets explicit command-line flags override file and environment
// values.
func applyFlags(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("prefix") {
		cfg.Upload.Prefix = cmd.String("prefix")
	}
	if cmd.IsSet("acl") {
		cfg.Upload.ACL = cmd.String("acl")
	}
	if cmd.IsSet("ignore") {
		cfg.Upload.Ignore = ignore.ParsePatterns(cmd.String("ignore"))
	}
	if cmd.IsSet("workers") {
		cfg.Upload.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("region") {
		cfg.Storage.Region = cmd.String("region")
	}
	if cmd.IsSet("endpoint") {
		cfg.Storage.EndpointURL = cmd.String("endpoint")
	}
	if cmd.Bool("quiet") {
		cfg.Output.Quiet = true
	}
	if cmd.Bool("verbose") || cmd.Bool("debug") {
		cfg.Output.Verbose = true
	}
	if cfg.Output.Color == "never" {
		ui.DisableColors()
	}
}

// runUpload drives the traversal engine and prints the run summary.
func runUpload(ctx context.Context, store sync.ObjectStore, cfg *config.Config, workDir string, sources []string, dryRun bool) error {
	bar := progress.New(progress.Options{
		Description: "Uploading to " + store.Bucket(),
		Quiet:       cfg.Output.Quiet,
	})
	reporter := newConsoleReporter(os.Stdout, cfg.Output, bar)

	engine := sync.New(store, sync.Options{
		WorkDir: workDir,
		Prefix:  cfg.Upload.Prefix,
		Rules:   ignore.NewRuleSet(cfg.Upload.Ignore),
		DryRun:  dryRun,
		Workers: cfg.Upload.Workers,
	}, reporter)

	start := time.Now()
	result, err := engine.Run(ctx, sources)
	_ = bar.Finish()
	if err != nil {
		return err
	}
	logging.Debug("run complete",
		logging.Count(result.Uploaded+result.Skipped+result.Ignored),
		logging.Duration(time.Since(start)))

	if !cfg.Output.Quiet {
		summary := fmt.Sprintf("%d uploaded, %d up to date, %d ignored",
			result.Uploaded, result.Skipped, result.Ignored)
		if dryRun {
			summary = "dry run: " + summary
		}
		fmt.Println(ui.StatusSuccess(summary))
	}
	return nil
}
