// Package cli provides the command-line interface for s3up.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/s3up/internal/logging"
	"github.com/klauern/s3up/internal/storage"
	"github.com/klauern/s3up/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:      "s3up",
		Usage:     "Upload files and directories to an S3 bucket, skipping objects that are already up to date",
		Version:   Version,
		ArgsUsage: "<path>... <bucket>",
		Description: `Recursively uploads the given files and directories to the destination
   bucket (the last argument). Files whose remote copy is at least as new as
   the local file are skipped, and paths matching an ignore pattern are left
   out entirely.

   Credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY; a .env
   file in the working directory is honored. Defaults can be placed in
   .s3up.yml or .s3up.toml.

   Examples:
     s3up ./dist my-bucket
     s3up --prefix releases/v2 --acl public-read ./dist ./docs my-bucket`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Key prefix prepended to every uploaded object",
			},
			&cli.StringFlag{
				Name:  "acl",
				Usage: "Canned ACL for uploaded objects (" + storage.ACLNames() + ")",
				Value: "private",
			},
			&cli.StringFlag{
				Name:  "ignore",
				Usage: "Comma-separated prefix patterns for paths to skip",
				Value: "^.",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Maximum number of concurrent uploads",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Bucket region",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Custom S3-compatible endpoint URL (MinIO etc.)",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Report what would be uploaded without uploading",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress progress output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable notice-level output (ignored files, per-file details)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Action: uploadAction,
		Commands: []*cli.Command{
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()

	switch {
	case cmd.Bool("debug"):
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case cmd.Bool("verbose"):
		opts.Level = slog.LevelInfo
	case cmd.Bool("quiet"):
		opts.Level = slog.LevelError
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}
