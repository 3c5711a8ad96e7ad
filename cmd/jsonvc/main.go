// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command jsonvc tracks JSON documents as a content-addressed version
// graph: a local or gateway-backed object store, diffed and patched with
// RFC 6902 JSON Patch.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jsonvc/jsonvc/cmd/jsonvc/commands"
)

var version = "0.1.0"

func main() {
	logger := newLogger(os.Stderr)
	defer logger.Sync() //nolint:errcheck

	var configPath string

	rootCmd := &cobra.Command{
		Use:           "jsonvc",
		Short:         "Content-addressed JSON document version control",
		Long:          `jsonvc tracks JSON documents as a content-addressed version graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			reqID := uuid.NewString()
			cmd.SetContext(commands.WithRequestID(cmd.Context(), reqID))
			logger.Info("invoked",
				zap.String("request_id", reqID),
				zap.String("command", cmd.Name()),
				zap.Strings("args", args),
			)
			return nil
		},
	}
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("jsonvc version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the jsonvc config file (default ~/.jsonvc/config.yaml)")

	appFactory := commands.NewFactory(&configPath, logger)

	rootCmd.AddCommand(
		commands.NewTrackCommand(appFactory),
		commands.NewIsTrackedCommand(appFactory),
		commands.NewUpdateCommand(appFactory),
		commands.NewReplaceCommand(appFactory),
		commands.NewShowAssocCommand(appFactory),
		commands.NewShowLogCommand(appFactory),
		commands.NewShowDocCommand(appFactory),
		commands.NewShowDiffCommand(appFactory),
		commands.NewDiscoverCommand(appFactory),
		commands.NewConfigCommand(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns a console-encoded, human-readable logger when stderr is
// a terminal, and a JSON-encoded logger otherwise — so piping jsonvc's
// stderr into a log collector yields structured records without the
// operator having to pass a flag.
func newLogger(stderr *os.File) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if isTerminal(stderr) {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return logger
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
