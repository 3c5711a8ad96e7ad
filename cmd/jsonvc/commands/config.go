// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jsonvc/jsonvc/internal/config"
)

// NewConfigCommand builds `jsonvc config` and its {show,showdir,set}
// subcommands. Unlike the other command groups, these operate on the
// config file directly rather than going through the version-control
// façade, so they build their own *config.Config instead of taking a
// Factory.
func NewConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the jsonvc configuration file",
	}
	cmd.AddCommand(
		newConfigShowCommand(configPath),
		newConfigShowDirCommand(),
		newConfigSetCommand(configPath),
	)
	return cmd
}

func resolveConfigPath(configPath *string) (string, error) {
	if configPath != nil && *configPath != "" {
		return *configPath, nil
	}
	return config.DefaultPath()
}

func newConfigShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(configPath)
			if err != nil {
				return reportError(err)
			}
			cfg, err := config.Load(path)
			if err != nil {
				return reportError(err)
			}
			cfg.ApplyEnvOverrides()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend: %s\n", cfg.Backend)
			fmt.Fprintf(out, "cache_path: %s\n", cfg.CachePath)
			keys := make([]string, 0, len(cfg.Params))
			for k := range cfg.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "params.%s: %s\n", k, cfg.Params[k])
			}
			return nil
		},
	}
}

func newConfigShowDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "showdir",
		Short: "Print the configuration directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.DefaultDir()
			if err != nil {
				return reportError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func newConfigSetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration key (backend, cache_path, or params.<name>) and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(configPath)
			if err != nil {
				return reportError(err)
			}
			cfg, err := config.Load(path)
			if err != nil {
				return reportError(err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return reportError(err)
			}
			if err := cfg.Save(path); err != nil {
				return reportError(err)
			}
			return nil
		},
	}
}
