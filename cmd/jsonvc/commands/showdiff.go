// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowDiffCommand builds `jsonvc showdiff`.
func NewShowDiffCommand(newApp Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "showdiff <old-ref> <new-ref>",
		Short: "Show the RFC 6902 JSON Patch between two documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			ops, err := app.VC.GetDiffForRefs(args[0], args[1])
			if err != nil {
				return reportError(err)
			}
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(ops))
			return nil
		},
	}
}
