// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowLogCommand builds `jsonvc showlog`.
func NewShowLogCommand(newApp Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "showlog <ref>",
		Short: "Show the linear history of a tracked document, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			nodes, err := app.VC.GetLinearHistoryForRef(args[0])
			if err != nil {
				return reportError(err)
			}
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			out := cmd.OutOrStdout()
			for _, n := range nodes {
				h, err := n.Hash()
				if err != nil {
					return reportError(err)
				}
				fmt.Fprintf(out, "%s  %s\n", h, n.Message())
			}
			return nil
		},
	}
}
