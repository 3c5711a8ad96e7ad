// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIsTrackedCommand builds `jsonvc istracked`.
func NewIsTrackedCommand(newApp Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "istracked <file>",
		Short: "Report whether a JSON document is tracked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			hashes, err := app.VC.GetAssociatedNodeHashesForFile(args[0])
			if err != nil {
				return reportError(err)
			}
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), len(hashes) > 0)
			return nil
		},
	}
}
