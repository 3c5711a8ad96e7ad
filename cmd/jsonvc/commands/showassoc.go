// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowAssocCommand builds `jsonvc showassoc`.
func NewShowAssocCommand(newApp Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "showassoc <file>",
		Short: "List the node hashes and messages associated with a document",
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
			messages, err := app.VC.GetMessages(hashes)
			if err != nil {
				return reportError(err)
			}
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			out := cmd.OutOrStdout()
			for _, h := range hashes {
				fmt.Fprintf(out, "%s  %s\n", h, messages[h])
			}
			return nil
		},
	}
}
