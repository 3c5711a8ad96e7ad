// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUpdateCommand builds `jsonvc update`.
func NewUpdateCommand(newApp Factory) *cobra.Command {
	var message string
	var force bool

	cmd := &cobra.Command{
		Use:   "update <old-ref> <new-file>",
		Short: "Record a new version of a tracked document",
		Long: `Record a new version of a tracked document.

old-ref may be a filesystem path to the prior version, a node-hash
prefix, or any reference accepted by the other showX commands.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			nodeHash, err := app.VC.UpdateFromRef(args[0], args[1], message, force)
			if err != nil {
				return reportError(err)
			}
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), nodeHash)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVar(&force, "force", false, "record the update even if the new document is already tracked elsewhere")
	return cmd
}
