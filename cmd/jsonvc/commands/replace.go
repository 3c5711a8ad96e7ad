// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReplaceCommand builds `jsonvc replace`.
func NewReplaceCommand(newApp Factory) *cobra.Command {
	var message string
	var force bool
	var targetHash string

	cmd := &cobra.Command{
		Use:   "replace <target-file> <update-file>",
		Short: "Record an update and replace the target file with it in place",
		Long: `Record an update against the node tracking target-file, then move
update-file over target-file so callers can treat this as an in-place edit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			nodeHash, err := app.VC.Replace(args[0], args[1], message, force, targetHash)
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
	cmd.Flags().StringVar(&targetHash, "target-hash", "", "disambiguate among several nodes tracking the target file")
	return cmd
}
