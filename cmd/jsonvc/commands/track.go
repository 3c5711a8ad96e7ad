// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTrackCommand builds `jsonvc track`.
func NewTrackCommand(newApp Factory) *cobra.Command {
	var message string
	var force bool

	cmd := &cobra.Command{
		Use:   "track <file>",
		Short: "Start tracking a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			nodeHash, err := app.VC.TrackFile(args[0], message, force)
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
	cmd.Flags().BoolVar(&force, "force", false, "track even if this document is already tracked under a different history")
	return cmd
}
