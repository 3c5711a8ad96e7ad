// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
)

// NewShowDocCommand builds `jsonvc showdoc`.
func NewShowDocCommand(newApp Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "showdoc <ref>",
		Short: "Print the document recorded by a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			doc, err := app.VC.GetDocForRef(args[0])
			if err != nil {
				return reportError(err)
			}
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			b, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return reportError(&jsonvcerrors.SerializationError{Reason: err.Error()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
