// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsonvc/jsonvc/internal/store"
)

// NewDiscoverCommand builds `jsonvc discover`.
func NewDiscoverCommand(newApp Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Re-scan the object store and persist a fresh node cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return reportError(err)
			}
			indexer, ok := app.Provider.(store.Index)
			if !ok {
				return reportError(fmt.Errorf("storage backend %q does not support discovery", app.Config.Backend))
			}
			hashes, err := indexer.Index()
			if err != nil {
				return reportError(err)
			}
			added := app.VC.Cache().DiscoverNodes(hashes)
			if err := app.Close(); err != nil {
				return reportError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "discovered %d node(s)\n", len(added))
			return nil
		},
	}
}
