// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"os"

	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
)

// reportError prints err to stderr, appending a guidance hint when err
// satisfies jsonvcerrors.Guided, and returns it unchanged so cobra's RunE
// contract (non-nil error -> non-zero exit, no usage dump once
// SilenceUsage is set) is preserved.
func reportError(err error) error {
	if err == nil {
		return nil
	}
	var guided jsonvcerrors.Guided
	if errors.As(err, &guided) {
		fmt.Fprintf(os.Stderr, "error: %s\n  hint: %s\n", guided.Error(), guided.Guidance())
		return err
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
	return err
}
