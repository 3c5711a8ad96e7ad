// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeveralNodesWithDocErrorCarriesHashes(t *testing.T) {
	err := &SeveralNodesWithDocError{
		Reason:     "ambiguous",
		NodeHashes: []string{"aa", "bb"},
	}
	var target *SeveralNodesWithDocError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, []string{"aa", "bb"}, target.NodeHashes)
}

func TestGuidedInterface(t *testing.T) {
	var g Guided = &HashPrefixAmbiguousError{Prefix: "a"}
	assert.NotEmpty(t, g.Guidance())
	assert.Contains(t, g.Error(), "a")
}

func TestStorageErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	wrapped := &StorageError{Op: "store", Reason: "write failed", Err: inner}
	assert.ErrorIs(t, wrapped, inner)
}
