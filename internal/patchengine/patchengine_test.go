// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package patchengine

import (
	"testing"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffThenApplyRecoversNew(t *testing.T) {
	old := map[string]any{"name": "alice", "age": float64(30)}
	new := map[string]any{"name": "alice", "age": float64(31), "city": "paris"}

	ops, err := Diff(old, new)
	require.NoError(t, err)

	result, err := Apply(old, ops)
	require.NoError(t, err)

	wantHash, err := canon.Hash(new)
	require.NoError(t, err)
	gotHash, err := canon.Hash(result)
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)
}

func TestApplyDoesNotMutateInputDoc(t *testing.T) {
	old := map[string]any{"a": float64(1)}
	new := map[string]any{"a": float64(2)}

	ops, err := Diff(old, new)
	require.NoError(t, err)

	_, err = Apply(old, ops)
	require.NoError(t, err)
	assert.Equal(t, float64(1), old["a"])
}

func TestCreateAndApplyExtPatchRoundTrips(t *testing.T) {
	old := map[string]any{"count": float64(1)}
	new := map[string]any{"count": float64(2)}

	patch, err := CreateExtPatch(old, new, canon.Hash)
	require.NoError(t, err)
	require.NoError(t, patch.Validate())

	oldHash, err := canon.Hash(old)
	require.NoError(t, err)

	result, err := ApplyExtPatch(patch, func(h string) (any, error) {
		assert.Equal(t, oldHash, h)
		return old, nil
	})
	require.NoError(t, err)

	wantHash, err := canon.Hash(new)
	require.NoError(t, err)
	gotHash, err := canon.Hash(result)
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)
}

func TestApplyExtPatchDetectsSourceIntegrityMismatch(t *testing.T) {
	old := map[string]any{"count": float64(1)}
	new := map[string]any{"count": float64(2)}

	patch, err := CreateExtPatch(old, new, canon.Hash)
	require.NoError(t, err)

	_, err = ApplyExtPatch(patch, func(h string) (any, error) {
		return map[string]any{"count": float64(999)}, nil
	})
	require.Error(t, err)
	var integrityErr *jsonvcerrors.IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func TestApplyExtPatchPropagatesLoadError(t *testing.T) {
	old := map[string]any{"count": float64(1)}
	new := map[string]any{"count": float64(2)}

	patch, err := CreateExtPatch(old, new, canon.Hash)
	require.NoError(t, err)

	sentinel := &jsonvcerrors.HashNotFoundError{Prefix: "deadbeef"}
	_, err = ApplyExtPatch(patch, func(h string) (any, error) {
		return nil, sentinel
	})
	require.Error(t, err)
	assert.Same(t, sentinel, err)
}
