// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package graph

import (
	"testing"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/jsonvc/jsonvc/internal/model"
	"github.com/jsonvc/jsonvc/internal/patchengine"
	"github.com/jsonvc/jsonvc/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) (*TrackGraph, *store.LocalProvider) {
	t.Helper()
	provider := store.NewLocalProvider(t.TempDir())
	return New(provider), provider
}

func TestCreateGenesisNode(t *testing.T) {
	g, provider := newTestGraph(t)

	doc := map[string]any{"a": float64(23)}
	nodeHash, err := g.CreateGenesisNode(doc, map[string]any{"message": "m1"})
	require.NoError(t, err)

	raw, err := provider.Load(nodeHash)
	require.NoError(t, err)
	node, err := model.FromGeneric(raw)
	require.NoError(t, err)
	assert.True(t, node.IsGenesis())
	assert.Equal(t, "m1", node.Message())

	wantDocHash, err := canon.Hash(doc)
	require.NoError(t, err)
	assert.Equal(t, wantDocHash, node.DocumentHash)
}

func TestCreateNodeLifecycle(t *testing.T) {
	g, provider := newTestGraph(t)

	old := map[string]any{"a": float64(23)}
	new := map[string]any{"a": float64(27)}

	h0, err := g.CreateGenesisNode(old, map[string]any{"message": "m1"})
	require.NoError(t, err)

	extPatch, err := patchengine.CreateExtPatch(old, new, canon.Hash)
	require.NoError(t, err)

	newDocHash, err := canon.Hash(new)
	require.NoError(t, err)

	h1, err := g.CreateNode(extPatch, []string{h0}, map[string]any{"message": "m2"}, newDocHash)
	require.NoError(t, err)
	assert.NotEqual(t, h0, h1)

	raw, err := provider.Load(h1)
	require.NoError(t, err)
	node, err := model.FromGeneric(raw)
	require.NoError(t, err)
	assert.Equal(t, newDocHash, node.DocumentHash)
	assert.Equal(t, []string{h0}, node.SourceHashes)
	assert.Equal(t, "m2", node.Message())
}

func TestCreateNodeDetectsConsistencyMismatch(t *testing.T) {
	g, _ := newTestGraph(t)

	old := map[string]any{"a": float64(1)}
	new := map[string]any{"a": float64(2)}
	unrelated := map[string]any{"z": float64(99)}

	h0, err := g.CreateGenesisNode(unrelated, nil)
	require.NoError(t, err)

	extPatch, err := patchengine.CreateExtPatch(old, new, canon.Hash)
	require.NoError(t, err)

	newDocHash, err := canon.Hash(new)
	require.NoError(t, err)

	_, err = g.CreateNode(extPatch, []string{h0}, nil, newDocHash)
	require.Error(t, err)
	var consistencyErr *jsonvcerrors.ConsistencyError
	assert.ErrorAs(t, err, &consistencyErr)
}

func TestCreateNodeDetectsExpectedHashMismatch(t *testing.T) {
	g, _ := newTestGraph(t)

	old := map[string]any{"a": float64(1)}
	new := map[string]any{"a": float64(2)}

	h0, err := g.CreateGenesisNode(old, nil)
	require.NoError(t, err)

	extPatch, err := patchengine.CreateExtPatch(old, new, canon.Hash)
	require.NoError(t, err)

	_, err = g.CreateNode(extPatch, []string{h0}, nil, "wrong-hash-entirely")
	require.Error(t, err)
	var patchErr *jsonvcerrors.PatchError
	assert.ErrorAs(t, err, &patchErr)
}
