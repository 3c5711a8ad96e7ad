// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package vc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/jsonvc/jsonvc/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVC(t *testing.T) *VC {
	t.Helper()
	provider := store.NewLocalProvider(t.TempDir())
	v, err := New(provider)
	require.NoError(t, err)
	return v
}

func writeJSONFile(t *testing.T, dir, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBasicLifecycle(t *testing.T) {
	v := newTestVC(t)

	h0, err := v.Track(map[string]any{"a": float64(23)}, "m1", false)
	require.NoError(t, err)

	h1, err := v.Update(h0, map[string]any{"a": float64(27)}, "m2", false)
	require.NoError(t, err)

	history, err := v.GetLinearHistory(h1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "m1", history[0].Message())
	assert.Equal(t, "m2", history[1].Message())
	assert.Equal(t, []string{h0}, history[1].SourceHashes)
}

func TestTrackRejectsDuplicateWithoutForce(t *testing.T) {
	v := newTestVC(t)

	doc := map[string]any{"a": float64(1)}
	_, err := v.Track(doc, "m1", false)
	require.NoError(t, err)

	_, err = v.Track(doc, "m1-again", false)
	require.Error(t, err)
	var alreadyTracked *jsonvcerrors.DocAlreadyTrackedError
	assert.ErrorAs(t, err, &alreadyTracked)

	_, err = v.Track(doc, "m1-forced", true)
	assert.NoError(t, err)
}

func TestResolveObjrefDetectsSeveralNodesWithDocAfterForcedRetrack(t *testing.T) {
	v := newTestVC(t)
	dir := t.TempDir()
	docPath := writeJSONFile(t, dir, "doc.json", `{"a":1}`)

	_, err := v.TrackFile(docPath, "m1", false)
	require.NoError(t, err)

	// Force a second, independent genesis node over the same document.
	_, err = v.TrackFile(docPath, "m1-again", true)
	require.NoError(t, err)

	_, err = v.ResolveObjref(docPath, Any)
	require.Error(t, err)
	var several *jsonvcerrors.SeveralNodesWithDocError
	require.ErrorAs(t, err, &several)
	assert.Len(t, several.NodeHashes, 2)
}

func TestGetDocAndGetDiff(t *testing.T) {
	v := newTestVC(t)

	old := map[string]any{"a": float64(1)}
	new := map[string]any{"a": float64(2)}

	h0, err := v.Track(old, "m1", false)
	require.NoError(t, err)

	doc, err := v.GetDoc(h0)
	require.NoError(t, err)
	gotHash, err := canon.Hash(doc)
	require.NoError(t, err)
	wantHash, err := canon.Hash(old)
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)

	ops, err := v.GetDiff(old, new)
	require.NoError(t, err)
	assert.NotEmpty(t, ops)
}

func TestGetMessages(t *testing.T) {
	v := newTestVC(t)

	h0, err := v.Track(map[string]any{"a": float64(1)}, "first", false)
	require.NoError(t, err)
	h1, err := v.Update(h0, map[string]any{"a": float64(2)}, "second", false)
	require.NoError(t, err)

	messages, err := v.GetMessages([]string{h0, h1})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{h0: "first", h1: "second"}, messages)
}

func TestResolveObjrefFileAndCache(t *testing.T) {
	v := newTestVC(t)
	dir := t.TempDir()

	docPath := writeJSONFile(t, dir, "doc.json", `{"a":1}`)
	h0, err := v.TrackFile(docPath, "m1", false)
	require.NoError(t, err)

	resolved, err := v.ResolveObjref(docPath, File)
	require.NoError(t, err)
	assert.Equal(t, h0, resolved)

	resolved, err = v.ResolveObjref(h0[:8], Cache)
	require.NoError(t, err)
	assert.Equal(t, h0, resolved)
}

func TestResolveObjrefUntrackedFileFails(t *testing.T) {
	v := newTestVC(t)
	dir := t.TempDir()
	docPath := writeJSONFile(t, dir, "untracked.json", `{"z":9}`)

	_, err := v.ResolveObjref(docPath, File)
	require.Error(t, err)
	var notTracked *jsonvcerrors.DocNotTrackedError
	assert.ErrorAs(t, err, &notTracked)
}

func TestReplace(t *testing.T) {
	v := newTestVC(t)
	dir := t.TempDir()

	targetPath := writeJSONFile(t, dir, "target.json", `{"a":1}`)
	_, err := v.TrackFile(targetPath, "m1", false)
	require.NoError(t, err)

	updatePath := writeJSONFile(t, dir, "update.json", `{"a":2}`)
	newNodeHash, err := v.Replace(targetPath, updatePath, "m2", false, "")
	require.NoError(t, err)
	assert.NotEmpty(t, newNodeHash)

	data, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	_, err = os.Stat(updatePath)
	assert.True(t, os.IsNotExist(err))
}

func TestGetLinearHistoryWithIndependentForks(t *testing.T) {
	v := newTestVC(t)

	base := map[string]any{"a": float64(0)}
	h0, err := v.Track(base, "base", false)
	require.NoError(t, err)

	child1, err := v.Update(h0, map[string]any{"a": float64(1)}, "c1", false)
	require.NoError(t, err)
	child2, err := v.Update(h0, map[string]any{"a": float64(2)}, "c2", false)
	require.NoError(t, err)

	history1, err := v.GetLinearHistory(child1)
	require.NoError(t, err)
	assert.Len(t, history1, 2)

	history2, err := v.GetLinearHistory(child2)
	require.NoError(t, err)
	assert.Len(t, history2, 2)
}
