// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFactory(t *testing.T) Factory {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	objectsDir := filepath.Join(dir, "objects")
	require.NoError(t, os.MkdirAll(objectsDir, 0o755))

	content := "backend: local\nparams:\n  dir: " + objectsDir + "\ncache_path: " + filepath.Join(dir, "cache.json") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	return NewFactory(&configPath, zap.NewNop())
}

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestTrackIsTrackedShowDoc(t *testing.T) {
	factory := newTestFactory(t)
	dir := t.TempDir()
	docPath := writeJSON(t, dir, "doc.json", `{"a":1}`)

	trackOut := run(t, NewTrackCommand(factory), "--message", "initial", docPath)
	nodeHash := strings.TrimSpace(trackOut)
	require.NotEmpty(t, nodeHash)

	trackedOut := run(t, NewIsTrackedCommand(factory), docPath)
	assert.Contains(t, trackedOut, "true")

	docOut := run(t, NewShowDocCommand(factory), nodeHash)
	assert.JSONEq(t, `{"a":1}`, docOut)
}

func TestTrackThenUpdateThenShowLog(t *testing.T) {
	factory := newTestFactory(t)
	dir := t.TempDir()
	oldPath := writeJSON(t, dir, "old.json", `{"a":1}`)
	newPath := writeJSON(t, dir, "new.json", `{"a":2}`)

	run(t, NewTrackCommand(factory), "--message", "v1", oldPath)

	updateOut := run(t, NewUpdateCommand(factory), "--message", "v2", oldPath, newPath)
	assert.NotEmpty(t, updateOut)

	logOut := run(t, NewShowLogCommand(factory), newPath)
	assert.Contains(t, logOut, "v1")
	assert.Contains(t, logOut, "v2")
}

func TestReplaceMovesUpdateFileOverTarget(t *testing.T) {
	factory := newTestFactory(t)
	dir := t.TempDir()
	targetPath := writeJSON(t, dir, "target.json", `{"a":1}`)
	updatePath := writeJSON(t, dir, "update.json", `{"a":2}`)

	run(t, NewTrackCommand(factory), "--message", "v1", targetPath)
	run(t, NewReplaceCommand(factory), "--message", "v2", targetPath, updatePath)

	data, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	_, err = os.Stat(updatePath)
	assert.True(t, os.IsNotExist(err))
}

func TestShowDiff(t *testing.T) {
	factory := newTestFactory(t)
	dir := t.TempDir()
	oldPath := writeJSON(t, dir, "old.json", `{"a":1}`)
	newPath := writeJSON(t, dir, "new.json", `{"a":2}`)

	diffOut := run(t, NewShowDiffCommand(factory), oldPath, newPath)
	assert.Contains(t, diffOut, "\"op\"")
}

func TestDiscoverReportsCount(t *testing.T) {
	factory := newTestFactory(t)
	dir := t.TempDir()
	docPath := writeJSON(t, dir, "doc.json", `{"a":1}`)
	run(t, NewTrackCommand(factory), docPath)

	out := run(t, NewDiscoverCommand(factory))
	assert.Contains(t, out, "discovered")
}

func TestConfigShowAndSet(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	out := run(t, NewConfigCommand(&configPath), "show")
	assert.Contains(t, out, "backend: local")

	run(t, NewConfigCommand(&configPath), "set", "backend", "gateway")
	out = run(t, NewConfigCommand(&configPath), "show")
	assert.Contains(t, out, "backend: gateway")
}
