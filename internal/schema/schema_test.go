// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validHash = "a1b2c3d4e5f6" + "0123456789abcdef0123456789abcdef0123456789abcdef0123"

func TestValidateNodeAcceptsGenesisAndDerivedShapes(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	genesis := map[string]any{
		"extJsonPatchHash": nil,
		"documentHash":     validHash,
		"sourceHashes":     nil,
		"meta":             map[string]any{"message": "initial"},
	}
	assert.NoError(t, v.ValidateNode(genesis))

	derived := map[string]any{
		"extJsonPatchHash": validHash,
		"documentHash":     validHash,
		"sourceHashes":     []any{validHash},
		"meta":             nil,
	}
	assert.NoError(t, v.ValidateNode(derived))
}

func TestValidateNodeRejectsMalformedHashAndExtraFields(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.ValidateNode(map[string]any{
		"documentHash": "not-a-hash",
	})
	assert.Error(t, err)

	err = v.ValidateNode(map[string]any{
		"documentHash": validHash,
		"unexpected":   "field",
	})
	assert.Error(t, err)
}

func TestValidateNodeRejectsMissingDocumentHash(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.ValidateNode(map[string]any{
		"sourceHashes": []any{validHash},
	})
	assert.Error(t, err)
}

func TestValidateExtPatchAcceptsWellFormedPatch(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	patch := map[string]any{
		"sourceHashes": map[string]any{"object": validHash},
		"target":       "object",
		"operations": []any{
			map[string]any{"op": "replace", "path": "/object/a", "value": float64(2)},
		},
	}
	assert.NoError(t, v.ValidateExtPatch(patch))
}

func TestValidateExtPatchRejectsMissingRequiredFields(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.ValidateExtPatch(map[string]any{
		"target": "object",
	})
	assert.Error(t, err)
}

func TestValidateExtPatchRejectsUnknownOperationKind(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.ValidateExtPatch(map[string]any{
		"sourceHashes": map[string]any{"object": validHash},
		"target":       "object",
		"operations": []any{
			map[string]any{"op": "frobnicate", "path": "/object/a"},
		},
	})
	assert.Error(t, err)
}
