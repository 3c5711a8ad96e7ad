// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package patchengine wraps third-party JSON Patch libraries behind the
// two operations the rest of the module needs: Diff and Apply. It treats
// the RFC 6902 algorithm itself as a black box — gomodules.xyz/jsonpatch/v2
// computes the diff, github.com/evanphx/json-patch/v5 applies it — the same
// pairing real Kubernetes admission-webhook code uses to compute a patch and
// later replay it.
package patchengine

import (
	"encoding/json"
	"fmt"

	evanphx "github.com/evanphx/json-patch/v5"
	gomodules "gomodules.xyz/jsonpatch/v2"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/jsonvc/jsonvc/internal/model"
)

// Diff computes the minimal RFC 6902 JSON Patch turning old into new,
// returned as raw JSON-encoded patch bytes.
func Diff(old, new any) ([]byte, error) {
	oldBytes, err := json.Marshal(old)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	newBytes, err := json.Marshal(new)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}

	ops, err := gomodules.CreatePatch(oldBytes, newBytes)
	if err != nil {
		return nil, &jsonvcerrors.PatchError{Reason: fmt.Sprintf("diff: %v", err)}
	}
	patchBytes, err := json.Marshal(ops)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	return patchBytes, nil
}

// Apply applies a JSON Patch (RFC 6902, JSON-encoded operations) to doc and
// returns a fresh value; doc itself is never mutated.
func Apply(doc any, ops []byte) (any, error) {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	patch, err := evanphx.DecodePatch(ops)
	if err != nil {
		return nil, &jsonvcerrors.PatchError{Reason: fmt.Sprintf("decode patch: %v", err)}
	}
	resultBytes, err := patch.Apply(docBytes)
	if err != nil {
		return nil, &jsonvcerrors.PatchError{Reason: fmt.Sprintf("apply patch: %v", err)}
	}
	result, err := canon.Decode(resultBytes)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	return result, nil
}

// CreateExtPatch wraps old and new under the single alias "object" and
// diffs the wrapped objects, producing a single-source ext-patch whose
// target recovers new from old.
func CreateExtPatch(old, new any, hashFn func(any) (string, error)) (*model.ExtPatch, error) {
	oldHash, err := hashFn(old)
	if err != nil {
		return nil, err
	}

	opsBytes, err := Diff(map[string]any{"object": old}, map[string]any{"object": new})
	if err != nil {
		return nil, err
	}
	var rawOps []json.RawMessage
	if err := json.Unmarshal(opsBytes, &rawOps); err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}

	patch := &model.ExtPatch{
		SourceHashes: map[string]string{"object": oldHash},
		Target:       "object",
		Operations:   rawOps,
	}
	if err := patch.Validate(); err != nil {
		return nil, &jsonvcerrors.PatchError{Reason: err.Error()}
	}
	return patch, nil
}

// ApplyExtPatch loads each of p's declared sources via load, builds the
// synthetic {alias: doc, ...} object, applies p's operations, and returns
// the value recorded under p.Target.
func ApplyExtPatch(p *model.ExtPatch, load func(string) (any, error)) (any, error) {
	if err := p.Validate(); err != nil {
		return nil, &jsonvcerrors.PatchError{Reason: err.Error()}
	}

	sources := make(map[string]any, len(p.SourceHashes))
	for alias, hash := range p.SourceHashes {
		doc, err := load(hash)
		if err != nil {
			return nil, err
		}
		actual, err := canon.Hash(doc)
		if err != nil {
			return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
		}
		if actual != hash {
			return nil, &jsonvcerrors.IntegrityError{
				Hash:   hash,
				Reason: fmt.Sprintf("loaded source for alias %q does not match its declared hash", alias),
			}
		}
		sources[alias] = doc
	}

	opsBytes, err := json.Marshal(p.Operations)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	result, err := Apply(sources, opsBytes)
	if err != nil {
		return nil, err
	}

	resultMap, ok := result.(map[string]any)
	if !ok {
		return nil, &jsonvcerrors.PatchError{Reason: "ext-patch application did not yield an object"}
	}
	target, ok := resultMap[p.Target]
	if !ok {
		return nil, &jsonvcerrors.PatchError{Reason: fmt.Sprintf("ext-patch target alias %q missing after application", p.Target)}
	}
	return target, nil
}
