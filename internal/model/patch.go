// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jsonvc/jsonvc/internal/canon"
)

// ExtPatch is a multi-source patch: it names its sources by their document
// hashes under caller-chosen aliases, declares which alias is the result,
// and carries a JSON Patch (RFC 6902) to apply over the synthetic object
// {alias: doc, ...}.
type ExtPatch struct {
	SourceHashes map[string]string `json:"sourceHashes"`
	Target       string            `json:"target"`
	Operations   []json.RawMessage `json:"operations"`
}

// Validate checks the ext-patch shape: aliases match the alias pattern,
// source hashes are well-formed, and target names one of the sources.
func (p *ExtPatch) Validate() error {
	if len(p.SourceHashes) == 0 {
		return fmt.Errorf("model: ext-patch has no sourceHashes")
	}
	for alias, hash := range p.SourceHashes {
		if !ValidAlias(alias) {
			return fmt.Errorf("model: ext-patch alias %q does not match ^[0-9a-zA-Z_-]+$", alias)
		}
		if !canon.IsWellFormedHash(hash) {
			return fmt.Errorf("model: ext-patch source hash %q for alias %q is not well-formed", hash, alias)
		}
	}
	if _, ok := p.SourceHashes[p.Target]; !ok {
		return fmt.Errorf("model: ext-patch target %q does not name one of its sourceHashes", p.Target)
	}
	return nil
}

// toGeneric renders the ext-patch into the map[string]any shape
// Canonicalize expects, with sourceHashes emitted in sorted-key order per
// the wire schema (§3) — canon.Canonicalize already sorts map keys, so this
// just needs the right shape.
func (p *ExtPatch) toGeneric() (map[string]any, error) {
	sources := make(map[string]any, len(p.SourceHashes))
	for alias, hash := range p.SourceHashes {
		sources[alias] = hash
	}
	ops := make([]any, len(p.Operations))
	for i, raw := range p.Operations {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("model: decode patch operation %d: %w", i, err)
		}
		ops[i] = v
	}
	return map[string]any{
		"sourceHashes": sources,
		"target":       p.Target,
		"operations":   ops,
	}, nil
}

// Canonical returns the ext-patch's canonical byte form.
func (p *ExtPatch) Canonical() ([]byte, error) {
	g, err := p.toGeneric()
	if err != nil {
		return nil, err
	}
	return canon.Canonicalize(g)
}

// Hash returns the ext-patch's content hash.
func (p *ExtPatch) Hash() (string, error) {
	b, err := p.Canonical()
	if err != nil {
		return "", err
	}
	return canon.HashBytes(b), nil
}

// SortedAliases returns the ext-patch's aliases in lexicographic order.
func (p *ExtPatch) SortedAliases() []string {
	aliases := make([]string, 0, len(p.SourceHashes))
	for a := range p.SourceHashes {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// FromGenericExtPatch builds an ExtPatch from a decoded JSON value. The
// value is checked against the Ext-Patch JSON Schema before anything in it
// is trusted enough to unmarshal into Go fields.
func FromGenericExtPatch(v any) (*ExtPatch, error) {
	if err := validateExtPatchShape(v); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("model: re-marshal ext-patch: %w", err)
	}
	var p ExtPatch
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("model: decode ext-patch: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
