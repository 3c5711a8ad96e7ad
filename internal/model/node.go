// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the two graph-shaped, content-addressed entities
// built on top of documents: Graph Node and Extended Patch. Both carry their
// own Canonical()/Hash() derived from internal/canon, and a Validate() that
// checks the invariants the rest of the module relies on before trusting the
// fields.
package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/jsonvc/jsonvc/internal/canon"
)

var aliasPattern = regexp.MustCompile(`^[0-9a-zA-Z_-]+$`)

// GraphNode is an immutable record in the version DAG: it points at a
// document, the ext-patch that produced it (absent for a genesis node), and
// the node hashes it descends from.
type GraphNode struct {
	ExtJSONPatchHash *string        `json:"extJsonPatchHash"`
	DocumentHash     string         `json:"documentHash"`
	SourceHashes     []string       `json:"sourceHashes"`
	Meta             map[string]any `json:"meta"`
}

// NewGenesisNode builds a node with no patch and no sources.
func NewGenesisNode(documentHash string, meta map[string]any) *GraphNode {
	return &GraphNode{
		ExtJSONPatchHash: nil,
		DocumentHash:     documentHash,
		SourceHashes:     nil,
		Meta:             meta,
	}
}

// NewDerivedNode builds a node produced by applying an ext-patch to one or
// more source nodes. sourceNodeHashes is normalized (sorted, deduplicated)
// per the sourceHashes canonicalization invariant.
func NewDerivedNode(extPatchHash, documentHash string, sourceNodeHashes []string, meta map[string]any) *GraphNode {
	return &GraphNode{
		ExtJSONPatchHash: &extPatchHash,
		DocumentHash:     documentHash,
		SourceHashes:     sortedUniqueStrings(sourceNodeHashes),
		Meta:             meta,
	}
}

// Message returns meta["message"] if present and a string, else "".
func (n *GraphNode) Message() string {
	if n.Meta == nil {
		return ""
	}
	if m, ok := n.Meta["message"].(string); ok {
		return m
	}
	return ""
}

// IsGenesis reports whether this node has no generating patch.
func (n *GraphNode) IsGenesis() bool {
	return n.ExtJSONPatchHash == nil
}

// toGeneric converts the node into the map[string]any shape Canonicalize
// expects, matching the Graph Node wire schema exactly (§6).
func (n *GraphNode) toGeneric() map[string]any {
	out := map[string]any{
		"documentHash": n.DocumentHash,
	}
	if n.ExtJSONPatchHash != nil {
		out["extJsonPatchHash"] = *n.ExtJSONPatchHash
	} else {
		out["extJsonPatchHash"] = nil
	}
	if n.SourceHashes != nil {
		srcs := make([]any, len(n.SourceHashes))
		for i, h := range n.SourceHashes {
			srcs[i] = h
		}
		out["sourceHashes"] = srcs
	} else {
		out["sourceHashes"] = nil
	}
	if n.Meta != nil {
		out["meta"] = n.Meta
	} else {
		out["meta"] = nil
	}
	return out
}

// Canonical returns the node's canonical byte form.
func (n *GraphNode) Canonical() ([]byte, error) {
	return canon.Canonicalize(n.toGeneric())
}

// Hash returns the node's content hash.
func (n *GraphNode) Hash() (string, error) {
	b, err := n.Canonical()
	if err != nil {
		return "", err
	}
	return canon.HashBytes(b), nil
}

// Validate checks the structural invariants of a Graph Node: a well-formed
// document hash, well-formed (or absent) patch hash, and well-formed,
// deduplicated source hashes.
func (n *GraphNode) Validate() error {
	if !canon.IsWellFormedHash(n.DocumentHash) {
		return fmt.Errorf("model: documentHash %q is not a well-formed hash", n.DocumentHash)
	}
	if n.ExtJSONPatchHash != nil && !canon.IsWellFormedHash(*n.ExtJSONPatchHash) {
		return fmt.Errorf("model: extJsonPatchHash %q is not a well-formed hash", *n.ExtJSONPatchHash)
	}
	seen := make(map[string]struct{}, len(n.SourceHashes))
	for _, h := range n.SourceHashes {
		if !canon.IsWellFormedHash(h) {
			return fmt.Errorf("model: sourceHashes contains malformed hash %q", h)
		}
		if _, dup := seen[h]; dup {
			return fmt.Errorf("model: sourceHashes contains duplicate hash %q", h)
		}
		seen[h] = struct{}{}
	}
	return nil
}

// FromGeneric builds a GraphNode from a decoded JSON value (as produced by
// canon.Decode or encoding/json), such as one just loaded from storage. The
// value is checked against the Graph Node JSON Schema before anything in
// it is trusted enough to unmarshal into Go fields.
func FromGeneric(v any) (*GraphNode, error) {
	if err := validateNodeShape(v); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("model: re-marshal node: %w", err)
	}
	var wire struct {
		ExtJSONPatchHash *string          `json:"extJsonPatchHash"`
		DocumentHash     string           `json:"documentHash"`
		SourceHashes     *[]string        `json:"sourceHashes"`
		Meta             map[string]any   `json:"meta"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("model: decode node: %w", err)
	}
	var sources []string
	if wire.SourceHashes != nil {
		sources = *wire.SourceHashes
	}
	n := &GraphNode{
		ExtJSONPatchHash: wire.ExtJSONPatchHash,
		DocumentHash:     wire.DocumentHash,
		SourceHashes:     sources,
		Meta:             wire.Meta,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func sortedUniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ValidAlias reports whether s matches the alias pattern ^[0-9a-zA-Z_-]+$.
func ValidAlias(s string) bool {
	return aliasPattern.MatchString(s)
}
