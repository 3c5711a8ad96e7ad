// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph builds the version DAG on top of a store.Provider: it is
// the only component that creates Graph Nodes, and it is responsible for
// the consistency checks that keep a node's declared document and sources
// honest.
package graph

import (
	"fmt"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/jsonvc/jsonvc/internal/model"
	"github.com/jsonvc/jsonvc/internal/patchengine"
	"github.com/jsonvc/jsonvc/internal/store"
)

// TrackGraph creates genesis and derived Graph Nodes against a backing
// store.Provider.
type TrackGraph struct {
	provider store.Provider
}

// New returns a TrackGraph backed by provider.
func New(provider store.Provider) *TrackGraph {
	return &TrackGraph{provider: provider}
}

// storeCanonical re-decodes a value's canonical byte form and hands the
// generic result to the provider, so the hash the provider computes on
// store always matches the hash the caller already derived from Canonical().
func storeCanonical(p store.Provider, canonicalBytes func() ([]byte, error)) (string, error) {
	b, err := canonicalBytes()
	if err != nil {
		return "", err
	}
	v, err := canon.Decode(b)
	if err != nil {
		return "", &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	return p.Store(v)
}

// CreateGenesisNode stores doc and a genesis Graph Node recording it,
// returning the new node's hash.
func (g *TrackGraph) CreateGenesisNode(doc any, meta map[string]any) (string, error) {
	docHash, err := g.provider.Store(doc)
	if err != nil {
		return "", err
	}
	node := model.NewGenesisNode(docHash, meta)
	if err := node.Validate(); err != nil {
		return "", &jsonvcerrors.PatchError{Reason: err.Error()}
	}
	return storeCanonical(g.provider, node.Canonical)
}

// CreateNode applies extPatch over its declared sources, checks the result
// against expectedDocHash, and stores a derived Graph Node descending from
// sourceNodeHashes. It returns the new node's hash.
//
// fails with ConsistencyError if the document hashes of the claimed source
// nodes don't match extPatch's declared sourceHashes values exactly.
// fails with PatchError if applying extPatch does not reproduce
// expectedDocHash (a buggy patch generation guard).
func (g *TrackGraph) CreateNode(extPatch *model.ExtPatch, sourceNodeHashes []string, meta map[string]any, expectedDocHash string) (string, error) {
	if err := extPatch.Validate(); err != nil {
		return "", &jsonvcerrors.PatchError{Reason: err.Error()}
	}

	sourceDocHashes := make(map[string]struct{}, len(sourceNodeHashes))
	for _, nodeHash := range sourceNodeHashes {
		raw, err := g.provider.Load(nodeHash)
		if err != nil {
			return "", err
		}
		node, err := model.FromGeneric(raw)
		if err != nil {
			return "", err
		}
		sourceDocHashes[node.DocumentHash] = struct{}{}
	}
	patchDocHashes := make(map[string]struct{}, len(extPatch.SourceHashes))
	for _, h := range extPatch.SourceHashes {
		patchDocHashes[h] = struct{}{}
	}
	if !sameHashSet(sourceDocHashes, patchDocHashes) {
		return "", &jsonvcerrors.ConsistencyError{
			Reason: "ext-patch sourceHashes do not match the document hashes of the claimed source nodes",
		}
	}

	newDoc, err := patchengine.ApplyExtPatch(extPatch, g.provider.Load)
	if err != nil {
		return "", err
	}

	if _, err := storeCanonical(g.provider, extPatch.Canonical); err != nil {
		return "", err
	}

	docHash, err := g.provider.Store(newDoc)
	if err != nil {
		return "", err
	}
	if docHash != expectedDocHash {
		return "", &jsonvcerrors.PatchError{
			Reason: fmt.Sprintf("applying ext-patch produced document hash %s, expected %s", docHash, expectedDocHash),
		}
	}

	patchHash, err := extPatch.Hash()
	if err != nil {
		return "", err
	}
	node := model.NewDerivedNode(patchHash, docHash, sourceNodeHashes, meta)
	if err := node.Validate(); err != nil {
		return "", &jsonvcerrors.PatchError{Reason: err.Error()}
	}
	return storeCanonical(g.provider, node.Canonical)
}

func sameHashSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
