// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vc is the version-control façade: it composes internal/graph and
// internal/cache into the document-level operations (track, update,
// history, diff) and adds the "objref" layer that lets a caller name a
// document either by a filesystem path or by a node-hash prefix.
package vc

import (
	"fmt"
	"os"
	"strings"

	"github.com/jsonvc/jsonvc/internal/cache"
	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/jsonvc/jsonvc/internal/graph"
	"github.com/jsonvc/jsonvc/internal/model"
	"github.com/jsonvc/jsonvc/internal/patchengine"
	"github.com/jsonvc/jsonvc/internal/store"
)

// VC is the version-control façade over a single object store.
type VC struct {
	graph    *graph.TrackGraph
	cache    *cache.NodeCache
	provider store.Provider
}

// New builds a façade over provider, seeding its node cache via discovery
// if the provider supports it.
func New(provider store.Provider) (*VC, error) {
	c, err := cache.NewWithDiscovery(provider)
	if err != nil {
		return nil, err
	}
	return &VC{
		graph:    graph.New(provider),
		cache:    c,
		provider: provider,
	}, nil
}

// Cache exposes the underlying node cache, for callers (the CLI's
// `discover` command and its per-invocation cache-file load and save) that
// need to persist or rebuild it directly rather than through a
// document-level operation.
func (vc *VC) Cache() *cache.NodeCache {
	return vc.cache
}

func (vc *VC) loadNode(h string) (*model.GraphNode, error) {
	if err := vc.cache.Update(h); err != nil {
		return nil, err
	}
	raw, err := vc.provider.Load(h)
	if err != nil {
		return nil, err
	}
	return model.FromGeneric(raw)
}

// GetAssociatedNodeHashes returns the node hashes known to record doc.
func (vc *VC) GetAssociatedNodeHashes(doc any) ([]string, error) {
	h, err := vc.provider.ComputeHash(doc)
	if err != nil {
		return nil, err
	}
	return vc.cache.FindAssociatedNodeHashes(h), nil
}

// IsTracked reports whether doc is recorded by at least one node.
func (vc *VC) IsTracked(doc any) (bool, error) {
	hashes, err := vc.GetAssociatedNodeHashes(doc)
	if err != nil {
		return false, err
	}
	return len(hashes) > 0, nil
}

// Track creates a genesis node for doc. fails with DocAlreadyTrackedError
// if doc is already tracked and force is false.
func (vc *VC) Track(doc any, message string, force bool) (string, error) {
	tracked, err := vc.IsTracked(doc)
	if err != nil {
		return "", err
	}
	if tracked && !force {
		return "", &jsonvcerrors.DocAlreadyTrackedError{Reason: "the document is already tracked"}
	}
	nodeHash, err := vc.graph.CreateGenesisNode(doc, map[string]any{"message": message})
	if err != nil {
		return "", err
	}
	if err := vc.cache.Update(nodeHash); err != nil {
		return "", err
	}
	return nodeHash, nil
}

// Update creates a node descending from oldNodeHash that records newDoc.
// fails with DocAlreadyTrackedError if newDoc is already tracked and force
// is false.
func (vc *VC) Update(oldNodeHash string, newDoc any, message string, force bool) (string, error) {
	tracked, err := vc.IsTracked(newDoc)
	if err != nil {
		return "", err
	}
	if tracked && !force {
		return "", &jsonvcerrors.DocAlreadyTrackedError{Reason: "the new document is already tracked"}
	}
	oldDoc, err := vc.GetDoc(oldNodeHash)
	if err != nil {
		return "", err
	}
	extPatch, err := patchengine.CreateExtPatch(oldDoc, newDoc, vc.provider.ComputeHash)
	if err != nil {
		return "", err
	}
	newDocHash, err := vc.provider.ComputeHash(newDoc)
	if err != nil {
		return "", err
	}
	newNodeHash, err := vc.graph.CreateNode(extPatch, []string{oldNodeHash}, map[string]any{"message": message}, newDocHash)
	if err != nil {
		return "", err
	}
	if err := vc.cache.Update(newNodeHash); err != nil {
		return "", err
	}
	return newNodeHash, nil
}

// GetLinearHistory walks nodeHash's ancestry back to a genesis node,
// returning the nodes oldest-first. fails with SeveralAncestorsError at a
// merge point (a node with more than one source) — merge history display
// is not supported.
func (vc *VC) GetLinearHistory(nodeHash string) ([]*model.GraphNode, error) {
	var nodes []*model.GraphNode
	cur := nodeHash
	for {
		node, err := vc.loadNode(cur)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)

		sources, ok := vc.cache.SourceHashesOf(cur)
		if !ok {
			sources = node.SourceHashes
		}
		if len(sources) == 0 {
			break
		}
		if len(sources) > 1 {
			return nil, &jsonvcerrors.SeveralAncestorsError{
				Reason:         "linear history cannot traverse a merge point",
				AncestorHashes: sources,
			}
		}
		cur = sources[0]
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes, nil
}

// GetDoc resolves nodeHash and loads the document it records.
func (vc *VC) GetDoc(nodeHash string) (any, error) {
	node, err := vc.loadNode(nodeHash)
	if err != nil {
		return nil, err
	}
	return vc.provider.Load(node.DocumentHash)
}

// GetDiff computes the JSON Patch from old to new, verifying the round
// trip before returning it. fails with PatchError if applying the computed
// patch to old does not reproduce new — a guard against a buggy diff.
func (vc *VC) GetDiff(old, new any) ([]byte, error) {
	ops, err := patchengine.Diff(old, new)
	if err != nil {
		return nil, err
	}
	test, err := patchengine.Apply(old, ops)
	if err != nil {
		return nil, err
	}
	newHash, err := canon.Hash(new)
	if err != nil {
		return nil, err
	}
	testHash, err := canon.Hash(test)
	if err != nil {
		return nil, err
	}
	if newHash != testHash {
		return nil, &jsonvcerrors.PatchError{Reason: "computed patch did not reproduce the new document"}
	}
	return ops, nil
}

// GetMessages batch-looks-up meta.message for a set of node hashes.
func (vc *VC) GetMessages(nodeHashes []string) (map[string]string, error) {
	out := make(map[string]string, len(nodeHashes))
	for _, h := range nodeHashes {
		node, err := vc.loadNode(h)
		if err != nil {
			return nil, err
		}
		out[h] = node.Message()
	}
	return out, nil
}

// ExpandHashPrefix delegates to the node cache.
func (vc *VC) ExpandHashPrefix(prefix string) (string, error) {
	return vc.cache.ExpandHashPrefix(prefix)
}

// ObjrefSource constrains how ResolveObjref and LoadObjrefDoc interpret a
// user-facing reference string.
type ObjrefSource int

const (
	// Any tries a filesystem path first, falling back to a cache hash
	// prefix.
	Any ObjrefSource = iota
	// File requires the reference to be a filesystem path.
	File
	// Cache requires the reference to be a node-hash prefix.
	Cache
)

func loadJSONFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return canon.Decode(data)
}

// ResolveObjref resolves a user-facing reference to the node hash it
// names: under File/Any it loads ref as a JSON document and looks up its
// associated nodes (failing with DocNotTrackedError or
// SeveralNodesWithDocError); under Cache/Any it expands ref as a hash
// prefix.
func (vc *VC) ResolveObjref(ref string, source ObjrefSource) (string, error) {
	if source == Any || source == File {
		doc, err := loadJSONFile(ref)
		if err == nil {
			hashes, err := vc.GetAssociatedNodeHashes(doc)
			if err != nil {
				return "", err
			}
			switch len(hashes) {
			case 0:
				return "", &jsonvcerrors.DocNotTrackedError{Reason: fmt.Sprintf("%s is not tracked", ref)}
			case 1:
				return hashes[0], nil
			default:
				return "", &jsonvcerrors.SeveralNodesWithDocError{
					Reason:     "several nodes are associated with this document",
					NodeHashes: hashes,
				}
			}
		}
		if source == File {
			return "", &jsonvcerrors.StorageError{Op: "resolve objref", Reason: "read file", Err: err}
		}
	}
	if source == Any || source == Cache {
		return vc.cache.ExpandHashPrefix(ref)
	}
	return "", fmt.Errorf("vc: unknown objref source")
}

// LoadObjrefDoc resolves a user-facing reference to the document it names.
func (vc *VC) LoadObjrefDoc(ref string, source ObjrefSource) (any, error) {
	if source == Any || source == File {
		doc, err := loadJSONFile(ref)
		if err == nil {
			return doc, nil
		}
		if source == File {
			return nil, &jsonvcerrors.StorageError{Op: "load objref", Reason: "read file", Err: err}
		}
	}
	if source == Any || source == Cache {
		nodeHash, err := vc.cache.ExpandHashPrefix(ref)
		if err != nil {
			return nil, err
		}
		return vc.GetDoc(nodeHash)
	}
	return nil, fmt.Errorf("vc: unknown objref source")
}

// TrackFile loads path as a JSON document and tracks it.
func (vc *VC) TrackFile(path, message string, force bool) (string, error) {
	doc, err := loadJSONFile(path)
	if err != nil {
		return "", &jsonvcerrors.StorageError{Op: "track", Reason: "read file", Err: err}
	}
	return vc.Track(doc, message, force)
}

// GetAssociatedNodeHashesForFile loads path and returns its associated node
// hashes.
func (vc *VC) GetAssociatedNodeHashesForFile(path string) ([]string, error) {
	doc, err := loadJSONFile(path)
	if err != nil {
		return nil, &jsonvcerrors.StorageError{Op: "associated-nodes", Reason: "read file", Err: err}
	}
	return vc.GetAssociatedNodeHashes(doc)
}

// GetMessagesForFile loads path, finds its associated nodes, and returns
// their messages.
func (vc *VC) GetMessagesForFile(path string) (map[string]string, error) {
	hashes, err := vc.GetAssociatedNodeHashesForFile(path)
	if err != nil {
		return nil, err
	}
	return vc.GetMessages(hashes)
}

// UpdateFromRef resolves oldRef and newRef (Any source) and records the
// update.
func (vc *VC) UpdateFromRef(oldRef, newRef, message string, force bool) (string, error) {
	oldNodeHash, err := vc.ResolveObjref(oldRef, Any)
	if err != nil {
		return "", err
	}
	newDoc, err := vc.LoadObjrefDoc(newRef, Any)
	if err != nil {
		return "", err
	}
	return vc.Update(oldNodeHash, newDoc, message, force)
}

// Replace records an update from updatePath against the node tracking
// targetPath (optionally disambiguated by targetHashPrefix among that
// file's associated nodes), then atomically replaces targetPath's content
// with updatePath's.
func (vc *VC) Replace(targetPath, updatePath, message string, force bool, targetHashPrefix string) (string, error) {
	var targetNodeHash string
	if targetHashPrefix == "" {
		h, err := vc.ResolveObjref(targetPath, File)
		if err != nil {
			return "", err
		}
		targetNodeHash = h
	} else {
		hashes, err := vc.GetAssociatedNodeHashesForFile(targetPath)
		if err != nil {
			return "", err
		}
		var matches []string
		for _, h := range hashes {
			if strings.HasPrefix(h, targetHashPrefix) {
				matches = append(matches, h)
			}
		}
		switch len(matches) {
		case 0:
			return "", &jsonvcerrors.HashNotFoundError{Prefix: targetHashPrefix}
		case 1:
			targetNodeHash = matches[0]
		default:
			return "", &jsonvcerrors.HashPrefixAmbiguousError{Prefix: targetHashPrefix}
		}
	}

	newDoc, err := vc.LoadObjrefDoc(updatePath, File)
	if err != nil {
		return "", err
	}

	newNodeHash, err := vc.Update(targetNodeHash, newDoc, message, force)
	if err != nil {
		return "", err
	}

	if err := os.Rename(updatePath, targetPath); err != nil {
		return "", &jsonvcerrors.StorageError{Op: "replace", Reason: "move update file over target", Err: err}
	}
	return newNodeHash, nil
}

// GetLinearHistoryForRef resolves ref (Any source) and returns its linear
// history.
func (vc *VC) GetLinearHistoryForRef(ref string) ([]*model.GraphNode, error) {
	nodeHash, err := vc.ResolveObjref(ref, Any)
	if err != nil {
		return nil, err
	}
	return vc.GetLinearHistory(nodeHash)
}

// GetDocForRef resolves ref against the cache and loads its document.
func (vc *VC) GetDocForRef(ref string) (any, error) {
	return vc.LoadObjrefDoc(ref, Cache)
}

// GetDiffForRefs resolves both refs (Any source) and computes their diff.
func (vc *VC) GetDiffForRefs(oldRef, newRef string) ([]byte, error) {
	oldDoc, err := vc.LoadObjrefDoc(oldRef, Any)
	if err != nil {
		return nil, err
	}
	newDoc, err := vc.LoadObjrefDoc(newRef, Any)
	if err != nil {
		return nil, err
	}
	return vc.GetDiff(oldDoc, newDoc)
}
