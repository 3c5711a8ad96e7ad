// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides the in-memory Node Cache: a flat, hash-keyed view
// over the object store that lets the version-control façade answer
// "is this document tracked", "what came before this node", and "expand
// this hash prefix" without re-scanning the backing store on every call.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
	"github.com/jsonvc/jsonvc/internal/model"
	"github.com/jsonvc/jsonvc/internal/store"
)

// maxDiscoverableObjectSize bounds DiscoverNodes' willingness to load an
// object purely to see whether it parses as a node: documents can be
// arbitrarily large, and nodes themselves are small fixed-shape records, so
// anything bigger than this is assumed not to be worth probing.
const maxDiscoverableObjectSize = 1024

// NodeCache is the in-memory index over a store.Provider's Graph Nodes.
// It never holds object references between nodes, only hashes, since the
// underlying DAG is acyclic by construction and traversal is always by
// hash lookup.
type NodeCache struct {
	provider store.Provider

	knownNodes       map[string][]string
	knownDocs        map[string]map[string]struct{}
	unavailableNodes map[string]struct{}
}

// New returns an empty NodeCache over provider.
func New(provider store.Provider) *NodeCache {
	return &NodeCache{
		provider:         provider,
		knownNodes:       make(map[string][]string),
		knownDocs:        make(map[string]map[string]struct{}),
		unavailableNodes: make(map[string]struct{}),
	}
}

// NewWithDiscovery returns a NodeCache seeded by a full discovery pass, if
// provider exposes the Index capability. Over a provider that doesn't
// (e.g. GatewayProvider), it degrades to an empty cache that fills in as
// operations call Update.
func NewWithDiscovery(provider store.Provider) (*NodeCache, error) {
	c := New(provider)
	indexer, ok := provider.(store.Index)
	if !ok {
		return c, nil
	}
	hashes, err := indexer.Index()
	if err != nil {
		return nil, err
	}
	c.DiscoverNodes(hashes)
	return c, nil
}

func (c *NodeCache) recordNode(h string, node *model.GraphNode) {
	c.knownNodes[h] = append([]string(nil), node.SourceHashes...)
	if c.knownDocs[node.DocumentHash] == nil {
		c.knownDocs[node.DocumentHash] = make(map[string]struct{})
	}
	c.knownDocs[node.DocumentHash][h] = struct{}{}
	delete(c.unavailableNodes, h)
}

// Update refreshes the cache for a single hash. It is a no-op if h is
// already known. If h does not name a stored object, it is recorded as
// unavailable. Otherwise h is loaded and parsed as a Graph Node — unlike
// DiscoverNodes, a parse failure here propagates to the caller, since
// Update assumes its caller already believes h names a node.
func (c *NodeCache) Update(h string) error {
	if _, ok := c.knownNodes[h]; ok {
		return nil
	}
	if !c.provider.Exists(h) {
		c.unavailableNodes[h] = struct{}{}
		return nil
	}
	raw, err := c.provider.Load(h)
	if err != nil {
		return err
	}
	node, err := model.FromGeneric(raw)
	if err != nil {
		return err
	}
	c.recordNode(h, node)
	return nil
}

// DiscoverNodes runs an explicit-worklist depth-first traversal from seeds,
// following each discovered node's sourceHashes. Oversized objects are
// skipped and parse failures are swallowed — the store holds documents and
// ext-patches too, not just nodes, and discovery has no way to tell them
// apart from their hash alone. Returns the node hashes newly added to the
// cache.
func (c *NodeCache) DiscoverNodes(seeds []string) []string {
	indexer, hasIndex := c.provider.(store.Index)

	visited := make(map[string]struct{}, len(seeds))
	var added []string
	stack := append([]string(nil), seeds...)

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[h]; seen {
			continue
		}
		visited[h] = struct{}{}
		if _, known := c.knownNodes[h]; known {
			continue
		}
		if hasIndex {
			if size, err := indexer.Size(h); err == nil && size > maxDiscoverableObjectSize {
				continue
			}
		}

		raw, err := c.provider.Load(h)
		if err != nil {
			continue
		}
		node, err := model.FromGeneric(raw)
		if err != nil {
			continue
		}

		c.recordNode(h, node)
		added = append(added, h)
		stack = append(stack, node.SourceHashes...)
	}
	return added
}

// SourceHashesOf returns the sourceHashes recorded for a known node hash.
func (c *NodeCache) SourceHashesOf(h string) ([]string, bool) {
	sources, ok := c.knownNodes[h]
	return sources, ok
}

// FindAssociatedNodeHashes returns the (sorted) node hashes known to record
// docHash, or nil if none are known.
func (c *NodeCache) FindAssociatedNodeHashes(docHash string) []string {
	set := c.knownDocs[docHash]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// ExpandHashPrefix resolves a hash prefix against known node hashes.
func (c *NodeCache) ExpandHashPrefix(prefix string) (string, error) {
	var matches []string
	for h := range c.knownNodes {
		if strings.HasPrefix(h, prefix) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return "", &jsonvcerrors.HashNotFoundError{Prefix: prefix}
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", &jsonvcerrors.HashPrefixAmbiguousError{Prefix: prefix}
	}
}

type serializedCache struct {
	KnownNodes map[string][]string `json:"known_nodes"`
	KnownDocs  map[string][]string `json:"known_docs"`
}

func (c *NodeCache) toSerialized() serializedCache {
	nodes := make(map[string][]string, len(c.knownNodes))
	for h, srcs := range c.knownNodes {
		sorted := append([]string(nil), srcs...)
		sort.Strings(sorted)
		nodes[h] = sorted
	}
	docs := make(map[string][]string, len(c.knownDocs))
	for docHash, set := range c.knownDocs {
		list := make([]string, 0, len(set))
		for h := range set {
			list = append(list, h)
		}
		sort.Strings(list)
		docs[docHash] = list
	}
	return serializedCache{KnownNodes: nodes, KnownDocs: docs}
}

// toSerializedBytes marshals the cache's known state to JSON, the same
// shape Save writes to disk — used to merge one cache's state into another
// without going through a file.
func (c *NodeCache) toSerializedBytes() ([]byte, error) {
	return json.Marshal(c.toSerialized())
}

// Save persists the cache's known state as JSON to path.
func (c *NodeCache) Save(path string) error {
	data, err := json.MarshalIndent(c.toSerialized(), "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cache: write cache file: %w", err)
	}
	return nil
}

// Mode controls how LoadInto folds serialized state into an existing cache.
type Mode int

const (
	// Merge keeps a cache's existing entries and adds the serialized
	// entries on top. This is the default mode.
	Merge Mode = iota
	// Replace discards a cache's existing entries before loading.
	Replace
)

// Load reads a persisted cache file at path into a fresh NodeCache over
// provider. A missing file yields an empty cache rather than an error.
func Load(provider store.Provider, path string) (*NodeCache, error) {
	c := New(provider)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("cache: read cache file: %w", err)
	}
	if err := c.LoadInto(data, Replace); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadInto folds serialized cache bytes (as produced by Save) into c,
// under either Merge or Replace semantics.
func (c *NodeCache) LoadInto(data []byte, mode Mode) error {
	var s serializedCache
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cache: parse cache file: %w", err)
	}
	if mode == Replace {
		c.knownNodes = make(map[string][]string)
		c.knownDocs = make(map[string]map[string]struct{})
		c.unavailableNodes = make(map[string]struct{})
	}
	for h, srcs := range s.KnownNodes {
		c.knownNodes[h] = append([]string(nil), srcs...)
	}
	for docHash, nodeHashes := range s.KnownDocs {
		set := c.knownDocs[docHash]
		if set == nil {
			set = make(map[string]struct{})
			c.knownDocs[docHash] = set
		}
		for _, h := range nodeHashes {
			set[h] = struct{}{}
		}
	}
	return nil
}
