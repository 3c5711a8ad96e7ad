// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errors defines the distinguished error taxonomy the version graph
// engine surfaces to callers. The core never recovers from these; it raises
// them and lets the caller (typically cmd/jsonvc) decide how to present them.
//
// Each kind is its own concrete type so callers can discriminate with
// errors.As instead of string-matching a message, and each carries a short
// Guidance hint consumed only by the CLI layer — the core itself never
// formats user-facing text.
package errors

import "fmt"

// SerializationError indicates a JSON value could not be canonicalized
// (non-finite number, or a value with no JSON representation).
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %s", e.Reason)
}

func (e *SerializationError) Guidance() string {
	return "check the document for NaN/Infinity or unsupported value types"
}

// IntegrityError indicates stored bytes do not hash to their filename, or a
// loaded source did not match its declared hash.
type IntegrityError struct {
	Hash   string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error for %s: %s", e.Hash, e.Reason)
}

func (e *IntegrityError) Guidance() string {
	return "the object store may be corrupted; compare against a known-good copy of the store"
}

// ConsistencyError indicates an ext-patch's declared source document hashes
// do not match the document hashes recorded by the claimed source nodes.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency error: %s", e.Reason)
}

func (e *ConsistencyError) Guidance() string {
	return "the source node hashes given do not match the patch's declared sources"
}

// PatchError indicates a patch failed to round-trip, or ext-patch validation
// failed (bad target alias, etc).
type PatchError struct {
	Reason string
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch error: %s", e.Reason)
}

func (e *PatchError) Guidance() string {
	return "the generated patch did not reproduce the expected document; this usually indicates a bug in the patch library"
}

// DocNotTrackedError indicates an operation required a tracked document but
// none was found.
type DocNotTrackedError struct {
	Reason string
}

func (e *DocNotTrackedError) Error() string {
	return fmt.Sprintf("document not tracked: %s", e.Reason)
}

func (e *DocNotTrackedError) Guidance() string {
	return "track the document first with `track`"
}

// DocAlreadyTrackedError indicates a precondition failure on track/update:
// the document is already tracked and force was not requested.
type DocAlreadyTrackedError struct {
	Reason string
}

func (e *DocAlreadyTrackedError) Error() string {
	return fmt.Sprintf("document already tracked: %s", e.Reason)
}

func (e *DocAlreadyTrackedError) Guidance() string {
	return "pass --force to create a second, independent history for this document"
}

// HashNotFoundError indicates a hash prefix matched no known node.
type HashNotFoundError struct {
	Prefix string
}

func (e *HashNotFoundError) Error() string {
	return fmt.Sprintf("no node registered under hash prefix %q", e.Prefix)
}

func (e *HashNotFoundError) Guidance() string {
	return "check the hash prefix, or run `discover` to refresh the cache from the object store"
}

// HashPrefixAmbiguousError indicates a hash prefix matched more than one
// known node.
type HashPrefixAmbiguousError struct {
	Prefix string
}

func (e *HashPrefixAmbiguousError) Error() string {
	return fmt.Sprintf("hash prefix %q is ambiguous: several nodes match", e.Prefix)
}

func (e *HashPrefixAmbiguousError) Guidance() string {
	return "provide more leading characters of the hash to disambiguate"
}

// SeveralNodesWithDocError indicates a document-reference operation found
// more than one node recording the same document.
type SeveralNodesWithDocError struct {
	Reason     string
	NodeHashes []string
}

func (e *SeveralNodesWithDocError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.NodeHashes)
}

func (e *SeveralNodesWithDocError) Guidance() string {
	return "disambiguate by passing a node hash (or hash prefix) directly instead of a document"
}

// SeveralAncestorsError indicates get_linear_history hit a merge point: a
// node with more than one ancestor. Merge history display is deferred.
type SeveralAncestorsError struct {
	Reason         string
	AncestorHashes []string
}

func (e *SeveralAncestorsError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.AncestorHashes)
}

func (e *SeveralAncestorsError) Guidance() string {
	return "linear history cannot traverse a merge point; merge commits are not supported yet"
}

// StorageError wraps a backend I/O failure.
type StorageError struct {
	Op     string
	Reason string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error during %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %s", e.Op, e.Reason)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Guidance() string {
	return "check that the storage backend is reachable and that you have the required permissions"
}

// Guided is satisfied by every error kind in this package; the CLI uses it
// to attach a one-line hint without a type switch over every concrete kind.
type Guided interface {
	error
	Guidance() string
}
