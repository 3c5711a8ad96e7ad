// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store defines the content-addressed storage capability the rest
// of the module depends on, plus the backends that implement it: a local
// directory and an HTTP content-addressing gateway.
package store

import (
	"github.com/jsonvc/jsonvc/internal/canon"
)

// Provider stores and retrieves JSON values by their content hash.
// Implementations must make Store idempotent: storing the same value twice
// yields the same hash and performs no duplicate write.
type Provider interface {
	// Store canonicalizes value, computes its hash, writes it if not
	// already present, and returns the hash.
	Store(value any) (hash string, err error)
	// Load retrieves and parses the value stored under hash, verifying
	// that it still hashes to hash.
	Load(hash string) (any, error)
	// Exists reports whether a value is stored under hash.
	Exists(hash string) bool
	// ComputeHash returns the hash this backend would assign to value,
	// without storing it.
	ComputeHash(value any) (string, error)
}

// Index is an optional capability: backends that can enumerate their
// contents implement it so the node cache can seed discovery from them.
type Index interface {
	// Index enumerates the hashes of all well-formed objects in the
	// store.
	Index() ([]string, error)
	// Size returns the byte size of the object stored under hash.
	Size(hash string) (int64, error)
}

// computeCanonicalHash is the default ComputeHash implementation shared by
// backends whose content identifier is exactly sha256(canonical(value)).
func computeCanonicalHash(value any) (string, error) {
	return canon.Hash(value)
}
