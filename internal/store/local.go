// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
)

// LocalProvider stores one file per object at <dir>/<hash>.json. It
// implements Index, so a NodeCache built over it can seed discovery.
type LocalProvider struct {
	dir string
}

// NewLocalProvider returns a Provider rooted at dir. The directory is
// created on first Store if it does not already exist.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{dir: dir}
}

// Dir returns the storage directory this provider is rooted at.
func (p *LocalProvider) Dir() string {
	return p.dir
}

func (p *LocalProvider) path(hash string) string {
	return filepath.Join(p.dir, hash+".json")
}

// Store implements Provider.
func (p *LocalProvider) Store(value any) (string, error) {
	canonical, err := canon.Canonicalize(value)
	if err != nil {
		return "", &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	hash := canon.HashBytes(canonical)

	if p.Exists(hash) {
		// Idempotent: verify existing content still matches (cheap
		// integrity check) rather than re-writing.
		if _, err := p.Load(hash); err != nil {
			return "", err
		}
		return hash, nil
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "create storage directory", Err: err}
	}
	if err := os.WriteFile(p.path(hash), canonical, 0o644); err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "write object", Err: err}
	}
	return hash, nil
}

// Load implements Provider.
func (p *LocalProvider) Load(hash string) (any, error) {
	if !canon.IsWellFormedHash(hash) {
		return nil, &jsonvcerrors.StorageError{Op: "load", Reason: "hash is not well-formed"}
	}
	data, err := os.ReadFile(p.path(hash))
	if err != nil {
		return nil, &jsonvcerrors.StorageError{Op: "load", Reason: "read object", Err: err}
	}
	value, err := canon.Decode(data)
	if err != nil {
		return nil, &jsonvcerrors.IntegrityError{Hash: hash, Reason: "stored bytes are not valid JSON"}
	}
	actual, err := canon.Hash(value)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	if actual != hash {
		return nil, &jsonvcerrors.IntegrityError{Hash: hash, Reason: "stored bytes do not hash to their filename"}
	}
	return value, nil
}

// Exists implements Provider.
func (p *LocalProvider) Exists(hash string) bool {
	if !canon.IsWellFormedHash(hash) {
		return false
	}
	info, err := os.Stat(p.path(hash))
	return err == nil && !info.IsDir()
}

// ComputeHash implements Provider.
func (p *LocalProvider) ComputeHash(value any) (string, error) {
	return computeCanonicalHash(value)
}

// Index implements the Index capability: it enumerates files in dir whose
// name is a well-formed <hash>.json, ignoring anything else.
func (p *LocalProvider) Index() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &jsonvcerrors.StorageError{Op: "index", Reason: "read storage directory", Err: err}
	}
	var hashes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		stem := strings.TrimSuffix(name, ".json")
		if canon.IsWellFormedHash(stem) {
			hashes = append(hashes, stem)
		}
	}
	return hashes, nil
}

// Size implements the Index capability.
func (p *LocalProvider) Size(hash string) (int64, error) {
	info, err := os.Stat(p.path(hash))
	if err != nil {
		return 0, &jsonvcerrors.StorageError{Op: "size", Reason: "stat object", Err: err}
	}
	return info.Size(), nil
}

var _ Provider = (*LocalProvider)(nil)
var _ Index = (*LocalProvider)(nil)
