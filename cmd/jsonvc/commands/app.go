// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands wires the jsonvc CLI's cobra subcommand tree onto
// internal/vc and internal/config.
package commands

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jsonvc/jsonvc/internal/cache"
	"github.com/jsonvc/jsonvc/internal/config"
	"github.com/jsonvc/jsonvc/internal/store"
	"github.com/jsonvc/jsonvc/internal/vc"
)

type requestIDKey struct{}

// WithRequestID attaches a per-invocation request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom reads back a request id attached by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// App bundles the runtime dependencies a single command invocation needs.
type App struct {
	Config   *config.Config
	Provider store.Provider
	VC       *vc.VC
	Logger   *zap.Logger
}

// Factory builds an App on demand, once a command's RunE actually runs —
// never at command-tree construction time, so flag parsing (including
// --config) completes first.
type Factory func() (*App, error)

// NewFactory returns a Factory that loads configuration from *configPath
// (or the default location if empty) and builds the version-control façade
// over the configured storage backend. configPath is read through a
// pointer because cobra only populates the bound flag variable once
// Execute() parses the command line, after the Factory itself is built.
func NewFactory(configPath *string, logger *zap.Logger) Factory {
	return func() (*App, error) {
		return newApp(*configPath, logger)
	}
}

func newApp(configPath string, logger *zap.Logger) (*App, error) {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()

	registry := store.NewRegistry()
	provider, err := registry.Open(cfg.Backend, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("open storage backend %q: %w", cfg.Backend, err)
	}

	facade, err := vc.New(provider)
	if err != nil {
		return nil, err
	}

	// vc.New only seeds the node cache through store.Index-based discovery,
	// a capability GatewayProvider deliberately doesn't implement. Folding
	// in the last persisted cache here is what lets track/update/showlog
	// keep seeing history recorded by earlier invocations against a
	// gateway-backed store, the same role read_cache_file() plays in the
	// original CLI.
	if cfg.CachePath != "" {
		data, err := os.ReadFile(cfg.CachePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read cache file %s: %w", cfg.CachePath, err)
		}
		if err == nil {
			if err := facade.Cache().LoadInto(data, cache.Merge); err != nil {
				return nil, err
			}
		}
	}

	return &App{
		Config:   cfg,
		Provider: provider,
		VC:       facade,
		Logger:   logger,
	}, nil
}

// Close persists the node cache built up during this invocation back to the
// configured cache file, so the next invocation folds it back in after its
// own discovery pass (see newApp). A command that only reads should still
// call it: discovery may have filled in entries a prior run never persisted.
func (a *App) Close() error {
	if a.Config.CachePath == "" {
		return nil
	}
	if err := a.VC.Cache().Save(a.Config.CachePath); err != nil {
		a.Logger.Warn("could not persist node cache", zap.Error(err))
		return err
	}
	return nil
}
