// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package store

import (
	"sync"

	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// Config selects and parameterises the storage backend.
type Config struct {
	Backend string // "memory" or "sqlite"
	Path    string // database file path, ignored by the memory backend
}

// Factory creates a SessionStore for a named backend.
type Factory func(cfg Config) (SessionStore, error)

var (
	factories   = map[string]Factory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a factory for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// New creates a SessionStore for the configured backend, defaulting to
// "memory" when no backend is named.
func New(cfg Config) (SessionStore, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "memory"
	}

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, woierr.Errorf(woierr.CodeStoreBackendUnsupported, "unsupported storage backend: %q", backend)
	}

	return factory(cfg)
}
