// Package sharedlib provides handles over dynamically loaded shared libraries.
// This file contains the in-memory backend for embedded plugins and tests.
package sharedlib

import (
	"fmt"
	"sync"
)

// StaticBackend serves libraries from in-memory symbol tables instead of
// the operating system loader. It backs plugins compiled into the host
// binary and keeps the loader testable without building plugin files.
type StaticBackend struct {
	mu   sync.RWMutex
	libs map[string]map[string]Symbol
}

// NewStaticBackend creates an empty static backend.
func NewStaticBackend() *StaticBackend {
	return &StaticBackend{libs: make(map[string]map[string]Symbol)}
}

// Add registers a synthetic library under path. A later Add for the same
// path replaces the table; handles opened earlier keep the table they
// were opened with.
func (b *StaticBackend) Add(path string, symbols map[string]Symbol) {
	table := make(map[string]Symbol, len(symbols))
	for name, sym := range symbols {
		table[name] = sym
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.libs[path] = table
}

// Remove drops the synthetic library under path. Open handles are not
// affected.
func (b *StaticBackend) Remove(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.libs, path)
}

// Open implements Backend.
func (b *StaticBackend) Open(path string) (Handle, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	table, ok := b.libs[path]
	if !ok {
		return nil, fmt.Errorf("no static library registered under %s", path)
	}
	return staticHandle{symbols: table}, nil
}

// Suffix implements Backend. Static library paths are plain names without
// a file suffix.
func (b *StaticBackend) Suffix() string {
	return ""
}

// staticHandle serves symbols from the table captured at Open time.
type staticHandle struct {
	symbols map[string]Symbol
}

// Resolve implements Handle.
func (h staticHandle) Resolve(name string) Symbol {
	return h.symbols[name]
}

// Close implements Handle.
func (h staticHandle) Close() error {
	return nil
}
