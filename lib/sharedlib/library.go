// Package sharedlib provides handles over dynamically loaded shared libraries.
// This file contains the Library handle and its open, resolve, and close
// operations.
package sharedlib

import (
	"fmt"
	"strings"
	"sync"
)

// Library is a self-synchronized handle over one shared library file. It
// opens at most one underlying backend handle at a time, appends the
// backend's file suffix to suffix-less paths, and stays reusable after a
// failed open. All methods are safe for concurrent use; the internal lock
// is the innermost lock of the system and nests inside any caller's lock.
type Library struct {
	backend Backend

	mu     sync.Mutex
	path   string
	handle Handle
}

// New creates a closed Library over the given backend.
func New(backend Backend) *Library {
	return &Library{backend: backend}
}

// Open creates a Library and opens path in one step.
func Open(backend Backend, path string) (*Library, error) {
	l := New(backend)
	if err := l.Open(path); err != nil {
		return nil, err
	}
	return l, nil
}

// Open opens the library file at path. A path without the backend's file
// suffix gets the suffix appended. Opening an already open Library fails
// with ErrAlreadyLoaded; a backend failure surfaces as ErrLoadFailed and
// leaves the Library closed and reusable.
func (l *Library) Open(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, l.path)
	}

	full := path
	if suffix := l.backend.Suffix(); suffix != "" && !strings.HasSuffix(full, suffix) {
		full += suffix
	}
	l.path = full

	handle, err := l.backend.Open(full)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadFailed, full, err)
	}
	l.handle = handle
	return nil
}

// Resolve returns the exported symbol with the given name. A missing
// symbol is reported as a nil Symbol, not as an error; resolving on a
// Library that is not open fails with ErrNotLoaded.
func (l *Library) Resolve(name string) (Symbol, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == nil {
		return nil, fmt.Errorf("%w: resolve %q", ErrNotLoaded, name)
	}
	return l.handle.Resolve(name), nil
}

// Has reports whether the open library exports a symbol with the given
// name. A closed Library has no symbols.
func (l *Library) Has(name string) bool {
	sym, err := l.Resolve(name)
	return err == nil && sym != nil
}

// Close releases the underlying handle exactly once. Closing a Library
// that is not open is a no-op.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == nil {
		return nil
	}
	handle := l.handle
	l.handle = nil
	return handle.Close()
}

// Loaded reports whether the Library currently holds an open handle.
func (l *Library) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle != nil
}

// Path returns the full library file path, suffix included, of the last
// Open call.
func (l *Library) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}
