// Package module implements a class loader for shared library plugins.
// This file contains instance creation across the loaded libraries.
package module

import (
	"fmt"
)

// Create instantiates the class registered under id. The loaded
// libraries are scanned in map order; when several libraries register
// the same identifier, whichever the scan reaches first wins. No match
// in any library fails with ErrClassNotFound.
func (l *Loader) Create(id string) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, fmt.Errorf("%w: create %q", ErrLoaderClosed, id)
	}

	rec, ok := l.findRecord(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %d libraries", ErrClassNotFound, id, len(l.records))
	}
	return rec.registry.Create(id)
}

// Has reports whether any loaded library registers a class under id.
func (l *Loader) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.findRecord(id)
	return ok
}

// findRecord returns the first record whose registry has id, in map
// order. Called with the loader lock held.
func (l *Loader) findRecord(id string) (*record, bool) {
	for _, rec := range l.records {
		if rec.registry.Has(id) {
			return rec, true
		}
	}
	return nil, false
}
