// Package module implements a class loader for shared library plugins.
// This file contains instance leases pinning libraries while their
// instances are in use.
package module

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Lease pins a library while a created instance is in use. The final
// unload of a library fails while it has outstanding leases, so a held
// instance can never call into code that was torn down under it.
type Lease struct {
	loader *Loader
	path   string
	token  uuid.UUID

	released atomic.Bool
}

// CreateLeased instantiates a class like Create and additionally takes a
// lease on the providing library. Callers release the lease once they
// are done with the instance.
func (l *Loader) CreateLeased(id string) (any, *Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, nil, fmt.Errorf("%w: create %q", ErrLoaderClosed, id)
	}

	rec, ok := l.findRecord(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q in %d libraries", ErrClassNotFound, id, len(l.records))
	}
	instance, err := rec.registry.Create(id)
	if err != nil {
		return nil, nil, err
	}

	token, err := uuid.NewV7()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate lease token: %w", err)
	}
	rec.leases[token] = struct{}{}

	return instance, &Lease{loader: l, path: rec.path, token: token}, nil
}

// Path returns the load path of the library the lease pins.
func (lease *Lease) Path() string {
	return lease.path
}

// Release returns the lease. Releasing twice, or after the library or
// the loader is gone, is a safe no-op.
func (lease *Lease) Release() {
	if !lease.released.CompareAndSwap(false, true) {
		return
	}

	l := lease.loader
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.records[lease.path]; ok {
		delete(rec.leases, lease.token)
	}
}
