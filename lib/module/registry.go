// Package module implements a class loader for shared library plugins.
// This file contains the creator registry mapping class identifiers to
// creators for one capability.
package module

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Creator produces instances of one registered class.
type Creator interface {
	Create() any
}

// CreatorFunc is a convenience type for converting functions to Creator.
type CreatorFunc func() any

// Create implements Creator interface
func (f CreatorFunc) Create() any {
	return f()
}

// NewCreator wraps a typed constructor function as a Creator.
func NewCreator[T any](fn func() T) Creator {
	return CreatorFunc(func() any { return fn() })
}

// OwnedCreator tracks every instance it creates and, when closed, closes
// the ones implementing io.Closer. The registry closes its creators
// during library teardown, so instances made through an OwnedCreator
// never outlive their library.
type OwnedCreator struct {
	mu      sync.Mutex
	inner   Creator
	created []any
}

// NewOwnedCreator wraps a typed constructor function as an owning Creator.
func NewOwnedCreator[T any](fn func() T) *OwnedCreator {
	return &OwnedCreator{inner: NewCreator(fn)}
}

// Create implements Creator interface
func (o *OwnedCreator) Create() any {
	instance := o.inner.Create()
	o.mu.Lock()
	o.created = append(o.created, instance)
	o.mu.Unlock()
	return instance
}

// Close closes every created instance that implements io.Closer and
// forgets them all. Errors are aggregated.
func (o *OwnedCreator) Close() error {
	o.mu.Lock()
	created := o.created
	o.created = nil
	o.mu.Unlock()

	var errs *multierror.Error
	for _, instance := range created {
		if closer, ok := instance.(io.Closer); ok {
			errs = multierror.Append(errs, closer.Close())
		}
	}
	return errs.ErrorOrNil()
}

// Registry maps class identifiers to creators for exactly one capability.
// The loader builds one registry per loaded library, hands it to the
// library's BuildFactory, and seals it when the build returns; a sealed
// registry only serves lookups. The registry owns its creators and closes
// them with Close.
type Registry struct {
	capability string

	mu      sync.RWMutex
	entries map[string]Creator
	sealed  bool
}

// NewRegistry creates an empty registry for the given capability
// identifier.
func NewRegistry(capability string) *Registry {
	return &Registry{
		capability: capability,
		entries:    make(map[string]Creator),
	}
}

// Capability returns the capability identifier this registry serves.
func (r *Registry) Capability() string {
	return r.capability
}

// Expect verifies that the registry serves the given capability. The
// identifiers are compared by value; plugins call this through Bind
// before registering anything.
func (r *Registry) Expect(capability string) error {
	if r.capability != capability {
		return fmt.Errorf("%w: registry serves %q, plugin provides %q", ErrCapabilityMismatch, r.capability, capability)
	}
	return nil
}

// Register inserts or overwrites the creator for the given class
// identifier. The last registration wins. Registering into a sealed
// registry fails with ErrRegistrySealed.
func (r *Registry) Register(id string, creator Creator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: register %q", ErrRegistrySealed, id)
	}
	r.entries[id] = creator
	return nil
}

// Create instantiates the class registered under id. An unknown id, or a
// creator producing nil, fails with ErrClassNotFound and leaves the
// registry unchanged.
func (r *Registry) Create(id string) (any, error) {
	r.mu.RLock()
	creator, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClassNotFound, id)
	}
	instance := creator.Create()
	if instance == nil {
		return nil, fmt.Errorf("%w: creator for %q returned nil", ErrClassNotFound, id)
	}
	return instance, nil
}

// Find returns the creator registered under id.
func (r *Registry) Find(id string) (Creator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	creator, ok := r.entries[id]
	return creator, ok
}

// Has reports whether a class is registered under id.
func (r *Registry) Has(id string) bool {
	_, ok := r.Find(id)
	return ok
}

// Classes returns the registered class identifiers in sorted order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entries returns a snapshot of the registered classes and their
// creators.
func (r *Registry) Entries() map[string]Creator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make(map[string]Creator, len(r.entries))
	for id, creator := range r.entries {
		entries[id] = creator
	}
	return entries
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Empty reports whether the registry has no classes.
func (r *Registry) Empty() bool {
	return r.Len() == 0
}

// Sealed reports whether the registry stopped accepting registrations.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// seal makes the registry read-only. The loader seals a registry once the
// library's build function returned.
func (r *Registry) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Close closes every creator that implements io.Closer and drops all
// entries. Close is idempotent; errors are aggregated.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]Creator)
	r.sealed = true
	r.mu.Unlock()

	var errs *multierror.Error
	for _, creator := range entries {
		if closer, ok := creator.(io.Closer); ok {
			errs = multierror.Append(errs, closer.Close())
		}
	}
	return errs.ErrorOrNil()
}
