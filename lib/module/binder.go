// Package module implements a class loader for shared library plugins.
// This file contains the typed registration surface plugins use inside
// their BuildFactory, and the typed create helper for hosts.
package module

import (
	"fmt"
)

// Binder registers typed constructors into a registry whose capability
// has been verified. It is the explicit replacement for registration
// macros: plugins obtain one through Bind and register their classes on
// it.
type Binder[T any] struct {
	registry *Registry
}

// Bind verifies that the registry serves the given capability and
// returns a typed binder for it. A capability mismatch fails with
// ErrCapabilityMismatch before anything is registered.
func Bind[T any](r *Registry, capability string) (*Binder[T], error) {
	if err := r.Expect(capability); err != nil {
		return nil, err
	}
	return &Binder[T]{registry: r}, nil
}

// Register registers a typed constructor under the given class
// identifier.
func (b *Binder[T]) Register(id string, fn func() T) error {
	return b.registry.Register(id, NewCreator(fn))
}

// RegisterOwned registers a typed constructor whose instances are closed
// together with the registry.
func (b *Binder[T]) RegisterOwned(id string, fn func() T) error {
	return b.registry.Register(id, NewOwnedCreator(fn))
}

// RegisterCreator registers a prebuilt creator, such as a ProtoCreator,
// under the given class identifier.
func (b *Binder[T]) RegisterCreator(id string, creator Creator) error {
	return b.registry.Register(id, creator)
}

// Create instantiates a class through the loader and asserts the
// instance to T. An instance of an incompatible type fails with
// ErrCapabilityMismatch.
func Create[T any](l *Loader, id string) (T, error) {
	var zero T

	instance, err := l.Create(id)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: class %q created %T", ErrCapabilityMismatch, id, instance)
	}
	return typed, nil
}

// CreateLeased instantiates a class like Create and additionally returns
// the lease pinning the providing library.
func CreateLeased[T any](l *Loader, id string) (T, *Lease, error) {
	var zero T

	instance, lease, err := l.CreateLeased(id)
	if err != nil {
		return zero, nil, err
	}
	typed, ok := instance.(T)
	if !ok {
		lease.Release()
		return zero, nil, fmt.Errorf("%w: class %q created %T", ErrCapabilityMismatch, id, instance)
	}
	return typed, lease, nil
}
