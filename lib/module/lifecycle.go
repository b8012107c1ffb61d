// Package module implements a class loader for shared library plugins.
// This file contains loading, unloading, and teardown of libraries.
package module

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/modulepp/module.go/lib/sharedlib"
)

// Load loads the library at path and builds its creator registry.
// Loading an already loaded path only increments its reference count.
// On any failure the loader's state is exactly as before the call.
func (l *Loader) Load(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("%w: load %s", ErrLoaderClosed, path)
	}

	if rec, ok := l.records[path]; ok {
		rec.refCount++
		l.log.WithField("path", path).WithField("refcount", rec.refCount).Debug("library reference added")
		return nil
	}

	rec, err := l.open(path)
	if err != nil {
		return err
	}
	l.records[path] = rec
	l.log.WithField("path", path).WithField("classes", rec.registry.Len()).Info("library loaded")
	return nil
}

// open runs the registration protocol for a library that is not loaded
// yet: open the file, run the optional initializer, resolve and call
// BuildFactory against a fresh registry, seal it. Any failure rolls the
// partial state back and leaves nothing behind. Called with the loader
// lock held.
func (l *Loader) open(path string) (*record, error) {
	resolved := l.locate(path)

	if err := l.verifyChecksum(path, resolved); err != nil {
		return nil, err
	}

	library := sharedlib.New(l.backend)
	if err := library.Open(resolved); err != nil {
		return nil, err
	}

	initSym, err := library.Resolve(SymbolInitialize)
	if err != nil {
		library.Close()
		return nil, err
	}
	if initSym != nil {
		initFn, ok := asLifecycleFunc(initSym)
		if !ok {
			library.Close()
			return nil, fmt.Errorf("%w: %s in %s has the wrong type", ErrCapabilityMismatch, SymbolInitialize, library.Path())
		}
		initFn()
	}

	buildSym, err := library.Resolve(SymbolBuild)
	if err != nil {
		library.Close()
		return nil, err
	}
	if buildSym == nil {
		library.Close()
		return nil, fmt.Errorf("%w: %s exports no %s", ErrSymbolMissing, library.Path(), SymbolBuild)
	}
	buildFn, ok := asBuildFunc(buildSym)
	if !ok {
		library.Close()
		return nil, fmt.Errorf("%w: %s in %s has the wrong type", ErrCapabilityMismatch, SymbolBuild, library.Path())
	}

	registry := NewRegistry(l.capability)
	if err := buildFn(registry); err != nil {
		registry.Close()
		library.Close()
		return nil, fmt.Errorf("build factory for %s: %w", path, err)
	}
	registry.seal()

	return &record{
		path:     path,
		resolved: resolved,
		library:  library,
		registry: registry,
		refCount: 1,
		leases:   make(map[uuid.UUID]struct{}),
	}, nil
}

// Unload releases one reference to the library under path. The last
// release tears the library down; releasing the last reference while
// instance leases are outstanding fails with ErrLeaseHeld. Unloading a
// path that is not loaded is a no-op.
func (l *Loader) Unload(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("%w: unload %s", ErrLoaderClosed, path)
	}

	rec, ok := l.records[path]
	if !ok {
		return nil
	}

	if rec.refCount == 1 && len(rec.leases) > 0 {
		return fmt.Errorf("%w: %s has %d outstanding leases", ErrLeaseHeld, path, len(rec.leases))
	}

	rec.refCount--
	if rec.refCount > 0 {
		l.log.WithField("path", path).WithField("refcount", rec.refCount).Debug("library reference released")
		return nil
	}

	delete(l.records, path)
	err := l.teardown(rec)
	l.log.WithField("path", path).Info("library unloaded")
	return err
}

// teardown runs the unload protocol: the optional uninitializer first,
// then the registry, then the handle. Teardown always completes; errors
// are aggregated. Called with the loader lock held, after the record
// left the map.
func (l *Loader) teardown(rec *record) error {
	var errs *multierror.Error

	uninitSym, err := rec.library.Resolve(SymbolUninitialize)
	if err == nil && uninitSym != nil {
		if uninitFn, ok := asLifecycleFunc(uninitSym); ok {
			uninitFn()
		} else {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s in %s has the wrong type", ErrCapabilityMismatch, SymbolUninitialize, rec.library.Path()))
		}
	}

	errs = multierror.Append(errs, rec.registry.Close())
	errs = multierror.Append(errs, rec.library.Close())
	return errs.ErrorOrNil()
}

// Close unloads every library and marks the loader closed. Outstanding
// leases do not block Close: tearing the loader down is the owner's
// override. A second Close fails with ErrLoaderClosed, as does every
// later operation.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLoaderClosed
	}
	l.closed = true

	paths := make([]string, 0, len(l.records))
	for path := range l.records {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var errs *multierror.Error
	for _, path := range paths {
		rec := l.records[path]
		delete(l.records, path)
		if err := l.teardown(rec); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("teardown %s: %w", path, err))
		}
	}
	l.log.WithField("libraries", len(paths)).Info("loader closed")
	return errs.ErrorOrNil()
}
