// Package module implements a class loader for shared library plugins.
// This file contains the sentinel errors returned by registries and
// loaders. The handle-level errors live in lib/sharedlib.
package module

import (
	"errors"
)

var (
	// ErrSymbolMissing reports a library that exports no BuildFactory.
	ErrSymbolMissing = errors.New("registration symbol missing")

	// ErrCapabilityMismatch reports a capability identifier, or a protocol
	// symbol type, that does not match what the host expects.
	ErrCapabilityMismatch = errors.New("capability mismatch")

	// ErrClassNotFound reports a create call for a class identifier no
	// loaded library registers.
	ErrClassNotFound = errors.New("class not found")

	// ErrRegistrySealed reports a registration after the build phase of a
	// library finished.
	ErrRegistrySealed = errors.New("creator registry sealed")

	// ErrLeaseHeld reports an unload that would tear down a library with
	// outstanding instance leases.
	ErrLeaseHeld = errors.New("instance lease held")

	// ErrLoaderClosed reports an operation on a closed loader.
	ErrLoaderClosed = errors.New("loader is closed")

	// ErrChecksumMismatch reports a library file whose digest differs from
	// the pinned value.
	ErrChecksumMismatch = errors.New("library checksum mismatch")
)
