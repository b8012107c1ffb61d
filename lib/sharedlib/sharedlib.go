// Package sharedlib provides handles over dynamically loaded shared libraries.
// This file contains the backend contracts, the typed errors, and the
// platform file suffix.
package sharedlib

import (
	"errors"
	"runtime"
)

var (
	// ErrLoadFailed reports that the backend could not open the library file.
	ErrLoadFailed = errors.New("shared library load failed")

	// ErrAlreadyLoaded reports an Open on a Library that is still open.
	ErrAlreadyLoaded = errors.New("shared library already loaded")

	// ErrNotLoaded reports access to a Library that is not open.
	ErrNotLoaded = errors.New("shared library not loaded")
)

// Symbol is a resolved exported symbol of a shared library. A nil Symbol
// means the library does not export the requested name.
type Symbol = any

// Backend abstracts the mechanism that opens shared library files. The
// platform backend wraps the Go runtime plugin loader; a StaticBackend
// serves in-memory symbol tables for embedded plugins and tests.
type Backend interface {
	// Open opens the library file at path. The path already carries the
	// backend's file suffix.
	Open(path string) (Handle, error)

	// Suffix returns the file suffix the backend's library files carry,
	// empty when its paths are not files.
	Suffix() string
}

// Handle is an open library as returned by a Backend.
type Handle interface {
	// Resolve returns the exported symbol with the given name, nil when
	// the library does not export it.
	Resolve(name string) Symbol

	// Close releases the handle.
	Close() error
}

// Suffix returns the shared library file suffix for the current platform.
func Suffix() string {
	switch runtime.GOOS {
	case "windows":
		return ".dll"
	case "darwin", "ios":
		return ".dylib"
	default:
		return ".so"
	}
}
