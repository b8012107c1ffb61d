//go:build !cgo || !(linux || darwin || freebsd)

// Package sharedlib provides handles over dynamically loaded shared libraries.
// This file contains the stub backend for builds without plugin support.
package sharedlib

import (
	"fmt"
)

const errNotImplemented = "cannot open %s: the plugin backend is disabled, build with CGO_ENABLED=1 on linux, darwin or freebsd"

// PluginBackend is unavailable in this build: the Go runtime plugin
// loader needs cgo on linux, darwin or freebsd. Every Open fails; use a
// StaticBackend instead.
type PluginBackend struct{}

// DefaultBackend returns the backend used when none is configured.
func DefaultBackend() Backend {
	return PluginBackend{}
}

// Open implements Backend.
func (PluginBackend) Open(path string) (Handle, error) {
	return nil, fmt.Errorf(errNotImplemented, path)
}

// Suffix implements Backend.
func (PluginBackend) Suffix() string {
	return Suffix()
}
