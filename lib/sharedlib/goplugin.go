//go:build cgo && (linux || darwin || freebsd)

// Package sharedlib provides handles over dynamically loaded shared libraries.
// This file contains the backend over the Go runtime plugin loader.
package sharedlib

import (
	"plugin"
)

// PluginBackend opens shared libraries through the Go runtime plugin
// loader. Library files must be built with -buildmode=plugin by the same
// toolchain as the host binary.
type PluginBackend struct{}

// DefaultBackend returns the backend used when none is configured.
func DefaultBackend() Backend {
	return PluginBackend{}
}

// Open implements Backend.
func (PluginBackend) Open(path string) (Handle, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return pluginHandle{plugin: p}, nil
}

// Suffix implements Backend.
func (PluginBackend) Suffix() string {
	return Suffix()
}

// pluginHandle adapts *plugin.Plugin to the Handle interface.
type pluginHandle struct {
	plugin *plugin.Plugin
}

// Resolve maps a failed lookup to a nil Symbol.
func (h pluginHandle) Resolve(name string) Symbol {
	sym, err := h.plugin.Lookup(name)
	if err != nil {
		return nil
	}
	return sym
}

// Close is a no-op: the Go runtime never unloads plugin code. The Library
// above still enforces the release-once handle semantics.
func (h pluginHandle) Close() error {
	return nil
}
