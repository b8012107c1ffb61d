// Package module implements a class loader for shared library plugins.
// This file contains the exported symbol contract between hosts and
// plugins.
package module

import (
	"github.com/modulepp/module.go/lib/sharedlib"
)

// Names of the exported symbols a plugin provides. SymbolBuild is
// required; the lifecycle pair is optional.
const (
	SymbolBuild        = "BuildFactory"
	SymbolInitialize   = "InitializeLibrary"
	SymbolUninitialize = "UninitializeLibrary"
)

// BuildFunc is the required registration entry point of a plugin. It
// receives the fresh registry for the library and registers the plugin's
// classes, typically through Bind. A non-nil error aborts the load.
type BuildFunc func(*Registry) error

// LifecycleFunc is the optional InitializeLibrary and
// UninitializeLibrary entry point of a plugin.
type LifecycleFunc func()

// asBuildFunc normalizes a resolved symbol to a BuildFunc. Resolving an
// exported function yields the plain function value, resolving an
// exported variable yields a pointer to it; both are accepted, in named
// and unnamed form.
func asBuildFunc(sym sharedlib.Symbol) (BuildFunc, bool) {
	switch fn := sym.(type) {
	case func(*Registry) error:
		return fn, true
	case BuildFunc:
		return fn, true
	case *func(*Registry) error:
		return *fn, true
	case *BuildFunc:
		return *fn, true
	}
	return nil, false
}

// asLifecycleFunc normalizes a resolved symbol to a LifecycleFunc, with
// the same forms as asBuildFunc.
func asLifecycleFunc(sym sharedlib.Symbol) (LifecycleFunc, bool) {
	switch fn := sym.(type) {
	case func():
		return fn, true
	case LifecycleFunc:
		return fn, true
	case *func():
		return *fn, true
	case *LifecycleFunc:
		return *fn, true
	}
	return nil, false
}
