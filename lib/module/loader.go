// Package module implements a class loader for shared library plugins.
// This file contains the Loader type, its options, and the read-side
// operations over the loaded libraries.
package module

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/modulepp/module.go/lib/log"
	"github.com/modulepp/module.go/lib/sharedlib"
)

// Loader loads shared library plugins for one capability and serves
// instances of the classes they register. Each loaded library holds one
// sealed Registry; libraries are reference counted per load path. A
// Loader is an ordinary value: programs run any number of independent
// loaders side by side.
//
// One coarse mutex serializes every operation. The Library handles carry
// their own inner lock which only ever nests inside the loader's, so the
// lock order is fixed.
type Loader struct {
	capability string
	backend    sharedlib.Backend
	fs         afero.Fs
	version    string
	checksums  map[string]string
	log        logrus.FieldLogger

	mu      sync.Mutex
	records map[string]*record
	closed  bool
}

// record tracks one loaded library and its reference count.
type record struct {
	path     string // load path the callers use
	resolved string // file the backend actually opened, without suffix
	library  *sharedlib.Library
	registry *Registry
	refCount int
	leases   map[uuid.UUID]struct{}
}

// LoadedLibrary describes one loaded library in an enumeration snapshot.
type LoadedLibrary struct {
	Path     string
	Resolved string
	RefCount int
	Registry *Registry
}

// LoaderOptions defines options for creating a Loader.
type LoaderOptions struct {
	// Backend opens library files. Defaults to sharedlib.DefaultBackend().
	Backend sharedlib.Backend

	// Fs is the filesystem used to probe versioned file candidates, walk
	// plugin directories, and hash files. Defaults to the OS filesystem.
	Fs afero.Fs

	// Logger receives load and unload logging. Defaults to the shared
	// logger from lib/log.
	Logger logrus.FieldLogger

	// Version is the host version used for versioned file candidates.
	// Empty disables candidate probing.
	Version string

	// Checksums pins expected SHA-256 hex digests per load path. A
	// library with a pinned digest is verified before it is opened.
	Checksums map[string]string
}

// DefaultLoaderOptions returns default options using the platform
// backend and the OS filesystem.
func DefaultLoaderOptions() *LoaderOptions {
	return &LoaderOptions{
		Backend: sharedlib.DefaultBackend(),
		Fs:      afero.NewOsFs(),
	}
}

// WithBackend creates loader options using the given backend.
func WithBackend(backend sharedlib.Backend) *LoaderOptions {
	opts := DefaultLoaderOptions()
	opts.Backend = backend
	return opts
}

// New creates a Loader for the given capability identifier. A nil opts
// uses DefaultLoaderOptions; missing option fields fall back to their
// defaults.
func New(capability string, opts *LoaderOptions) *Loader {
	if opts == nil {
		opts = DefaultLoaderOptions()
	}

	backend := opts.Backend
	if backend == nil {
		backend = sharedlib.DefaultBackend()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Get().WithField("prefix", "classloader")
	}

	return &Loader{
		capability: capability,
		backend:    backend,
		fs:         fs,
		version:    opts.Version,
		checksums:  opts.Checksums,
		log:        logger,
		records:    make(map[string]*record),
	}
}

// Capability returns the capability identifier this loader serves.
func (l *Loader) Capability() string {
	return l.capability
}

// IsLoaded reports whether a library is loaded under path.
func (l *Loader) IsLoaded(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.records[path]
	return ok
}

// RefCount returns the reference count of the library under path, zero
// when it is not loaded.
func (l *Loader) RefCount(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.records[path]; ok {
		return rec.refCount
	}
	return 0
}

// Leases returns the number of outstanding instance leases on the
// library under path, zero when it is not loaded.
func (l *Loader) Leases(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.records[path]; ok {
		return len(rec.leases)
	}
	return 0
}

// Len returns the number of loaded libraries.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Paths returns the loaded library paths in sorted order.
func (l *Loader) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	paths := make([]string, 0, len(l.records))
	for path := range l.records {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Enumerate returns a snapshot of the loaded libraries, sorted by path.
// The sorting only makes the snapshot stable for reporting; the create
// scan itself runs in map order.
func (l *Loader) Enumerate() []LoadedLibrary {
	l.mu.Lock()
	defer l.mu.Unlock()

	libraries := make([]LoadedLibrary, 0, len(l.records))
	for _, rec := range l.records {
		libraries = append(libraries, LoadedLibrary{
			Path:     rec.path,
			Resolved: rec.resolved,
			RefCount: rec.refCount,
			Registry: rec.registry,
		})
	}
	sort.Slice(libraries, func(i, j int) bool { return libraries[i].Path < libraries[j].Path })
	return libraries
}
