// Package module implements a class loader for shared library plugins.
// This file contains plugin directory discovery and bulk loading.
package module

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Discover walks dir on the loader's filesystem and returns the load
// path of every library file carrying the backend's suffix, sorted. The
// suffix is stripped so the results feed straight into Load. Discovery
// is meant for file-backed backends; with an empty suffix every regular
// file matches.
func (l *Loader) Discover(dir string) ([]string, error) {
	suffix := l.backend.Suffix()

	var paths []string
	err := afero.Walk(l.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if suffix != "" && !strings.HasSuffix(path, suffix) {
			return nil
		}
		paths = append(paths, strings.TrimSuffix(path, suffix))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDir discovers and loads every library under dir. Loading continues
// past per-library failures; the aggregated error reports them all
// alongside the successfully loaded paths.
func (l *Loader) LoadDir(dir string) ([]string, error) {
	discovered, err := l.Discover(dir)
	if err != nil {
		return nil, err
	}

	var errs *multierror.Error
	loaded := make([]string, 0, len(discovered))
	for _, path := range discovered {
		if err := l.Load(path); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		loaded = append(loaded, path)
	}
	return loaded, errs.ErrorOrNil()
}
