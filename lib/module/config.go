// Package module implements a class loader for shared library plugins.
// This file contains the environment-driven loader configuration.
package module

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
)

// Config captures the environment-driven loader settings. Fields bind to
// MODULE_-prefixed variables through envconfig.
type Config struct {
	// Paths lists load paths to preload (MODULE_PATHS, comma separated).
	Paths []string `envconfig:"PATHS"`

	// Dir is a plugin directory to discover and preload (MODULE_DIR).
	Dir string `envconfig:"DIR"`

	// Version is the host version for versioned file candidates
	// (MODULE_VERSION).
	Version string `envconfig:"VERSION"`

	// Checksums pins SHA-256 hex digests per load path
	// (MODULE_CHECKSUMS, path:digest pairs).
	Checksums map[string]string `envconfig:"CHECKSUMS"`
}

// ConfigFromEnv reads the loader configuration from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("module", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read loader config: %w", err)
	}
	return cfg, nil
}

// Options converts the configuration into loader options on top of the
// defaults.
func (cfg Config) Options() *LoaderOptions {
	opts := DefaultLoaderOptions()
	opts.Version = cfg.Version
	opts.Checksums = cfg.Checksums
	return opts
}

// Preload loads everything the configuration names: the explicit paths
// first, then the plugin directory. Failures are aggregated like in
// LoadDir; the successfully loaded paths are returned.
func (l *Loader) Preload(cfg Config) ([]string, error) {
	var errs *multierror.Error

	loaded := make([]string, 0, len(cfg.Paths))
	for _, path := range cfg.Paths {
		if err := l.Load(path); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		loaded = append(loaded, path)
	}

	if cfg.Dir != "" {
		fromDir, err := l.LoadDir(cfg.Dir)
		loaded = append(loaded, fromDir...)
		errs = multierror.Append(errs, err)
	}

	return loaded, errs.ErrorOrNil()
}
