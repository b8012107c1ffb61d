// Package module implements a class loader for shared library plugins.
// This file contains library file location: versioned file candidates
// and checksum pinning.
package module

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/spf13/afero"
)

// fileCandidates returns the load paths to probe for path, most specific
// first: version and platform qualified names following the
// {path}_{version}_{GOOS}_{GOARCH} convention, then the plain path.
func fileCandidates(path, hostVersion string) []string {
	if hostVersion == "" {
		return []string{path}
	}

	candidates := make([]string, 0, 3)
	for _, form := range versionForms(hostVersion) {
		candidates = append(candidates, fmt.Sprintf("%s_%s_%s_%s", path, form, runtime.GOOS, runtime.GOARCH))
	}
	return append(candidates, path)
}

// versionForms returns the prefixed and unprefixed forms of the host
// version, reduced to its core when it parses as a version; a
// pre-release tag like -rc1 never reaches the file name.
func versionForms(hostVersion string) []string {
	core := strings.TrimPrefix(hostVersion, "v")
	if parsed, err := version.NewVersion(core); err == nil {
		core = parsed.Core().String()
	} else if i := strings.IndexByte(core, '-'); i >= 0 {
		core = core[:i]
	}
	return []string{"v" + core, core}
}

// locate resolves the file to open for path. With a host version
// configured, the versioned candidates are probed on the loader's
// filesystem and the first existing file wins; the plain path is the
// final fallback. Called with the loader lock held.
func (l *Loader) locate(path string) string {
	candidates := fileCandidates(path, l.version)
	if len(candidates) == 1 {
		return path
	}

	suffix := l.backend.Suffix()
	for _, candidate := range candidates {
		exists, err := afero.Exists(l.fs, candidate+suffix)
		if err == nil && exists {
			if candidate != path {
				l.log.WithField("path", path).WithField("file", candidate+suffix).Debug("versioned library file selected")
			}
			return candidate
		}
	}
	return path
}

// Checksum returns the SHA-256 digest of the file at path in hex form.
func Checksum(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// verifyChecksum checks the resolved file against the digest pinned for
// the load path, if any. Called with the loader lock held, before the
// file is opened.
func (l *Loader) verifyChecksum(path, resolved string) error {
	expected, ok := l.checksums[path]
	if !ok {
		return nil
	}

	file := resolved
	if suffix := l.backend.Suffix(); suffix != "" && !strings.HasSuffix(file, suffix) {
		file += suffix
	}
	actual, err := Checksum(l.fs, file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: %s: expected %s, got %s", ErrChecksumMismatch, file, expected, actual)
	}
	return nil
}
