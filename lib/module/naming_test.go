package module

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/spf13/afero"

	"github.com/modulepp/module.go/lib/sharedlib"
)

// suffixBackend serves static symbol tables but reports a file suffix,
// so locating and discovery behave like a file-backed backend.
type suffixBackend struct {
	*sharedlib.StaticBackend
	suffix string
}

func newSuffixBackend(suffix string) *suffixBackend {
	return &suffixBackend{StaticBackend: sharedlib.NewStaticBackend(), suffix: suffix}
}

func (b *suffixBackend) Suffix() string { return b.suffix }

func TestFileCandidates_NoVersion(t *testing.T) {
	candidates := fileCandidates("plugins/answer", "")
	if len(candidates) != 1 || candidates[0] != "plugins/answer" {
		t.Errorf("expected only the plain path, got %v", candidates)
	}
}

func TestFileCandidates_Versioned(t *testing.T) {
	platform := fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH)
	want := []string{
		"plugins/answer_v1.2.3_" + platform,
		"plugins/answer_1.2.3_" + platform,
		"plugins/answer",
	}

	candidates := fileCandidates("plugins/answer", "v1.2.3")
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), candidates)
	}
	for i := range want {
		if candidates[i] != want[i] {
			t.Errorf("candidate %d: expected %q, got %q", i, want[i], candidates[i])
		}
	}
}

func TestVersionForms(t *testing.T) {
	cases := []struct {
		version string
		want    []string
	}{
		{"1.2.3", []string{"v1.2.3", "1.2.3"}},
		{"v1.2.3", []string{"v1.2.3", "1.2.3"}},
		{"v1.2.3-rc1", []string{"v1.2.3", "1.2.3"}},
		{"5.3.0-alpha.2", []string{"v5.3.0", "5.3.0"}},
		{"nightly-7", []string{"vnightly", "nightly"}},
	}

	for _, c := range cases {
		got := versionForms(c.version)
		if len(got) != len(c.want) {
			t.Errorf("%q: expected %v, got %v", c.version, c.want, got)
			continue
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%q: expected %v, got %v", c.version, c.want, got)
				break
			}
		}
	}
}

func TestLoader_Locate_PicksVersionedFile(t *testing.T) {
	versioned := fmt.Sprintf("plugins/answer_v1.2.3_%s_%s", runtime.GOOS, runtime.GOARCH)

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, versioned+".so", []byte("lib"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	backend := newSuffixBackend(".so")
	backend.Add(versioned+".so", buildSymbols(map[string]int{"answer": 42}))

	opts := testOptions(backend)
	opts.Fs = fs
	opts.Version = "v1.2.3"
	loader := New(testCapability, opts)

	if err := loader.Load("plugins/answer"); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	// The caller's path stays the record key even when a versioned file
	// was opened.
	if !loader.IsLoaded("plugins/answer") {
		t.Error("expected the load path to key the record")
	}
	libraries := loader.Enumerate()
	if len(libraries) != 1 || libraries[0].Resolved != versioned {
		t.Errorf("expected the versioned file to be opened, got %+v", libraries)
	}

	if err := loader.Unload("plugins/answer"); err != nil {
		t.Errorf("unexpected unload error: %v", err)
	}
}

func TestLoader_Locate_FallsBackToPlainPath(t *testing.T) {
	backend := newSuffixBackend(".so")
	backend.Add("plugins/answer.so", buildSymbols(map[string]int{"answer": 42}))

	opts := testOptions(backend)
	opts.Fs = afero.NewMemMapFs()
	opts.Version = "v1.2.3"
	loader := New(testCapability, opts)

	// No candidate file exists, so the plain path is opened.
	if err := loader.Load("plugins/answer"); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	libraries := loader.Enumerate()
	if len(libraries) != 1 || libraries[0].Resolved != "plugins/answer" {
		t.Errorf("expected the plain path, got %+v", libraries)
	}
}

func TestChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "plugins/answer.so", []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	digest, err := Checksum(fs, "plugins/answer.so")
	if err != nil {
		t.Fatalf("unexpected checksum error: %v", err)
	}
	if digest != helloDigest {
		t.Errorf("expected %s, got %s", helloDigest, digest)
	}

	if _, err := Checksum(fs, "plugins/ghost.so"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoader_Load_ChecksumPinned(t *testing.T) {
	const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "plugins/answer.so", []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	backend := newSuffixBackend(".so")
	backend.Add("plugins/answer.so", buildSymbols(map[string]int{"answer": 42}))

	opts := testOptions(backend)
	opts.Fs = fs
	opts.Checksums = map[string]string{"plugins/answer": helloDigest}
	loader := New(testCapability, opts)

	if err := loader.Load("plugins/answer"); err != nil {
		t.Fatalf("expected the pinned digest to match, got %v", err)
	}
}

func TestLoader_Load_ChecksumMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "plugins/answer.so", []byte("tampered"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	backend := newSuffixBackend(".so")
	backend.Add("plugins/answer.so", buildSymbols(map[string]int{"answer": 42}))

	opts := testOptions(backend)
	opts.Fs = fs
	opts.Checksums = map[string]string{
		"plugins/answer": "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
	}
	loader := New(testCapability, opts)

	err := loader.Load("plugins/answer")
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
	if loader.IsLoaded("plugins/answer") {
		t.Error("a failed verification must leave nothing behind")
	}
}
