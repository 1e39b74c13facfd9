// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate test environments with proper dependencies

package testutil

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/wgen/isoenv/pkg/filesystem"
	"github.com/wgen/isoenv/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a filesystem sandbox for resolver and
// compiler tests, either purely in memory or rooted in a temp dir.
type TestEnvironment struct {
	// Root is the base directory all test paths live under
	Root string

	// FS is the filesystem implementation under test
	FS types.FS

	// Environment type
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:    t,
		Type: envType,
	}

	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual/isoenv"
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
		if err := env.FS.MkdirAll(env.Root, 0755); err != nil {
			t.Fatalf("Failed to create root: %v", err)
		}
	case EnvIsolated:
		env.Root = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	return env
}

// SourceConfig describes the files to seed into a source root, keyed
// by source-relative path.
type SourceConfig struct {
	Files map[string]string
}

// SetupSource seeds a source root under the environment and returns
// its absolute path.
func (env *TestEnvironment) SetupSource(name string, config SourceConfig) string {
	env.t.Helper()

	root := filepath.Join(env.Root, filepath.FromSlash(name))
	if err := env.FS.MkdirAll(root, 0755); err != nil {
		env.t.Fatalf("Failed to create source root %s: %v", root, err)
	}
	for rel, content := range config.Files {
		env.WriteFile(filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root
}

// DestRoot returns the conventional destination root for the
// environment. It is not created up front; compile does that.
func (env *TestEnvironment) DestRoot() string {
	return filepath.Join(env.Root, "dest")
}

// WriteFile writes content at path, creating parent directories.
func (env *TestEnvironment) WriteFile(path string, content string) {
	env.t.Helper()

	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content at path, failing the test on error.
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()

	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists.
func (env *TestEnvironment) Exists(path string) bool {
	_, err := env.FS.Stat(path)
	return err == nil
}

// ListFiles returns every regular file under root as a sorted list of
// root-relative slash paths. Useful for comparing whole trees.
func (env *TestEnvironment) ListFiles(root string) []string {
	env.t.Helper()

	var files []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := env.FS.ReadDir(dir)
		if err != nil {
			env.t.Fatalf("Failed to list %s: %v", dir, err)
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				walk(full)
				continue
			}
			rel, err := filepath.Rel(root, full)
			if err != nil {
				env.t.Fatalf("Failed to relativize %s: %v", full, err)
			}
			files = append(files, strings.ReplaceAll(rel, string(filepath.Separator), "/"))
		}
	}
	walk(root)
	sort.Strings(files)
	return files
}
