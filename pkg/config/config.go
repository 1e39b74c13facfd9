package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/wgen/isoenv/pkg/errors"
	"github.com/wgen/isoenv/pkg/paths"
)

// Rules describes the source-tree layout conventions the resolver and
// compiler operate on. Everything here is configuration: the core
// algorithms only consume the materialized struct.
type Rules struct {
	// EnvironmentDirs are the top-level source directory names that
	// honor the overlay convention. Other top-level names pass through
	// untouched.
	EnvironmentDirs []string `koanf:"environment_dirs" toml:"environment_dirs"`

	// OverlayMarker is the reserved subdirectory name whose immediate
	// children are environment-named overlay subtrees.
	OverlayMarker string `koanf:"overlay_marker" toml:"overlay_marker"`

	// ManifestPath is the manifest location relative to the
	// destination root.
	ManifestPath string `koanf:"manifest_path" toml:"manifest_path"`

	// PreservedDirs are destination subtrees that pruning never
	// touches, regardless of manifest membership.
	PreservedDirs []string `koanf:"preserved_dirs" toml:"preserved_dirs"`
}

// IsEnvironmentDir reports whether name is one of the configured
// environment-aware directory names.
func (r Rules) IsEnvironmentDir(name string) bool {
	for _, dir := range r.EnvironmentDirs {
		if dir == name {
			return true
		}
	}
	return false
}

// IsPreservedDir reports whether name is a preserved destination
// subtree.
func (r Rules) IsPreservedDir(name string) bool {
	for _, dir := range r.PreservedDirs {
		if dir == name {
			return true
		}
	}
	return false
}

// Default returns the built-in rules without consulting any
// configuration file on disk.
func Default() (Rules, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Rules{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load built-in defaults")
	}
	return unmarshalRules(k)
}

// Load returns the effective rules: built-in defaults overlaid by the
// user config file (XDG config dir) and then by an .isoenv.toml or
// isoenv.toml in workDir, whichever is found first.
func Load(workDir string) (Rules, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Rules{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load built-in defaults")
	}

	// 2. User config if it exists
	userConfig := paths.UserConfigFile()
	if _, err := os.Stat(userConfig); err == nil {
		if err := k.Load(file.Provider(userConfig), toml.Parser()); err != nil {
			return Rules{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load user config from %s", userConfig)
		}
	}

	// 3. Working-tree config if it exists
	for _, filename := range []string{".isoenv.toml", "isoenv.toml"} {
		path := filepath.Join(workDir, filename)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return Rules{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
			}
			break
		}
	}

	return unmarshalRules(k)
}

func unmarshalRules(k *koanf.Koanf) (Rules, error) {
	var rules Rules
	if err := k.Unmarshal("layout", &rules); err != nil {
		return Rules{}, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal layout rules")
	}
	return rules, nil
}
