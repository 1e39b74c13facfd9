// Package manifest persists the record of the last successful
// synchronization: a flat JSON object mapping every written absolute
// destination path to the absolute source path it was copied from. The
// manifest is the only state that survives between runs, and the only
// evidence pruning accepts that a destination file is stale.
package manifest

import (
	"encoding/json"
	"path/filepath"

	"github.com/wgen/isoenv/pkg/errors"
	"github.com/wgen/isoenv/pkg/types"
)

// Path returns the absolute manifest location for a destination root,
// given the configured destination-relative manifest path.
func Path(destRoot string, relPath string) string {
	return filepath.Join(destRoot, filepath.FromSlash(relPath))
}

// Write persists the manifest, replacing any previous one wholesale.
// Parent directories are created as needed.
func Write(fsys types.FS, path string, m types.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestWrite, "failed to encode manifest")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite,
			"failed to create manifest directory for %s", path)
	}

	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite,
			"failed to write manifest %s", path)
	}
	return nil
}

// Load reads a previously written manifest.
func Load(fsys types.FS, path string) (types.Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead,
			"failed to read manifest %s", path)
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead,
			"failed to decode manifest %s", path)
	}
	return m, nil
}
