package types

import (
	"sort"
)

// Mapping is a resolved file mapping from logical destination-relative
// paths to the single winning absolute source file path for each.
// It is built once per resolution and not mutated afterwards.
type Mapping map[string]string

// LogicalPaths returns the mapping keys in sorted order, so callers
// that materialize the mapping do so deterministically.
func (m Mapping) LogicalPaths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Manifest is the persisted form of the last applied mapping: absolute
// destination path to absolute source path. It is the sole record the
// synchronizer trusts when deciding what is safe to delete.
type Manifest map[string]string

// DestinationPaths returns the manifest keys in sorted order.
func (m Manifest) DestinationPaths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
