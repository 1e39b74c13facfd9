// Package walker implements the recursive directory listing the
// resolver and compiler are built on: a depth-first traversal that
// visits each directory once, reporting its immediate subdirectories
// and files in sorted order so every walk over the same tree is
// deterministic.
package walker

import (
	"path/filepath"
	"sort"

	"github.com/wgen/isoenv/pkg/types"
)

// WalkFunc is called once per visited directory with the directory
// path and its immediate subdirectory and file names, each sorted.
// Returning an error aborts the walk.
type WalkFunc func(dir string, subdirs []string, files []string) error

// Walk traverses the tree rooted at root depth-first, calling fn for
// root and then for every subdirectory in sorted order. The first
// error, from ReadDir or from fn, aborts the walk.
func Walk(fsys types.FS, root string, fn WalkFunc) error {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return err
	}

	var subdirs, files []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(subdirs)
	sort.Strings(files)

	if err := fn(root, subdirs, files); err != nil {
		return err
	}

	for _, subdir := range subdirs {
		if err := Walk(fsys, filepath.Join(root, subdir), fn); err != nil {
			return err
		}
	}
	return nil
}

// ListFiles returns the path of every regular file under root, in walk
// order (parents before children, names sorted within a directory).
func ListFiles(fsys types.FS, root string) ([]string, error) {
	var paths []string
	err := Walk(fsys, root, func(dir string, subdirs []string, files []string) error {
		for _, file := range files {
			paths = append(paths, filepath.Join(dir, file))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
