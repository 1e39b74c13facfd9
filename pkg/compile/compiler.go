package compile

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wgen/isoenv/pkg/config"
	"github.com/wgen/isoenv/pkg/errors"
	"github.com/wgen/isoenv/pkg/logging"
	"github.com/wgen/isoenv/pkg/manifest"
	"github.com/wgen/isoenv/pkg/resolve"
	"github.com/wgen/isoenv/pkg/types"
	"github.com/wgen/isoenv/pkg/walker"
)

// Compiler synchronizes a destination directory to exactly match the
// resolution of an ordered list of source roots.
type Compiler struct {
	fs       types.FS
	rules    config.Rules
	resolver *resolve.Resolver
	logger   zerolog.Logger
}

// New creates a compiler over the given filesystem and layout rules.
func New(fsys types.FS, rules config.Rules) *Compiler {
	return &Compiler{
		fs:       fsys,
		rules:    rules,
		resolver: resolve.New(fsys, rules),
		logger:   logging.GetLogger("compile"),
	}
}

// Compile resolves sources against env and converges destRoot: every
// winning source file is copied byte-identical to its logical path
// under destRoot, the manifest is written, and destination files the
// manifest does not account for are deleted. Preserved subtrees (by
// default .git) are never touched.
//
// Copies happen before any deletion, so the destination is never
// observed missing a file that should exist. A copy failure aborts the
// run with files copied so far left in place; the manifest is only
// written once every copy has succeeded, and pruning only happens
// after the manifest is on disk.
//
// legacyFlag is retained from the historical interface and currently
// has no effect; callers should pass false.
func (c *Compiler) Compile(sources []string, destRoot string, env string, legacyFlag bool) error {
	done := logging.LogOperationStart(c.logger, "compile_directories")
	defer done()

	absSources, absDest, err := c.normalize(sources, destRoot)
	if err != nil {
		return err
	}

	mapping, err := c.resolver.MapFiles(absSources, env)
	if err != nil {
		return err
	}

	built, err := c.copyAll(mapping, absDest)
	if err != nil {
		return err
	}

	manifestPath := manifest.Path(absDest, c.rules.ManifestPath)
	if err := manifest.Write(c.fs, manifestPath, built); err != nil {
		return err
	}

	if err := c.prune(absDest, manifestPath, built); err != nil {
		return err
	}

	c.logger.Info().
		Str("dest", absDest).
		Str("env", env).
		Int("files", len(built)).
		Bool("legacyFlag", legacyFlag).
		Msg("Compile complete")

	return nil
}

// normalize makes every path absolute so that manifest keys and values
// are stable regardless of the caller's working directory.
func (c *Compiler) normalize(sources []string, destRoot string) ([]string, string, error) {
	absSources := make([]string, len(sources))
	for i, source := range sources {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, "", errors.Wrapf(err, errors.ErrInvalidInput,
				"invalid source root %s", source)
		}
		absSources[i] = abs
	}

	absDest, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, "", errors.Wrapf(err, errors.ErrInvalidInput,
			"invalid destination root %s", destRoot)
	}
	return absSources, absDest, nil
}

// copyAll materializes the mapping under destRoot and returns the
// manifest describing what was written.
func (c *Compiler) copyAll(mapping types.Mapping, destRoot string) (types.Manifest, error) {
	built := make(types.Manifest, len(mapping))

	for _, logical := range mapping.LogicalPaths() {
		source := mapping[logical]
		dest := filepath.Join(destRoot, filepath.FromSlash(logical))

		if err := c.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create directory for %s", dest)
		}

		data, err := c.fs.ReadFile(source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead,
				"failed to read source file %s", source)
		}

		if err := c.fs.WriteFile(dest, data, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to write %s", dest)
		}

		c.logger.Debug().
			Str("source", source).
			Str("dest", dest).
			Msg("Copied file")

		built[dest] = source
	}

	return built, nil
}

// prune deletes every regular file under destRoot that the manifest
// does not account for. The manifest file itself and anything inside a
// preserved top-level subtree survive unconditionally.
func (c *Compiler) prune(destRoot string, manifestPath string, built types.Manifest) error {
	var stale []string

	err := walker.Walk(c.fs, destRoot, func(dir string, subdirs []string, files []string) error {
		for _, file := range files {
			path := filepath.Join(dir, file)
			if path == manifestPath {
				continue
			}
			if _, ok := built[path]; ok {
				continue
			}
			if c.isPreserved(destRoot, path) {
				continue
			}
			stale = append(stale, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrPrune,
			"failed to list destination %s", destRoot)
	}

	for _, path := range stale {
		if err := c.fs.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrPrune,
				"failed to delete stale file %s", path)
		}
		c.logger.Debug().Str("path", path).Msg("Deleted stale file")
	}

	return nil
}

// isPreserved reports whether path sits inside a preserved top-level
// subtree of destRoot.
func (c *Compiler) isPreserved(destRoot string, path string) bool {
	rel, err := filepath.Rel(destRoot, path)
	if err != nil {
		return false
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	return c.rules.IsPreservedDir(first)
}
