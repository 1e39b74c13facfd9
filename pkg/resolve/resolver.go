package resolve

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/wgen/isoenv/pkg/config"
	"github.com/wgen/isoenv/pkg/errors"
	"github.com/wgen/isoenv/pkg/logging"
	"github.com/wgen/isoenv/pkg/types"
	"github.com/wgen/isoenv/pkg/walker"
)

// Resolver computes, for an ordered list of source roots and an
// environment, which single source file wins each logical destination
// path.
type Resolver struct {
	fs     types.FS
	rules  config.Rules
	logger zerolog.Logger
}

// New creates a resolver over the given filesystem and layout rules.
func New(fsys types.FS, rules config.Rules) *Resolver {
	return &Resolver{
		fs:     fsys,
		rules:  rules,
		logger: logging.GetLogger("resolve"),
	}
}

// MapFiles resolves the ordered source roots against env. Later
// sources strictly override earlier ones for the same logical path,
// and within one source an overlay for the requested environment
// overrides that source's baseline file. Overlay subtrees for other
// environments are ignored entirely.
//
// A source root that cannot be listed aborts the whole resolution; no
// partial mapping is returned.
func (r *Resolver) MapFiles(sources []string, env string) (types.Mapping, error) {
	done := logging.LogOperationStart(r.logger, "map_files")
	defer done()

	mapping := make(types.Mapping)
	for _, source := range sources {
		// Trailing separators must not affect precedence.
		source = filepath.Clean(source)

		if err := r.applySource(mapping, source, env); err != nil {
			return nil, err
		}
	}

	r.logger.Debug().
		Int("sources", len(sources)).
		Str("env", env).
		Int("files", len(mapping)).
		Msg("Resolution complete")

	return mapping, nil
}

// applySource folds one source root's candidates into the accumulating
// mapping. Baselines are applied before overlays so that the overlay
// wins within the source regardless of walk order.
func (r *Resolver) applySource(mapping types.Mapping, source string, env string) error {
	files, err := walker.ListFiles(r.fs, source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceUnreadable,
			"failed to list source root %s", source)
	}

	overlays := make(map[string]string)

	for _, file := range files {
		rel, err := filepath.Rel(source, file)
		if err != nil {
			return errors.Wrapf(err, errors.ErrSourceUnreadable,
				"failed to relativize %s against %s", file, source)
		}

		candidate, ok := Classify(filepath.ToSlash(rel), env, r.rules)
		if !ok {
			r.logger.Trace().
				Str("file", file).
				Str("env", env).
				Msg("Skipping overlay for other environment")
			continue
		}

		if candidate.IsOverlay {
			overlays[candidate.LogicalPath] = file
		} else {
			mapping[candidate.LogicalPath] = file
		}
	}

	for logical, file := range overlays {
		mapping[logical] = file
	}

	r.logger.Debug().
		Str("source", source).
		Int("files", len(files)).
		Int("overlays", len(overlays)).
		Msg("Source applied")

	return nil
}
