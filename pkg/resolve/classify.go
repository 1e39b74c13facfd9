package resolve

import (
	"path"
	"strings"

	"github.com/wgen/isoenv/pkg/config"
)

// Candidate is a classified source file: the destination-relative
// logical path it resolves to, and whether it came from an overlay
// subtree for the requested environment.
type Candidate struct {
	LogicalPath string
	IsOverlay   bool
}

// Classify determines the logical destination path for a file at
// relPath (slash-separated, relative to its source root) under the
// given environment. It returns false when the path belongs to an
// overlay subtree for a different environment and is therefore not a
// candidate at all.
//
// Classification is a total function of the path segments: it never
// fails, and it touches no filesystem state.
func Classify(relPath string, env string, rules config.Rules) (Candidate, bool) {
	segments := strings.Split(relPath, "/")

	if !rules.IsEnvironmentDir(segments[0]) {
		// Plain directories never get overlay treatment.
		return Candidate{LogicalPath: relPath}, true
	}

	// An overlay needs <plugin>/<marker>/<env>/...; a file literally
	// named after the marker has no environment segment and stays a
	// baseline file.
	if len(segments) >= 3 && segments[1] == rules.OverlayMarker {
		if segments[2] != env {
			return Candidate{}, false
		}
		logical := path.Join(append([]string{segments[0]}, segments[3:]...)...)
		return Candidate{LogicalPath: logical, IsOverlay: true}, true
	}

	return Candidate{LogicalPath: relPath}, true
}
