// Package resolve implements file-level precedence resolution across
// an ordered list of source roots.
//
// Each source root is walked in ascending priority order and every
// file is classified: files under an environment-aware top-level
// directory may belong to an overlay subtree for a specific
// environment, in which case the overlay marker and environment
// segments are stripped from the logical destination path. Candidates
// for other environments are discarded. Candidates are folded into a
// single mapping with last-write-wins semantics, so the total
// precedence order is (source position, overlay-over-baseline).
package resolve
