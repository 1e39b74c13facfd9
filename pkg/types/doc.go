// Package types defines the shared types and interfaces used across
// isoenv: the filesystem abstraction that lets the resolver and
// compiler run against the real disk or an in-memory tree, and the
// mapping/manifest types that carry resolution results between them.
package types
