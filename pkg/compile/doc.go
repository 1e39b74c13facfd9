// Package compile materializes a resolved file mapping on disk. It
// converges the destination in three strictly ordered phases: copy
// every winning source file into place, persist the manifest, then
// prune destination files the fresh manifest does not account for.
// Version-control metadata under preserved subtrees is never deleted.
package compile
