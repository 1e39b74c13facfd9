// Package testutil provides test helpers for isoenv: sandboxed
// filesystem environments (in-memory or temp-dir backed) and seeding
// helpers for building source trees from path/content maps.
package testutil
