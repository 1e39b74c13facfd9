// Package config loads the layout rules that drive resolution and
// synchronization: which top-level source directories are
// environment-aware, the overlay marker name, the manifest location,
// and which destination subtrees pruning must leave alone.
//
// Configuration is layered with koanf: built-in defaults (embedded
// TOML), then the user config file in the XDG config directory, then a
// working-tree .isoenv.toml. Later layers override earlier ones key by
// key.
package config
