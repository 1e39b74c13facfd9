// Test Type: Unit Test
// Description: Tests for the precedence resolver - ordered-source override and overlay selection

package resolve_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgen/isoenv/pkg/errors"
	"github.com/wgen/isoenv/pkg/resolve"
	"github.com/wgen/isoenv/pkg/testutil"
)

func TestResolver_MapFiles(t *testing.T) {
	t.Run("overlay_strips_marker_and_env", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

		source := env.SetupSource("repo/public", testutil.SourceConfig{
			Files: map[string]string{
				"Properties/ENVIRONMENT_SPECIFIC/env/prop_env_spec_pub": "prop_env_spec_pub_contents",
			},
		})

		resolver := resolve.New(env.FS, defaultRules(t))
		mapping, err := resolver.MapFiles([]string{source}, "env")
		require.NoError(t, err)

		wantSource := filepath.Join(source, "Properties/ENVIRONMENT_SPECIFIC/env/prop_env_spec_pub")
		assert.Equal(t, map[string]string{
			"Properties/prop_env_spec_pub": wantSource,
		}, map[string]string(mapping))
	})

	t.Run("trailing_separator_is_normalized", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

		source := env.SetupSource("repo/public", testutil.SourceConfig{
			Files: map[string]string{
				"Properties/ENVIRONMENT_SPECIFIC/env/prop_env_spec_pub": "prop_env_spec_pub_contents",
			},
		})

		resolver := resolve.New(env.FS, defaultRules(t))
		withSlash, err := resolver.MapFiles([]string{source + "/"}, "env")
		require.NoError(t, err)
		withoutSlash, err := resolver.MapFiles([]string{source}, "env")
		require.NoError(t, err)

		assert.Equal(t, withoutSlash, withSlash)
	})

	t.Run("only_requested_env_overlay_selected", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

		source := env.SetupSource("repo/public", testutil.SourceConfig{
			Files: map[string]string{
				"Properties/ENVIRONMENT_SPECIFIC/aenv/prop_env_spec_pub": "prop_aenv_spec_pub",
				"Properties/ENVIRONMENT_SPECIFIC/env/prop_env_spec_pub":  "prop_env_spec_pub",
				"Properties/ENVIRONMENT_SPECIFIC/zenv/prop_env_spec_pub": "prop_zenv_spec_pub",
			},
		})

		resolver := resolve.New(env.FS, defaultRules(t))
		mapping, err := resolver.MapFiles([]string{source}, "env")
		require.NoError(t, err)

		require.Len(t, mapping, 1)
		assert.Equal(t,
			filepath.Join(source, "Properties/ENVIRONMENT_SPECIFIC/env/prop_env_spec_pub"),
			mapping["Properties/prop_env_spec_pub"])
	})

	t.Run("missing_source_root_aborts", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

		source := env.SetupSource("repo/public", testutil.SourceConfig{
			Files: map[string]string{"Properties/prop": "contents"},
		})

		resolver := resolve.New(env.FS, defaultRules(t))
		mapping, err := resolver.MapFiles([]string{source, "/virtual/isoenv/no/such/root"}, "env")

		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnreadable))
		assert.Nil(t, mapping)
	})
}

// TestResolver_PrecedenceTotality seeds every ordered pair out of
// {A baseline, A overlay, B baseline, B overlay} for the same logical
// file and checks that the later candidate in the precedence order
// always wins.
func TestResolver_PrecedenceTotality(t *testing.T) {
	candidates := []struct {
		source string
		rel    string
	}{
		{"repo/public", "Properties/file"},
		{"repo/public", "Properties/ENVIRONMENT_SPECIFIC/env/file"},
		{"repo/ops_private", "Properties/file"},
		{"repo/ops_private", "Properties/ENVIRONMENT_SPECIFIC/env/file"},
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			overridden, overriding := candidates[i], candidates[j]

			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			public := env.SetupSource("repo/public", testutil.SourceConfig{})
			private := env.SetupSource("repo/ops_private", testutil.SourceConfig{})

			env.WriteFile(filepath.Join(env.Root, filepath.FromSlash(overridden.source), filepath.FromSlash(overridden.rel)), "overridden")
			env.WriteFile(filepath.Join(env.Root, filepath.FromSlash(overriding.source), filepath.FromSlash(overriding.rel)), "overriding")

			resolver := resolve.New(env.FS, defaultRules(t))
			mapping, err := resolver.MapFiles([]string{public, private}, "env")
			require.NoError(t, err)

			require.Len(t, mapping, 1,
				"%s vs %s should resolve to one logical path", overridden.rel, overriding.rel)
			winner := mapping["Properties/file"]
			assert.Equal(t, "overriding", env.ReadFile(winner),
				"%s/%s should override %s/%s",
				overriding.source, overriding.rel, overridden.source, overridden.rel)
		}
	}
}

// TestResolver_CommonFileOverride checks plain (non environment-aware)
// top-level directories: later sources still win, with no overlay
// treatment at all.
func TestResolver_CommonFileOverride(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	public := env.SetupSource("repo/public", testutil.SourceConfig{
		Files: map[string]string{"Bundler/file": "overridden"},
	})
	private := env.SetupSource("repo/ops_private", testutil.SourceConfig{
		Files: map[string]string{"Bundler/file": "overriding"},
	})

	resolver := resolve.New(env.FS, defaultRules(t))
	mapping, err := resolver.MapFiles([]string{public, private}, "env")
	require.NoError(t, err)

	require.Len(t, mapping, 1)
	assert.Equal(t, "overriding", env.ReadFile(mapping["Bundler/file"]))
}

// TestResolver_BaselineFallback requests each of three environments
// against a tree where only two have overlays; the environment with no
// overlay subtree falls back to the baseline file.
func TestResolver_BaselineFallback(t *testing.T) {
	contents := map[string]string{
		"Cfg/ENVIRONMENT_SPECIFIC/staging/etc/shadow/shadow":    "staging",
		"Cfg/ENVIRONMENT_SPECIFIC/production/etc/shadow/shadow": "production",
		"Cfg/etc/shadow/shadow":                                 "dev",
	}

	for _, envName := range []string{"staging", "production", "dev"} {
		t.Run(envName, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			source := env.SetupSource("bcfg2/ops_private", testutil.SourceConfig{Files: contents})

			resolver := resolve.New(env.FS, defaultRules(t))
			mapping, err := resolver.MapFiles([]string{source}, envName)
			require.NoError(t, err)

			winner, ok := mapping["Cfg/etc/shadow/shadow"]
			require.True(t, ok)
			assert.Equal(t, envName, env.ReadFile(winner))
		})
	}
}
