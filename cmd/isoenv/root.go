package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wgen/isoenv/internal/version"
	"github.com/wgen/isoenv/pkg/compile"
	"github.com/wgen/isoenv/pkg/config"
	"github.com/wgen/isoenv/pkg/errors"
	"github.com/wgen/isoenv/pkg/filesystem"
	"github.com/wgen/isoenv/pkg/logging"
	"github.com/wgen/isoenv/pkg/resolve"
)

var (
	verbosity int
	rules     config.Rules

	rootCmd = &cobra.Command{
		Use:   "isoenv",
		Short: "Compile environment-specific configuration trees",
		Long: `isoenv compiles a single flattened configuration directory from an
ordered list of source trees, resolving file-level precedence and the
ENVIRONMENT_SPECIFIC overlay convention, then synchronizes a destination
directory to exactly match the result while leaving version-control
metadata untouched.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			workDir, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "cannot determine working directory")
			}
			rules, err = config.Load(workDir)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	initTemplateFormatting()
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func newCompileCmd() *cobra.Command {
	var (
		env      string
		dest     string
		reserved bool
	)

	cmd := &cobra.Command{
		Use:   "compile --env ENV --dest DIR SOURCE...",
		Short: "Synchronize a destination directory from ordered source trees",
		Long: `Compile resolves the ordered source trees against the given
environment and converges the destination directory: winning files are
copied into place, a manifest is written at etc/mapped_files.json, and
stale files outside .git are deleted.

Later sources override earlier ones, and an ENVIRONMENT_SPECIFIC overlay
for the requested environment overrides its own source's baseline file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.compile")
			logger.Info().
				Strs("sources", args).
				Str("dest", dest).
				Str("env", env).
				Msg("Starting compile")

			compiler := compile.New(filesystem.NewOS(), rules)
			if err := compiler.Compile(args, dest, env, reserved); err != nil {
				return err
			}

			logger.Info().Msg("Compile finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "", "Target environment name")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory")
	cmd.Flags().BoolVar(&reserved, "reserved", false, "Reserved legacy toggle; currently has no effect")
	_ = cmd.MarkFlagRequired("env")
	_ = cmd.MarkFlagRequired("dest")
	_ = cmd.Flags().MarkHidden("reserved")

	return cmd
}

func newResolveCmd() *cobra.Command {
	var (
		env    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "resolve --env ENV SOURCE...",
		Short: "Print the resolved file mapping without touching any destination",
		Long: `Resolve walks the ordered source trees, applies precedence and the
overlay convention for the given environment, and prints the resulting
mapping from logical destination path to winning source file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := resolve.New(filesystem.NewOS(), rules)
			mapping, err := resolver.MapFiles(args, env)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(mapping, "", "  ")
				if err == nil {
					out = append(out, '\n')
				}
			case "yaml":
				out, err = yaml.Marshal(mapping)
			default:
				return errors.Newf(errors.ErrInvalidInput, "unknown format %q (expected json or yaml)", format)
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode mapping")
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "", "Target environment name")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json or yaml)")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}

func newGenConfigCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: "Print the effective layout configuration as TOML",
		Long: `Gen-config prints the layout configuration as TOML. By default this
is the effective configuration after user and working-tree overrides;
with --defaults the built-in defaults file is printed verbatim,
comments included, as a starting point for customization.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigContent())
				return err
			}
			out, err := config.Generate(rules)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the built-in defaults instead of the effective configuration")

	return cmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("isoenv version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:                   "completion [bash|zsh|fish|powershell]",
	Short:                 "Generate shell completion script",
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
