package cli

import (
	"fmt"
	"os"
	"path/filepath"

	config "github.com/Guerrilla-Interactive/snip-cli/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings, env overrides included",
		Long: `Print the effective settings, env overrides included.

Settings that would stop snip from starting are reported as a warning on
stderr; fix them with "snip config set".`,
		Args: cobra.NoArgs,
		RunE: opts.run(modeConfig, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			data, err := yaml.Marshal(env.Config)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			if env.ConfigErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", env.ConfigErr)
			}
			return nil
		}),
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: opts.run(modeConfig, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			fmt.Fprintln(cmd.OutOrStdout(), env.ConfigPath)
			return nil
		}),
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: opts.run(modeConfig, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			if _, err := os.Stat(env.ConfigPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", env.ConfigPath)
			}
			if err := config.SaveConfig(env.ConfigPath, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", env.ConfigPath)
			return nil
		}),
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting in the config file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys,
		RunE: opts.run(modeConfig, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			raw, err := config.ReadFile(env.ConfigPath)
			if err != nil {
				return err
			}
			if err := raw.Set(args[0], args[1]); err != nil {
				return err
			}
			if _, err := raw.Resolve(filepath.Dir(env.ConfigPath)); err != nil {
				return err
			}
			if err := config.SaveConfig(env.ConfigPath, raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		}),
	}

	cmd.AddCommand(show, path, initCmd, set)
	return cmd
}
