package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipechain/internal/config"
)

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(configShowCmd(flags), configPathCmd(), configInitCmd())
	return cmd
}

func configShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				subtle.Fprintln(out, "no config file found, using defaults")
			} else {
				subtle.Fprintf(out, "from %s\n", path)
			}
			fmt.Fprintln(out, cfg.Summary())
			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the config file search order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			found := config.FindConfigPath()
			for _, p := range config.SearchPaths() {
				if p == found {
					good.Fprintf(out, "* %s\n", p)
					continue
				}
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			good.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "out", "o", "", "destination (.yaml or .toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
