package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipechain/internal/config"
	"recipechain/internal/logger"
)

var version = "0.3.0"

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed, color.Bold)
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	dataDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "recipechain",
		Short: "Recipe dependency chain visualizer",
		Long: brand.Sprint("recipechain") + ": explore the production chain behind any recipe\n" +
			subtle.Sprint("Serve an interactive chain view, render it to SVG, or list it in the terminal"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("recipechain {{ .Version }}\n")

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (yaml or toml)")
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data", "", "dataset directory (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		serveCmd(flags),
		renderCmd(flags),
		chainCmd(flags),
		configCmd(flags),
	)
	return cmd
}

// load reads the config and applies the global flag overrides
func (f *globalFlags) load() (*config.Config, string, error) {
	cfg, path, err := config.LoadExplicit(f.configPath)
	if err != nil {
		return nil, path, err
	}
	if f.dataDir != "" {
		cfg.Data.Dir = f.dataDir
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, path, cfg.Validate()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}
