package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/pressroom"
	"github.com/aretw0/pressroom/internal/config"
)

var (
	verbose    bool
	rootDir    string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pressroom",
	Short: "A folder-based content lifecycle and publishing engine",
	Long: `Pressroom keeps content records as Markdown files with a metadata block,
moves them through input, processing, queue and output folders, and fans each
record out to its target platforms.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Content root (defaults to the nearest directory holding pressroom.toml)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (defaults to <root>/pressroom.toml)")
}

// resolveRoot returns the content root from --root, or the nearest ancestor
// of the working directory that looks like one.
func resolveRoot() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, err := pressroom.FindRoot(wd); err == nil {
		return found, nil
	}
	return wd, nil
}

// loadConfig reads the configuration once for the whole command.
func loadConfig() (pressroom.Config, error) {
	path := configPath
	if path == "" {
		root, err := resolveRoot()
		if err != nil {
			return pressroom.Config{}, err
		}
		path = filepath.Join(root, config.FileName)
	}
	cfg, _, err := pressroom.LoadConfig(path)
	return cfg, err
}

// openEngine wires the engine against an existing content root.
func openEngine() *pressroom.Engine {
	cfg, err := loadConfig()
	if err != nil {
		fatal("Failed to load config", err)
	}
	eng, err := pressroom.New("",
		pressroom.WithConfig(cfg),
		pressroom.WithMustExist(true),
		pressroom.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Failed to open content root", err)
	}
	return eng
}
