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

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a content root",
	Long: `Create the state folders, the system directory and a pressroom.toml with
default settings. An existing pressroom.toml is kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := rootDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			dir = cwd
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			fatal("Failed to resolve directory", err)
		}

		path := filepath.Join(dir, config.FileName)
		cfg, exists, err := pressroom.LoadConfig(path)
		if err != nil {
			fatal("Failed to load config", err)
		}

		if _, err := pressroom.Init("", pressroom.WithConfig(cfg), pressroom.WithLogger(slog.Default())); err != nil {
			fatal("Failed to initialize content root", err)
		}

		if !exists || initForce {
			data, err := cfg.Encode(dir)
			if err != nil {
				fatal("Failed to encode config", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				fatal("Failed to write config", err)
			}
		}

		fmt.Println("Initialized content root in", cfg.Root)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing pressroom.toml")
	rootCmd.AddCommand(initCmd)
}
