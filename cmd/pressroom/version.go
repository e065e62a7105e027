package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/pressroom"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pressroom",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pressroom version %s\n", strings.TrimSpace(pressroom.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
