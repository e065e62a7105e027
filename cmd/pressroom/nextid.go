package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var nextIDCmd = &cobra.Command{
	Use:   "next-id",
	Short: "Print the identifier the next create would use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		id, err := eng.Service.NextID(context.Background())
		if err != nil {
			fatal("Failed to compute next id", err)
		}
		fmt.Println(id)
	},
}

func init() {
	rootCmd.AddCommand(nextIDCmd)
}
