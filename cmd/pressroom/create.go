package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	createPlatforms []string
	createBody      string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a record in the input folder",
	Long: `Allocate the next identifier and write a new record into the input folder.
The body is taken from --body, or from stdin when --body is "-".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		body := createBody
		if body == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read body from stdin", err)
			}
			body = string(data)
		}

		eng := openEngine()
		id, err := eng.Service.Create(context.Background(), args[0], createPlatforms, body)
		if err != nil {
			fatal("Failed to create record", err)
		}
		fmt.Println(id)
	},
}

func init() {
	createCmd.Flags().StringSliceVarP(&createPlatforms, "platform", "p", nil, "Target platform (repeatable or comma separated)")
	createCmd.Flags().StringVarP(&createBody, "body", "b", "", `Body text, or "-" to read stdin`)
	rootCmd.AddCommand(createCmd)
}
