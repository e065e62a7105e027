package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a record from any state",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		rec, err := eng.Service.Get(context.Background(), args[0])
		if err != nil {
			fatal("Failed to read record", err)
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rec); err != nil {
				fatal("Failed to encode record", err)
			}
			return
		}

		fmt.Printf("ID:        %s\n", rec.ID)
		fmt.Printf("Title:     %s\n", rec.Title)
		fmt.Printf("Status:    %s\n", rec.Status)
		fmt.Printf("State:     %s\n", rec.Source.State)
		fmt.Printf("Platforms: %s\n", strings.Join(rec.Platforms, ", "))
		fmt.Printf("Created:   %s\n", rec.Created)
		for _, f := range rec.Extra {
			fmt.Printf("%s: %s\n", f.Key, f.Value)
		}
		fmt.Println()
		fmt.Println(rec.Body)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}
