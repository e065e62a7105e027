package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/aretw0/pressroom/pkg/core"
)

var (
	listJSON   bool
	listStatus string
)

var listCmd = &cobra.Command{
	Use:   "list [state]",
	Short: "List the records in a state folder",
	Long: `List the records in one state folder (input, processing, queue or output),
sorted by created date. Defaults to input.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state := core.StateInput
		if len(args) == 1 {
			state = core.State(args[0])
		}

		eng := openEngine()
		recs, err := eng.Service.List(context.Background(), state, core.Status(listStatus))
		if err != nil {
			fatal("Failed to list records", err)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(recs); err != nil {
				fatal("Failed to encode records", err)
			}
			return
		}

		if len(recs) == 0 {
			fmt.Printf("No records in %s.\n", state)
			return
		}
		fmt.Println(renderRecords(recs))
	},
}

func renderRecords(recs []core.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Status", "Platforms", "Created"})
	for _, rec := range recs {
		tw.AppendRow(table.Row{rec.ID, rec.Title, rec.Status, strings.Join(rec.Platforms, ", "), rec.Created})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 48},
	})
	return tw.Render()
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Only records with this exact status")
	rootCmd.AddCommand(listCmd)
}
