package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aretw0/pressroom/pkg/publish"
	"github.com/aretw0/pressroom/pkg/segment"
)

var (
	publishPlatform string
	publishJSON     bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a record to its platforms",
	Long: `Locate a record in input, processing or queue and send it to every platform
listed in its metadata, or only to --platform. Each platform is reported
separately; one failing platform does not stop the others.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		results, err := eng.Coordinator.Publish(context.Background(), args[0], publishPlatform)
		if err != nil {
			fatal("Failed to publish", err)
		}

		if publishJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				fatal("Failed to encode results", err)
			}
		} else {
			fmt.Println(renderResults(results))
		}

		for _, res := range results {
			if !res.Success {
				os.Exit(2)
			}
		}
	},
}

func renderResults(results map[string]publish.Result) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Platform", "Result", "Remote ID", "Detail"})
	for _, name := range names {
		res := results[name]
		if res.Success {
			tw.AppendRow(table.Row{name, "ok", res.RemoteID, res.URL})
		} else {
			tw.AppendRow(table.Row{name, "failed", "", res.Error})
		}
	}
	return tw.Render()
}

var publishersCmd = &cobra.Command{
	Use:   "publishers",
	Short: "Show which platforms the publisher is configured for",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		ready := eng.Coordinator.Readiness(segment.Platforms())

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Platform", "Marker", "Configured"})
		for _, m := range segment.Markers() {
			tw.AppendRow(table.Row{m.Platform, m.Prefix, ready[m.Platform]})
		}
		fmt.Println(tw.Render())
	},
}

func init() {
	publishCmd.Flags().StringVarP(&publishPlatform, "platform", "p", "", "Publish to this platform only")
	publishCmd.Flags().BoolVar(&publishJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(publishersCmd)
}
