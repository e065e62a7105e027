package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pressroom/pkg/core"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Rewrite a record's status without moving it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		if err := eng.Service.UpdateStatus(context.Background(), args[0], core.Status(args[1])); err != nil {
			fatal("Failed to update status", err)
		}
		fmt.Printf("%s -> %s\n", args[0], args[1])
	},
}

var transitionCmd = &cobra.Command{
	Use:   "transition <id> <status>",
	Short: "Move a record to the folder of a status and set it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		if err := eng.Service.Transition(context.Background(), args[0], core.Status(args[1])); err != nil {
			fatal("Failed to transition record", err)
		}
		fmt.Printf("%s -> %s\n", args[0], args[1])
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <from> <to>",
	Short: "Move a record between state folders",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		eng := openEngine()
		from, to := core.State(args[1]), core.State(args[2])
		if err := eng.Service.Move(context.Background(), args[0], from, to); err != nil {
			fatal("Failed to move record", err)
		}
		fmt.Printf("%s: %s -> %s\n", args[0], from, to)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(transitionCmd)
	rootCmd.AddCommand(moveCmd)
}
