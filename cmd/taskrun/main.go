// Command taskrun drives the taskrunner handler from a terminal.
//
// Usage:
//
//	taskrun event --task-def video-encoder:3 > event.json
//	taskrun invoke -f event.json
//	taskrun version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "N/A"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskrun",
		Short:         "Run ECS tasks through the taskrunner handler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newInvokeCmd(),
		newEventCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print software version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
