// Package main is the entry point for the textmesh CLI. It hosts entry
// functions either behind the HTTP server (serve) or for one-shot local
// execution (run).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "textmesh",
		Short: "Host event-driven text agents as request/response functions",
		Long: `Textmesh runs realtime-session style agent code against a simulated
session, turning event-driven entrypoints into one-shot text executions
with conversation state carried between calls.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "textmesh.yaml", "path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "textmesh", version)
		},
	}
}
