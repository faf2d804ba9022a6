// Package commands defines the Cobra CLI commands for the toolvec binary.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolvec",
		Short: "Redis-backed vector store with a tool-call adapter for chat models",
		Long: `toolvec serves a Redis-backed vector store over HTTP: document
ingestion with computed embeddings, filtered similarity search, and a chat
endpoint that lets a model call registered functions, including a built-in
document search tool.

Configuration is loaded from config/<ENV>.yaml (ENV defaults to "local"),
with ${VAR} references expanded from the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewServeCmd(),
		NewVersionCmd(),
	)

	return root
}
