package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolvec/toolvec/internal/version"
)

// NewVersionCmd constructs the `toolvec version` subcommand. Version and
// commit are injected at build time via -ldflags.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the toolvec version and git commit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("toolvec %s (commit: %s)\n", version.Version, version.Commit)
		},
	}
}
