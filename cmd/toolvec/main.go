// Command toolvec runs the vector store and tool-call HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/toolvec/toolvec/cmd/toolvec/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
