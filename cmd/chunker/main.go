// Command chunker splits HTML into translation sized chunks and merges them
// back, and issues service tokens for the chunker API.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "chunker",
		Short:        "Split and merge HTML chunks",
		SilenceUsage: true,
	}
	root.AddCommand(splitCommand(), mergeCommand(), tokenCommand())
	return root
}

// readInput reads the file named by args, or stdin when there is none or it
// is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
