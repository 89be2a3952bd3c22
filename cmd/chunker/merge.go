package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"chunker/api/internal/htmlchunk"
)

func mergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [file]",
		Short: "Merge a JSON array of chunks back into HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var chunks []string
			if err := json.Unmarshal(input, &chunks); err != nil {
				return fmt.Errorf("decode chunks: %w", err)
			}
			merged, err := htmlchunk.Merge(chunks)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), merged)
			return err
		},
	}
}
