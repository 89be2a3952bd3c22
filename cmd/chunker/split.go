package main

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chunker/api/internal/htmlchunk"
	"chunker/api/internal/prosemirror"
)

func splitCommand() *cobra.Command {
	var (
		maxChunkSize int
		stats        bool
		doc          bool
	)
	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split HTML into chunks, printed as a JSON array",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			markup := string(input)
			if doc {
				node, err := prosemirror.Parse(input)
				if err != nil {
					return err
				}
				markup = prosemirror.ToHTML(node)
			}

			chunks, err := htmlchunk.Split(markup, htmlchunk.Options{MaxChunkSize: maxChunkSize})
			if err != nil {
				return err
			}
			if err := writeChunks(cmd.OutOrStdout(), chunks); err != nil {
				return err
			}
			if stats {
				printStats(cmd.ErrOrStderr(), markup, chunks)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxChunkSize, "max", htmlchunk.MTSplitOptions.MaxChunkSize, "maximum chunk size in characters")
	cmd.Flags().BoolVar(&stats, "stats", false, "print chunk statistics to stderr")
	cmd.Flags().BoolVar(&doc, "prosemirror", false, "read a ProseMirror JSON document instead of HTML")
	return cmd
}

func writeChunks(w io.Writer, chunks []string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(chunks)
}

func printStats(w io.Writer, markup string, chunks []string) {
	var total, largest int
	for _, c := range chunks {
		n := utf8.RuneCountInString(c)
		total += n
		largest = max(largest, n)
	}
	fmt.Fprintf(w, "input=%s chars (%s) chunks=%d largest=%s chars output=%s chars\n",
		humanize.Comma(int64(utf8.RuneCountInString(markup))),
		humanize.Bytes(uint64(len(markup))),
		len(chunks),
		humanize.Comma(int64(largest)),
		humanize.Comma(int64(total)),
	)
}
