package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-deideval/annotation"
	"github.com/jamesainslie/go-deideval/eval"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newCommand(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var merged bool

	cmd := &cobra.Command{
		Use:   "deid-spans FORMAT FILE",
		Short: "Print the annotated spans of one file",
		Long: `Print the annotated spans of one file, sorted by offset.

With --merged, spans separated only by punctuation or whitespace are
collapsed the way the spans subtrack does before merged scoring.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := annotation.ParseFormat(args[0])
			if err != nil {
				return err
			}
			p, err := annotation.NewParser(format)
			if err != nil {
				return err
			}
			doc, err := p.Parse(args[1])
			if err != nil {
				return err
			}
			return printSpans(cmd.OutOrStdout(), doc, merged)
		},
	}
	cmd.Flags().BoolVar(&merged, "merged", false, "merge adjacent spans first")

	return cmd
}

func printSpans(w io.Writer, doc *annotation.Document, merged bool) error {
	spans := slices.Clone(doc.Entities)
	if merged {
		spans = eval.Merge(spans, doc.Text)
	} else {
		slices.SortStableFunc(spans, func(a, b annotation.Entity) int {
			return a.Start - b.Start
		})
	}

	if _, err := fmt.Fprintf(w, "Document: %s\nSpans (%d):\n", doc.ID, len(spans)); err != nil {
		return err
	}
	for _, e := range spans {
		if _, err := fmt.Fprintf(w, "  %s\t%q\n", e, e.Text); err != nil {
			return err
		}
	}
	return nil
}
