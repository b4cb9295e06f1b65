//go:build ignore

// Convert a directory of i2b2 XML annotation files into brat standoff
// (.ann plus .txt) so one corpus can be scored in either format.
// Usage: go run ./scripts/i2b2-to-brat.go IN_DIR OUT_DIR
package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/go-deideval/annotation"
	"github.com/jamesainslie/go-deideval/eval"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: go run ./scripts/i2b2-to-brat.go IN_DIR OUT_DIR")
		os.Exit(1)
	}
	inDir, outDir := os.Args[1], os.Args[2]

	docs, failed, err := eval.LoadDir(annotation.I2B2Parser{}, inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", inDir, err)
		os.Exit(1)
	}
	for _, f := range failed {
		fmt.Fprintf(os.Stderr, "Skipping %v\n", f)
	}

	entities := 0
	for _, doc := range docs {
		if err := annotation.WriteBrat(outDir, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", doc.ID, err)
			continue
		}
		entities += len(doc.Entities)
		fmt.Printf("  -> %s (%d entities, %d chars)\n", doc.ID, len(doc.Entities), len([]rune(doc.Text)))
	}

	fmt.Printf("\nDone! %d documents, %d entities written to %s (%d skipped)\n",
		len(docs), entities, outDir, len(failed))
}
