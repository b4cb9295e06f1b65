// Package report renders evaluation results for the console and as JSON.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	deideval "github.com/jamesainslie/go-deideval"
	"github.com/jamesainslie/go-deideval/eval"
)

const width = 60

var rule = strings.Repeat("-", width)

func subtrackLabel(mode eval.Mode) string {
	switch mode {
	case eval.ModeNER:
		return "SubTrack 1 [NER]"
	case eval.ModeStrict:
		return "SubTrack 2 [strict]"
	default:
		return "SubTrack 2 [merged]"
	}
}

// measures writes one block of micro-averaged measures under a heading.
func measures(b *bytes.Buffer, heading, total string, m eval.Metrics, leak bool) {
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "%-35s%-15s%s\n", heading, "Measure", "Micro")
	fmt.Fprintln(b, rule)

	label := total
	row := func(name, value string) {
		fmt.Fprintf(b, "%-35s%-15s%s\n", label, name, value)
		label = ""
	}
	if leak {
		row("Leak", fmt.Sprintf("%.4f", m.Leak))
	}
	row("Precision", fmt.Sprintf("%.4f", m.Precision))
	row("Recall", fmt.Sprintf("%.4f", m.Recall))
	row("F1", fmt.Sprintf("%.4f", m.F1))
	fmt.Fprintln(b, rule)
}

// WriteDocuments writes one report per document of r, with raw counts.
// Used for file-vs-file comparisons.
func WriteDocuments(w io.Writer, r *deideval.RunReport) error {
	var b bytes.Buffer
	for _, d := range r.Documents {
		fmt.Fprintf(&b, "Report (%s):\n", d.DocumentID)
		for _, mode := range r.Modes {
			m := d.Metrics[mode]
			fmt.Fprintln(&b, rule)
			fmt.Fprintf(&b, "%-35s%-15s%s\n", subtrackLabel(mode), "Measure", "Value")
			fmt.Fprintln(&b, rule)
			fmt.Fprintf(&b, "%-35s%-15s%d\n", d.DocumentID, "TP", m.TruePositives)
			fmt.Fprintf(&b, "%-35s%-15s%d\n", "", "FP", m.FalsePositives)
			fmt.Fprintf(&b, "%-35s%-15s%d\n", "", "FN", m.FalseNegatives)
			if mode == eval.ModeNER {
				fmt.Fprintf(&b, "%-35s%-15s%.4f\n", "", "Leak", m.Leak)
			}
			fmt.Fprintf(&b, "%-35s%-15s%.4f\n", "", "Precision", m.Precision)
			fmt.Fprintf(&b, "%-35s%-15s%.4f\n", "", "Recall", m.Recall)
			fmt.Fprintf(&b, "%-35s%-15s%.4f\n", "", "F1", m.F1)
			fmt.Fprintln(&b, rule)
		}
		fmt.Fprintln(&b)
	}
	writeDiagnostics(&b, r)

	_, err := w.Write(b.Bytes())
	return err
}

// WriteRun writes the micro-averaged report of one run. With verbose it also
// lists every document's scores.
func WriteRun(w io.Writer, r *deideval.RunReport, verbose bool) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Report (SYSTEM: %s):\n", r.SystemID)

	total := fmt.Sprintf("Total (%d docs)", len(r.Documents))
	for _, mode := range r.Modes {
		measures(&b, subtrackLabel(mode), total, r.Micro[mode], mode == eval.ModeNER)
	}

	if verbose {
		writeDocumentTable(&b, r)
	}
	writeDiagnostics(&b, r)
	fmt.Fprintln(&b)

	_, err := w.Write(b.Bytes())
	return err
}

func writeDocumentTable(b *bytes.Buffer, r *deideval.RunReport) {
	fmt.Fprintln(b)
	fmt.Fprintf(b, "%-28s %-7s %5s %5s %5s %7s %7s %7s %7s\n",
		"Document", "Mode", "TP", "FP", "FN", "Prec", "Rec", "F1", "Leak")
	for _, d := range r.Documents {
		id := d.DocumentID
		if d.Missing {
			id += " (missing)"
		}
		for _, mode := range r.Modes {
			m := d.Metrics[mode]
			leak := "-"
			if mode == eval.ModeNER {
				leak = fmt.Sprintf("%.4f", m.Leak)
			}
			fmt.Fprintf(b, "%-28s %-7s %5d %5d %5d %7.4f %7.4f %7.4f %7s\n",
				id, mode, m.TruePositives, m.FalsePositives, m.FalseNegatives,
				m.Precision, m.Recall, m.F1, leak)
			id = ""
		}
	}
	fmt.Fprintln(b, rule)
}

func writeDiagnostics(b *bytes.Buffer, r *deideval.RunReport) {
	problems := r.Problems()
	if len(problems) == 0 {
		return
	}
	fmt.Fprintf(b, "Diagnostics (%d):\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(b, "  - %v\n", p)
	}
}
