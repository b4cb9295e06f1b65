// Package deideval scores de-identification output against a gold standard.
//
// # Quick Start
//
//	ev, err := deideval.New(annotation.FormatBrat, deideval.SubtrackNER)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reports, err := ev.Evaluate(ctx, "gold/", []string{"system/run1/", "system/run2/"})
//	if err != nil {
//	    log.Fatal(err) // usage error, nothing was scored
//	}
//	for _, r := range reports {
//	    m := r.Micro[eval.ModeNER]
//	    fmt.Printf("%s: F1 %.4f leak %.4f\n", r.SystemID, m.F1, m.Leak)
//	}
//
// # Subtracks
//
// SubtrackNER matches entities on identical type and character range and adds
// the leak score: the fraction of gold spans no system span of any type
// overlaps. SubtrackSpans ignores types and reports a strict mode (identical
// ranges) and a merged mode, where spans separated only by non-alphanumeric
// characters are collapsed on each side before matching.
//
// # Corpora
//
// In directory mode every gold file is paired with the file of the same name
// in each system directory. A system directory is one run, named after the
// directory. Runs are scored independently and reported in ascending order.
// Missing or unparseable system output is scored as empty output; system
// documents without gold are excluded. Both are reported as diagnostics on the
// run rather than aborting the evaluation.
package deideval
