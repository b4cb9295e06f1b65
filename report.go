package deideval

import (
	"github.com/hashicorp/go-multierror"

	"github.com/jamesainslie/go-deideval/eval"
)

// DocumentReport holds one document's scores, keyed by mode.
type DocumentReport struct {
	DocumentID string
	Missing    bool // no usable system output; scored as empty
	Metrics    map[eval.Mode]eval.Metrics
}

// RunReport holds one system run's micro-averaged scores and its
// per-document detail.
type RunReport struct {
	SystemID  string
	Subtrack  Subtrack
	Modes     []eval.Mode // report order
	Single    bool        // produced by a file-vs-file comparison
	Micro     map[eval.Mode]eval.Metrics
	Documents []DocumentReport

	diagnostics *multierror.Error
}

// Diagnostics returns the parse and pairing problems found while scoring the
// run, or nil.
func (r *RunReport) Diagnostics() error {
	return r.diagnostics.ErrorOrNil()
}

// Problems returns the individual diagnostics.
func (r *RunReport) Problems() []error {
	if r.diagnostics == nil {
		return nil
	}
	return r.diagnostics.Errors
}
