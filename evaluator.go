package deideval

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-deideval/annotation"
	"github.com/jamesainslie/go-deideval/eval"
)

// Subtrack selects what is scored.
type Subtrack string

// Supported subtracks.
const (
	// SubtrackNER scores type and range together, plus the leak score.
	SubtrackNER Subtrack = "ner"
	// SubtrackSpans scores ranges only, strict and merged.
	SubtrackSpans Subtrack = "spans"
)

// ParseSubtrack converts a command-line subtrack name.
func ParseSubtrack(s string) (Subtrack, error) {
	switch st := Subtrack(strings.ToLower(strings.TrimSpace(s))); st {
	case SubtrackNER, SubtrackSpans:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSubtrack, s)
	}
}

// Modes returns the evaluation modes reported for the subtrack, in report order.
func (s Subtrack) Modes() []eval.Mode {
	if s == SubtrackSpans {
		return []eval.Mode{eval.ModeStrict, eval.ModeMerged}
	}
	return []eval.Mode{eval.ModeNER}
}

// Evaluator scores system runs against gold annotations.
// It holds no per-evaluation state and is safe for concurrent use.
type Evaluator struct {
	parser      annotation.Parser
	subtrack    Subtrack
	parallelism int
	ignore      map[string]bool
	logger      *slog.Logger
}

// New creates an Evaluator reading files in format and scoring subtrack.
func New(format annotation.Format, subtrack Subtrack, opts ...Option) (*Evaluator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	parser, err := annotation.NewParser(format)
	if err != nil {
		return nil, err
	}
	st, err := ParseSubtrack(string(subtrack))
	if err != nil {
		return nil, err
	}

	return &Evaluator{
		parser:      parser,
		subtrack:    st,
		parallelism: cfg.parallelism,
		ignore:      cfg.ignore,
		logger:      cfg.logger,
	}, nil
}

// Evaluate scores systemPaths against goldPath. It accepts exactly one gold
// file with one system file, or one gold directory with one or more system
// directories; any other shape returns ErrUsage before anything is parsed.
func (e *Evaluator) Evaluate(ctx context.Context, goldPath string, systemPaths []string) ([]*RunReport, error) {
	if len(systemPaths) == 0 {
		return nil, fmt.Errorf("%w: no system path", ErrUsage)
	}

	goldDir, err := isDir(goldPath)
	if err != nil {
		return nil, err
	}
	dirs := 0
	for _, p := range systemPaths {
		d, err := isDir(p)
		if err != nil {
			return nil, err
		}
		if d {
			dirs++
		}
	}

	switch {
	case !goldDir && dirs == 0 && len(systemPaths) == 1:
		r, err := e.CompareFiles(goldPath, systemPaths[0])
		if err != nil {
			return nil, err
		}
		return []*RunReport{r}, nil
	case goldDir && dirs == len(systemPaths):
		return e.CompareDirs(ctx, goldPath, systemPaths)
	default:
		return nil, ErrUsage
	}
}

func isDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return fi.IsDir(), nil
}

// CompareFiles scores one system file against one gold file. Both must carry
// the format's extension and name the same document. A system file that fails
// to parse is scored as empty output and reported as a diagnostic.
func (e *Evaluator) CompareFiles(goldPath, systemPath string) (*RunReport, error) {
	for _, p := range []string{goldPath, systemPath} {
		if filepath.Ext(p) != e.parser.Ext() {
			return nil, fmt.Errorf("%w: %s is not a %s file", ErrUsage, p, e.parser.Ext())
		}
	}
	id := annotation.DocumentID(goldPath)
	if sysID := annotation.DocumentID(systemPath); sysID != id {
		return nil, fmt.Errorf("%w: document ids differ: %s vs %s", ErrUsage, id, sysID)
	}

	gold, err := e.parser.Parse(goldPath)
	if err != nil {
		return nil, err
	}

	docs, failed := []*annotation.Document{}, []*eval.FileError{}
	sys, err := e.parser.Parse(systemPath)
	if err != nil {
		failed = append(failed, &eval.FileError{
			Path:       systemPath,
			DocumentID: id,
			SystemID:   annotation.SystemID(systemPath),
			Err:        err,
		})
	} else {
		docs = append(docs, sys)
	}

	run := eval.GroupRuns(docs, failed)[annotation.SystemID(systemPath)]
	r := e.scoreRun(run, map[string]*annotation.Document{gold.ID: gold}, nil)
	r.Single = true
	return r, nil
}

// CompareDirs scores every run found in systemDirs against the gold directory.
// Reports are returned in ascending system id order with independent totals.
func (e *Evaluator) CompareDirs(ctx context.Context, goldDir string, systemDirs []string) ([]*RunReport, error) {
	goldDocs, goldFailed, err := eval.LoadDir(e.parser, goldDir)
	if err != nil {
		return nil, fmt.Errorf("loading gold %s: %w", goldDir, err)
	}
	gold, shared := eval.Gold(goldDocs)
	for _, f := range goldFailed {
		shared = append(shared, f)
	}
	e.logger.Debug("loaded gold", "dir", goldDir, "documents", len(gold), "failed", len(goldFailed))

	var docs []*annotation.Document
	var failed []*eval.FileError
	systemIDs := make([]string, 0, len(systemDirs))
	for _, dir := range systemDirs {
		systemIDs = append(systemIDs, filepath.Base(filepath.Clean(dir)))
		d, f, err := eval.LoadDir(e.parser, dir)
		if err != nil {
			return nil, fmt.Errorf("loading system %s: %w", dir, err)
		}
		if len(d) == 0 && len(f) == 0 {
			e.logger.Warn("no annotation files found", "dir", dir, "ext", e.parser.Ext())
		}
		docs = append(docs, d...)
		failed = append(failed, f...)
	}

	runs := eval.GroupRuns(docs, failed, systemIDs...)
	ids := eval.SortedIDs(runs)
	reports := make([]*RunReport, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = e.scoreRun(runs[id], gold, shared)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// scoreRun pairs a run with gold and scores every pair in document id order.
// Accumulators are local, so concurrent runs never share totals.
func (e *Evaluator) scoreRun(run *eval.Run, gold map[string]*annotation.Document, shared []error) *RunReport {
	modes := e.subtrack.Modes()
	pairs := run.Pair(gold)

	accs := make(map[eval.Mode]*eval.Accumulator, len(modes))
	for _, m := range modes {
		accs[m] = &eval.Accumulator{}
	}

	r := &RunReport{
		SystemID:  run.SystemID,
		Subtrack:  e.subtrack,
		Modes:     modes,
		Micro:     make(map[eval.Mode]eval.Metrics, len(modes)),
		Documents: make([]DocumentReport, 0, len(pairs)),
	}
	diags := multierror.Append(nil, shared...)
	diags = multierror.Append(diags, run.Problems...)

	noText := 0
	for _, p := range pairs {
		g := p.Gold.Filter(e.ignore)
		var s *annotation.Document
		if p.System != nil {
			s = p.System.Filter(e.ignore)
		}
		if g.Text == "" && e.subtrack == SubtrackSpans && (len(g.Entities) > 0 || (s != nil && len(s.Entities) > 0)) {
			noText++
			e.logger.Debug("document text unavailable", "system", run.SystemID, "document", p.ID)
		}

		doc := DocumentReport{
			DocumentID: p.ID,
			Missing:    p.System == nil,
			Metrics:    make(map[eval.Mode]eval.Metrics, len(modes)),
		}
		var scoreErr error
		for _, mode := range modes {
			m, _, err := eval.Evaluate(g, s, mode)
			if err != nil {
				scoreErr = fmt.Errorf("%s/%s: %w", run.SystemID, p.ID, err)
				break
			}
			doc.Metrics[mode] = m
		}
		if scoreErr != nil {
			diags = multierror.Append(diags, scoreErr)
			continue
		}

		for _, mode := range modes {
			accs[mode].Add(doc.Metrics[mode])
		}
		r.Documents = append(r.Documents, doc)
	}

	for _, mode := range modes {
		r.Micro[mode] = accs[mode].Metrics()
	}
	r.diagnostics = diags

	if noText > 0 {
		e.logger.Warn("document text unavailable, merged mode only joins touching spans",
			"system", run.SystemID, "documents", noText)
	}
	e.logger.Debug("scored run", "system", run.SystemID, "documents", len(r.Documents))
	if n := len(r.Problems()); n > 0 {
		e.logger.Warn("run has diagnostics", "system", run.SystemID, "count", n)
	}
	return r
}
