package eval

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-deideval/annotation"
)

// Pairing errors.
var (
	// ErrMissingGold indicates a system document with no gold counterpart.
	ErrMissingGold = errors.New("eval: no gold document")

	// ErrMissingSystem indicates a gold document the system produced no output for.
	ErrMissingSystem = errors.New("eval: no system document")

	// ErrDuplicateDocument indicates two files resolving to the same document.
	ErrDuplicateDocument = errors.New("eval: duplicate document")
)

// FileError records an annotation file that failed to parse.
type FileError struct {
	Path       string
	DocumentID string
	SystemID   string
	Err        error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadDir parses every file in dir carrying the parser's extension, in file
// name order. Files that fail to parse are returned as FileErrors rather than
// aborting the load; err is non-nil only when dir cannot be read.
func LoadDir(p annotation.Parser, dir string) (docs []*annotation.Document, failed []*FileError, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != p.Ext() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := p.Parse(path)
		if err != nil {
			failed = append(failed, &FileError{
				Path:       path,
				DocumentID: annotation.DocumentID(path),
				SystemID:   annotation.SystemID(path),
				Err:        err,
			})
			continue
		}
		docs = append(docs, doc)
	}

	return docs, failed, nil
}

// Gold indexes gold documents by document id. Duplicates keep the first
// document and are reported.
func Gold(docs []*annotation.Document) (map[string]*annotation.Document, []error) {
	gold := make(map[string]*annotation.Document, len(docs))
	var problems []error
	for _, d := range docs {
		if prev, ok := gold[d.ID]; ok {
			problems = append(problems, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateDocument, d.ID, prev.Path, d.Path))
			continue
		}
		gold[d.ID] = d
	}
	return gold, problems
}

// Run is one system's documents keyed by document id.
type Run struct {
	SystemID  string
	Documents map[string]*annotation.Document
	Failed    map[string]*FileError // documents whose file failed to parse
	Problems  []error
}

// GroupRuns collects parsed system documents and parse failures into runs
// keyed by system id. Every id in systemIDs gets a run even when it has no
// documents, so an empty run is scored as missing all output.
func GroupRuns(docs []*annotation.Document, failed []*FileError, systemIDs ...string) map[string]*Run {
	runs := make(map[string]*Run)
	get := func(id string) *Run {
		r, ok := runs[id]
		if !ok {
			r = &Run{
				SystemID:  id,
				Documents: make(map[string]*annotation.Document),
				Failed:    make(map[string]*FileError),
			}
			runs[id] = r
		}
		return r
	}

	for _, id := range systemIDs {
		get(id)
	}
	for _, d := range docs {
		r := get(d.SystemID)
		if prev, ok := r.Documents[d.ID]; ok {
			r.Problems = append(r.Problems, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateDocument, d.ID, prev.Path, d.Path))
			continue
		}
		r.Documents[d.ID] = d
	}
	for _, f := range failed {
		r := get(f.SystemID)
		r.Failed[f.DocumentID] = f
		r.Problems = append(r.Problems, f)
	}

	return runs
}

// SortedIDs returns the keys of m in ascending order.
func SortedIDs[V any](m map[string]V) []string {
	ids := lo.Keys(m)
	slices.Sort(ids)
	return ids
}

// DocumentPair is a gold document and the run's document with the same id.
// System is nil when the run has no usable output for it.
type DocumentPair struct {
	ID     string
	Gold   *annotation.Document
	System *annotation.Document
}

// Pair validates the run against gold and returns one pair per gold document
// in ascending id order. Gold documents without output are paired with a nil
// system document and flagged; system documents without gold are excluded and
// flagged. Flags are appended to r.Problems.
func (r *Run) Pair(gold map[string]*annotation.Document) []DocumentPair {
	pairs := make([]DocumentPair, 0, len(gold))
	for _, id := range SortedIDs(gold) {
		sys, ok := r.Documents[id]
		if !ok {
			// Parse failures were already reported.
			if _, failed := r.Failed[id]; !failed {
				r.Problems = append(r.Problems, fmt.Errorf("%w: %s/%s scored as empty output", ErrMissingSystem, r.SystemID, id))
			}
		}
		pairs = append(pairs, DocumentPair{ID: id, Gold: gold[id], System: sys})
	}

	for _, id := range SortedIDs(r.Documents) {
		if _, ok := gold[id]; !ok {
			r.Problems = append(r.Problems, fmt.Errorf("%w: %s/%s excluded from score", ErrMissingGold, r.SystemID, id))
		}
	}

	return pairs
}
