// Package eval scores de-identification output against gold annotations:
// span merging, one-to-one matching, precision/recall/F1, the leak score and
// micro-averaged aggregation over a corpus.
package eval

import (
	"github.com/jamesainslie/go-deideval/annotation"
)

// ErrInvalidSpan is returned by Match for zero-length or inverted spans.
var ErrInvalidSpan = annotation.ErrInvalidSpan

// Metrics holds evaluation results for one document or one run.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Gold           int // gold entities scored
	Leaked         int // gold entities no system entity overlaps (ModeNER only)
	Precision      float64
	Recall         float64
	F1             float64
	Leak           float64
}

// Compute derives precision, recall and F1 from raw counts. Each ratio is 0
// when its denominator is 0.
func Compute(tp, fp, fn int) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
		Gold:           tp + fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}

func (m *Metrics) setLeaked(leaked int) {
	m.Leaked = leaked
	m.Leak = 0
	if m.Gold > 0 {
		m.Leak = float64(leaked) / float64(m.Gold)
	}
}

// Score turns a match outcome into metrics.
func Score(o Outcome) Metrics {
	return Compute(len(o.TruePositives), len(o.FalsePositives), len(o.FalseNegatives))
}

// Evaluate matches one document pair under mode and scores it. A nil system
// document is scored as empty output. The system side falls back to the gold
// text for merging when its own text is unavailable.
func Evaluate(gold, system *annotation.Document, mode Mode) (Metrics, Outcome, error) {
	var sysEntities []annotation.Entity
	sysText := gold.Text
	if system != nil {
		sysEntities = system.Entities
		if system.Text != "" {
			sysText = system.Text
		}
	}

	o, err := Match(gold.Entities, sysEntities, mode, gold.Text, sysText)
	if err != nil {
		return Metrics{}, Outcome{}, err
	}

	m := Score(o)
	if mode == ModeNER {
		m.setLeaked(len(Leaks(gold.Entities, sysEntities)))
	}
	return m, o, nil
}

// Accumulator micro-averages metrics across the documents of one run.
// It is not safe for concurrent use; give each run its own.
type Accumulator struct {
	tp, fp, fn int
	leaked     int
	docs       int
}

// Add folds one document's metrics into the totals.
func (a *Accumulator) Add(m Metrics) {
	a.tp += m.TruePositives
	a.fp += m.FalsePositives
	a.fn += m.FalseNegatives
	a.leaked += m.Leaked
	a.docs++
}

// Documents returns the number of documents added.
func (a *Accumulator) Documents() int {
	return a.docs
}

// Metrics applies the formulas once to the summed counts.
func (a *Accumulator) Metrics() Metrics {
	m := Compute(a.tp, a.fp, a.fn)
	m.setLeaked(a.leaked)
	return m
}
