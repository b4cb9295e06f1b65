package eval

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-deideval/annotation"
)

// Mode selects the equivalence rule used to pair gold and system entities.
type Mode string

// Evaluation modes.
const (
	// ModeNER matches on identical type and range.
	ModeNER Mode = "ner"
	// ModeStrict matches on identical range, ignoring type.
	ModeStrict Mode = "strict"
	// ModeMerged merges each side with Merge, then matches on range.
	ModeMerged Mode = "merged"
)

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNER, ModeStrict, ModeMerged:
		return m, nil
	default:
		return "", fmt.Errorf("eval: unknown mode %q", s)
	}
}

// Pair is a gold entity and the system entity that satisfied it.
type Pair struct {
	Gold   annotation.Entity
	System annotation.Entity
}

// Outcome partitions one document's gold and system entities. Every gold
// entity is in exactly one of TruePositives or FalseNegatives, and every
// system entity in exactly one of TruePositives or FalsePositives.
type Outcome struct {
	TruePositives  []Pair
	FalsePositives []annotation.Entity
	FalseNegatives []annotation.Entity
}

type matchKey struct {
	typ        string
	start, end int
}

func keyFor(e annotation.Entity, mode Mode) matchKey {
	if mode == ModeNER {
		return matchKey{typ: e.Type, start: e.Start, end: e.End}
	}
	return matchKey{start: e.Start, end: e.End}
}

// Match pairs gold against system entities one-to-one under mode. goldText
// and systemText are only consulted in ModeMerged. Duplicate entities on one
// side each need their own counterpart.
func Match(gold, system []annotation.Entity, mode Mode, goldText, systemText string) (Outcome, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Outcome{}, err
	}
	for _, side := range [][]annotation.Entity{gold, system} {
		for _, e := range side {
			if err := e.Validate(); err != nil {
				return Outcome{}, err
			}
		}
	}

	if mode == ModeMerged {
		gold = Merge(gold, goldText)
		system = Merge(system, systemText)
	}
	gold = sortedEntities(gold)
	system = sortedEntities(system)

	// Unconsumed gold indices per key, in sorted order.
	pending := make(map[matchKey][]int, len(gold))
	for i, g := range gold {
		k := keyFor(g, mode)
		pending[k] = append(pending[k], i)
	}

	var out Outcome
	matched := make([]bool, len(gold))
	for _, s := range system {
		k := keyFor(s, mode)
		idx := pending[k]
		if len(idx) == 0 {
			out.FalsePositives = append(out.FalsePositives, s)
			continue
		}
		pending[k] = idx[1:]
		matched[idx[0]] = true
		out.TruePositives = append(out.TruePositives, Pair{Gold: gold[idx[0]], System: s})
	}

	for i, g := range gold {
		if !matched[i] {
			out.FalseNegatives = append(out.FalseNegatives, g)
		}
	}

	return out, nil
}

// Leaks returns the gold entities that no system entity of any type overlaps.
func Leaks(gold, system []annotation.Entity) []annotation.Entity {
	return lo.Reject(gold, func(g annotation.Entity, _ int) bool {
		return lo.ContainsBy(system, g.Overlaps)
	})
}
