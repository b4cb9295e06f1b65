package eval

import (
	"cmp"
	"slices"
	"unicode"

	"github.com/jamesainslie/go-deideval/annotation"
)

// Merge collapses spans separated only by non-alphanumeric text into single
// spans. Spans are sorted by start offset first, so the result does not depend
// on input order. Overlapping or touching spans always merge. A merged span
// keeps the ID and Type of its first contributing span.
//
// A gap that lies outside text (for example when the document text is
// unavailable) never merges.
func Merge(spans []annotation.Entity, text string) []annotation.Entity {
	if len(spans) == 0 {
		return nil
	}

	sorted := sortedEntities(spans)
	runes := []rune(text)

	merged := make([]annotation.Entity, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= cur.End || onlySeparators(runes, cur.End, next.Start) {
			if next.End > cur.End {
				cur.End = next.End
			}
			cur.Text = spanText(runes, cur)
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)

	return merged
}

// onlySeparators reports whether runes[from:to] is known and contains no
// letter or digit.
func onlySeparators(runes []rune, from, to int) bool {
	if from < 0 || to > len(runes) || from > to {
		return false
	}
	for _, r := range runes[from:to] {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func spanText(runes []rune, e annotation.Entity) string {
	if e.End > len(runes) {
		return e.Text
	}
	return string(runes[e.Start:e.End])
}

// sortedEntities returns a copy of entities ordered by start, end, type and id.
func sortedEntities(entities []annotation.Entity) []annotation.Entity {
	out := slices.Clone(entities)
	slices.SortStableFunc(out, func(a, b annotation.Entity) int {
		return cmp.Or(
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.End, b.End),
			cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}
