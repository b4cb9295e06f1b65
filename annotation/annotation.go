// Package annotation provides the entity model for de-identification
// annotations and parsers for the i2b2 XML and brat standoff encodings.
package annotation

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrParse indicates an annotation file could not be decoded.
	ErrParse = errors.New("annotation: parse error")

	// ErrInvalidSpan indicates a zero-length or inverted span.
	ErrInvalidSpan = errors.New("annotation: invalid span")

	// ErrUnknownFormat indicates an unsupported annotation format name.
	ErrUnknownFormat = errors.New("annotation: unknown format")
)

// Entity is a labeled character range in a document.
type Entity struct {
	ID    string
	Type  string
	Start int // rune offset, inclusive
	End   int // rune offset, exclusive
	Text  string
}

// Validate rejects zero-length, inverted and negative spans.
func (e Entity) Validate() error {
	if e.Start < 0 || e.Start >= e.End {
		return fmt.Errorf("%w: %s [%d, %d)", ErrInvalidSpan, e.ID, e.Start, e.End)
	}
	return nil
}

// Overlaps reports whether the two half-open ranges share at least one character.
func (e Entity) Overlaps(o Entity) bool {
	return e.Start < o.End && o.Start < e.End
}

// Len returns the span length in runes.
func (e Entity) Len() int {
	return e.End - e.Start
}

func (e Entity) String() string {
	return fmt.Sprintf("%s %s %d-%d", e.ID, e.Type, e.Start, e.End)
}

// Document is the parsed content of one annotation file.
type Document struct {
	ID       string // file name without extension
	SystemID string // name of the directory holding the file
	Path     string
	Text     string // raw document text; empty when unavailable
	Entities []Entity
}

// Filter returns a copy of d without entities whose type is in ignore.
func (d *Document) Filter(ignore map[string]bool) *Document {
	if len(ignore) == 0 {
		return d
	}

	out := *d
	out.Entities = make([]Entity, 0, len(d.Entities))
	for _, e := range d.Entities {
		if ignore[e.Type] {
			continue
		}
		out.Entities = append(out.Entities, e)
	}
	return &out
}

