package annotation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format names an on-disk annotation encoding.
type Format string

// Supported formats.
const (
	FormatI2B2 Format = "i2b2"
	FormatBrat Format = "brat"
)

// ParseFormat converts a command-line format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatI2B2, FormatBrat:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Parser produces a Document from an annotation file.
type Parser interface {
	// Format returns the encoding this parser reads.
	Format() Format
	// Ext returns the annotation file extension, including the dot.
	Ext() string
	// Parse reads and decodes one annotation file.
	Parse(path string) (*Document, error)
}

// NewParser returns the parser for format.
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatI2B2:
		return I2B2Parser{}, nil
	case FormatBrat:
		return BratParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DocumentID derives the document identifier from a file path.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SystemID derives the system identifier from the directory holding path.
func SystemID(path string) string {
	return filepath.Base(filepath.Dir(filepath.Clean(path)))
}

// readText reads a whole file as UTF-8, dropping a leading byte order mark.
func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	r := transform.NewReader(f, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// checkSpans validates every entity and, when text is known, that offsets
// stay inside it.
func checkSpans(path, text string, entities []Entity) error {
	n := -1
	if text != "" {
		n = utf8.RuneCountInString(text)
	}
	for _, e := range entities {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if n >= 0 && e.End > n {
			return fmt.Errorf("%w: %s: %s ends at %d beyond text length %d", ErrParse, path, e.ID, e.End, n)
		}
	}
	return nil
}
