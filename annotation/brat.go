package annotation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// BratParser reads the brat standoff encoding. Entities come from the .ann
// file; the document text comes from the sibling .txt file when present.
type BratParser struct{}

// Format implements Parser.
func (BratParser) Format() Format { return FormatBrat }

// Ext implements Parser.
func (BratParser) Ext() string { return ".ann" }

// Parse implements Parser.
func (p BratParser) Parse(path string) (*Document, error) {
	raw, err := readText(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	entities, err := ParseStandoff(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	textPath := strings.TrimSuffix(path, p.Ext()) + ".txt"
	text, err := readText(textPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		text = ""
	}

	if err := checkSpans(path, text, entities); err != nil {
		return nil, err
	}

	return &Document{
		ID:       DocumentID(path),
		SystemID: SystemID(path),
		Path:     path,
		Text:     text,
		Entities: entities,
	}, nil
}

// ParseStandoff extracts text-bound annotations ("T" lines) from brat
// standoff content. Relations, events, attributes and notes are skipped.
// Discontinuous fragments collapse to the range from the first start to the
// last end.
func ParseStandoff(content string) ([]Entity, error) {
	var entities []Entity
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, "T") {
			continue
		}

		e, err := parseStandoffLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entities = append(entities, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan standoff: %w", err)
	}

	return entities, nil
}

func parseStandoffLine(line string) (Entity, error) {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 {
		return Entity{}, fmt.Errorf("malformed text-bound annotation %q", line)
	}

	id := fields[0]
	typ, spans, ok := strings.Cut(fields[1], " ")
	if !ok || typ == "" {
		return Entity{}, fmt.Errorf("annotation %s: missing type or offsets", id)
	}

	start, end := -1, -1
	for _, frag := range strings.Split(spans, ";") {
		parts := strings.Fields(frag)
		if len(parts) != 2 {
			return Entity{}, fmt.Errorf("annotation %s: malformed offsets %q", id, frag)
		}
		s, err := strconv.Atoi(parts[0])
		if err != nil {
			return Entity{}, fmt.Errorf("annotation %s: start offset %q: %w", id, parts[0], err)
		}
		e, err := strconv.Atoi(parts[1])
		if err != nil {
			return Entity{}, fmt.Errorf("annotation %s: end offset %q: %w", id, parts[1], err)
		}
		if start < 0 {
			start = s
		}
		end = e
	}

	var text string
	if len(fields) == 3 {
		text = fields[2]
	}

	return Entity{ID: id, Type: typ, Start: start, End: end, Text: text}, nil
}

// FormatStandoff renders entities as brat text-bound annotation lines. IDs
// that are not brat "T" ids are replaced by T1, T2, ... in input order.
func FormatStandoff(entities []Entity) string {
	var b strings.Builder
	for i, e := range entities {
		id := e.ID
		if !isStandoffID(id) {
			id = "T" + strconv.Itoa(i+1)
		}
		text := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(e.Text)
		fmt.Fprintf(&b, "%s\t%s %d %d\t%s\n", id, e.Type, e.Start, e.End, text)
	}
	return b.String()
}

func isStandoffID(id string) bool {
	if len(id) < 2 || id[0] != 'T' {
		return false
	}
	_, err := strconv.Atoi(id[1:])
	return err == nil
}

// WriteBrat writes doc to dir as <ID>.ann and, when its text is known,
// <ID>.txt.
func WriteBrat(dir string, doc *Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	base := filepath.Join(dir, doc.ID)
	if err := os.WriteFile(base+".ann", []byte(FormatStandoff(doc.Entities)), 0o644); err != nil {
		return fmt.Errorf("write %s.ann: %w", base, err)
	}
	if doc.Text == "" {
		return nil
	}
	if err := os.WriteFile(base+".txt", []byte(doc.Text), 0o644); err != nil {
		return fmt.Errorf("write %s.txt: %w", base, err)
	}
	return nil
}
