package annotation

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// I2B2Parser reads the i2b2 XML encoding: a TEXT element with the document
// text and a TAGS element holding one child element per entity.
type I2B2Parser struct{}

// Format implements Parser.
func (I2B2Parser) Format() Format { return FormatI2B2 }

// Ext implements Parser.
func (I2B2Parser) Ext() string { return ".xml" }

type i2b2File struct {
	Text string `xml:"TEXT"`
	Tags struct {
		Items []i2b2Tag `xml:",any"`
	} `xml:"TAGS"`
}

type i2b2Tag struct {
	XMLName xml.Name
	ID      string `xml:"id,attr"`
	Start   string `xml:"start,attr"`
	End     string `xml:"end,attr"`
	Text    string `xml:"text,attr"`
	Type    string `xml:"TYPE,attr"`
}

// Parse implements Parser.
func (p I2B2Parser) Parse(path string) (*Document, error) {
	raw, err := readText(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var f i2b2File
	if err := xml.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	entities := make([]Entity, 0, len(f.Tags.Items))
	for i, tag := range f.Tags.Items {
		e, err := tag.entity(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
		entities = append(entities, e)
	}

	if err := checkSpans(path, f.Text, entities); err != nil {
		return nil, err
	}

	return &Document{
		ID:       DocumentID(path),
		SystemID: SystemID(path),
		Path:     path,
		Text:     f.Text,
		Entities: entities,
	}, nil
}

func (t i2b2Tag) entity(i int) (Entity, error) {
	id := t.ID
	if id == "" {
		id = fmt.Sprintf("%s%d", t.XMLName.Local, i)
	}

	typ := strings.TrimSpace(t.Type)
	if typ == "" {
		typ = t.XMLName.Local
	}

	start, err := strconv.Atoi(strings.TrimSpace(t.Start))
	if err != nil {
		return Entity{}, fmt.Errorf("tag %s: start offset %q: %w", id, t.Start, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(t.End))
	if err != nil {
		return Entity{}, fmt.Errorf("tag %s: end offset %q: %w", id, t.End, err)
	}

	return Entity{ID: id, Type: typ, Start: start, End: end, Text: t.Text}, nil
}
