package provisioning

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// FieldDefinition is a raw <Field> schema plus the attributes provisioning needs.
type FieldDefinition struct {
	ID          string
	Name        string
	DisplayName string
	Type        string

	raw      string
	tagStart int
	tagEnd   int
}

// ParseFieldXML reads the root <Field> element of a field schema.
func ParseFieldXML(raw string) (*FieldDefinition, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no <Field> element", ErrInvalidFieldXML)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFieldXML, err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if el.Name.Local != "Field" {
			return nil, fmt.Errorf("%w: root element is <%s>, expected <Field>", ErrInvalidFieldXML, el.Name.Local)
		}

		def := &FieldDefinition{raw: raw, tagStart: int(start), tagEnd: int(dec.InputOffset())}
		for _, attr := range el.Attr {
			switch attr.Name.Local {
			case "ID":
				def.ID = attr.Value
			case "Name":
				def.Name = attr.Value
			case "DisplayName":
				def.DisplayName = attr.Value
			case "Type":
				def.Type = attr.Value
			}
		}
		if def.ID == "" {
			return nil, fmt.Errorf("%w: missing ID attribute", ErrInvalidFieldXML)
		}
		if def.Name == "" {
			return nil, fmt.Errorf("%w: field %s missing Name attribute", ErrInvalidFieldXML, def.ID)
		}
		return def, nil
	}
}

// Title is the label the field should end up with after creation.
func (f *FieldDefinition) Title() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// Raw returns the original markup.
func (f *FieldDefinition) Raw() string {
	return f.raw
}

// InternalNameXML returns the markup with DisplayName set to Name.
// SharePoint derives the internal name from DisplayName on creation; the real
// title is applied afterwards. Only the root start tag is touched.
func (f *FieldDefinition) InternalNameXML() string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(f.Name))
	attr := `DisplayName="` + escaped.String() + `"`

	tag := f.raw[f.tagStart:f.tagEnd]
	var rewritten string
	if span, ok := findAttr(tag, "DisplayName"); ok {
		rewritten = tag[:span.start] + attr + tag[span.end:]
	} else {
		rewritten = strings.Replace(tag, "<Field", "<Field "+attr, 1)
	}
	return f.raw[:f.tagStart] + rewritten + f.raw[f.tagEnd:]
}

// attrSpan is the byte range of one name="value" pair within a start tag.
type attrSpan struct {
	name       string
	start, end int
}

// findAttr returns the span of the attribute called name in a start tag
// already accepted by the XML decoder. Attribute values are skipped whole,
// so text inside another attribute's value never matches.
func findAttr(tag, name string) (attrSpan, bool) {
	for _, span := range scanAttrs(tag) {
		if span.name == name {
			return span, true
		}
	}
	return attrSpan{}, false
}

func scanAttrs(tag string) []attrSpan {
	isSpace := func(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

	i := strings.IndexByte(tag, '<') + 1
	// element name
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}

	var spans []attrSpan
	for i < len(tag) {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '/' || tag[i] == '>' {
			break
		}

		start := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) {
			i++
		}
		name := tag[start:i]
		for i < len(tag) && (isSpace(tag[i]) || tag[i] == '=') {
			i++
		}
		if i >= len(tag) {
			break
		}
		quote := tag[i]
		end := strings.IndexByte(tag[i+1:], quote)
		if end < 0 {
			break
		}
		i += end + 2
		spans = append(spans, attrSpan{name: name, start: start, end: i})
	}
	return spans
}
