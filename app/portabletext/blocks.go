// Package portabletext renders rich-text bodies stored as block arrays.
package portabletext

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNotBlocks is returned for bodies that are missing or not a block array.
var ErrNotBlocks = errors.New("body is not a block array")

type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	// image
	Asset   *Asset `json:"asset,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	// code
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
	// callout; the tone is stored under "type"
	Tone  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
	// video
	URL string `json:"url,omitempty"`
	// table
	Rows []TableRow `json:"rows,omitempty"`
}

type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation referenced from span marks by key.
type MarkDef struct {
	Key  string    `json:"_key"`
	Type string    `json:"_type"`
	Href string    `json:"href,omitempty"`
	Slug slugValue `json:"slug,omitempty"`
}

type Asset struct {
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}

type TableRow struct {
	Cells []string `json:"cells"`
}

// slugValue accepts a slug either as a plain string or as {"current": "..."}.
type slugValue string

func (s *slugValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = slugValue(plain)
		return nil
	}
	var obj struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = slugValue(obj.Current)
	return nil
}

// Parse decodes a stored body.
func Parse(raw json.RawMessage) ([]Block, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotBlocks
	}
	var blocks []Block
	if err := json.Unmarshal(trimmed, &blocks); err != nil {
		return nil, errors.Join(ErrNotBlocks, err)
	}
	return blocks, nil
}

// PlainText joins the text of a block's spans.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, c := range b.Children {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

func (b Block) markDef(key string) (MarkDef, bool) {
	for _, d := range b.MarkDefs {
		if d.Key == key {
			return d, true
		}
	}
	return MarkDef{}, false
}

// Heading is an entry of the table of contents.
type Heading struct {
	ID    string
	Text  string
	Level int
}

var spaces = regexp.MustCompile(`\s+`)

func anchorID(text string) string {
	return spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "-")
}

func headingLevel(style string) int {
	if len(style) == 2 && style[0] == 'h' && style[1] >= '1' && style[1] <= '6' {
		return int(style[1] - '0')
	}
	return 0
}

func (b Block) headingText() string {
	if len(b.Children) == 0 {
		return ""
	}
	return b.Children[0].Text
}

// Headings lists the h2 and h3 blocks in document order.
func Headings(blocks []Block) []Heading {
	var out []Heading
	for _, b := range blocks {
		if b.Type != "block" {
			continue
		}
		if level := headingLevel(b.Style); level == 2 || level == 3 {
			text := b.headingText()
			out = append(out, Heading{ID: anchorID(text), Text: text, Level: level})
		}
	}
	return out
}
