// Package markdown converts model-generated text into display blocks.
//
// Only a line-oriented subset is understood: "## " and "### " headings,
// "- " and "* " bullets, **bold** spans and blank-line spacers. Every input
// line yields exactly one block; there is no paragraph joining, nesting,
// numbered lists, links or code.
package markdown

import (
	"regexp"
	"strings"
)

// Kind identifies how a block is displayed.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindListItem  Kind = "list_item"
	KindSpacer    Kind = "spacer"
	KindParagraph Kind = "paragraph"
)

// Span is a run of text within a block.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is one rendered line.
type Block struct {
	Kind  Kind   `json:"kind"`
	Level int    `json:"level,omitempty"` // 2 or 3 for headings
	Spans []Span `json:"spans,omitempty"`
}

// Text returns the block's spans concatenated without formatting.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletPattern = regexp.MustCompile(`^\s*[-*]\s+`)
)

// Render splits text on newlines and classifies each line.
func Render(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, renderLine(line))
	}
	return blocks
}

func renderLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return heading(3, strings.TrimPrefix(line, "### "))
	case strings.HasPrefix(line, "## "):
		return heading(2, strings.TrimPrefix(line, "## "))
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		item := bulletPattern.ReplaceAllString(line, "")
		return Block{Kind: KindListItem, Spans: boldSpans(item)}
	}

	if trimmed == "" {
		return Block{Kind: KindSpacer}
	}

	return Block{Kind: KindParagraph, Spans: boldSpans(line)}
}

// Heading text is shown verbatim; bold markers are not interpreted.
func heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Spans: []Span{{Text: text}}}
}

// boldSpans replaces each non-overlapping **X** (left to right, shortest
// match) with a bold span. Unmatched markers stay in the plain text.
func boldSpans(s string) []Span {
	matches := boldPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []Span{{Text: s}}
	}

	var spans []Span
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: s[last:m[0]]})
		}
		if inner := s[m[2]:m[3]]; inner != "" {
			spans = append(spans, Span{Text: inner, Bold: true})
		}
		last = m[1]
	}
	if last < len(s) {
		spans = append(spans, Span{Text: s[last:]})
	}
	return spans
}
