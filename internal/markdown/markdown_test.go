package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOneBlockPerLine(t *testing.T) {
	in := "## Rules\nKeep **left** always.\n\n- Use **mirrors** often\n### Tip\n* Signal early"
	blocks := Render(in)
	require.Len(t, blocks, 6)

	assert.Equal(t, Block{Kind: KindHeading, Level: 2, Spans: []Span{{Text: "Rules"}}}, blocks[0])
	assert.Equal(t, Block{Kind: KindParagraph, Spans: []Span{
		{Text: "Keep "}, {Text: "left", Bold: true}, {Text: " always."},
	}}, blocks[1])
	assert.Equal(t, Block{Kind: KindSpacer}, blocks[2])
	assert.Equal(t, Block{Kind: KindListItem, Spans: []Span{
		{Text: "Use "}, {Text: "mirrors", Bold: true}, {Text: " often"},
	}}, blocks[3])
	assert.Equal(t, Block{Kind: KindHeading, Level: 3, Spans: []Span{{Text: "Tip"}}}, blocks[4])
	assert.Equal(t, Block{Kind: KindListItem, Spans: []Span{{Text: "Signal early"}}}, blocks[5])
}

func TestRenderEmptyInputIsOneSpacer(t *testing.T) {
	assert.Equal(t, []Block{{Kind: KindSpacer}}, Render(""))
}

func TestHeadings(t *testing.T) {
	tests := []struct {
		line  string
		kind  Kind
		level int
		text  string
	}{
		{"### Overtaking", KindHeading, 3, "Overtaking"},
		{"## Overtaking", KindHeading, 2, "Overtaking"},
		{"## **Bold** stays literal", KindHeading, 2, "**Bold** stays literal"},
		{"#### Too deep", KindParagraph, 0, "#### Too deep"},
		{"##NoSpace", KindParagraph, 0, "##NoSpace"},
		{" ## Indented", KindParagraph, 0, " ## Indented"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			b := renderLine(tt.line)
			assert.Equal(t, tt.kind, b.Kind)
			assert.Equal(t, tt.level, b.Level)
			assert.Equal(t, tt.text, b.Text())
		})
	}
}

func TestListItems(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		text string
	}{
		{"- item", KindListItem, "item"},
		{"* item", KindListItem, "item"},
		{"   -   indented item", KindListItem, "indented item"},
		{"\t* tabbed", KindListItem, "tabbed"},
		{"-no space", KindParagraph, "-no space"},
		{"1. numbered", KindParagraph, "1. numbered"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			b := renderLine(tt.line)
			assert.Equal(t, tt.kind, b.Kind)
			assert.Equal(t, tt.text, b.Text())
		})
	}
}

func TestSpacerForWhitespaceLine(t *testing.T) {
	assert.Equal(t, KindSpacer, renderLine("   \t ").Kind)
}

func TestBoldSpans(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{"none", "plain", []Span{{Text: "plain"}}},
		{"whole", "**all**", []Span{{Text: "all", Bold: true}}},
		{"two", "**a** and **b**", []Span{
			{Text: "a", Bold: true}, {Text: " and "}, {Text: "b", Bold: true},
		}},
		{"unmatched", "a **b", []Span{{Text: "a **b"}}},
		{"odd markers", "**a** **b", []Span{{Text: "a", Bold: true}, {Text: " **b"}}},
		{"empty bold", "x****y", []Span{{Text: "x"}, {Text: "y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, boldSpans(tt.in))
		})
	}
}
