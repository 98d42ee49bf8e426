package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/markdown"
	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

// Markdown renders model text as styled lines wrapped to width. Each block
// produced by markdown.Render becomes one logical line.
func Markdown(text string, width int) string {
	return MarkdownBlocks(markdown.Render(text), width)
}

// MarkdownBlocks styles already-parsed blocks.
func MarkdownBlocks(blocks []markdown.Block, width int) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, renderBlock(b, width))
	}
	return strings.Join(lines, "\n")
}

func renderBlock(b markdown.Block, width int) string {
	switch b.Kind {
	case markdown.KindHeading:
		style := theme.Heading2
		if b.Level == 3 {
			style = theme.Heading3
		}
		return style.Width(width).Render(b.Text())
	case markdown.KindListItem:
		bullet := theme.Bullet.Render("  • ")
		body := lipgloss.NewStyle().Width(width - 4).Render(spans(b.Spans))
		return lipgloss.JoinHorizontal(lipgloss.Top, bullet, body)
	case markdown.KindSpacer:
		return ""
	default:
		return lipgloss.NewStyle().Width(width).Render(spans(b.Spans))
	}
}

func spans(ss []markdown.Span) string {
	var sb strings.Builder
	for _, s := range ss {
		if s.Bold {
			sb.WriteString(theme.Bold.Render(s.Text))
			continue
		}
		sb.WriteString(theme.Body.Render(s.Text))
	}
	return sb.String()
}
