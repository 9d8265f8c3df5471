package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// TitledBox draws content inside a rounded border with title on the left of
// the top edge and right on the right. Either title may be empty. Lines
// wider than the box are truncated; the box is as tall as the content.
func TitledBox(content, title, right string, width int, borderColor lipgloss.TerminalColor) string {
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	rightStyle := lipgloss.NewStyle().Foreground(TextSecondaryColor)

	inner := max(width-2, 1)

	var b strings.Builder
	b.WriteString(topBorder(title, right, inner, border, titleStyle, rightStyle))
	b.WriteString("\n")
	for _, line := range strings.Split(content, "\n") {
		line = TruncateString(line, inner)
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString(border.Render(borderVertical))
		b.WriteString(line)
		b.WriteString(border.Render(borderVertical))
		b.WriteString("\n")
	}
	b.WriteString(border.Render(borderBottomLeft + strings.Repeat(borderHorizontal, inner) + borderBottomRight))
	return b.String()
}

// topBorder builds ╭─ title ───── right ─╮ for the given inner width. The
// right title is dropped first when space runs out, then the left title is
// truncated.
func topBorder(title, right string, inner int, border, titleStyle, rightStyle lipgloss.Style) string {
	const minDashes = 1
	left := ""
	if title != "" {
		left = " " + title + " "
	}
	rt := ""
	if right != "" {
		rt = " " + right + " "
	}

	// ╭─ + left + dashes + rt + ─╮ with the corners outside inner.
	avail := inner - 2
	if lipgloss.Width(left)+lipgloss.Width(rt)+minDashes > avail {
		rt = ""
	}
	if lipgloss.Width(left)+minDashes > avail {
		left = TruncateString(left, max(avail-minDashes, 0))
	}
	dashes := max(avail-lipgloss.Width(left)-lipgloss.Width(rt), 0)

	var b strings.Builder
	b.WriteString(border.Render(borderTopLeft + borderHorizontal))
	if left != "" {
		b.WriteString(titleStyle.Render(left))
	}
	b.WriteString(border.Render(strings.Repeat(borderHorizontal, dashes)))
	if rt != "" {
		b.WriteString(rightStyle.Render(rt))
	}
	b.WriteString(border.Render(borderHorizontal + borderTopRight))
	return b.String()
}

// TruncateString shortens s to at most width cells, ending with "…" when cut.
// ANSI styling in s is preserved.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
