package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/mimic/internal/game"
	"github.com/zjrosen/mimic/internal/ui/styles"
)

const (
	maxBoardWidth = 60
	minBoardWidth = 24
	padGap        = 1
	dimAmount     = 0.65
)

var barRunes = []rune("▁▂▃▄▅▆▇█")

var padLabels = [game.ButtonCount]string{"1", "2", "3", "4"}

func padZoneID(i int) string {
	return fmt.Sprintf("pad-%d", i)
}

// View renders the board.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	width := min(max(m.width, minBoardWidth), maxBoardWidth)
	inner := width - 2

	if m.showHelp {
		return styles.TitledBox(strings.TrimRight(m.helpView, "\n"), "Help", "any key to close", width, styles.BorderFocusColor)
	}

	var sections []string
	sections = append(sections, m.pads(inner, m.padHeight()))
	if len(m.spectrum) > 0 {
		sections = append(sections, m.spectrumBar(inner))
	}
	sections = append(sections, m.messageLine(), m.statusLine(), m.help.ShortHelpView(m.keys.ShortHelp()))

	border := lipgloss.TerminalColor(styles.BorderDefaultColor)
	if m.bridge.ErrorFlashing() {
		border = styles.StatusErrorColor
	} else if m.bridge.InputEnabled() {
		border = styles.BorderFocusColor
	}

	snap := m.game.Snapshot()
	right := fmt.Sprintf("Level %d · Best %d", snap.Level, snap.HighScore)
	return m.zones.Scan(styles.TitledBox(strings.Join(sections, "\n"), "mimic", right, width, border))
}

func (m Model) padHeight() int {
	// Two pad rows plus border, spectrum, message, status and help lines.
	const chrome = 8
	return min(max((m.height-chrome)/2, 1), 5)
}

func (m Model) pads(inner, height int) string {
	padWidth := max((inner-padGap)/2, 3)
	colors := m.audio.Pack().Colors

	render := func(i int) string {
		base := colors[i]
		bg := styles.Dim(base, dimAmount)
		if m.bridge.Lit(i) {
			bg = base
		}
		label := padLabels[i]
		if m.bridge.Indicator(i) {
			label = "● " + label
		}
		style := lipgloss.NewStyle().
			Width(padWidth).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color(styles.Contrast(bg))).
			Bold(m.bridge.Lit(i))
		return m.zones.Mark(padZoneID(i), style.Render(label))
	}

	gap := strings.Repeat(" ", padGap)
	top := lipgloss.JoinHorizontal(lipgloss.Top, render(0), gap, render(1))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, render(2), gap, render(3))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// spectrumBar draws one row of bars, averaging bins into columns.
func (m Model) spectrumBar(width int) string {
	cols := min(width, len(m.spectrum))
	if cols == 0 {
		return ""
	}
	var b strings.Builder
	per := len(m.spectrum) / cols
	for c := range cols {
		sum := 0
		for _, v := range m.spectrum[c*per : (c+1)*per] {
			sum += int(v)
		}
		level := sum / per * len(barRunes) / 256
		b.WriteRune(barRunes[min(level, len(barRunes)-1)])
	}
	return lipgloss.NewStyle().Foreground(styles.SpectrumColor).Render(b.String())
}

func (m Model) messageLine() string {
	msg := m.bridge.Message()
	style := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	switch {
	case msg != "":
	case m.game.State() == game.StateStart:
		msg = "Press any key to start"
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true)
	case m.game.Snapshot().ShowingSequence:
		msg = "Watch..."
		style = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	case m.bridge.InputEnabled():
		msg = "Your turn"
		style = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	}
	if m.bridge.ErrorFlashing() {
		style = style.Foreground(styles.StatusErrorColor)
	}
	return style.Render(msg)
}

func (m Model) statusLine() string {
	s := m.audio.Settings()
	parts := []string{
		m.audio.Pack().Name,
		string(m.game.Difficulty()),
		"vol " + styles.FormatPercent(s.MasterVolume),
		"tempo " + styles.FormatTempo(s.Tempo),
	}
	if !m.audio.Available() {
		parts = append(parts, "no audio")
	}
	return lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Render(strings.Join(parts, " · "))
}
