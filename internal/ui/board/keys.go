package board

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the board's key bindings.
type KeyMap struct {
	Buttons    [4]key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	TempoUp    key.Binding
	TempoDown  key.Binding
	Pack       key.Binding
	Difficulty key.Binding
	Visualizer key.Binding
	Indicators key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings. Buttons are laid out
// top-left, top-right, bottom-left, bottom-right.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Buttons: [4]key.Binding{
			key.NewBinding(key.WithKeys("1", "q"), key.WithHelp("1/q", "pad 1")),
			key.NewBinding(key.WithKeys("2", "w"), key.WithHelp("2/w", "pad 2")),
			key.NewBinding(key.WithKeys("3", "a"), key.WithHelp("3/a", "pad 3")),
			key.NewBinding(key.WithKeys("4", "s"), key.WithHelp("4/s", "pad 4")),
		},
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "volume down")),
		TempoUp:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "faster")),
		TempoDown:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slower")),
		Pack:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "sound pack")),
		Difficulty: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficulty")),
		Visualizer: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visualizer")),
		Indicators: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "indicators")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.VolumeUp, k.VolumeDown, k.Pack, k.Difficulty, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Buttons[:],
		{k.VolumeUp, k.VolumeDown, k.TempoUp, k.TempoDown},
		{k.Pack, k.Difficulty, k.Theme},
		{k.Visualizer, k.Indicators, k.Help, k.Quit},
	}
}

// button returns the pad index bound to msg, or -1.
func (k KeyMap) button(msg tea.KeyMsg) int {
	for i, b := range k.Buttons {
		if key.Matches(msg, b) {
			return i
		}
	}
	return -1
}
