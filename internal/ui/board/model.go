// Package board is the terminal front end: it renders the four pads, routes
// keys and mouse clicks to the game, and drives game time from a frame tick.
package board

import (
	_ "embed"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/mimic/internal/audio"
	"github.com/zjrosen/mimic/internal/config"
	"github.com/zjrosen/mimic/internal/game"
	"github.com/zjrosen/mimic/internal/log"
	"github.com/zjrosen/mimic/internal/soundpack"
	"github.com/zjrosen/mimic/internal/store"
	"github.com/zjrosen/mimic/internal/ui/styles"
)

//go:embed help.md
var helpMarkdown string

const (
	volumeStep = 0.1
	tempoStep  = 0.25

	// maxFrameStep caps how far one tick moves game time, so a stalled
	// terminal does not replay a burst of sequence steps at once.
	maxFrameStep = 250 * time.Millisecond
)

// Audio is the part of the audio engine the board controls.
type Audio interface {
	Settings() audio.Settings
	Pack() soundpack.Pack
	Available() bool
	NextSoundPack()
	SetMasterVolume(v float64)
	SetTempo(t float64)
	SetVisualizationEnabled(on bool)
	SetVisualIndicatorsEnabled(on bool)
	GetFrequencyData() []byte
}

// Options configures a Model.
type Options struct {
	Game   *game.Game
	Bridge *Bridge
	Audio  Audio
	// Store persists the chosen theme. Nil disables persistence.
	Store store.Store
	// Theme is the configured theme, used when no theme has been persisted.
	Theme         styles.ThemeConfig
	FrameInterval time.Duration
}

// ConfigChangedMsg carries a reloaded configuration.
type ConfigChangedMsg struct {
	Config config.Config
}

type tickMsg time.Time

// Model is the bubbletea model for a game session.
type Model struct {
	game   *game.Game
	bridge *Bridge
	audio  Audio
	store  store.Store
	keys   KeyMap
	help   help.Model
	zones  *zone.Manager

	theme    styles.ThemeConfig
	interval time.Duration
	lastTick time.Time
	spectrum []byte

	showHelp bool
	helpView string

	width  int
	height int
}

// New creates the board and applies the starting theme.
func New(opts Options) Model {
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = time.Second / 60
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}

	theme := opts.Theme
	if saved, ok := st.Get(store.KeyTheme); ok {
		theme.Preset = saved
	}
	if err := styles.ApplyTheme(theme); err != nil {
		log.Warn(log.CatUI, "Invalid theme, using default", "preset", theme.Preset, "error", err)
		theme = styles.ThemeConfig{}
		_ = styles.ApplyTheme(theme)
	}

	return Model{
		game:     opts.Game,
		bridge:   bridge,
		audio:    opts.Audio,
		store:    st,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		zones:    zone.New(),
		theme:    theme,
		interval: interval,
	}
}

// Init starts the frame tick.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m = m.advance(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.showHelp {
			m.helpView = m.renderHelp()
		}
		return m, nil

	case ConfigChangedMsg:
		return m.applyConfig(msg.Config), nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) advance(now time.Time) Model {
	elapsed := m.interval
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	elapsed = min(max(elapsed, 0), maxFrameStep)
	m.lastTick = now

	m.bridge.Advance(elapsed)
	m.game.Advance(elapsed)

	m.spectrum = nil
	if m.audio.Settings().VisualizationEnabled {
		m.spectrum = m.audio.GetFrequencyData()
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.game.Close()
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	s := m.audio.Settings()
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = m.renderHelp()
	case key.Matches(msg, m.keys.VolumeUp):
		m.audio.SetMasterVolume(round2(s.MasterVolume + volumeStep))
	case key.Matches(msg, m.keys.VolumeDown):
		m.audio.SetMasterVolume(round2(s.MasterVolume - volumeStep))
	case key.Matches(msg, m.keys.TempoUp):
		m.audio.SetTempo(round2(s.Tempo + tempoStep))
	case key.Matches(msg, m.keys.TempoDown):
		m.audio.SetTempo(round2(s.Tempo - tempoStep))
	case key.Matches(msg, m.keys.Pack):
		m.audio.NextSoundPack()
	case key.Matches(msg, m.keys.Difficulty):
		m.game.ChangeDifficulty(m.game.Difficulty().Next())
	case key.Matches(msg, m.keys.Visualizer):
		m.audio.SetVisualizationEnabled(!s.VisualizationEnabled)
	case key.Matches(msg, m.keys.Indicators):
		m.audio.SetVisualIndicatorsEnabled(!s.VisualIndicatorsEnabled)
	case key.Matches(msg, m.keys.Theme):
		m = m.cycleTheme()
	default:
		if b := m.keys.button(msg); b >= 0 {
			m.game.OnButtonActivated(b)
		} else {
			m.game.OnKeyPress()
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m
	}
	for i := range game.ButtonCount {
		if z := m.zones.Get(padZoneID(i)); z != nil && z.InBounds(msg) {
			m.game.OnButtonActivated(i)
			break
		}
	}
	return m
}

func (m Model) cycleTheme() Model {
	next := styles.NextPreset(styles.CurrentPreset())
	cfg := m.theme
	cfg.Preset = next
	if err := styles.ApplyTheme(cfg); err != nil {
		log.Warn(log.CatUI, "Theme change failed", "preset", next, "error", err)
		return m
	}
	m.theme = cfg
	m.store.Set(store.KeyTheme, next)
	return m
}

func (m Model) applyConfig(cfg config.Config) Model {
	if err := m.game.SetDifficulty(cfg.Game.Difficulty); err != nil {
		log.Warn(log.CatConfig, "Ignoring reloaded difficulty", "error", err)
	}
	theme := styles.ThemeConfig{Preset: m.theme.Preset, Colors: cfg.UI.Colors}
	if err := styles.ApplyTheme(theme); err != nil {
		log.Warn(log.CatConfig, "Ignoring reloaded theme colors", "error", err)
	} else {
		m.theme = theme
	}
	m.interval = cfg.UI.FrameInterval()
	log.Info(log.CatConfig, "Config reloaded", "difficulty", cfg.Game.Difficulty, "frame_rate", cfg.UI.FrameRate)
	return m
}

func (m Model) renderHelp() string {
	width := max(min(m.width, maxBoardWidth)-4, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.CurrentPreset()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, "Creating help renderer", err)
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		log.ErrorErr(log.CatUI, "Rendering help", err)
		return helpMarkdown
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
