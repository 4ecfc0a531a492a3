package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Mode names a theme the user can pick
type Mode string

const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string
	Mode Mode

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Chip        lipgloss.Color
}

// Dark mirrors the original black background / white text setting
var Dark = Theme{
	Name: "Dark",
	Mode: ModeDark,

	Background:    lipgloss.Color("#000000"),
	Foreground:    lipgloss.Color("#ffffff"),
	ForegroundDim: lipgloss.Color("#8a8a8a"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
	Chip:        lipgloss.Color("#2f334d"),
}

// Light is white background / black text
var Light = Theme{
	Name: "Light",
	Mode: ModeLight,

	Background:    lipgloss.Color("#ffffff"),
	Foreground:    lipgloss.Color("#000000"),
	ForegroundDim: lipgloss.Color("#6172b0"),

	Primary:   lipgloss.Color("#2e7de9"),
	Secondary: lipgloss.Color("#9854f1"),
	Accent:    lipgloss.Color("#007197"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
	Chip:        lipgloss.Color("#d0d5e3"),
}

// ThemeFor returns the theme for a mode. Unknown modes get Dark.
func ThemeFor(m Mode) Theme {
	if m == ModeLight {
		return Light
	}
	return Dark
}

// Store is the application-wide theme. Views read it on every render and
// the settings view writes it. It is not persisted.
type Store struct {
	mu        sync.RWMutex
	current   Theme
	listeners []func(Theme)
}

// NewStore starts with the given mode
func NewStore(m Mode) *Store {
	return &Store{current: ThemeFor(m)}
}

// Current returns the active theme
func (s *Store) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set switches the theme and notifies listeners. Setting the active mode
// again is a no-op.
func (s *Store) Set(m Mode) {
	s.mu.Lock()
	next := ThemeFor(m)
	if next.Mode == s.current.Mode {
		s.mu.Unlock()
		return
	}
	s.current = next
	listeners := append([]func(Theme){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// OnChange registers fn to run after every theme switch
func (s *Store) OnChange(fn func(Theme)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Theme Theme

	// App container
	App lipgloss.Style

	// Navigation
	NavLink       lipgloss.Style
	NavLinkActive lipgloss.Style

	// Title bar
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Section    lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Tags
	Tag         lipgloss.Style
	TagSelected lipgloss.Style
	TagDragging lipgloss.Style

	// Task cards
	Card       lipgloss.Style
	CardFocus  lipgloss.Style
	CardTarget lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
}

// NewStyles creates styles for a theme
func NewStyles(t Theme) *Styles {
	return &Styles{
		Theme: t,

		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		NavLink: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		NavLinkActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Underline(true).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Section: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Tag: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Chip).
			Padding(0, 1).
			MarginRight(1),

		TagSelected: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Accent).
			Padding(0, 1).
			MarginRight(1).
			Bold(true),

		TagDragging: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Background(t.Chip).
			Faint(true).
			Padding(0, 1).
			MarginRight(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		CardFocus: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		CardTarget: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Success).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}
