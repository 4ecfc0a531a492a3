package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tagboard/internal/ui/keys"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

// settingsButton is one theme choice
type settingsButton struct {
	label string
	mode  styles.Mode
}

var settingsButtons = []settingsButton{
	{label: "DarkMode", mode: styles.ModeDark},
	{label: "LightMode", mode: styles.ModeLight},
}

// SettingsView switches the application theme
type SettingsView struct {
	themes *styles.Store
	keys   keys.KeyMap

	cursor int
	width  int
	height int
}

func NewSettingsView(themes *styles.Store) *SettingsView {
	return &SettingsView{
		themes: themes,
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *SettingsView) Init() tea.Cmd {
	return nil
}

func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down), key.Matches(msg, v.keys.Tab):
			if v.cursor < len(settingsButtons)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Grab):
			v.themes.Set(settingsButtons[v.cursor].mode)
		}
	}
	return v, nil
}

func (v *SettingsView) View() string {
	s := styles.NewStyles(v.themes.Current())

	var buttons []string
	for i, b := range settingsButtons {
		style := s.Button
		if i == v.cursor {
			style = s.ButtonFocused
		}
		buttons = append(buttons, style.Render(b.label))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Setting"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
		"",
		s.TitleMuted.Render("Current: "+s.Theme.Name),
	)
	return styles.CenterView(content, v.width, v.height)
}
