package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tagboard/internal/board"
	"github.com/tgienger/tagboard/internal/ui/keys"
	"github.com/tgienger/tagboard/internal/ui/styles"
	"github.com/tgienger/tagboard/internal/ui/views"
)

// Route is a page of the application
type Route string

const (
	RouteHome    Route = "/"
	RouteInfo    Route = "/Info"
	RouteSetting Route = "/Setting"
)

var navLinks = []struct {
	route Route
	label string
}{
	{RouteHome, "Home"},
	{RouteInfo, "Info"},
	{RouteSetting, "Setting"},
}

// Navigate switches the current route
type Navigate struct {
	Route Route
}

// capturer is implemented by views that take text input
type capturer interface {
	Capturing() bool
}

type App struct {
	route    Route
	themes   *styles.Store
	keys     keys.KeyMap
	log      *slog.Logger
	board    *views.BoardView
	info     *views.InfoView
	settings *views.SettingsView
	width    int
	height   int
}

// Options wires the app to its collaborators
type Options struct {
	Sync   *board.Sync
	Flags  views.FlagStore
	Themes *styles.Store
	APIURL string
	Log    *slog.Logger
}

// Creates a new application
func NewApp(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	themes := opts.Themes
	if themes == nil {
		themes = styles.NewStore(styles.ModeDark)
	}
	themes.OnChange(func(t styles.Theme) {
		log.Info("theme changed", slog.String("mode", string(t.Mode)))
	})

	return &App{
		route:    RouteHome,
		themes:   themes,
		keys:     keys.DefaultKeyMap(),
		log:      log,
		board:    views.NewBoardView(opts.Sync, opts.Flags, themes, log),
		info:     views.NewInfoView(opts.APIURL, themes),
		settings: views.NewSettingsView(themes),
	}
}

// Route returns the current route
func (a *App) Route() Route {
	return a.route
}

// Board returns the task board view
func (a *App) Board() *views.BoardView {
	return a.board
}

func (a *App) Init() tea.Cmd {
	return a.board.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Views get the height left under the nav bar
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-2, 0)}
		a.board.Update(inner)
		a.info.Update(inner)
		a.settings.Update(inner)
		return a, nil

	case Navigate:
		a.navigate(msg.Route)
		return a, nil

	case tea.KeyMsg:
		if !a.capturing() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.Board):
				a.navigate(RouteHome)
				return a, nil
			case key.Matches(msg, a.keys.Info):
				a.navigate(RouteInfo)
				return a, nil
			case key.Matches(msg, a.keys.Settings):
				a.navigate(RouteSetting)
				return a, nil
			}
		}

		var cmd tea.Cmd
		switch a.route {
		case RouteInfo:
			_, cmd = a.info.Update(msg)
		case RouteSetting:
			_, cmd = a.settings.Update(msg)
		default:
			_, cmd = a.board.Update(msg)
		}
		return a, cmd
	}

	// Data messages always belong to the board, whatever page is showing
	_, cmd := a.board.Update(msg)
	return a, cmd
}

func (a *App) navigate(r Route) {
	switch r {
	case RouteHome, RouteInfo, RouteSetting:
		a.route = r
	default:
		a.log.Debug("ignoring unknown route", slog.String("route", string(r)))
	}
}

func (a *App) capturing() bool {
	var v any
	switch a.route {
	case RouteInfo:
		v = a.info
	case RouteSetting:
		v = a.settings
	default:
		v = a.board
	}
	c, ok := v.(capturer)
	return ok && c.Capturing()
}

func (a *App) View() string {
	s := styles.NewStyles(a.themes.Current())

	var page string
	switch a.route {
	case RouteInfo:
		page = a.info.View()
	case RouteSetting:
		page = a.settings.View()
	default:
		page = a.board.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, a.renderNav(s), "", page)
	return s.App.Width(a.width).Height(a.height).Render(content)
}

func (a *App) renderNav(s *styles.Styles) string {
	var links []string
	for _, l := range navLinks {
		style := s.NavLink
		if l.route == a.route {
			style = s.NavLinkActive
		}
		links = append(links, style.Render(l.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, links...)
}
