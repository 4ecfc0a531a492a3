package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tagboard/internal/api"
	"github.com/tgienger/tagboard/internal/api/apitest"
	"github.com/tgienger/tagboard/internal/board"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	srv := apitest.New(t)
	srv.AddTag(1, "urgent")
	srv.AddTask(5, "Buy milk", "", "1")

	client := api.NewClient(srv.URL, 5*time.Second, nil)
	app := NewApp(Options{
		Sync:   board.NewSync(client, nil),
		Themes: styles.NewStore(styles.ModeDark),
		APIURL: srv.URL,
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	// Init is a single load command
	msg := app.Init()()
	app.Update(msg)
	return app
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppStartsHomeAndLoads(t *testing.T) {
	app := newTestApp(t)
	if app.Route() != RouteHome {
		t.Fatalf("expected home route, got %q", app.Route())
	}
	if len(app.Board().Board().Tasks()) != 1 {
		t.Fatal("expected board loaded through the app")
	}
	out := app.View()
	for _, want := range []string{"Home", "Info", "Setting", "Buy milk"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestAppNumberKeysSwitchRoutes(t *testing.T) {
	app := newTestApp(t)

	app.Update(press("2"))
	if app.Route() != RouteInfo {
		t.Fatalf("expected info route, got %q", app.Route())
	}
	app.Update(press("3"))
	if app.Route() != RouteSetting {
		t.Fatalf("expected setting route, got %q", app.Route())
	}
	app.Update(press("1"))
	if app.Route() != RouteHome {
		t.Fatalf("expected home route, got %q", app.Route())
	}
}

func TestAppNavigateMsg(t *testing.T) {
	app := newTestApp(t)

	app.Update(Navigate{Route: RouteSetting})
	if app.Route() != RouteSetting {
		t.Fatalf("expected setting route, got %q", app.Route())
	}

	app.Update(Navigate{Route: Route("/Nowhere")})
	if app.Route() != RouteSetting {
		t.Fatalf("expected route unchanged for unknown route, got %q", app.Route())
	}
}

func TestAppKeysGoToInputWhileTyping(t *testing.T) {
	app := newTestApp(t)

	app.Update(press("n"))
	app.Update(press("2"))
	if app.Route() != RouteHome {
		t.Fatalf("typing a digit must not navigate, got %q", app.Route())
	}
	_, cmd := app.Update(press("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("typing q must not quit")
		}
	}
}

func TestAppQuitKey(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(press("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestAppSettingsChangeTheme(t *testing.T) {
	app := newTestApp(t)

	app.Update(press("3"))
	app.Update(tea.KeyMsg{Type: tea.KeyRight})
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if app.themes.Current().Mode != styles.ModeLight {
		t.Fatalf("expected light theme, got %q", app.themes.Current().Mode)
	}
}
