package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

func TestSettingsSwitchesTheme(t *testing.T) {
	themes := styles.NewStore(styles.ModeDark)
	v := NewSettingsView(themes)

	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if themes.Current().Mode != styles.ModeLight {
		t.Fatalf("expected light mode, got %q", themes.Current().Mode)
	}

	v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if themes.Current().Mode != styles.ModeDark {
		t.Fatalf("expected dark mode, got %q", themes.Current().Mode)
	}
}

func TestSettingsViewListsButtons(t *testing.T) {
	out := NewSettingsView(styles.NewStore(styles.ModeDark)).View()
	if !strings.Contains(out, "DarkMode") || !strings.Contains(out, "LightMode") {
		t.Fatalf("expected both buttons, got:\n%s", out)
	}
}

func TestInfoViewFollowsTheme(t *testing.T) {
	themes := styles.NewStore(styles.ModeDark)
	v := NewInfoView("http://localhost:3010", themes)
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	dark := v.View()
	if !strings.Contains(dark, "localhost:3010") {
		t.Fatalf("expected backend url in info view:\n%s", dark)
	}
	if v.cacheKey != "dark:80" {
		t.Fatalf("unexpected cache key %q", v.cacheKey)
	}

	themes.Set(styles.ModeLight)
	v.View()
	if v.cacheKey != "light:80" {
		t.Fatalf("expected re-render for light theme, got %q", v.cacheKey)
	}
}
