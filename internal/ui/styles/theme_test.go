package styles

import "testing"

func TestStoreDefaultsAndSwitch(t *testing.T) {
	s := NewStore(ModeDark)
	if s.Current().Mode != ModeDark {
		t.Fatalf("expected dark, got %q", s.Current().Mode)
	}

	var notified []Mode
	s.OnChange(func(th Theme) { notified = append(notified, th.Mode) })

	s.Set(ModeLight)
	if s.Current().Background != Light.Background || s.Current().Foreground != Light.Foreground {
		t.Fatalf("expected light colors, got %+v", s.Current())
	}

	s.Set(ModeLight)
	s.Set(ModeDark)
	if len(notified) != 2 || notified[0] != ModeLight || notified[1] != ModeDark {
		t.Fatalf("unexpected notifications: %v", notified)
	}
}

func TestThemeForUnknownModeIsDark(t *testing.T) {
	if ThemeFor(Mode("sepia")).Mode != ModeDark {
		t.Fatal("unknown mode must fall back to dark")
	}
}

func TestDarkAndLightAreBlackAndWhite(t *testing.T) {
	if Dark.Background != "#000000" || Dark.Foreground != "#ffffff" {
		t.Fatalf("unexpected dark base colors: %+v", Dark)
	}
	if Light.Background != "#ffffff" || Light.Foreground != "#000000" {
		t.Fatalf("unexpected light base colors: %+v", Light)
	}
}

func TestContentWidth(t *testing.T) {
	if ContentWidth(200) != MaxWidth || ContentWidth(40) != 40 {
		t.Fatal("unexpected content width clamp")
	}
}
