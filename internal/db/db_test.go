package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSettingsRoundTrip(t *testing.T) {
	database := openTestDB(t)

	got, err := database.GetSetting("missing")
	if err != nil || got != "" {
		t.Fatalf("expected empty value for missing key, got %q (%v)", got, err)
	}

	if err := database.SetSetting("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := database.SetSetting("k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = database.GetSetting("k")
	if err != nil || got != "v2" {
		t.Fatalf("expected v2, got %q (%v)", got, err)
	}

	if err := database.DeleteSetting("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = database.GetSetting("k")
	if got != "" {
		t.Fatalf("expected deleted key, got %q", got)
	}
}

func TestActiveFlagDefaultsToFalse(t *testing.T) {
	database := openTestDB(t)
	active, err := database.IsTaskActive(5)
	if err != nil || active {
		t.Fatalf("expected inactive default, got %v (%v)", active, err)
	}
}

func TestActiveFlagStoredAsJSON(t *testing.T) {
	database := openTestDB(t)
	if err := database.SetTaskActive(5, true); err != nil {
		t.Fatalf("set active: %v", err)
	}

	raw, err := database.GetSetting("buttonClicked-5")
	if err != nil || raw != "true" {
		t.Fatalf("expected raw json true under buttonClicked-5, got %q (%v)", raw, err)
	}

	active, err := database.IsTaskActive(5)
	if err != nil || !active {
		t.Fatalf("expected active, got %v (%v)", active, err)
	}

	if err := database.SetTaskActive(5, false); err != nil {
		t.Fatalf("clear active: %v", err)
	}
	active, _ = database.IsTaskActive(5)
	if active {
		t.Fatal("expected inactive after toggle back")
	}
}

func TestActiveFlagSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	first, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := first.SetTaskActive(9, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	second, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	active, err := second.IsTaskActive(9)
	if err != nil || !active {
		t.Fatalf("expected flag to survive reopen, got %v (%v)", active, err)
	}
}

func TestActiveTasksBulk(t *testing.T) {
	database := openTestDB(t)
	database.SetTaskActive(1, true)
	database.SetTaskActive(2, false)
	database.SetTaskActive(3, true)
	database.SetSetting("buttonClicked-4", "garbage")

	flags, err := database.ActiveTasks([]int64{1, 2, 4, 7})
	if err != nil {
		t.Fatalf("active tasks: %v", err)
	}
	if !flags[1] || flags[2] {
		t.Fatalf("unexpected flags: %v", flags)
	}
	if _, ok := flags[3]; ok {
		t.Fatal("task 3 was not requested")
	}
	if _, ok := flags[4]; ok {
		t.Fatal("undecodable flag must be skipped")
	}
	if _, ok := flags[7]; ok {
		t.Fatal("task 7 has no stored flag")
	}
}

func TestCorruptFlagIsAnError(t *testing.T) {
	database := openTestDB(t)
	database.SetSetting(ActiveKey(8), "{")
	if _, err := database.IsTaskActive(8); err == nil {
		t.Fatal("expected decode error")
	}
}
