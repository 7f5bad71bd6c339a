package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitBadLevel(t *testing.T) {
	if err := Init("loud", ""); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring-mouse.log")
	if err := Init("info", path); err != nil {
		t.Fatalf("init: %v", err)
	}

	Info().Str("check", "logfile").Msg("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ring-mouse.log")

	write := func(p, content string) {
		t.Helper()
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(path, "boot d")
	write(path+".0", "boot c")
	write(path+".1", "boot b")
	write(path+".2", "boot a")
	write(path+".3", "boot z")

	f, err := openRotated(path)
	if err != nil {
		t.Fatalf("openRotated: %v", err)
	}
	f.Close()

	check := func(p, want string) {
		t.Helper()
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if string(data) != want {
			t.Errorf("%s: got %q, want %q", p, data, want)
		}
	}
	check(path, "") // fresh file for this boot
	check(path+".0", "boot d")
	check(path+".1", "boot c")
	check(path+".2", "boot b")
	check(path+".3", "boot a") // oldest generation dropped
}

func TestRotationNoExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring-mouse.log")
	f, err := openRotated(path)
	if err != nil {
		t.Fatalf("openRotated: %v", err)
	}
	f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
