package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithDefaults(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Logger() == nil || app.Bus() == nil || app.Sessions() == nil {
		t.Fatal("application wiring incomplete")
	}
	if app.Config().View.Timescale != "1ns" {
		t.Errorf("timescale = %q, want default", app.Config().View.Timescale)
	}
}

func TestNewWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "wavescope.toml")
	cfgData := "[log]\nlevel = \"debug\"\n\n[view]\nmarker_prefix = \"cursor\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Config().Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", app.Config().Log.Level)
	}
	if app.Config().View.MarkerPrefix != "cursor" {
		t.Errorf("marker prefix = %q, want cursor", app.Config().View.MarkerPrefix)
	}
}

func TestNewOpensStartupFiles(t *testing.T) {
	path := writeTestWave(t)

	app, err := New(Options{Files: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Sessions().Count() != 1 {
		t.Fatalf("count = %d, want 1", app.Sessions().Count())
	}
	if app.Sessions().Active() == nil {
		t.Fatal("startup file should be the active session")
	}
}

func TestNewSurvivesBadStartupFile(t *testing.T) {
	// Unopenable files are logged and skipped, not fatal.
	app, err := New(Options{Files: []string{filepath.Join(t.TempDir(), "missing.wcp")}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Shutdown()

	if app.Sessions().Count() != 0 {
		t.Errorf("count = %d, want 0", app.Sessions().Count())
	}
}

func TestOperationError(t *testing.T) {
	inner := errors.New("boom")
	err := NewOperationError("open", "/tmp/a.wcp", inner)

	if !errors.Is(err, inner) {
		t.Error("OperationError must unwrap to the inner error")
	}
	msg := err.Error()
	if msg == "" || msg == inner.Error() {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	app.Shutdown()
	app.Shutdown()
}
