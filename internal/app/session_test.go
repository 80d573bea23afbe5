package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wavescope/wavescope/internal/engine/view"
	"github.com/wavescope/wavescope/internal/event"
)

const testWCP = `
HEADER
version: 1.0
timescale: 1ns
date: 2026-02-11
END_HEADER

SIGNALS
clk: /top/clk width:1 type:wire
data: /top/data width:8 type:reg
END_SIGNALS

WAVEFORM
0: clk=0, data=00
10: clk=1
END_WAVEFORM
`

func writeTestWave(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wcp")
	if err := os.WriteFile(path, []byte(testWCP), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSessionManagerOpen(t *testing.T) {
	bus := event.NewBus()
	sm := NewSessionManager(bus)

	var opened []event.SessionOpened
	bus.Subscribe(event.TopicSessionOpened, func(e any) {
		opened = append(opened, e.(event.SessionOpened))
	})

	path := writeTestWave(t)
	s, err := sm.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if s.Name != "test.wcp" {
		t.Errorf("name = %q", s.Name)
	}
	if s.ID == "" {
		t.Error("session id not set")
	}
	if len(s.Wave.Signals) != 2 {
		t.Errorf("got %d signals, want 2", len(s.Wave.Signals))
	}
	if sm.Active() != s {
		t.Error("opened session should be active")
	}
	if sm.Count() != 1 {
		t.Errorf("count = %d, want 1", sm.Count())
	}
	if len(opened) != 1 || opened[0].SessionID != s.ID {
		t.Errorf("opened events = %v", opened)
	}

	// Re-opening the same path returns the existing session.
	again, err := sm.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if again != s || sm.Count() != 1 {
		t.Error("reopen should return the existing session")
	}
}

func TestSessionManagerOpenErrors(t *testing.T) {
	sm := NewSessionManager(nil)

	if _, err := sm.Open(filepath.Join(t.TempDir(), "missing.wcp")); err == nil {
		t.Error("expected an error for a missing file")
	}

	badPath := filepath.Join(t.TempDir(), "wave.bin")
	if err := os.WriteFile(badPath, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Open(badPath); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSessionManagerClose(t *testing.T) {
	bus := event.NewBus()
	sm := NewSessionManager(bus)

	closed := 0
	bus.Subscribe(event.TopicSessionClosed, func(any) { closed++ })

	path := writeTestWave(t)
	if _, err := sm.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := sm.Close(path); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sm.Count() != 0 {
		t.Errorf("count = %d, want 0", sm.Count())
	}
	if sm.Active() != nil {
		t.Error("active should be nil after closing the only session")
	}
	if closed != 1 {
		t.Errorf("closed events = %d, want 1", closed)
	}

	if err := sm.Close(path); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionHistoryNotifiesBus(t *testing.T) {
	bus := event.NewBus()
	sm := NewSessionManager(bus)

	var changes []event.HistoryChanged
	bus.Subscribe(event.TopicHistoryChanged, func(e any) {
		changes = append(changes, e.(event.HistoryChanged))
	})

	s, err := sm.Open(writeTestWave(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	op := view.NewAddSignalOp(s.View, view.SignalRef{SignalID: 0, Path: "/top/clk"})
	if err := s.History.Execute(op); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := s.History.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}

	if len(changes) != 2 {
		t.Fatalf("got %d history events, want 2", len(changes))
	}
	for _, c := range changes {
		if c.SessionID != s.ID {
			t.Errorf("event for session %q, want %q", c.SessionID, s.ID)
		}
	}
}

func TestSessionsHaveIndependentHistories(t *testing.T) {
	sm := NewSessionManager(nil)

	a, err := sm.Open(writeTestWave(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	b, err := sm.Open(writeTestWave(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	a.History.Execute(view.NewAddSignalOp(a.View, view.SignalRef{Path: "/top/clk"}))

	if a.History.Tree().Size() != 2 {
		t.Errorf("session a tree size = %d, want 2", a.History.Tree().Size())
	}
	if b.History.Tree().Size() != 1 {
		t.Errorf("session b tree size = %d, want 1 (histories must not interfere)", b.History.Tree().Size())
	}
	if !a.History.CanUndo() || b.History.CanUndo() {
		t.Error("undo availability leaked across sessions")
	}
}
