package app

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wavescope/wavescope/internal/engine/history"
	"github.com/wavescope/wavescope/internal/engine/view"
	"github.com/wavescope/wavescope/internal/event"
	"github.com/wavescope/wavescope/internal/waveform"
)

// Session is one open waveform file with its view state and history.
type Session struct {
	// ID uniquely identifies the session for its lifetime.
	ID string

	// Path is the absolute file path.
	Path string

	// Name is the display name (filename).
	Name string

	// Wave is the parsed waveform, immutable after open.
	Wave *waveform.Waveform

	// View is the mutable presentation state, changed only through
	// history operations.
	View *view.State

	// History is the session's own branching undo coordinator.
	History *history.Coordinator
}

// NewSession creates a session around a parsed waveform and wires its
// history change notification to the bus.
func NewSession(path string, wave *waveform.Waveform, bus *event.Bus) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Path:    path,
		Name:    filepath.Base(path),
		Wave:    wave,
		View:    view.NewState(),
		History: history.NewCoordinator(),
	}

	if bus != nil {
		s.History.SetOnChange(func() {
			bus.Publish(event.TopicHistoryChanged, event.HistoryChanged{SessionID: s.ID})
		})
	}

	return s
}

// SessionManager manages all open sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // path -> session
	order    []string
	active   *Session
	bus      *event.Bus
}

// NewSessionManager creates an empty session manager.
func NewSessionManager(bus *event.Bus) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		bus:      bus,
	}
}

// Open opens a waveform file and makes it the active session. Opening an
// already open path re-activates the existing session.
func (sm *SessionManager) Open(path string) (*Session, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, exists := sm.sessions[absPath]; exists {
		sm.active = s
		return s, nil
	}

	wave, err := loadWaveform(absPath)
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}

	s := NewSession(absPath, wave, sm.bus)
	sm.sessions[absPath] = s
	sm.order = append(sm.order, absPath)
	sm.active = s

	if sm.bus != nil {
		sm.bus.Publish(event.TopicSessionOpened, event.SessionOpened{SessionID: s.ID, Path: absPath})
	}

	return s, nil
}

// loadWaveform parses a waveform file by extension.
func loadWaveform(path string) (*waveform.Waveform, error) {
	if strings.ToLower(filepath.Ext(path)) != ".wcp" {
		return nil, ErrUnsupportedFormat
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return waveform.ParseWCP(f)
}

// Close closes a session by path.
func (sm *SessionManager) Close(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, exists := sm.sessions[absPath]
	if !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, absPath)
	for i, p := range sm.order {
		if p == absPath {
			sm.order = append(sm.order[:i], sm.order[i+1:]...)
			break
		}
	}

	if sm.active == s {
		if len(sm.order) > 0 {
			sm.active = sm.sessions[sm.order[len(sm.order)-1]]
		} else {
			sm.active = nil
		}
	}

	if sm.bus != nil {
		sm.bus.Publish(event.TopicSessionClosed, event.SessionClosed{SessionID: s.ID})
	}

	return nil
}

// Active returns the currently active session, or nil.
func (sm *SessionManager) Active() *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.active
}

// SetActive makes a session active by path.
func (sm *SessionManager) SetActive(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, exists := sm.sessions[absPath]
	if !exists {
		return ErrSessionNotFound
	}
	sm.active = s
	return nil
}

// Get returns a session by path.
func (sm *SessionManager) Get(path string) (*Session, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, exists := sm.sessions[absPath]
	return s, exists
}

// All returns all open sessions in open order.
func (sm *SessionManager) All() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := make([]*Session, 0, len(sm.sessions))
	for _, p := range sm.order {
		if s, exists := sm.sessions[p]; exists {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the number of open sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
