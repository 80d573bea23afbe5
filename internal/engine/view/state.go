// Package view holds the mutable presentation state for one open waveform:
// the ordered list of displayed signals, named time markers, and the
// visible time window. All mutations go through the operations in
// command.go so that every change is recorded in the history tree and can
// be undone, redone, or branched.
package view

import (
	"errors"
	"fmt"
)

// State mutation errors.
var (
	ErrIndexOutOfRange = errors.New("signal index out of range")
	ErrNoSuchMarker    = errors.New("no such marker")
)

// TimeRange is the visible time window in timescale units.
type TimeRange struct {
	Start uint64
	End   uint64
}

// SignalRef identifies one displayed signal.
type SignalRef struct {
	// SignalID indexes into the waveform's signal table.
	SignalID int

	// Path is the signal's full hierarchical path, used as the display
	// label.
	Path string
}

// State is the view state of a single document. It is owned by one session
// and mutated only through operations; see the package comment.
type State struct {
	signals []SignalRef
	markers map[string]uint64
	window  TimeRange
}

// NewState creates an empty view state.
func NewState() *State {
	return &State{
		markers: make(map[string]uint64),
	}
}

// Signals returns the displayed signals in display order.
func (s *State) Signals() []SignalRef {
	out := make([]SignalRef, len(s.signals))
	copy(out, s.signals)
	return out
}

// SignalCount returns the number of displayed signals.
func (s *State) SignalCount() int {
	return len(s.signals)
}

// Marker returns a marker's time by name.
func (s *State) Marker(name string) (uint64, bool) {
	t, ok := s.markers[name]
	return t, ok
}

// Markers returns a copy of the marker table.
func (s *State) Markers() map[string]uint64 {
	out := make(map[string]uint64, len(s.markers))
	for k, v := range s.markers {
		out[k] = v
	}
	return out
}

// Window returns the visible time window.
func (s *State) Window() TimeRange {
	return s.window
}

// Reset discards all view state. This is the out-of-band reset that
// accompanies clearing the history tree; it does not go through an
// operation and is not undoable.
func (s *State) Reset() {
	s.signals = nil
	s.markers = make(map[string]uint64)
	s.window = TimeRange{}
}

// insertSignal inserts ref at index (0 <= index <= len).
func (s *State) insertSignal(index int, ref SignalRef) error {
	if index < 0 || index > len(s.signals) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.signals = append(s.signals, SignalRef{})
	copy(s.signals[index+1:], s.signals[index:])
	s.signals[index] = ref
	return nil
}

// removeSignal removes and returns the signal at index.
func (s *State) removeSignal(index int) (SignalRef, error) {
	if index < 0 || index >= len(s.signals) {
		return SignalRef{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	ref := s.signals[index]
	s.signals = append(s.signals[:index], s.signals[index+1:]...)
	return ref, nil
}

// moveSignal moves the signal at from to position to.
func (s *State) moveSignal(from, to int) error {
	if from < 0 || from >= len(s.signals) || to < 0 || to >= len(s.signals) {
		return fmt.Errorf("%w: %d -> %d", ErrIndexOutOfRange, from, to)
	}
	ref := s.signals[from]
	s.signals = append(s.signals[:from], s.signals[from+1:]...)
	s.signals = append(s.signals, SignalRef{})
	copy(s.signals[to+1:], s.signals[to:])
	s.signals[to] = ref
	return nil
}

func (s *State) setMarker(name string, t uint64) {
	s.markers[name] = t
}

func (s *State) deleteMarker(name string) {
	delete(s.markers, name)
}

func (s *State) setWindow(w TimeRange) {
	s.window = w
}
