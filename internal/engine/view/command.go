package view

import (
	"fmt"

	"github.com/wavescope/wavescope/internal/engine/history"
)

// AddSignalOp appends a signal to the display list.
type AddSignalOp struct {
	state *State
	ref   SignalRef
	index int
}

// NewAddSignalOp creates an operation that adds ref to the end of the
// display list.
func NewAddSignalOp(state *State, ref SignalRef) *AddSignalOp {
	return &AddSignalOp{state: state, ref: ref}
}

// Do appends the signal, remembering its position for Undo.
func (o *AddSignalOp) Do() error {
	o.index = len(o.state.signals)
	return o.state.insertSignal(o.index, o.ref)
}

// Undo removes the signal added by Do.
func (o *AddSignalOp) Undo() error {
	_, err := o.state.removeSignal(o.index)
	return err
}

// Redo re-inserts the signal at its recorded position.
func (o *AddSignalOp) Redo() error {
	return o.state.insertSignal(o.index, o.ref)
}

// Description returns a human-readable label.
func (o *AddSignalOp) Description() string {
	return "Add signal " + o.ref.Path
}

// RemoveSignalOp removes a signal from the display list.
type RemoveSignalOp struct {
	state   *State
	index   int
	removed SignalRef
}

// NewRemoveSignalOp creates an operation that removes the signal at index.
func NewRemoveSignalOp(state *State, index int) *RemoveSignalOp {
	return &RemoveSignalOp{state: state, index: index}
}

// Do removes the signal, capturing it for Undo.
func (o *RemoveSignalOp) Do() error {
	ref, err := o.state.removeSignal(o.index)
	if err != nil {
		return err
	}
	o.removed = ref
	return nil
}

// Undo restores the removed signal at its original position.
func (o *RemoveSignalOp) Undo() error {
	return o.state.insertSignal(o.index, o.removed)
}

// Redo removes the signal again.
func (o *RemoveSignalOp) Redo() error {
	_, err := o.state.removeSignal(o.index)
	return err
}

// Description returns a human-readable label.
func (o *RemoveSignalOp) Description() string {
	if o.removed.Path != "" {
		return "Remove signal " + o.removed.Path
	}
	return fmt.Sprintf("Remove signal at %d", o.index)
}

// MoveSignalOp reorders the display list.
type MoveSignalOp struct {
	state    *State
	from, to int
}

// NewMoveSignalOp creates an operation that moves the signal at from to
// position to.
func NewMoveSignalOp(state *State, from, to int) *MoveSignalOp {
	return &MoveSignalOp{state: state, from: from, to: to}
}

// Do moves the signal.
func (o *MoveSignalOp) Do() error {
	return o.state.moveSignal(o.from, o.to)
}

// Undo moves it back.
func (o *MoveSignalOp) Undo() error {
	return o.state.moveSignal(o.to, o.from)
}

// Redo moves the signal again.
func (o *MoveSignalOp) Redo() error {
	return o.state.moveSignal(o.from, o.to)
}

// Description returns a human-readable label.
func (o *MoveSignalOp) Description() string {
	return fmt.Sprintf("Move signal %d to %d", o.from, o.to)
}

// SetMarkerOp places or moves a named time marker.
type SetMarkerOp struct {
	state *State
	name  string
	time  uint64

	prev    uint64
	hadPrev bool
}

// NewSetMarkerOp creates an operation that sets marker name to time.
func NewSetMarkerOp(state *State, name string, time uint64) *SetMarkerOp {
	return &SetMarkerOp{state: state, name: name, time: time}
}

// Do sets the marker, capturing any previous position for Undo.
func (o *SetMarkerOp) Do() error {
	o.prev, o.hadPrev = o.state.Marker(o.name)
	o.state.setMarker(o.name, o.time)
	return nil
}

// Undo restores the previous position, or removes the marker if it was new.
func (o *SetMarkerOp) Undo() error {
	if o.hadPrev {
		o.state.setMarker(o.name, o.prev)
	} else {
		o.state.deleteMarker(o.name)
	}
	return nil
}

// Redo sets the marker again.
func (o *SetMarkerOp) Redo() error {
	return o.Do()
}

// Description returns a human-readable label.
func (o *SetMarkerOp) Description() string {
	return fmt.Sprintf("Set marker %s to %d", o.name, o.time)
}

// RemoveMarkerOp deletes a named marker.
type RemoveMarkerOp struct {
	state *State
	name  string
	prev  uint64
}

// NewRemoveMarkerOp creates an operation that removes marker name.
func NewRemoveMarkerOp(state *State, name string) *RemoveMarkerOp {
	return &RemoveMarkerOp{state: state, name: name}
}

// Do removes the marker, capturing its position for Undo. Fails with
// ErrNoSuchMarker if the marker does not exist.
func (o *RemoveMarkerOp) Do() error {
	prev, ok := o.state.Marker(o.name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchMarker, o.name)
	}
	o.prev = prev
	o.state.deleteMarker(o.name)
	return nil
}

// Undo restores the marker.
func (o *RemoveMarkerOp) Undo() error {
	o.state.setMarker(o.name, o.prev)
	return nil
}

// Redo removes the marker again.
func (o *RemoveMarkerOp) Redo() error {
	return o.Do()
}

// Description returns a human-readable label.
func (o *RemoveMarkerOp) Description() string {
	return "Remove marker " + o.name
}

// SetWindowOp changes the visible time window (zoom or pan).
type SetWindowOp struct {
	state  *State
	window TimeRange
	prev   TimeRange
}

// NewSetWindowOp creates an operation that sets the visible window.
func NewSetWindowOp(state *State, window TimeRange) *SetWindowOp {
	return &SetWindowOp{state: state, window: window}
}

// Do sets the window, capturing the previous one for Undo.
func (o *SetWindowOp) Do() error {
	o.prev = o.state.Window()
	o.state.setWindow(o.window)
	return nil
}

// Undo restores the previous window.
func (o *SetWindowOp) Undo() error {
	o.state.setWindow(o.prev)
	return nil
}

// Redo sets the window again.
func (o *SetWindowOp) Redo() error {
	return o.Do()
}

// Description returns a human-readable label.
func (o *SetWindowOp) Description() string {
	return fmt.Sprintf("Set window [%d, %d]", o.window.Start, o.window.End)
}

// Compile-time interface checks.
var (
	_ history.Operation = (*AddSignalOp)(nil)
	_ history.Operation = (*RemoveSignalOp)(nil)
	_ history.Operation = (*MoveSignalOp)(nil)
	_ history.Operation = (*SetMarkerOp)(nil)
	_ history.Operation = (*RemoveMarkerOp)(nil)
	_ history.Operation = (*SetWindowOp)(nil)
)
