package rpc

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/wavescope/wavescope/internal/app"
	"github.com/wavescope/wavescope/internal/engine/history"
	"github.com/wavescope/wavescope/internal/engine/view"
	"github.com/wavescope/wavescope/internal/event"
	"github.com/wavescope/wavescope/internal/waveform"
)

func handleOpen(s *Server, params gjson.Result) (string, error) {
	path := params.Get("path").String()
	if path == "" {
		return "", fmt.Errorf("%w: path", ErrMissingParam)
	}

	sess, err := s.app.Sessions().Open(path)
	if err != nil {
		return "", err
	}

	out, _ := sjson.Set(`{}`, "sessionId", sess.ID)
	out, _ = sjson.Set(out, "name", sess.Name)
	out, _ = sjson.Set(out, "signals", len(sess.Wave.Signals))
	out, _ = sjson.Set(out, "endTime", sess.Wave.EndTime())
	return out, nil
}

func handleSignals(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	out := `[]`
	for i, sig := range sess.Wave.Signals {
		item, _ := sjson.Set(`{}`, "id", i)
		item, _ = sjson.Set(item, "name", sig.Name)
		item, _ = sjson.Set(item, "path", sig.Path)
		item, _ = sjson.Set(item, "width", sig.Width)
		item, _ = sjson.Set(item, "type", sig.Type)
		out, _ = sjson.SetRaw(out, "-1", item)
	}
	return out, nil
}

func handleHierarchy(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}
	return scopeJSON(sess.Wave.Hierarchy()), nil
}

// scopeJSON renders a scope subtree, keeping empty vars/scopes as []
// rather than omitting them.
func scopeJSON(sc *waveform.Scope) string {
	out, _ := sjson.Set(`{"vars":[],"scopes":[]}`, "name", sc.Name)
	for _, v := range sc.Vars {
		item, _ := sjson.Set(`{}`, "name", v.Name)
		item, _ = sjson.Set(item, "id", v.SignalID)
		item, _ = sjson.Set(item, "width", v.Width)
		item, _ = sjson.Set(item, "type", v.Type)
		out, _ = sjson.SetRaw(out, "vars.-1", item)
	}
	for _, child := range sc.Scopes {
		out, _ = sjson.SetRaw(out, "scopes.-1", scopeJSON(child))
	}
	return out
}

func handleChanges(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	sig := params.Get("signal")
	if !sig.Exists() {
		return "", fmt.Errorf("%w: signal", ErrMissingParam)
	}
	id := int(sig.Int())
	if id < 0 || id >= len(sess.Wave.Signals) {
		return "", fmt.Errorf("no signal with id %d", id)
	}

	out := `[]`
	for _, c := range sess.Wave.ChangesFor(id) {
		item, _ := sjson.Set(`{}`, "time", c.Time)
		item, _ = sjson.Set(item, "value", c.Value)
		out, _ = sjson.SetRaw(out, "-1", item)
	}
	return out, nil
}

func handleUndo(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}
	if err := sess.History.Undo(); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleRedo(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}
	if err := sess.History.Redo(); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleNavigate(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	node := params.Get("node").String()
	if node == "" {
		return "", fmt.Errorf("%w: node", ErrMissingParam)
	}
	if err := sess.History.NavigateTo(history.NodeID(node)); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleHistory(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	tree := sess.History.Tree()
	current := tree.CurrentID()

	nodes := `[]`
	for _, n := range tree.Nodes() {
		item, _ := sjson.Set(`{"children":[]}`, "id", string(n.ID()))
		item, _ = sjson.Set(item, "parent", string(n.Parent()))
		item, _ = sjson.Set(item, "description", n.Description())
		item, _ = sjson.Set(item, "timestamp", n.Timestamp().Format(time.RFC3339Nano))
		item, _ = sjson.Set(item, "current", n.ID() == current)
		for _, c := range n.Children() {
			item, _ = sjson.Set(item, "children.-1", string(c))
		}
		nodes, _ = sjson.SetRaw(nodes, "-1", item)
	}

	out, _ := sjson.Set(`{}`, "root", string(tree.Root().ID()))
	out, _ = sjson.Set(out, "current", string(current))
	out, _ = sjson.SetRaw(out, "nodes", nodes)
	return out, nil
}

func handleClear(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	// The view is reset out-of-band; Clear does not undo anything.
	sess.View.Reset()
	sess.History.Clear()
	s.app.Bus().Publish(event.TopicViewChanged, event.ViewChanged{SessionID: sess.ID})
	return historyStatus(sess), nil
}

func handleAddSignal(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	sig := params.Get("signal")
	if !sig.Exists() {
		return "", fmt.Errorf("%w: signal", ErrMissingParam)
	}
	id := int(sig.Int())
	if id < 0 || id >= len(sess.Wave.Signals) {
		return "", fmt.Errorf("no signal with id %d", id)
	}

	ref := view.SignalRef{SignalID: id, Path: sess.Wave.Signals[id].Path}
	if err := sess.History.Execute(view.NewAddSignalOp(sess.View, ref)); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleRemoveSignal(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	index := params.Get("index")
	if !index.Exists() {
		return "", fmt.Errorf("%w: index", ErrMissingParam)
	}
	op := view.NewRemoveSignalOp(sess.View, int(index.Int()))
	if err := sess.History.Execute(op); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleSetMarker(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	name := params.Get("name").String()
	if name == "" {
		return "", fmt.Errorf("%w: name", ErrMissingParam)
	}
	t := params.Get("time")
	if !t.Exists() {
		return "", fmt.Errorf("%w: time", ErrMissingParam)
	}
	op := view.NewSetMarkerOp(sess.View, name, t.Uint())
	if err := sess.History.Execute(op); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleRemoveMarker(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	name := params.Get("name").String()
	if name == "" {
		return "", fmt.Errorf("%w: name", ErrMissingParam)
	}
	if err := sess.History.Execute(view.NewRemoveMarkerOp(sess.View, name)); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleSetWindow(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}

	start := params.Get("start").Uint()
	end := params.Get("end").Uint()
	if end < start {
		return "", fmt.Errorf("window end %d before start %d", end, start)
	}
	op := view.NewSetWindowOp(sess.View, view.TimeRange{Start: start, End: end})
	if err := sess.History.Execute(op); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleBatchBegin(s *Server, params gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}
	if err := sess.History.BeginBatch(params.Get("description").String()); err != nil {
		return "", err
	}
	return "", nil
}

func handleBatchEnd(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}
	if err := sess.History.EndBatch(); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

func handleBatchCancel(s *Server, _ gjson.Result) (string, error) {
	sess, err := s.activeSession()
	if err != nil {
		return "", err
	}
	if err := sess.History.CancelBatch(); err != nil {
		return "", err
	}
	return historyStatus(sess), nil
}

// historyStatus is the common result for history-mutating methods.
func historyStatus(sess *app.Session) string {
	out, _ := sjson.Set(`{}`, "node", string(sess.History.Tree().CurrentID()))
	out, _ = sjson.Set(out, "canUndo", sess.History.CanUndo())
	out, _ = sjson.Set(out, "canRedo", sess.History.CanRedo())
	return out
}
