package rpc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/wavescope/wavescope/internal/app"
)

// ErrMissingParam reports a request lacking a required parameter.
var ErrMissingParam = errors.New("missing required parameter")

// Handler processes the params of one request and returns the raw JSON
// for the result field.
type Handler func(s *Server, params gjson.Result) (string, error)

// Server reads requests line by line and writes one response line per
// request. Responses for a single Serve loop are written in request
// order.
type Server struct {
	app      *app.Application
	logger   *app.Logger
	handlers map[string]Handler

	mu sync.Mutex
	w  io.Writer
}

// NewServer creates a server bound to an application and a response
// writer.
func NewServer(application *app.Application, w io.Writer) *Server {
	s := &Server{
		app:    application,
		logger: application.Logger().WithComponent("rpc"),
		w:      w,
	}
	s.handlers = map[string]Handler{
		"open":         handleOpen,
		"signals":      handleSignals,
		"hierarchy":    handleHierarchy,
		"changes":      handleChanges,
		"undo":         handleUndo,
		"redo":         handleRedo,
		"navigate":     handleNavigate,
		"history":      handleHistory,
		"clear":        handleClear,
		"addSignal":    handleAddSignal,
		"removeSignal": handleRemoveSignal,
		"setMarker":    handleSetMarker,
		"removeMarker": handleRemoveMarker,
		"setWindow":    handleSetWindow,
		"batch.begin":  handleBatchBegin,
		"batch.end":    handleBatchEnd,
		"batch.cancel": handleBatchCancel,
	}
	return s
}

// Serve reads requests from r until EOF or context cancellation.
func (s *Server) Serve(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.dispatch(line)
	}
	return scanner.Err()
}

func (s *Server) dispatch(line string) {
	if !gjson.Valid(line) {
		s.writeError("null", "invalid JSON")
		return
	}

	idRaw := "null"
	if id := gjson.Get(line, "id"); id.Exists() {
		idRaw = id.Raw
	}

	method := gjson.Get(line, "method").String()
	handler, ok := s.handlers[method]
	if !ok {
		s.writeError(idRaw, fmt.Sprintf("unknown method %q", method))
		return
	}

	result, err := handler(s, gjson.Get(line, "params"))
	if err != nil {
		s.logger.Debug("%s failed: %v", method, err)
		s.writeError(idRaw, err.Error())
		return
	}
	if result == "" {
		result = "{}"
	}

	resp, _ := sjson.SetRaw(`{}`, "id", idRaw)
	resp, _ = sjson.SetRaw(resp, "result", result)
	s.writeLine(resp)
}

func (s *Server) writeError(idRaw, msg string) {
	resp, _ := sjson.SetRaw(`{}`, "id", idRaw)
	resp, _ = sjson.Set(resp, "error", msg)
	s.writeLine(resp)
}

func (s *Server) writeLine(resp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, resp+"\n"); err != nil {
		s.logger.Error("write failed: %v", err)
	}
}

// activeSession resolves the session all non-open methods act on.
func (s *Server) activeSession() (*app.Session, error) {
	sess := s.app.Sessions().Active()
	if sess == nil {
		return nil, app.ErrNoActiveSession
	}
	return sess, nil
}
