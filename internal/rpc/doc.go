// Package rpc exposes the application over a newline-delimited JSON
// command protocol.
//
// Each request is a single JSON object on one line with a "method"
// string, an optional "id" echoed back verbatim, and an optional
// "params" object. Each response is one line carrying the same "id"
// and either a "result" value or an "error" string.
//
// Methods cover file access (open, signals, hierarchy, changes), the
// edit history (undo, redo, navigate, history, clear), view edits (addSignal,
// removeSignal, setMarker, removeMarker, setWindow) and batching
// (batch.begin, batch.end, batch.cancel). Apart from open, all methods
// act on the active session.
package rpc
