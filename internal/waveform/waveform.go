// Package waveform provides the waveform data model: parsed signal
// definitions, value changes over time, and the scope hierarchy derived
// from signal paths. The native on-disk format is WCP, a simple text-based
// waveform format; see wcp.go. vcd.go converts to VCD for interchange.
package waveform

import "strings"

// Header holds file-level metadata.
type Header struct {
	Version   string
	Timescale string
	Date      string
}

// Signal describes one signal declared in the SIGNALS section.
type Signal struct {
	// Name is the short id used in the WAVEFORM section.
	Name string

	// Path is the full hierarchical path, e.g. "/top/cpu/clk".
	Path string

	// Width is the bit width, at least 1.
	Width int

	// Type is the signal type, e.g. "wire" or "reg".
	Type string
}

// Change records one value change of one signal at one time.
type Change struct {
	// Time in units of the header timescale.
	Time uint64

	// SignalID indexes into Waveform.Signals.
	SignalID int

	// Value is the raw value text, e.g. "0", "1", "FF".
	Value string
}

// Waveform is one fully parsed waveform file.
type Waveform struct {
	Header  Header
	Signals []Signal
	Changes []Change
}

// SignalByName returns the index of the signal with the given short name.
func (w *Waveform) SignalByName(name string) (int, bool) {
	for i := range w.Signals {
		if w.Signals[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// ChangesFor returns the changes of one signal in file order.
func (w *Waveform) ChangesFor(signalID int) []Change {
	var out []Change
	for _, c := range w.Changes {
		if c.SignalID == signalID {
			out = append(out, c)
		}
	}
	return out
}

// EndTime returns the largest change time, or 0 for an empty waveform.
func (w *Waveform) EndTime() uint64 {
	var end uint64
	for _, c := range w.Changes {
		if c.Time > end {
			end = c.Time
		}
	}
	return end
}

// Var is a signal as seen from the scope hierarchy.
type Var struct {
	// Name is the last path component.
	Name string

	// SignalID indexes into Waveform.Signals.
	SignalID int

	Width int
	Type  string
}

// Scope is one level of the signal hierarchy.
type Scope struct {
	Name   string
	Vars   []Var
	Scopes []*Scope
}

// child returns the sub-scope with the given name, creating it on demand.
func (s *Scope) child(name string) *Scope {
	for _, sub := range s.Scopes {
		if sub.Name == name {
			return sub
		}
	}
	sub := &Scope{Name: name}
	s.Scopes = append(s.Scopes, sub)
	return sub
}

// Hierarchy builds the scope tree from the signal paths. Path components
// except the last become nested scopes in first-seen order; the last
// component becomes a Var in its enclosing scope. Signals with single
// component paths land directly under the root scope.
func (w *Waveform) Hierarchy() *Scope {
	root := &Scope{Name: "root"}

	for i := range w.Signals {
		sig := &w.Signals[i]
		parts := splitPath(sig.Path)

		// A path of only slashes has no components; the signal becomes a
		// root-level var under its declared name.
		scope := root
		name := sig.Name
		if len(parts) > 0 {
			for _, part := range parts[:len(parts)-1] {
				scope = scope.child(part)
			}
			name = parts[len(parts)-1]
		}
		scope.Vars = append(scope.Vars, Var{
			Name:     name,
			SignalID: i,
			Width:    sig.Width,
			Type:     sig.Type,
		})
	}

	return root
}

// splitPath splits a hierarchical path on '/', dropping empty components.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
