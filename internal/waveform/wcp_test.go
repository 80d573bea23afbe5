package waveform

import (
	"errors"
	"strings"
	"testing"
)

const sampleWCP = `
# Test WCP file
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
20: clk=0, data=FF
30: clk=1
END_WAVEFORM
`

func TestParseWCP(t *testing.T) {
	w, err := ParseWCP(strings.NewReader(sampleWCP))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}

	if w.Header.Version != "1.0" {
		t.Errorf("version = %q, want %q", w.Header.Version, "1.0")
	}
	if w.Header.Timescale != "1ns" {
		t.Errorf("timescale = %q, want %q", w.Header.Timescale, "1ns")
	}
	if w.Header.Date != "2026-02-11" {
		t.Errorf("date = %q", w.Header.Date)
	}

	if len(w.Signals) != 2 {
		t.Fatalf("got %d signals, want 2", len(w.Signals))
	}
	if w.Signals[0].Name != "clk" || w.Signals[0].Path != "/top/clk" {
		t.Errorf("signal 0 = %+v", w.Signals[0])
	}
	if w.Signals[1].Name != "data" || w.Signals[1].Width != 8 || w.Signals[1].Type != "reg" {
		t.Errorf("signal 1 = %+v", w.Signals[1])
	}

	if len(w.Changes) != 6 {
		t.Fatalf("got %d changes, want 6", len(w.Changes))
	}
	if w.Changes[0] != (Change{Time: 0, SignalID: 0, Value: "0"}) {
		t.Errorf("change 0 = %+v", w.Changes[0])
	}
	if w.Changes[1] != (Change{Time: 0, SignalID: 1, Value: "00"}) {
		t.Errorf("change 1 = %+v", w.Changes[1])
	}

	if w.EndTime() != 30 {
		t.Errorf("EndTime = %d, want 30", w.EndTime())
	}
}

func TestParseWCPDefaults(t *testing.T) {
	input := `
HEADER
version: 1.0
END_HEADER
SIGNALS
x: /x
END_SIGNALS
`
	w, err := ParseWCP(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}
	if w.Signals[0].Width != 1 || w.Signals[0].Type != "wire" {
		t.Errorf("defaults not applied: %+v", w.Signals[0])
	}
}

func TestParseWCPErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"garbage", "invalid data", ErrMissingSection},
		{"no signals", "HEADER\nversion: 1\nEND_HEADER\nSIGNALS\nEND_SIGNALS\n", ErrMissingSection},
		{"no header", "SIGNALS\nx: /x\nEND_SIGNALS\n", ErrMissingSection},
		{
			"bad time",
			"HEADER\nversion: 1\nEND_HEADER\nSIGNALS\nx: /x\nEND_SIGNALS\nWAVEFORM\nabc: x=1\nEND_WAVEFORM\n",
			ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWCP(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseWCPUnknownSignalSkipped(t *testing.T) {
	input := `
HEADER
version: 1.0
END_HEADER
SIGNALS
clk: /top/clk
END_SIGNALS
WAVEFORM
0: clk=0, ghost=1
END_WAVEFORM
`
	w, err := ParseWCP(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}
	if len(w.Changes) != 1 {
		t.Errorf("got %d changes, want 1 (unknown signals skipped)", len(w.Changes))
	}
}

func TestSignalByName(t *testing.T) {
	w, err := ParseWCP(strings.NewReader(sampleWCP))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}

	id, ok := w.SignalByName("data")
	if !ok || id != 1 {
		t.Errorf("SignalByName(data) = %d, %v", id, ok)
	}
	if _, ok := w.SignalByName("ghost"); ok {
		t.Error("SignalByName should miss for unknown names")
	}
}

func TestChangesFor(t *testing.T) {
	w, err := ParseWCP(strings.NewReader(sampleWCP))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}

	clk := w.ChangesFor(0)
	if len(clk) != 4 {
		t.Fatalf("got %d clk changes, want 4", len(clk))
	}
	wantTimes := []uint64{0, 10, 20, 30}
	for i, c := range clk {
		if c.Time != wantTimes[i] {
			t.Errorf("clk change %d at time %d, want %d", i, c.Time, wantTimes[i])
		}
	}
}

func TestHierarchy(t *testing.T) {
	input := `
HEADER
version: 1.0
END_HEADER
SIGNALS
clk: /top/clk width:1
d: /top/cpu/data width:8 type:reg
rst: rst width:1
END_SIGNALS
`
	w, err := ParseWCP(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}

	root := w.Hierarchy()
	if root.Name != "root" {
		t.Errorf("root name = %q", root.Name)
	}

	// rst has a single-component path and lands under root.
	if len(root.Vars) != 1 || root.Vars[0].Name != "rst" {
		t.Errorf("root vars = %+v", root.Vars)
	}

	if len(root.Scopes) != 1 || root.Scopes[0].Name != "top" {
		t.Fatalf("root scopes = %+v", root.Scopes)
	}
	top := root.Scopes[0]
	if len(top.Vars) != 1 || top.Vars[0].Name != "clk" || top.Vars[0].SignalID != 0 {
		t.Errorf("top vars = %+v", top.Vars)
	}
	if len(top.Scopes) != 1 || top.Scopes[0].Name != "cpu" {
		t.Fatalf("top scopes = %+v", top.Scopes)
	}
	cpu := top.Scopes[0]
	if len(cpu.Vars) != 1 || cpu.Vars[0].Name != "data" || cpu.Vars[0].Width != 8 {
		t.Errorf("cpu vars = %+v", cpu.Vars)
	}
}

func TestHierarchySlashOnlyPath(t *testing.T) {
	// A path of bare slashes has no components; the signal must land
	// under root with its declared name instead of crashing.
	input := `
HEADER
version: 1.0
END_HEADER
SIGNALS
s: / width:1 type:wire
clk: /top/clk width:1
END_SIGNALS
`
	w, err := ParseWCP(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseWCP failed: %v", err)
	}

	root := w.Hierarchy()
	if len(root.Vars) != 1 || root.Vars[0].Name != "s" {
		t.Errorf("root vars = %+v", root.Vars)
	}
	if len(root.Scopes) != 1 || root.Scopes[0].Name != "top" {
		t.Errorf("root scopes = %+v", root.Scopes)
	}
}
