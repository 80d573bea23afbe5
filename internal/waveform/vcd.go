package waveform

import (
	"fmt"
	"sort"
	"strings"
)

// ToVCD renders a waveform as VCD text for interchange with standard
// waveform tooling. Scope declarations are grouped by path prefix and the
// change section is ordered by ascending time.
func ToVCD(w *Waveform) string {
	var b strings.Builder

	b.WriteString("$date\n")
	fmt.Fprintf(&b, "   %s\n", w.Header.Date)
	b.WriteString("$end\n")

	b.WriteString("$version\n")
	fmt.Fprintf(&b, "   WCP %s\n", w.Header.Version)
	b.WriteString("$end\n")

	fmt.Fprintf(&b, "$timescale %s $end\n", w.Header.Timescale)

	writeVCDScopes(&b, w)
	b.WriteString("$enddefinitions $end\n")
	writeVCDChanges(&b, w)

	return b.String()
}

// vcdID generates the identifier code for a signal index: a single
// printable ASCII character for the first 94 signals, "_<idx>" beyond.
func vcdID(signalID int) string {
	if signalID < 94 {
		return string(rune(signalID + 33))
	}
	return fmt.Sprintf("_%d", signalID)
}

func writeVCDScopes(b *strings.Builder, w *Waveform) {
	// Group signal indices by their scope path (path minus last component).
	scopes := make(map[string][]int)
	for i := range w.Signals {
		parts := splitPath(w.Signals[i].Path)
		scopePath := ""
		if len(parts) > 1 {
			scopePath = strings.Join(parts[:len(parts)-1], "/")
		}
		scopes[scopePath] = append(scopes[scopePath], i)
	}

	paths := make([]string, 0, len(scopes))
	for p := range scopes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, scopePath := range paths {
		var parts []string
		if scopePath != "" {
			parts = strings.Split(scopePath, "/")
		}

		for _, part := range parts {
			fmt.Fprintf(b, "$scope module %s $end\n", part)
		}

		for _, sigIdx := range scopes[scopePath] {
			sig := &w.Signals[sigIdx]
			name := sig.Name
			if p := splitPath(sig.Path); len(p) > 0 {
				name = p[len(p)-1]
			}
			fmt.Fprintf(b, "$var %s %d %s %s $end\n", sig.Type, sig.Width, vcdID(sigIdx), name)
		}

		for range parts {
			b.WriteString("$upscope $end\n")
		}
	}
}

func writeVCDChanges(b *strings.Builder, w *Waveform) {
	byTime := make(map[uint64][]*Change)
	for i := range w.Changes {
		c := &w.Changes[i]
		byTime[c.Time] = append(byTime[c.Time], c)
	}

	times := make([]uint64, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	for _, t := range times {
		fmt.Fprintf(b, "#%d\n", t)
		for _, c := range byTime[t] {
			if w.Signals[c.SignalID].Width == 1 {
				fmt.Fprintf(b, "%s%s\n", c.Value, vcdID(c.SignalID))
			} else {
				fmt.Fprintf(b, "b%s %s\n", c.Value, vcdID(c.SignalID))
			}
		}
	}
}
