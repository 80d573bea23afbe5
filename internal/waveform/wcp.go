package waveform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WCP parsing errors.
var (
	ErrInvalidFormat  = errors.New("invalid wcp format")
	ErrMissingSection = errors.New("missing wcp section")
)

// wcpSection tracks which block of the file is being parsed.
type wcpSection int

const (
	sectionNone wcpSection = iota
	sectionHeader
	sectionSignals
	sectionWaveform
)

// ParseWCP reads a WCP waveform file. The format is line oriented with
// three sections:
//
//	HEADER
//	version: 1.0
//	timescale: 1ns
//	date: 2026-02-11
//	END_HEADER
//
//	SIGNALS
//	clk: /top/clk width:1 type:wire
//	END_SIGNALS
//
//	WAVEFORM
//	0: clk=0, data=00
//	10: clk=1
//	END_WAVEFORM
//
// Empty lines and '#' comments are skipped. Value changes naming an
// undeclared signal are ignored. A missing HEADER section or an empty
// SIGNALS section is an error.
func ParseWCP(r io.Reader) (*Waveform, error) {
	scanner := bufio.NewScanner(r)

	var (
		header    *Header
		signals   []Signal
		changes   []Change
		section   = sectionNone
		sawHeader = false
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch line {
		case "HEADER":
			section = sectionHeader
			continue
		case "END_HEADER":
			section = sectionNone
			continue
		case "SIGNALS":
			section = sectionSignals
			continue
		case "END_SIGNALS":
			section = sectionNone
			continue
		case "WAVEFORM":
			section = sectionWaveform
			continue
		case "END_WAVEFORM":
			section = sectionNone
			continue
		}

		switch section {
		case sectionHeader:
			if header == nil {
				header = &Header{}
				sawHeader = true
			}
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			switch key {
			case "version":
				header.Version = value
			case "timescale":
				header.Timescale = value
			case "date":
				header.Date = value
			}

		case sectionSignals:
			sig, ok := parseSignalLine(line)
			if ok {
				signals = append(signals, sig)
			}

		case sectionWaveform:
			lineChanges, err := parseChangeLine(line, signals)
			if err != nil {
				return nil, err
			}
			changes = append(changes, lineChanges...)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading wcp: %w", err)
	}

	if !sawHeader {
		return nil, fmt.Errorf("%w: HEADER", ErrMissingSection)
	}
	if len(signals) == 0 {
		return nil, fmt.Errorf("%w: SIGNALS", ErrMissingSection)
	}

	return &Waveform{
		Header:  *header,
		Signals: signals,
		Changes: changes,
	}, nil
}

// parseSignalLine parses "name: /path width:N type:T". The width and type
// attributes are optional and default to 1 and "wire".
func parseSignalLine(line string) (Signal, bool) {
	name, rest, ok := strings.Cut(line, ":")
	if !ok {
		return Signal{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Signal{}, false
	}

	sig := Signal{
		Name:  strings.TrimSpace(name),
		Path:  fields[0],
		Width: 1,
		Type:  "wire",
	}

	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		switch key {
		case "width":
			if w, err := strconv.Atoi(value); err == nil {
				sig.Width = w
			}
		case "type":
			sig.Type = value
		}
	}

	return sig, true
}

// parseChangeLine parses "time: name=value, name=value". Changes naming an
// unknown signal are skipped; a malformed time is an error.
func parseChangeLine(line string, signals []Signal) ([]Change, error) {
	timeStr, values, ok := strings.Cut(line, ":")
	if !ok {
		return nil, nil
	}

	t, err := strconv.ParseUint(strings.TrimSpace(timeStr), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time %q", ErrInvalidFormat, strings.TrimSpace(timeStr))
	}

	var changes []Change
	for _, part := range strings.Split(values, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		for i := range signals {
			if signals[i].Name == name {
				changes = append(changes, Change{
					Time:     t,
					SignalID: i,
					Value:    value,
				})
				break
			}
		}
	}

	return changes, nil
}
