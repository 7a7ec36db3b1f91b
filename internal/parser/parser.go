package parser

import (
	"fmt"
	"unicode"
)

// Mode selects how candidate lines that fail to decode are handled.
type Mode int

const (
	// ModeStrict surfaces decode failures as errors. This is the default:
	// a malformed stream should be reported, not silently under-counted.
	ModeStrict Mode = iota
	// ModePermissive silently drops candidate lines that do not decode into
	// a known event shape. Compatibility option for runners that emit event
	// shapes this collector does not know.
	ModePermissive
)

// LineParser turns raw input lines into events.
type LineParser struct {
	mode Mode
}

// NewLineParser creates a new LineParser
func NewLineParser(mode Mode) *LineParser {
	return &LineParser{mode: mode}
}

// ParseLine decodes a single line of runner output. Lines whose first
// non-whitespace character is not '{' are not events and yield (nil, nil).
// Candidate lines that fail to decode yield an error in strict mode and
// (nil, nil) in permissive mode.
func (p *LineParser) ParseLine(line string) (*Event, error) {
	if !isCandidate(line) {
		return nil, nil
	}

	event, err := decodeEvent([]byte(line))
	if err != nil {
		if p.mode == ModePermissive {
			return nil, nil
		}
		return nil, fmt.Errorf("parse event line %q: %w", line, err)
	}
	return event, nil
}

func isCandidate(line string) bool {
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		return r == '{'
	}
	return false
}
