package parser

import "strings"

// streamState is the position of the streaming classifier relative to a
// thought marker.
type streamState int

const (
	// stateOutside: no marker seen; tokens are plain text.
	stateOutside streamState = iota
	// stateEnteringThought: the tail of the window is a proper prefix of an
	// opening marker; classification is withheld until the next token
	// resolves it.
	stateEnteringThought
	// stateInThought: inside a thought wrapper until its closing tag.
	stateInThought
)

// StreamParser classifies tokens as they arrive, detecting thought markers
// that straddle token boundaries. It keeps a lookback window sized to the
// longest opening marker literal, so a marker split across two tokens is
// still caught.
type StreamParser struct {
	parser  *Parser
	markers []string
	window  int

	buffer strings.Builder
	tail   string
	state  streamState
	depth  int
}

// NewStreamParser returns a streaming classifier for the given model name.
func NewStreamParser(modelName string) *StreamParser {
	p := New(modelName)
	markers := p.family.streamMarkers()

	window := 0
	for _, m := range markers {
		if len(m) > window {
			window = len(m)
		}
	}

	return &StreamParser{parser: p, markers: markers, window: window}
}

// ProcessToken consumes one streamed token and reports how it should be
// displayed. The token text is always returned as-is; only the kind changes.
func (s *StreamParser) ProcessToken(token string) (string, SegmentKind) {
	s.buffer.WriteString(token)

	// Detection runs on the carried tail plus the whole token, before the
	// tail is truncated, so a marker split across tokens is never lost.
	search := s.tail + token
	s.tail = search
	if len(s.tail) > s.window {
		s.tail = s.tail[len(s.tail)-s.window:]
	}

	switch s.state {
	case stateOutside, stateEnteringThought:
		for _, marker := range s.markers {
			if strings.Contains(search, marker) {
				s.state = stateInThought
				s.depth = 1
				return token, Thought
			}
		}
		if s.tailIsMarkerPrefix() {
			s.state = stateEnteringThought
			return token, Thought
		}
		s.state = stateOutside
		return token, Text

	case stateInThought:
		if strings.Contains(token, "</") {
			s.depth--
			if s.depth <= 0 {
				s.state = stateOutside
				s.tail = ""
			}
		}
		return token, Thought
	}

	return token, Text
}

// tailIsMarkerPrefix reports whether the window ends with a proper prefix of
// any opening marker, meaning the marker may complete in the next token.
func (s *StreamParser) tailIsMarkerPrefix() bool {
	for _, marker := range s.markers {
		for n := len(marker) - 1; n > 0; n-- {
			if strings.HasSuffix(s.tail, marker[:n]) {
				return true
			}
		}
	}
	return false
}

// Finalize returns the complete buffered response, unmodified. Callers run it
// through the sanitizer for display once the stream ends.
func (s *StreamParser) Finalize() string {
	return s.buffer.String()
}

// Parser exposes the underlying batch parser for the same family.
func (s *StreamParser) Parser() *Parser {
	return s.parser
}
