// Package scanner provides quote- and escape-aware scanning for the
// stackpp rewrite passes. Every pass that has to find a matching close
// delimiter goes through the same small state machine, so the rules for
// string literals live in one place:
//
//   - a double or single quote opens a string literal, and only the
//     same quote closes it;
//   - inside a string, a backslash escapes exactly the next byte;
//   - outside strings a backslash is an ordinary byte.
package scanner

// State is the lexical state of the scanner between two bytes.
type State uint8

const (
	Normal State = iota
	InDouble
	InSingle
	EscDouble // after a backslash inside "..."
	EscSingle // after a backslash inside '...'
	numStates
)

// byteClass partitions bytes into the classes the transition table cares about.
type byteClass uint8

const (
	classOther byteClass = iota
	classDouble
	classSingle
	classBackslash
	numClasses
)

func classify(ch byte) byteClass {
	switch ch {
	case '"':
		return classDouble
	case '\'':
		return classSingle
	case '\\':
		return classBackslash
	}
	return classOther
}

// transitions[state][class] is the state after consuming one byte.
var transitions = [numStates][numClasses]State{
	Normal:    {classOther: Normal, classDouble: InDouble, classSingle: InSingle, classBackslash: Normal},
	InDouble:  {classOther: InDouble, classDouble: Normal, classSingle: InDouble, classBackslash: EscDouble},
	InSingle:  {classOther: InSingle, classDouble: InSingle, classSingle: Normal, classBackslash: EscSingle},
	EscDouble: {classOther: InDouble, classDouble: InDouble, classSingle: InDouble, classBackslash: InDouble},
	EscSingle: {classOther: InSingle, classDouble: InSingle, classSingle: InSingle, classBackslash: InSingle},
}

// Step returns the state reached from s after consuming ch.
func Step(s State, ch byte) State {
	return transitions[s][classify(ch)]
}

// CodeScanner iterates byte-by-byte over source text, tracking string
// literal boundaries and escape sequences. Callers check InString()
// instead of maintaining their own quote/escape flags.
//
// InString() returns true for the entire string span including both
// opening and closing quotes, so callers can skip every byte that is
// part of a literal.
type CodeScanner struct {
	src   string
	pos   int
	prev  State
	state State
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return NewAt(src, 0)
}

// NewAt creates a CodeScanner whose first Next() returns src[offset].
// Scanning always starts outside any string literal.
func NewAt(src string, offset int) *CodeScanner {
	return &CodeScanner{src: src, pos: offset - 1}
}

// Next advances to the next byte, updating string/escape state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.pos++
	if s.pos >= len(s.src) {
		s.prev = s.state
		return 0, false
	}
	ch := s.src[s.pos]
	s.prev = s.state
	s.state = Step(s.state, ch)
	return ch, true
}

// InString reports whether the byte last returned by Next is part of a
// string literal, quotes included.
func (s *CodeScanner) InString() bool {
	return s.prev != Normal || s.state != Normal
}

// Pos returns the current byte offset (the position of the last byte
// returned by Next).
func (s *CodeScanner) Pos() int { return s.pos }
