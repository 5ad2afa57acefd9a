package pattern

import (
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

// Match is one occurrence of a pattern in a subject string.
type Match struct {
	Start  int      // offset of the first matched byte
	End    int      // offset just past the last matched byte
	Groups []string // captured text, one entry per group
}

// matcher holds the per-subject state of a search. Failed (element,
// offset) pairs are remembered for the lifetime of the matcher; they
// do not depend on where the match attempt started.
type matcher struct {
	p      *Pattern
	src    string
	caps   []string
	failed map[int]struct{}
}

func (p *Pattern) newMatcher(src string) *matcher {
	return &matcher{p: p, src: src, caps: make([]string, p.groups), failed: make(map[int]struct{})}
}

// ReplaceAll replaces every non-overlapping match in src with the result
// of repl and reports how many matches were replaced. After an empty
// match the byte at that offset is copied and scanning resumes after it.
func (p *Pattern) ReplaceAll(src string, repl func(Match) string) (string, int) {
	m := p.newMatcher(src)
	var sb strings.Builder
	last, n := 0, 0
	for pos := 0; pos <= len(src); {
		mt, ok := m.find(pos)
		if !ok {
			break
		}
		n++
		sb.WriteString(src[last:mt.Start])
		sb.WriteString(repl(mt))
		last = mt.End
		pos = mt.End
		if mt.End == mt.Start {
			if mt.End < len(src) {
				sb.WriteByte(src[mt.End])
			}
			last = mt.End + 1
			pos = mt.End + 1
		}
	}
	if n == 0 {
		return src, 0
	}
	if last < len(src) {
		sb.WriteString(src[last:])
	}
	return sb.String(), n
}

func (m *matcher) find(from int) (Match, bool) {
	for start := from; start <= len(m.src); start++ {
		if end, ok := m.match(0, start); ok {
			groups := make([]string, len(m.caps))
			copy(groups, m.caps)
			return Match{Start: start, End: end, Groups: groups}, true
		}
	}
	return Match{}, false
}

// match tries elements[i:] at pos. Quantified elements are greedy and
// give back input one byte at a time, the way a backtracking regexp
// engine would.
func (m *matcher) match(i, pos int) (int, bool) {
	if i == len(m.p.elems) {
		return pos, true
	}
	key := i*(len(m.src)+1) + pos
	if _, ok := m.failed[key]; ok {
		return 0, false
	}
	if end, ok := m.matchElem(i, pos); ok {
		return end, true
	}
	m.failed[key] = struct{}{}
	return 0, false
}

func (m *matcher) matchElem(i, pos int) (int, bool) {
	e := m.p.elems[i]
	src := m.src
	switch e.kind {
	case litKind:
		if strings.HasPrefix(src[pos:], e.lit) {
			return m.match(i+1, pos+len(e.lit))
		}
	case spaceKind, optSpaceKind:
		min := pos + 1
		if e.kind == optSpaceKind {
			min = pos
		}
		for q := scanner.SkipSpace(src, pos); q >= min; q-- {
			if end, ok := m.match(i+1, q); ok {
				return end, true
			}
		}
	case wordKind:
		for q := skipWord(src, pos); q > pos; q-- {
			m.caps[e.group] = src[pos:q]
			if end, ok := m.match(i+1, q); ok {
				return end, true
			}
		}
	case blockKind:
		q, ok := balancedEnd(src, pos, e.open, e.close)
		if !ok {
			break
		}
		m.caps[e.group] = src[pos+1 : q]
		return m.match(i+1, q+1)
	}
	return 0, false
}

// balancedEnd matches open, a body and close starting at pos and returns
// the offset of the close delimiter. The body is made of plain bytes,
// backslash escapes (not of a line terminator) and at most one level of
// nested open...close.
func balancedEnd(src string, pos int, open, close byte) (int, bool) {
	if pos >= len(src) || src[pos] != open {
		return 0, false
	}
	q := pos + 1
	for q < len(src) {
		switch ch := src[q]; ch {
		case close:
			return q, true
		case '\\':
			if !validEscape(src, q) {
				return 0, false
			}
			q += 2
		case open:
			r, ok := flatEnd(src, q+1, open, close)
			if !ok {
				return 0, false
			}
			q = r + 1
		default:
			q++
		}
	}
	return 0, false
}

// flatEnd scans a nested body that may not contain open again.
func flatEnd(src string, q int, open, close byte) (int, bool) {
	for q < len(src) {
		switch ch := src[q]; ch {
		case close:
			return q, true
		case open:
			return 0, false
		case '\\':
			if !validEscape(src, q) {
				return 0, false
			}
			q += 2
		default:
			q++
		}
	}
	return 0, false
}

func validEscape(src string, q int) bool {
	return q+1 < len(src) && !isLineTerminator(src[q+1])
}

func skipWord(s string, i int) int {
	for i < len(s) && !scanner.IsSpace(s[i]) {
		i++
	}
	return i
}
