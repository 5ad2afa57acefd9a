// Package pattern compiles match templates into matchers.
//
// A template is literal text with three kinds of sigils:
//
//	$name          binds one run of non-whitespace bytes
//	{$name}        binds a balanced span between the delimiters; ($name)
//	               and [$name] work the same way with their delimiters.
//	               The span may contain one level of the same delimiter
//	               pair and backslash escapes, but no deeper nesting.
//	$$             optional whitespace, never a capture
//
// Any run of whitespace in a template matches one or more whitespace
// bytes in the subject. Everything else is matched literally.
//
// Templates compile to a flat sequence of elements evaluated by a
// backtracking matcher that memoizes failed (element, offset) pairs,
// so matching time stays polynomial whatever the template looks like.
package pattern

import (
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

type kind uint8

const (
	litKind      kind = iota // literal bytes
	spaceKind                // one or more whitespace bytes
	optSpaceKind             // zero or more whitespace bytes ($$)
	wordKind                 // $name
	blockKind                // {$name}, ($name), [$name]
)

type elem struct {
	kind  kind
	lit   string
	open  byte
	close byte
	group int
}

// Pattern is a compiled match template.
type Pattern struct {
	src    string
	elems  []elem
	groups int
	vars   []string
}

// Compile turns a match template into a Pattern. Compilation never fails:
// a sigil that does not form a variable is matched literally.
func Compile(tmpl string) *Pattern {
	p := &Pattern{src: tmpl, vars: varNames(tmpl)}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			p.elems = append(p.elems, elem{kind: litKind, lit: lit.String()})
			lit.Reset()
		}
	}
	add := func(e elem) {
		flush()
		p.elems = append(p.elems, e)
	}

	for i := 0; i < len(tmpl); {
		ch := tmpl[i]
		if ch == '$' && i+1 < len(tmpl) && tmpl[i+1] == '$' {
			add(elem{kind: optSpaceKind})
			i += 2
			continue
		}
		if scanner.IsOpenBracket(ch) && i+1 < len(tmpl) && tmpl[i+1] == '$' {
			closer := scanner.CloserOf(ch)
			j := scanName(tmpl, i+2)
			if j < len(tmpl) && tmpl[j] == closer {
				add(elem{kind: blockKind, open: ch, close: closer, group: p.groups})
				p.groups++
				i = j + 1
				continue
			}
		}
		switch {
		case ch == '$':
			j := scanName(tmpl, i+1)
			if j == i+1 {
				lit.WriteByte('$')
				i++
				continue
			}
			add(elem{kind: wordKind, group: p.groups})
			p.groups++
			i = j
		case scanner.IsSpace(ch):
			add(elem{kind: spaceKind})
			i = scanner.SkipSpace(tmpl, i)
		default:
			lit.WriteByte(ch)
			i++
		}
	}
	flush()
	return p
}

// varNames lists the variables of tmpl, sigil included, in first-occurrence
// order without duplicates. A lone '$' is listed as "$" even though the
// matcher treats it as a literal; such a name is then bound positionally
// to whatever capture sits at its index.
func varNames(tmpl string) []string {
	var vars []string
	seen := make(map[string]bool)
	addVar := func(name string) {
		if !seen[name] {
			seen[name] = true
			vars = append(vars, "$"+name)
		}
	}
	for i := 0; i < len(tmpl); {
		ch := tmpl[i]
		if ch == '$' && i+1 < len(tmpl) && tmpl[i+1] == '$' {
			i += 2
			continue
		}
		if scanner.IsOpenBracket(ch) && i+1 < len(tmpl) && tmpl[i+1] == '$' {
			closer := scanner.CloserOf(ch)
			j := scanName(tmpl, i+2)
			if j < len(tmpl) && tmpl[j] == closer {
				addVar(tmpl[i+2 : j])
				i = j + 1
				continue
			}
		}
		if ch == '$' {
			j := scanName(tmpl, i+1)
			addVar(tmpl[i+1 : j])
			i = j
			continue
		}
		i++
	}
	return vars
}

// String returns the template the pattern was compiled from.
func (p *Pattern) String() string { return p.src }

// Vars returns the variable names bound by the pattern, sigil included,
// in first-occurrence order.
func (p *Pattern) Vars() []string { return p.vars }

// MatchesEmpty reports whether the pattern can match the empty string,
// which is the case when it is empty or made only of $$ markers.
func (p *Pattern) MatchesEmpty() bool {
	for _, e := range p.elems {
		if e.kind != optSpaceKind {
			return false
		}
	}
	return true
}

// Bindings maps each variable name to the capture at the same index.
// Names beyond the last capture bind to the empty string.
func (p *Pattern) Bindings(m Match) map[string]string {
	b := make(map[string]string, len(p.vars))
	for i, name := range p.vars {
		if i < len(m.Groups) {
			b[name] = m.Groups[i]
		} else {
			b[name] = ""
		}
	}
	return b
}

func scanName(s string, i int) int {
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return i
}

func isNameChar(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func isLineTerminator(ch byte) bool {
	return ch == '\n' || ch == '\r'
}
