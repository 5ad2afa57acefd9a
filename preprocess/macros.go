package preprocess

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

var macroDef = regexp.MustCompile(`\bmacro[ \t\n\v\f\r]+([A-Za-z_][A-Za-z0-9_]*)[ \t\n\v\f\r]*\{`)

// Macro is a named template expanded by positional substitution.
type Macro struct {
	Name string
	Body string
}

// MacroTable holds macro bodies keyed by name. Names keep the order in
// which they were first defined; redefining a name replaces its body but
// not its position.
type MacroTable struct {
	names  []string
	bodies map[string]string
}

// NewMacroTable returns an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{bodies: make(map[string]string)}
}

// Define stores body under name. The last write wins.
func (t *MacroTable) Define(name, body string) {
	if _, ok := t.bodies[name]; !ok {
		t.names = append(t.names, name)
	}
	t.bodies[name] = body
}

// Lookup returns the body stored under name.
func (t *MacroTable) Lookup(name string) (string, bool) {
	body, ok := t.bodies[name]
	return body, ok
}

// Has reports whether name is a macro.
func (t *MacroTable) Has(name string) bool {
	_, ok := t.bodies[name]
	return ok
}

// Len returns the number of distinct macro names.
func (t *MacroTable) Len() int { return len(t.names) }

// Macros returns the table in expansion order.
func (t *MacroTable) Macros() []Macro {
	out := make([]Macro, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, Macro{Name: name, Body: t.bodies[name]})
	}
	return out
}

// CollectMacros finds every `macro NAME { BODY }` definition, stores its
// body with counter tokens resolved, and cuts the definition out of src.
// Definitions are handled from last to first so the offsets found by the
// initial scan stay valid; this is also the order in which bodies are
// written to the table, so when a name is defined twice the definition
// that appears first in the source wins.
func (c *Context) CollectMacros(src string) (*MacroTable, string) {
	table := NewMacroTable()
	matches := macroDef.FindAllStringSubmatchIndex(src, -1)
	for j := len(matches) - 1; j >= 0; j-- {
		m := matches[j]
		start, open := m[0], m[1]-1
		name := src[m[2]:m[3]]
		blk := scanner.ExtractBlock(src, open, '{', '}')
		if !blk.Closed {
			c.report(src, start, ErrUnterminatedMacro, "macro %s runs to end of input", name)
		}
		table.Define(name, c.Counter.Expand(blk.Inner))
		src = src[:start] + src[blk.End:]
	}
	c.Logger.Debug("macros collected", "count", table.Len())
	return table, src
}

// ExpandMacros expands every invocation of every macro, one name at a
// time, each to its own fixpoint.
func (c *Context) ExpandMacros(src string, table *MacroTable) string {
	for _, m := range table.Macros() {
		src = c.fixpoint("macro "+m.Name, src, func(s string) string {
			return c.expandMacro(s, m)
		})
	}
	return src
}

// expandMacro runs one left-to-right scan replacing invocations of m.
// Text produced by an expansion is not rescanned until the next pass.
func (c *Context) expandMacro(src string, m Macro) string {
	var sb strings.Builder
	i := 0
	for i < len(src) {
		at := findWord(src, i, m.Name)
		if at < 0 {
			sb.WriteString(src[i:])
			break
		}
		sb.WriteString(src[i:at])
		i = at + len(m.Name)

		var args []string
		k := skipBlanks(src, i)
		if k < len(src) && src[k] == '(' {
			blk := scanner.ExtractBlock(src, k, '(', ')')
			for _, a := range strings.Split(blk.Inner, ",") {
				args = append(args, strings.TrimSpace(a))
			}
			i = blk.End
		} else if toks, end, ok := bareArgs(src, i); ok {
			args = toks
			i = end
		} else {
			sb.WriteString(m.Name)
			continue
		}
		sb.WriteString(c.Counter.Expand(instantiate(m.Body, m.Name, args)))
	}
	return sb.String()
}

// findWord returns the offset of the next occurrence of word at or after
// from that has a word boundary on both sides, or -1.
func findWord(src string, from int, word string) int {
	for from <= len(src) {
		idx := strings.Index(src[from:], word)
		if idx < 0 {
			return -1
		}
		at := from + idx
		end := at + len(word)
		if (at == 0 || !isWordChar(src[at-1])) && (end == len(src) || !isWordChar(src[end])) {
			return at
		}
		from = at + 1
	}
	return -1
}

// bareArgs matches the whitespace-separated argument form of an
// invocation: at least one whitespace byte after the name, then tokens
// separated by whitespace, stopping at the first point where the rest of
// the line is a newline, end of input, or whitespace followed by one of
// { } ; ( ) $. The token list is as short as that rule allows.
func bareArgs(src string, i int) ([]string, int, bool) {
	w := scanner.SkipSpace(src, i)
	if w == i {
		return nil, 0, false
	}
	return argTokens(src, w, nil)
}

func argTokens(src string, p int, toks []string) ([]string, int, bool) {
	te := p
	for te < len(src) && isArgByte(src[te]) {
		te++
	}
	if te == p {
		return nil, 0, false
	}
	if out, end, ok := argRest(src, te, append(toks, src[p:te])); ok {
		return out, end, true
	}
	// A shorter token can still end right before a '$'.
	for q := te - 1; q > p; q-- {
		if src[q] == '$' {
			return append(toks, src[p:q]), q, true
		}
	}
	return nil, 0, false
}

func argRest(src string, p int, toks []string) ([]string, int, bool) {
	if argsEnd(src, p) {
		return toks, p, true
	}
	w := scanner.SkipSpace(src, p)
	if w == p {
		return nil, 0, false
	}
	return argTokens(src, w, toks)
}

func argsEnd(src string, p int) bool {
	if p == len(src) || src[p] == '\n' {
		return true
	}
	q := scanner.SkipSpace(src, p)
	return q < len(src) && strings.IndexByte("{};()$", src[q]) >= 0
}

func isArgByte(ch byte) bool {
	return !scanner.IsSpace(ch) && strings.IndexByte("{};()", ch) < 0
}

// instantiate substitutes an invocation into a macro body: $0 becomes the
// macro name, $1..$N the arguments, and leftover $<digits> placeholders
// are dropped.
func instantiate(body, name string, args []string) string {
	out := replacePlaceholder(body, "$0", name, isWordChar)
	for j, arg := range args {
		out = replacePlaceholder(out, "$"+strconv.Itoa(j+1), arg, isDigit)
	}
	return dropPlaceholders(out)
}

// replacePlaceholder replaces every ph in s that is not followed by a
// byte for which stop reports true.
func replacePlaceholder(s, ph, val string, stop func(byte) bool) string {
	if !strings.Contains(s, ph) {
		return s
	}
	var sb strings.Builder
	for {
		idx := strings.Index(s, ph)
		if idx < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		end := idx + len(ph)
		if end < len(s) && stop(s[end]) {
			sb.WriteString(s[:idx+1])
			s = s[idx+1:]
			continue
		}
		sb.WriteString(s[:idx])
		sb.WriteString(val)
		s = s[end:]
	}
}

// dropPlaceholders removes $<digits> when the digits end a word.
func dropPlaceholders(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '$' {
			j := i + 1
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			if j > i+1 && (j == len(s) || !isWordChar(s[j])) {
				i = j
				continue
			}
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}
