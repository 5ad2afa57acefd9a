package preprocess

import (
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

// compoundOps pairs each compound assignment with the function applied to
// the dereferenced target. Longer symbols that share a suffix never
// collide because the target must be an identifier.
var compoundOps = []operator{
	{sym: "+=", fn: "add"},
	{sym: "-=", fn: "sub"},
	{sym: "*=", fn: "mul"},
	{sym: "/=", fn: "div"},
	{sym: "%=", fn: "mod"},
	{sym: "&=", fn: "band"},
	{sym: "|=", fn: "bor"},
	{sym: "^=", fn: "bxor"},
	{sym: "<<=", fn: "lshift"},
	{sym: ">>=", fn: "rshift"},
}

// ConvertAssignment lowers `v OP= expr` into set(mem, v, FN(@v, expr)) and
// `v = expr` into set(mem, v, expr). An expression runs to the next ';',
// newline or end of input; for plain assignment an '=' before that point
// means no match, which leaves chained assignments for later iterations.
func (c *Context) ConvertAssignment(src string) string {
	return c.fixpoint("assignment", src, func(s string) string {
		for _, op := range compoundOps {
			if strings.Contains(s, op.sym) {
				s = rewriteAssign(s, op.sym, func(v, expr string) string {
					return "set(mem, " + v + ", " + op.fn + "(@" + v + ", " + expr + "))"
				})
			}
		}
		return rewriteAssign(s, "=", func(v, expr string) string {
			return "set(mem, " + v + ", " + expr + ")"
		})
	})
}

// rewriteAssign makes one left-to-right pass over src replacing every
// `ident sym expr` with the result of emit.
func rewriteAssign(src, sym string, emit func(v, expr string) string) string {
	plain := sym == "="
	var sb strings.Builder
	last := 0
	i := 0
	for i < len(src) {
		end := identAt(src, i)
		if end == i {
			i++
			continue
		}
		k := scanner.SkipSpace(src, end)
		if !strings.HasPrefix(src[k:], sym) {
			i = end
			continue
		}
		es, ee, ok := assignExpr(src, k+len(sym), plain)
		if !ok {
			i = end
			continue
		}
		sb.WriteString(src[last:i])
		sb.WriteString(emit(src[i:end], strings.TrimSpace(src[es:ee])))
		last, i = ee, ee
	}
	if last == 0 {
		return src
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// assignExpr locates the expression after an assignment operator ending at
// k. Whitespace after the operator is skipped greedily, giving back bytes
// one at a time when the expression cannot start where the skip stopped;
// a start on a line terminator or ';' is rejected. In plain mode the
// expression may not contain '='.
func assignExpr(src string, k int, plain bool) (int, int, bool) {
	stop := func(ch byte) bool { return ch == ';' || ch == '\n' || (plain && ch == '=') }
	for w := scanner.SkipSpace(src, k); w >= k; w-- {
		if w >= len(src) || stop(src[w]) {
			continue
		}
		e := w
		for e < len(src) && !stop(src[e]) {
			e++
		}
		if e < len(src) && src[e] == '=' {
			continue
		}
		return w, e, true
	}
	return 0, 0, false
}
