package preprocess

import (
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

// accessModifiers are never reordered, like macro names.
var accessModifiers = []string{"private", "public", "protected"}

// ReorderCalls turns every innermost call `name(a, b, c)` into the postfix
// sequence `c b a name`, repeating until nothing changes so that outer
// calls are reordered once their arguments are flat. Calls to macro names
// and access modifiers are left as written.
func (c *Context) ReorderCalls(src string, macros *MacroTable) string {
	forbidden := func(name string) bool {
		if macros != nil && macros.Has(name) {
			return true
		}
		for _, m := range accessModifiers {
			if name == m {
				return true
			}
		}
		return false
	}
	return c.fixpoint("calls", src, func(s string) string {
		return reorderOnce(s, forbidden)
	})
}

func reorderOnce(src string, forbidden func(string) bool) string {
	var sb strings.Builder
	last := 0
	i := 0
	for i < len(src) {
		end := identAt(src, i)
		if end == i {
			i++
			continue
		}
		open := scanner.SkipSpace(src, end)
		if open >= len(src) || src[open] != '(' {
			i = end
			continue
		}
		closing := strings.IndexAny(src[open+1:], "()")
		if closing < 0 || src[open+1+closing] != ')' {
			i = end
			continue
		}
		closing += open + 1
		name := src[i:end]
		if forbidden(name) {
			i = closing + 1
			continue
		}
		args := strings.Split(src[open+1:closing], ",")
		out := make([]string, 0, len(args)+1)
		for j := len(args) - 1; j >= 0; j-- {
			out = append(out, strings.TrimSpace(args[j]))
		}
		out = append(out, name)

		sb.WriteString(src[last:i])
		sb.WriteString(strings.Join(out, " "))
		last, i = closing+1, closing+1
	}
	if last == 0 {
		return src
	}
	sb.WriteString(src[last:])
	return sb.String()
}
