package preprocess

import (
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

// ConvertIndexation lowers base[i][j]... chains into get(mem, ...) reads
// and, when the chain is the target of a single '=', into set(mem, ...)
// writes.
func (c *Context) ConvertIndexation(src string) string {
	return c.fixpoint("indexation", src, convertIndexOnce)
}

func convertIndexOnce(src string) string {
	var sb strings.Builder
	i := 0
	for i < len(src) {
		end := identAt(src, i)
		if end == i {
			sb.WriteByte(src[i])
			i++
			continue
		}
		base := src[i:end]

		// k ends up past any spaces after the last index, so those spaces
		// are consumed along with the chain.
		k := end
		var indices []string
		for {
			k = skipBlanks(src, k)
			if k >= len(src) || src[k] != '[' {
				break
			}
			blk := scanner.ExtractBlock(src, k, '[', ']')
			if !blk.Closed {
				break
			}
			indices = append(indices, strings.TrimSpace(blk.Inner))
			k = blk.End
		}
		if len(indices) == 0 {
			sb.WriteString(base)
			i = end
			continue
		}

		expr := foldIndices(base, indices)
		eq := skipBlanks(src, k)
		if eq < len(src) && src[eq] == '=' && (eq+1 >= len(src) || src[eq+1] != '=') {
			vs := skipBlanks(src, eq+1)
			ve := vs
			for ve < len(src) && src[ve] != '\n' && src[ve] != ';' {
				ve++
			}
			sb.WriteString("set(mem, " + expr + ", " + strings.TrimSpace(src[vs:ve]) + ")")
			i = ve
			continue
		}
		sb.WriteString(expr)
		i = k
	}
	return sb.String()
}

func foldIndices(base string, indices []string) string {
	expr := base
	for _, idx := range indices {
		if strings.Contains(idx, "[") && strings.Contains(idx, "]") {
			idx = resolveNestedIndex(idx)
		}
		expr = "get(mem, " + expr + ", " + idx + ")"
	}
	return expr
}

// resolveNestedIndex flattens an index expression that itself contains
// brackets. While the expression ends in name[index] with a bracket-free
// index, that tail is rewritten to get(mem, name, index). Anything the
// loop cannot flatten is left for the next indexation pass.
func resolveNestedIndex(expr string) string {
	for closesTopLevelBracket(expr) {
		start, base, index, ok := trailingIndex(expr)
		if !ok {
			break
		}
		expr = expr[:start] + "get(mem, " + base + ", " + index + ")"
	}
	return expr
}

// closesTopLevelBracket reports whether some ']' outside string literals
// brings the bracket depth back to zero after a top-level '['.
func closesTopLevelBracket(expr string) bool {
	depth := 0
	opened := false
	sc := scanner.New(expr)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		switch ch {
		case '[':
			if depth == 0 {
				opened = true
			}
			depth++
		case ']':
			depth--
			if depth == 0 && opened {
				return true
			}
		}
	}
	return false
}

// trailingIndex finds the leftmost identifier that, followed by optional
// whitespace and a bracketed bracket-free index, runs to the end of expr.
func trailingIndex(expr string) (start int, base, index string, ok bool) {
	n := len(expr)
	if n == 0 || expr[n-1] != ']' {
		return 0, "", "", false
	}
	for s := 0; s < n; s++ {
		end := identAt(expr, s)
		if end == s {
			continue
		}
		b := scanner.SkipSpace(expr, end)
		if b >= n-1 || expr[b] != '[' {
			continue
		}
		rest := expr[b+1 : n-1]
		if rest == "" || strings.ContainsAny(rest, "[]") {
			continue
		}
		index = strings.TrimLeft(rest, " \t\n\v\f\r")
		if index == "" {
			index = rest[len(rest)-1:]
		}
		return s, expr[s:end], index, true
	}
	return 0, "", "", false
}
