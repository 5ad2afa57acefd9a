package preprocess

import (
	"strings"

	"github.com/rubiojr/stackpp/scanner"
)

// operator maps an infix or prefix symbol to the function it lowers to.
type operator struct {
	sym    string
	fn     string
	prefix bool
}

// Operator families, each lowered by its own fixpoint pass. Within one
// iteration the operators of a family are rewritten in the listed order.
var (
	mathOps = []operator{
		{sym: "*", fn: "mul"},
		{sym: "/", fn: "div"},
		{sym: "%", fn: "mod"},
		{sym: "+", fn: "add"},
		{sym: "-", fn: "sub"},
	}
	comparisonOps = []operator{
		{sym: "==", fn: "eq"},
		{sym: "!=", fn: "neq"},
		{sym: "<=", fn: "le"},
		{sym: ">=", fn: "ge"},
		{sym: "<", fn: "lt"},
		{sym: ">", fn: "gt"},
	}
	// ">>" lowers to lshift like "<<". Existing programs depend on it.
	bitwiseOps = []operator{
		{sym: "&", fn: "band"},
		{sym: "|", fn: "bor"},
		{sym: "^", fn: "bxor"},
		{sym: "<<", fn: "lshift"},
		{sym: ">>", fn: "lshift"},
		{sym: "~", fn: "bnot", prefix: true},
	}
	logicalOps = []operator{
		{sym: "&&", fn: "and"},
		{sym: "||", fn: "or"},
		{sym: "!", fn: "not", prefix: true},
	}
)

// ConvertMath lowers * / % + - into mul, div, mod, add and sub calls.
func (c *Context) ConvertMath(src string) string {
	return c.fixpoint("math", src, func(s string) string { return rewriteOps(s, mathOps) })
}

// ConvertComparison lowers == != <= >= < > into eq, neq, le, ge, lt and gt.
func (c *Context) ConvertComparison(src string) string {
	return c.fixpoint("comparison", src, func(s string) string { return rewriteOps(s, comparisonOps) })
}

// ConvertBitwise lowers & | ^ << >> and prefix ~.
func (c *Context) ConvertBitwise(src string) string {
	return c.fixpoint("bitwise", src, func(s string) string { return rewriteOps(s, bitwiseOps) })
}

// ConvertLogical lowers && || and prefix !.
func (c *Context) ConvertLogical(src string) string {
	return c.fixpoint("logical", src, func(s string) string { return rewriteOps(s, logicalOps) })
}

func rewriteOps(src string, ops []operator) string {
	for _, op := range ops {
		if !strings.Contains(src, op.sym) {
			continue
		}
		if op.prefix {
			src = rewritePrefix(src, op)
		} else {
			src = rewriteInfix(src, op)
		}
	}
	return src
}

// rewriteInfix makes one left-to-right pass turning `L op R` into
// fn(L, R). Rewritten text is not rescanned within the pass.
func rewriteInfix(src string, op operator) string {
	var sb strings.Builder
	last := 0
	i := 0
	for i < len(src) {
		start, end := leftOperandAt(src, i)
		if end == start {
			i++
			continue
		}
		k := scanner.SkipSpace(src, end)
		if !strings.HasPrefix(src[k:], op.sym) {
			i = end
			continue
		}
		rs := scanner.SkipSpace(src, k+len(op.sym))
		re := rightOperandAt(src, rs)
		if re == rs {
			i = end
			continue
		}
		sb.WriteString(src[last:start])
		sb.WriteString(op.fn + "(" + src[start:end] + ", " + src[rs:re] + ")")
		last, i = re, re
	}
	if last == 0 {
		return src
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// rewritePrefix makes one left-to-right pass turning `op R` into fn(R).
func rewritePrefix(src string, op operator) string {
	var sb strings.Builder
	last := 0
	i := 0
	for i < len(src) {
		if !strings.HasPrefix(src[i:], op.sym) {
			i++
			continue
		}
		rs := scanner.SkipSpace(src, i+len(op.sym))
		re := rightOperandAt(src, rs)
		if re == rs {
			i++
			continue
		}
		sb.WriteString(src[last:i])
		sb.WriteString(op.fn + "(" + src[rs:re] + ")")
		last, i = re, re
	}
	if last == 0 {
		return src
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// leftOperandAt returns the extent of a left operand starting at i: an
// optional '@' and a run of word bytes and closing parentheses. It
// returns i, i when none starts there.
func leftOperandAt(s string, i int) (int, int) {
	j := i
	if j < len(s) && s[j] == '@' {
		j++
	}
	k := j
	for k < len(s) && (isWordChar(s[k]) || s[k] == ')') {
		k++
	}
	if k == j {
		return i, i
	}
	return i, k
}

// rightOperandAt returns the end of a right operand starting at i: an
// optional '@', a run of word bytes and parentheses, then optionally a
// parenthesized list that ends at the first ')'. It returns i when no
// operand starts there.
func rightOperandAt(s string, i int) int {
	j := i
	if j < len(s) && s[j] == '@' {
		j++
	}
	k := j
	for k < len(s) && (isWordChar(s[k]) || s[k] == '(' || s[k] == ')') {
		k++
	}
	if k == j {
		return i
	}
	p := scanner.SkipSpace(s, k)
	if p < len(s) && s[p] == '(' {
		if q := strings.IndexByte(s[p+1:], ')'); q >= 0 {
			return p + 1 + q + 1
		}
	}
	return k
}
