// Package counter implements the template counter used to mint unique
// values (typically labels) across repeated macro and pattern expansions.
//
// Three tokens are recognized inside template text:
//
//	$counter++   increments the counter, replaced by nothing
//	$counter--   decrements the counter, replaced by nothing
//	$counter     replaced by the current value in decimal
//
// A $counter followed by a single '+' or '-' is none of the above and is
// left untouched.
package counter

import (
	"strconv"
	"strings"
)

// Token is the counter sigil as it appears in templates.
const Token = "$counter"

// Counter is a signed integer threaded through the rewrite passes. The
// zero value is ready to use. A Counter is not safe for concurrent use.
type Counter struct {
	value int
}

// Value returns the current value.
func (c *Counter) Value() int { return c.value }

// Inc increments the counter.
func (c *Counter) Inc() { c.value++ }

// Dec decrements the counter.
func (c *Counter) Dec() { c.value-- }

// Reset sets the counter back to zero.
func (c *Counter) Reset() { c.value = 0 }

// Expand resolves every counter token in s in a single left-to-right
// pass. An increment or decrement takes effect before any token to its
// right is resolved.
func (c *Counter) Expand(s string) string {
	if !strings.Contains(s, Token) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		idx := strings.Index(s, Token)
		if idx < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:idx])
		rest := s[idx+len(Token):]
		switch {
		case strings.HasPrefix(rest, "++"):
			c.Inc()
			rest = rest[2:]
		case strings.HasPrefix(rest, "--"):
			c.Dec()
			rest = rest[2:]
		case rest != "" && (rest[0] == '+' || rest[0] == '-'):
			sb.WriteString(Token)
		default:
			sb.WriteString(strconv.Itoa(c.value))
		}
		s = rest
	}
}
