package preprocess

// MaxIterations caps every fixpoint loop. Hitting it is not an error:
// the partially rewritten buffer is returned and a diagnostic recorded.
const MaxIterations = 512

// fixpoint applies step until a full pass leaves the buffer unchanged or
// MaxIterations passes have run.
func (c *Context) fixpoint(pass, src string, step func(string) string) string {
	for i := 1; i <= MaxIterations; i++ {
		out := step(src)
		if out == src {
			c.Logger.Debug("pass converged", "pass", pass, "iterations", i, "size", len(out))
			return out
		}
		src = out
	}
	c.report(src, -1, ErrNoConvergence, "%s: stopped after %d iterations", pass, MaxIterations)
	return src
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// isWordChar matches the bytes that form a word for boundary checks.
func isWordChar(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

// isIdentChar matches the continuation bytes of an identifier; '@' marks
// dereferenced names and may appear anywhere after the first byte.
func isIdentChar(ch byte) bool { return isWordChar(ch) || ch == '@' }

// skipBlanks skips spaces only; tabs and newlines are significant to the
// indexation and macro passes.
func skipBlanks(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// identAt returns the end of the identifier starting exactly at i, or i
// when there is none. An identifier is an optional '@', a letter or
// underscore, then letters, digits, underscores and '@'.
func identAt(s string, i int) int {
	j := i
	if j < len(s) && s[j] == '@' {
		j++
	}
	if j >= len(s) || !isIdentStart(s[j]) {
		return i
	}
	j++
	for j < len(s) && isIdentChar(s[j]) {
		j++
	}
	return j
}
