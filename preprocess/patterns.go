package preprocess

import (
	"regexp"
	"strings"

	"github.com/rubiojr/stackpp/pattern"
	"github.com/rubiojr/stackpp/scanner"
)

var patternDef = regexp.MustCompile(`\bpattern[ \t\n\v\f\r]*\{`)

// Rule is a match/replace template pair.
type Rule struct {
	Match   string
	Replace string
}

// CollectPatterns finds every `pattern { MATCH } { REPLACE }` definition,
// resolves counter tokens in the replacement, and cuts the definition out
// of src. Definitions are visited from last to first, so counter tokens
// in replacements resolve in that order, but the returned rules are in
// source order. A pattern block that is not followed by a replacement
// block is left where it is.
func (c *Context) CollectPatterns(src string) ([]Rule, string) {
	var rules []Rule
	matches := patternDef.FindAllStringIndex(src, -1)
	for j := len(matches) - 1; j >= 0; j-- {
		start, open := matches[j][0], matches[j][1]-1
		match := scanner.ExtractBlock(src, open, '{', '}')
		k := scanner.SkipSpace(src, match.End)
		if k >= len(src) || src[k] != '{' {
			if !match.Closed {
				c.report(src, start, ErrUnterminatedPattern, "match block runs to end of input")
			}
			c.report(src, start, ErrMissingReplacement, "definition left in place")
			continue
		}
		repl := scanner.ExtractBlock(src, k, '{', '}')
		if !repl.Closed {
			c.report(src, k, ErrUnterminatedPattern, "replace block runs to end of input")
		}
		rules = append(rules, Rule{
			Match:   strings.TrimSpace(match.Inner),
			Replace: c.Counter.Expand(strings.TrimSpace(repl.Inner)),
		})
		src = src[:start] + src[repl.End:]
	}
	for l, r := 0, len(rules)-1; l < r; l, r = l+1, r-1 {
		rules[l], rules[r] = rules[r], rules[l]
	}
	c.Logger.Debug("patterns collected", "count", len(rules))
	return rules, src
}

// ApplyPatterns runs each rule to its own fixpoint, in order. A rule
// whose match template can match the empty string is skipped.
func (c *Context) ApplyPatterns(src string, rules []Rule) string {
	for _, r := range rules {
		p := pattern.Compile(r.Match)
		if p.MatchesEmpty() {
			c.report(src, -1, ErrEmptyPattern, "rule %q skipped", p.String())
			continue
		}
		src = c.fixpoint("pattern "+p.String(), src, func(s string) string {
			out, _ := p.ReplaceAll(s, func(m pattern.Match) string {
				return c.rewrite(p, m, r.Replace)
			})
			return out
		})
	}
	return src
}

// rewrite builds the replacement for one match: bound variables are
// substituted, counter tokens resolved, and $$ seams removed last.
func (c *Context) rewrite(p *pattern.Pattern, m pattern.Match, repl string) string {
	binds := p.Bindings(m)
	for _, name := range p.Vars() {
		repl = substituteVar(repl, name, binds[name])
	}
	repl = c.Counter.Expand(repl)
	return strings.ReplaceAll(repl, "$$", "")
}

// substituteVar replaces name wherever it is not immediately followed by
// an identifier byte, so $a never clobbers $ab.
func substituteVar(s, name, val string) string {
	return replacePlaceholder(s, name, val, isWordChar)
}
