// Package preprocess lowers macro, pattern and operator source into
// postfix stack form.
//
// The pipeline is a fixed sequence of textual passes over one buffer:
//
//	comments -> macro collection -> pattern collection -> pattern rewriting
//	-> macro expansion -> string lifting -> indexation -> math -> comparison
//	-> bitwise -> logical -> assignment -> call reordering
//
// Every rewriting pass runs to a fixpoint capped at MaxIterations. None of
// the passes fail: malformed input degrades to partially rewritten output
// and a diagnostic on the Context.
package preprocess

import "time"

// Tables holds what a run collected from its definitions.
type Tables struct {
	Macros   *MacroTable
	Patterns []Rule
}

// Run lowers src using c's counter. Diagnostics accumulate on c.
func (c *Context) Run(src string) string {
	out, _ := c.RunTables(src)
	return out
}

// RunTables is Run that also returns the collected macro table and
// pattern rules.
func (c *Context) RunTables(src string) (string, Tables) {
	var tables Tables
	passes := []struct {
		name string
		fn   func(string) string
	}{
		{"comments", StripComments},
		{"macros", func(s string) string {
			var out string
			tables.Macros, out = c.CollectMacros(s)
			return out
		}},
		{"patterns", func(s string) string {
			var out string
			tables.Patterns, out = c.CollectPatterns(s)
			return out
		}},
		{"rewrite", func(s string) string { return c.ApplyPatterns(s, tables.Patterns) }},
		{"expand", func(s string) string { return c.ExpandMacros(s, tables.Macros) }},
		{"strings", LiftStrings},
		{"indexation", c.ConvertIndexation},
		{"math", c.ConvertMath},
		{"comparison", c.ConvertComparison},
		{"bitwise", c.ConvertBitwise},
		{"logical", c.ConvertLogical},
		{"assignment", c.ConvertAssignment},
		{"calls", func(s string) string { return c.ReorderCalls(s, tables.Macros) }},
	}

	for _, p := range passes {
		start := time.Now()
		src = p.fn(src)
		c.Logger.Debug("pass done", "pass", p.name, "size", len(src), "elapsed", time.Since(start))
	}
	return src, tables
}
