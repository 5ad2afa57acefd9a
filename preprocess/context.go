package preprocess

import (
	"errors"
	"fmt"
	gotoken "go/token"
	"log/slog"
	"sync"

	"github.com/rubiojr/stackpp/counter"
	"modernc.org/scanner"
	"modernc.org/token"
)

// Degrade paths. None of these stop the pipeline; they are recorded as
// diagnostics on the Context that hit them.
var (
	ErrUnterminatedMacro   = errors.New("unterminated macro body")
	ErrUnterminatedPattern = errors.New("unterminated pattern block")
	ErrMissingReplacement  = errors.New("pattern has no replacement block")
	ErrEmptyPattern        = errors.New("pattern matches the empty string")
	ErrNoConvergence       = errors.New("pass did not converge")
)

// Context carries the state shared by the passes of one or more runs:
// the template counter, a logger and the diagnostics collected so far.
// A Context must not be used by more than one goroutine at a time.
type Context struct {
	// Counter backs $counter tokens. It is never reset by Run.
	Counter *counter.Counter
	// Logger receives per-pass debug records.
	Logger *slog.Logger
	// Filename is used in diagnostic positions.
	Filename string
	// Diagnostics collects the degrade paths hit while lowering.
	Diagnostics scanner.ErrList
}

// NewContext returns a Context with a zeroed counter and a logger that
// discards everything.
func NewContext() *Context {
	return &Context{
		Counter: &counter.Counter{},
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// Reset zeroes the counter and drops collected diagnostics.
func (c *Context) Reset() {
	c.Counter.Reset()
	c.Diagnostics = nil
}

// report records a diagnostic at offset in buf. A negative offset
// records a diagnostic without a line.
func (c *Context) report(buf string, offset int, err error, format string, args ...any) {
	pos := gotoken.Position{Filename: c.Filename}
	if offset >= 0 && offset <= len(buf) {
		f := token.NewFile(c.Filename, len(buf))
		f.SetLinesForContent([]byte(buf))
		p := f.Position(f.Pos(offset))
		pos = gotoken.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
	}
	msg := fmt.Sprintf(format, args...)
	c.Diagnostics = append(c.Diagnostics, scanner.ErrWithPosition{Pos: pos, Err: fmt.Errorf("%w: %s", err, msg)})
	c.Logger.Warn(msg, "error", err, "pos", pos.String())
}

var (
	defaultMu  sync.Mutex
	defaultCtx = NewContext()
)

// Preprocess lowers src into postfix stack form. All calls share one
// process-wide counter, which is not reset between calls; use
// ResetCounter, or a Context of your own, for isolated runs.
func Preprocess(src string) string {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCtx.Diagnostics = nil
	return defaultCtx.Run(src)
}

// ResetCounter zeroes the process-wide counter used by Preprocess.
func ResetCounter() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCtx.Counter.Reset()
}
