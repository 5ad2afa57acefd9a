package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/rubiojr/stackpp/ctxlog"
	"github.com/rubiojr/stackpp/doc"
	"github.com/rubiojr/stackpp/preprocess"
	"github.com/urfave/cli/v3"
	"modernc.org/scanner"
)

// input is one source to lower. Name "-" is stdin.
type input struct {
	name string
	src  string
}

// result is what lowering one input produced.
type result struct {
	out   string
	diags scanner.ErrList
}

func (a *app) readInputs(cmd *cli.Command) ([]input, error) {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		names = []string{"-"}
	}
	inputs := make([]input, 0, len(names))
	for _, name := range names {
		var data []byte
		var err error
		if name == "-" {
			data, err = io.ReadAll(a.stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		inputs = append(inputs, input{name: name, src: string(data)})
	}
	return inputs, nil
}

// lowerAll lowers every input and returns the results in input order.
// With one job the files share a counter unless isolate is set; with
// more, each worker owns a Context and resets it before every file so
// the output does not depend on scheduling.
func lowerAll(inputs []input, jobs int, isolate bool, logger *slog.Logger) []result {
	results := make([]result, len(inputs))
	newCtx := func() *preprocess.Context {
		c := preprocess.NewContext()
		c.Logger = logger
		return c
	}
	lowerOne := func(c *preprocess.Context, i int) {
		c.Diagnostics = nil
		c.Filename = inputs[i].name
		results[i].out = c.Run(inputs[i].src)
		results[i].diags = c.Diagnostics
		logger.Info("lowered", "file", inputs[i].name, "bytes", len(results[i].out), "diagnostics", len(c.Diagnostics))
	}

	if jobs <= 1 || len(inputs) == 1 {
		c := newCtx()
		for i := range inputs {
			if isolate {
				c.Counter.Reset()
			}
			lowerOne(c, i)
		}
		return results
	}

	work := make(chan int, len(inputs))
	for i := range inputs {
		work <- i
	}
	close(work)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newCtx()
			for i := range work {
				c.Counter.Reset()
				lowerOne(c, i)
			}
		}()
	}
	wg.Wait()
	return results
}

func (a *app) lowerAction(ctx context.Context, cmd *cli.Command) error {
	inputs, err := a.readInputs(cmd)
	if err != nil {
		return err
	}
	results := lowerAll(inputs, cmd.Int("jobs"), cmd.Bool("isolate"), ctxlog.FromContext(ctx))

	var buf bytes.Buffer
	for _, r := range results {
		a.printDiagnostics(r.diags)
		buf.WriteString(r.out)
		if len(results) > 1 && !strings.HasSuffix(r.out, "\n") {
			buf.WriteByte('\n')
		}
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}
	_, err = a.stdout.Write(buf.Bytes())
	return err
}

func (a *app) checkAction(ctx context.Context, cmd *cli.Command) error {
	inputs, err := a.readInputs(cmd)
	if err != nil {
		return err
	}
	n := 0
	for _, r := range lowerAll(inputs, cmd.Int("jobs"), true, ctxlog.FromContext(ctx)) {
		a.printDiagnostics(r.diags)
		n += len(r.diags)
	}
	if n > 0 {
		return fmt.Errorf("%d diagnostic(s)", n)
	}
	return nil
}

func (a *app) tablesAction(ctx context.Context, cmd *cli.Command) error {
	inputs, err := a.readInputs(cmd)
	if err != nil {
		return err
	}
	c := preprocess.NewContext()
	c.Logger = ctxlog.FromContext(ctx)
	for _, in := range inputs {
		c.Filename = in.name
		macros, rest := c.CollectMacros(preprocess.StripComments(in.src))
		rules, _ := c.CollectPatterns(rest)

		if len(inputs) > 1 {
			fmt.Fprintf(a.stdout, "=== %s ===\n", in.name)
		}
		fmt.Fprintln(a.stdout, "macros:")
		for _, m := range macros.Macros() {
			fmt.Fprintf(a.stdout, "  %s %q\n", m.Name, m.Body)
		}
		fmt.Fprintln(a.stdout, "patterns:")
		for _, r := range rules {
			fmt.Fprintf(a.stdout, "  %q -> %q\n", r.Match, r.Replace)
		}
	}
	a.printDiagnostics(c.Diagnostics)
	return nil
}

func (a *app) docAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: stackpp doc <file.spp | directory> [macro]")
	}
	target := cmd.Args().First()
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", target, err)
	}
	var fd *doc.FileDoc
	if info.IsDir() {
		fd, err = doc.ExtractDir(target)
	} else {
		fd, err = doc.ExtractFile(target)
	}
	if err != nil {
		return err
	}

	if cmd.NArg() > 1 {
		name := cmd.Args().Get(1)
		docStr, sig, ok := doc.LookupMacro(fd, name)
		if !ok {
			return fmt.Errorf("macro %s not found in %s", name, target)
		}
		fmt.Fprint(a.stdout, doc.FormatSymbol(docStr, sig))
		return nil
	}
	fmt.Fprint(a.stdout, doc.FormatFile(fd, cmd.Bool("all")))
	return nil
}

func (a *app) printDiagnostics(diags scanner.ErrList) {
	colorOn, colorReset := "\033[33m", "\033[0m"
	if !a.color {
		colorOn, colorReset = "", ""
	}
	for _, d := range diags {
		pos := d.Pos
		fmt.Fprintf(a.stderr, "%s%s: %v%s\n", colorOn, pos.String(), d.Err, colorReset)
	}
}
