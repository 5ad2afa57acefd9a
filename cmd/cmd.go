package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/stackpp/ctxlog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// app holds the streams and settings shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	color  bool
}

// Execute runs the stackpp CLI with the given version string.
func Execute(version string) {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := a.command(version).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) command(version string) *cli.Command {
	return &cli.Command{
		Name:                   "stackpp",
		Usage:                  "Lower macro, pattern and operator source into postfix stack form",
		Version:                version,
		UseShortOptionHandling: true,
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("STACKPP_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		}, lowerFlags()...),
		Before: a.before,
		// `stackpp file.spp` is shorthand for `stackpp lower file.spp`
		Action: a.lowerAction,
		Commands: []*cli.Command{
			{
				Name:      "lower",
				Usage:     "Lower files (or stdin) and print the result",
				ArgsUsage: "[file.spp...]",
				Action:    a.lowerAction,
			},
			{
				Name:      "check",
				Usage:     "Report diagnostics without printing the lowered output",
				ArgsUsage: "[file.spp...]",
				Action:    a.checkAction,
			},
			{
				Name:      "tables",
				Usage:     "Print the macro table and pattern rules collected from the input",
				ArgsUsage: "[file.spp...]",
				Action:    a.tablesAction,
			},
			{
				Name:      "doc",
				Usage:     "Show documentation for macro and pattern definitions",
				ArgsUsage: "<file.spp | directory> [macro]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "Include undocumented definitions",
					},
				},
				Action: a.docAction,
			},
		},
	}
}

// lowerFlags are declared on the root command and inherited by "lower".
func lowerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to this file instead of stdout",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Files lowered in parallel, each with its own counter",
			Value:   1,
		},
		&cli.BoolFlag{
			Name:  "isolate",
			Usage: "Reset the counter before each file",
		},
	}
}

// before installs the logger and decides whether diagnostics are colored.
// Color is off with --no-color, with NO_COLOR set, or when stderr is not a
// terminal.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger := ctxlog.New(cmd.String("log-level"), a.stderr)
	a.color = !cmd.Bool("no-color") && os.Getenv("NO_COLOR") == "" && isTerminal(a.stderr)
	return ctxlog.WithLogger(ctx, logger), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
