package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/FreePlacki/Klox/internal/interpreter"
	"github.com/FreePlacki/Klox/internal/loxerrors"
	"github.com/FreePlacki/Klox/internal/parser"
	"github.com/FreePlacki/Klox/internal/scanner"
)

const (
	ExitSuccess    = 0
	ExitUsageError = 64
	ExitDataError  = 65 // parse/static error
	ExitNoInput    = 66 // file not found
	ExitSoftware   = 70 // runtime error
)

// LoxApp wires Scanner -> Parser -> Resolver -> Interpreter for both the
// one-shot file runner and the REPL, and translates the outcome into the
// exit-code taxonomy the CLI promises.
type LoxApp struct {
	interp     interpreter.Interpreter
	resolver   interpreter.Resolver
	reporter   loxerrors.ErrReporter
	dumpScopes string
}

func NewLoxApp() *LoxApp {
	reporter := loxerrors.NewErrReporter(os.Stderr)
	interp := interpreter.NewInterpreter(interpreter.WithErrorReporter(reporter))

	return &LoxApp{
		interp:   interp,
		resolver: interpreter.NewResolver(interp),
		reporter: reporter,
	}
}

// Main is the CLI entry point: `klox` launches the REPL, `klox <path>` runs
// a script, anything else is a usage error.
func (app *LoxApp) Main(args []string) int {
	args, err := app.parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsageError
	}

	switch len(args) {
	case 0:
		return app.runPrompt()
	case 1:
		return app.runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: klox [script]")
		return ExitUsageError
	}
}

// parseFlags strips the additive --dump-scopes <path> flag out of args,
// leaving whatever's left for the usual script/no-args dispatch.
func (app *LoxApp) parseFlags(args []string) ([]string, error) {
	rest := make([]string, 0, len(args))

	for idx := 0; idx < len(args); idx++ {
		if args[idx] == "--dump-scopes" {
			if idx+1 >= len(args) {
				return nil, errors.New("--dump-scopes requires a path argument")
			}
			app.dumpScopes = args[idx+1]
			idx++
			continue
		}
		rest = append(rest, args[idx])
	}

	return rest, nil
}

func (app *LoxApp) runFile(scriptPath string) int {
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitNoInput
	}

	if _, _, err := app.run(context.Background(), string(source)); err != nil {
		return app.exitCodeFor(err)
	}
	return ExitSuccess
}

func (app *LoxApp) runPrompt() int {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitSoftware
	}
	defer rl.Close()

	fmt.Println("Klox REPL [ctrl+D to quit]")

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			return ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitSoftware
		}

		if out, shouldPrint, err := app.run(ctx, line); err != nil {
			app.reporter.ReportError(err)
			// The error flag is per-line in the REPL: a bad line doesn't
			// poison the session.
		} else if shouldPrint {
			fmt.Println(out)
		}
	}
}

func (app *LoxApp) run(ctx context.Context, source string) (string, bool, error) {
	s := scanner.NewScanner(source)
	tokens, err := s.Scan()
	if err != nil {
		return "", false, err
	}

	p := parser.NewParser(tokens)
	statements, err := p.Parse()
	if err != nil {
		return "", false, err
	}

	if err := app.resolver.Resolve(statements); err != nil {
		return "", false, err
	}

	if app.dumpScopes != "" {
		if werr := os.WriteFile(app.dumpScopes, []byte(app.resolver.DumpScopes()), 0o644); werr != nil {
			fmt.Fprintln(os.Stderr, werr)
		}
	}

	return app.interp.Interpret(ctx, statements)
}

// exitCodeFor maps a propagated error to the exit-code taxonomy: a
// RuntimeError is 70 (execution started and failed mid-way), anything else
// surfaced from Scan/Parse/Resolve is a data error, 65.
func (app *LoxApp) exitCodeFor(err error) int {
	var runtimeErr *loxerrors.RuntimeError
	if errors.As(err, &runtimeErr) {
		app.reporter.ReportError(err)
		return ExitSoftware
	}

	app.reporter.ReportError(err)
	return ExitDataError
}
