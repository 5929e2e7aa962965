// Command lox is the REPL and script driver for the interpreter: no
// positional argument starts a REPL, one argument runs that file as a
// script, and more than one argument is a usage error.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lox/ast"
	"lox/internal/config"
	"lox/internal/diagnostics"
	"lox/internal/rescache"
	"lox/interpret"
	"lox/parse"
	"lox/resolve"
	"lox/scan"
)

// exitCode is set by runLox and read by main after rootCmd.Execute
// returns, since the driver's exit codes (0/64/65/70) are part of the
// contract and must not be folded into cobra's generic error handling.
var exitCode int

var rootCmd = &cobra.Command{
	Use:           "lox [script]",
	Short:         "A tree-walking interpreter for Lox",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLox,
}

func init() {
	rootCmd.Flags().Bool("color", false, "force colored diagnostics on, overriding auto-detection and config")
	rootCmd.Flags().Bool("no-color", false, "force colored diagnostics off, overriding auto-detection and config")
	rootCmd.Flags().Bool("no-cache", false, "bypass the resolution cache")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func runLox(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		exitCode = 64
		return nil
	}

	colorOn, err := cmd.Flags().GetBool("color")
	if err != nil {
		return err
	}
	colorOff, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	cfg := config.Load(os.Stderr)
	sink := diagnostics.NewSink(os.Stderr, resolveColorize(colorOn, colorOff, cfg.Color))

	var cache *rescache.Cache
	if !noCache {
		cache = rescache.Open()
	}

	if len(args) == 0 {
		runPrompt(sink, cfg.Prompt)
		return nil
	}

	exitCode = runFile(args[0], sink, cache)
	return nil
}

// resolveColorize applies the --color/--no-color override, falling
// back to the config file's setting, and finally to terminal
// auto-detection on stderr (where diagnostics are written).
func resolveColorize(colorOn, colorOff bool, cfgColor config.Color) bool {
	if colorOff {
		return false
	}
	if colorOn {
		return true
	}
	switch cfgColor {
	case config.ColorOn:
		return true
	case config.ColorOff:
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

func runPrompt(sink *diagnostics.Sink, prompt string) {
	interpreter := interpret.NewInterpreter(os.Stdout, sink)
	lines := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !lines.Scan() {
			return
		}

		tokens, hadScanErr := scan.NewScanner(lines.Text(), sink).ScanTokens()
		if hadScanErr {
			continue
		}
		statements, hadParseErr := parse.NewParser(tokens, sink).Parse()
		if hadParseErr {
			continue
		}
		if resolve.NewResolver(interpreter, sink).ResolveStmts(statements) {
			continue
		}
		interpreter.Interpret(statements)
	}
}

// runFile executes path as a script and returns the process exit code
// the driver contract assigns to the outcome: 0 on success, 65 on a
// static (scan/parse/resolve) error, 70 on a runtime error.
func runFile(path string, sink *diagnostics.Sink, cache *rescache.Cache) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(sink, err)
		return 65
	}

	tokens, hadScanErr := scan.NewScanner(string(source), sink).ScanTokens()
	p := parse.NewParser(tokens, sink)
	statements, hadParseErr := p.Parse()
	if hadScanErr || hadParseErr {
		return 65
	}

	interpreter := interpret.NewInterpreter(os.Stdout, sink)

	if hadResolveErr := resolveWithCache(interpreter, statements, string(source), p.NodeCount(), sink, cache); hadResolveErr {
		return 65
	}

	if _, hadRuntimeErr := interpreter.Interpret(statements); hadRuntimeErr {
		return 70
	}
	return 0
}

// resolveWithCache resolves statements, consulting cache first. A
// cache hit seeds the interpreter's locals directly and skips the
// resolver; a miss resolves normally and, on success, stores the
// result for next time.
func resolveWithCache(interpreter *interpret.Interpreter, statements []ast.Stmt, source string, nodeCount int, sink *diagnostics.Sink, cache *rescache.Cache) bool {
	digest := rescache.Digest(source)

	if cache != nil {
		if locals, ok := cache.Get(digest, nodeCount); ok {
			interpreter.LoadLocals(locals)
			return false
		}
	}

	hadResolveErr := resolve.NewResolver(interpreter, sink).ResolveStmts(statements)
	if !hadResolveErr && cache != nil {
		cache.Put(digest, nodeCount, interpreter.Locals())
	}
	return hadResolveErr
}
