package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elf-lang/elf/config"
	"github.com/elf-lang/elf/pkg/elflang/elflang"
	elferrors "github.com/elf-lang/elf/pkg/elflang/errors"
	"github.com/elf-lang/elf/pkg/elflang/repl"
	"github.com/elf-lang/elf/pkg/watcher"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// errExitFailure signals a failure that has already been reported on the
// configured writers, so main exits non-zero without printing again.
var errExitFailure = errors.New("exit status 1")

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if !errors.Is(err, errExitFailure) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	// Check for subcommands first (before flag parsing)
	if len(args) > 0 {
		switch args[0] {
		case "tokens":
			return tokensCommand(args[1:], stdout, stderr)
		case "ast":
			return astCommand(args[1:], stdout, stderr)
		case "repl":
			return replCommand(args[1:], stdout, stderr, getenv)
		case "watch":
			return watchCommand(ctx, args[1:], stdout, stderr, getenv)
		}
	}

	flags := flag.NewFlagSet("elf", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }

	var (
		evalFlag    = flags.String("e", "", "Evaluate code string")
		evalLong    = flags.String("eval", "", "Evaluate code string")
		checkFlag   = flags.Bool("check", false, "Check syntax without executing")
		configFlag  = flags.String("config", "", "Path to config file")
		versionFlag = flags.Bool("V", false, "Show version information")
		versionLong = flags.Bool("version", false, "Show version information")
		helpFlag    = flags.Bool("h", false, "Show help message")
		helpLong    = flags.Bool("help", false, "Show help message")
	)

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *helpFlag || *helpLong {
		printUsage(stdout)
		return nil
	}

	if *versionFlag || *versionLong {
		fmt.Fprintf(stdout, "elf version %s\n", Version)
		return nil
	}

	// Get eval code (prefer -e over --eval if both set)
	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLong
	}

	// Mode dispatch
	switch {
	case evalCode != "":
		return runSource(evalCode, stdout)
	case *checkFlag:
		files := flags.Args()
		if len(files) == 0 {
			fmt.Fprintln(stderr, "Error: --check requires at least one file")
			return errExitFailure
		}
		return checkFiles(files, stderr)
	case len(flags.Args()) > 0:
		return executeFile(flags.Args()[0], stdout)
	default:
		return startREPL(*configFlag, stdout, getenv)
	}
}

// executeFile runs an elf source file, printing puts output followed by the
// program's final value.
func executeFile(filename string, stdout io.Writer) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", filename, err)
	}
	return runSource(string(content), stdout)
}

// runSource evaluates source and prints the final value as a space-padded
// line, matching the puts output format. Errors print as a single
// "[Error] ..." line on stdout and flip the exit status.
func runSource(source string, stdout io.Writer) error {
	result, runErr := elflang.Run(source, stdout)
	if runErr != nil {
		fmt.Fprintf(stdout, "[Error] %s\n", formatRunError(runErr))
		return errExitFailure
	}

	fmt.Fprintf(stdout, "%s \n", result.Inspect())
	return nil
}

// formatRunError renders an error for the "[Error] ..." line. Parse errors
// keep their source position; runtime errors are bare messages.
func formatRunError(err *elferrors.ElfError) string {
	if err.IsParseError() && err.Line > 0 {
		return err.String()
	}
	return err.Message
}

// checkFiles checks the syntax of one or more files without executing them
func checkFiles(files []string, stderr io.Writer) error {
	hasErrors := false

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("reading file '%s': %w", filename, err)
		}

		if _, errs := elflang.Parse(string(content)); len(errs) != 0 {
			printStructuredErrors(stderr, filename, string(content), errs)
			hasErrors = true
		}
	}

	if hasErrors {
		return errExitFailure
	}
	return nil
}

// tokenDump is the JSON shape of one token in the tokens command output.
type tokenDump struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// tokensCommand dumps the token stream of a file, one JSON object per line.
func tokensCommand(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: elf tokens <file>")
		return errExitFailure
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", args[0], err)
	}

	tokens, tokErr := elflang.Tokenize(string(content))
	if tokErr != nil {
		printStructuredErrors(stderr, args[0], string(content), []*elferrors.ElfError{tokErr})
		return errExitFailure
	}

	// A plain encoder would escape operator tokens like "<" and ">>"
	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	for _, tok := range tokens {
		if err := enc.Encode(tokenDump{Type: tok.Type.String(), Value: tok.Literal}); err != nil {
			return fmt.Errorf("encoding token: %w", err)
		}
	}
	return nil
}

// astCommand dumps the parsed AST of a file as indented JSON.
func astCommand(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: elf ast <file>")
		return errExitFailure
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", args[0], err)
	}

	program, errs := elflang.Parse(string(content))
	if len(errs) != 0 {
		printStructuredErrors(stderr, args[0], string(content), errs)
		return errExitFailure
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(program); err != nil {
		return fmt.Errorf("encoding ast: %w", err)
	}
	return nil
}

// replCommand starts the interactive session via the repl subcommand.
func replCommand(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFlag := flags.String("config", "", "Path to config file")

	if err := flags.Parse(args); err != nil {
		return err
	}

	return startREPL(*configFlag, stdout, getenv)
}

func startREPL(configPath string, stdout io.Writer, getenv func(string) string) error {
	cfg, err := config.Load(configPath, getenv)
	if err != nil {
		return err
	}

	repl.Start(stdout, Version, repl.Options{
		Prompt:             cfg.REPL.Prompt,
		ContinuationPrompt: cfg.REPL.ContinuationPrompt,
		HistoryFile:        cfg.REPL.HistoryFile,
		HistoryLimit:       cfg.REPL.HistoryLimit,
	})
	return nil
}

// watchCommand runs a script and re-runs it whenever the file changes.
func watchCommand(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFlag := flags.String("config", "", "Path to config file")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: elf watch [options] <file>")
		return errExitFailure
	}
	filename := flags.Arg(0)

	cfg, err := config.Load(*configFlag, getenv)
	if err != nil {
		return err
	}

	// Set up signal handling for clean shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Script errors are already reported by runSource; the watcher keeps
	// going and waits for the next change.
	runScript := func(path string) {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "[WATCH ERROR] reading %s: %v\n", path, err)
			return
		}
		_ = runSource(string(content), stdout)
	}

	w, err := watcher.New(filename, runScript, watcher.Options{
		Debounce:    cfg.Watch.Debounce.Std(),
		ClearScreen: cfg.Watch.ClearScreen,
	}, stdout, stderr)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// printStructuredErrors prints parser errors with source context
func printStructuredErrors(w io.Writer, filename, source string, errs []*elferrors.ElfError) {
	lines := strings.Split(source, "\n")

	for _, err := range errs {
		fmt.Fprintln(w, err.WithFile(filename).PrettyString())
		printSourceContext(w, lines, err.Line, err.Column)
	}
}

// printSourceContext prints the source line and error pointer
func printSourceContext(w io.Writer, lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// Calculate how many columns to trim from the left
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == ' ' || sourceLine[i] == '\t' {
			if sourceLine[i] == '\t' {
				trimCount += 8
			} else {
				trimCount++
			}
		} else {
			break
		}
	}

	// Trim left whitespace from the source line
	trimmedLine := strings.TrimLeft(sourceLine, " \t")

	// Show the trimmed line with slight indentation
	fmt.Fprintf(w, "    %s\n", trimmedLine)

	// Show pointer to the error position
	if colNum > 0 {
		// Calculate visual column accounting for tabs (8 spaces each) up to error position
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		// Adjust pointer position by subtracting trimmed columns
		adjustedCol := max(visualCol-trimCount, 0)

		pointer := strings.Repeat(" ", adjustedCol) + "^"
		fmt.Fprintf(w, "    %s\n", pointer)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `elf - the elf-lang interpreter version %s

Usage:
  elf [options] [file]
  elf -e "code"
  elf --check <file>...
  elf <command> [options] [file]

Commands:
  tokens <file>         Dump the token stream as JSON, one token per line
  ast <file>            Dump the parsed AST as JSON
  repl                  Start an interactive session (default with no args)
  watch <file>          Run a script and re-run it on every change

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -e, --eval <code>     Evaluate code string and print the result
  --check               Check syntax without executing (can specify multiple files)
  --config <path>       Path to config file (default: auto-detect)

Config Resolution:
  1. --config flag
  2. ELF_CONFIG environment variable
  3. ./elf.yaml
  4. ~/.config/elf/elf.yaml

Examples:
  elf                       Start interactive REPL
  elf script.elf            Run an elf script
  elf -e "1 + 2"            Evaluate inline code (outputs: 3)
  elf --check script.elf    Check syntax without executing
  elf tokens script.elf     Show the token stream
  elf ast script.elf        Show the AST as JSON
  elf watch script.elf      Re-run the script on every save
`, Version)
}
