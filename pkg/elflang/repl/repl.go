package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	elferrors "github.com/elf-lang/elf/pkg/elflang/errors"
	"github.com/elf-lang/elf/pkg/elflang/evaluator"
	"github.com/elf-lang/elf/pkg/elflang/lexer"
	"github.com/elf-lang/elf/pkg/elflang/object"
	"github.com/elf-lang/elf/pkg/elflang/parser"
	"github.com/peterh/liner"
)

const PROMPT = ">> "
const PROMPT_RAW = ":> "
const CONTINUATION_PROMPT = ".. "

const ELF_LOGO = `
█▀▀ █░░ █▀▀
██▄ █▄▄ █▀░ `

// elf-lang keywords and builtins for tab completion
var completionWords = []string{
	// Keywords
	"let", "mut", "if", "else",
	// Builtins
	"puts", "first", "rest", "size", "push", "assoc",
	"map", "filter", "fold",
	// Common values
	"true", "false", "nil",
}

// Options configures the interactive session. Zero values fall back to the
// package defaults.
type Options struct {
	Prompt             string
	ContinuationPrompt string
	HistoryFile        string
	HistoryLimit       int
}

func (o Options) withDefaults() Options {
	if o.Prompt == "" {
		o.Prompt = PROMPT
	}
	if o.ContinuationPrompt == "" {
		o.ContinuationPrompt = CONTINUATION_PROMPT
	}
	if o.HistoryFile == "" {
		o.HistoryFile = filepath.Join(os.TempDir(), ".elf_history")
	}
	return o
}

// Start starts the REPL with line editing, history, and tab completion
func Start(out io.Writer, version string, opts Options) {
	opts = opts.withDefaults()

	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	// Set up tab completion
	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	// Load command history from file
	if f, err := os.Open(opts.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer saveHistory(line, opts.HistoryFile, opts.HistoryLimit)

	env := object.NewEnvironment()
	ev := evaluator.New(out)

	fmt.Fprintf(out, "%s", ELF_LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder
	rawMode := false // When true, results render like running a .elf script
	basePrompt := opts.Prompt

	for {
		currentPrompt := basePrompt
		if inputBuffer.Len() > 0 {
			currentPrompt = opts.ContinuationPrompt
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			// Ctrl+D or Ctrl+C
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		// Check for exit command
		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		// Handle REPL commands (start with :)
		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			newRawMode, handled := handleReplCommand(trimmed, env, out, rawMode)
			if handled {
				rawMode = newRawMode
				if rawMode {
					basePrompt = PROMPT_RAW
				} else {
					basePrompt = opts.Prompt
				}
			}
			continue
		}

		// Skip empty lines when no input buffered
		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		// Add to input buffer
		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		// Check if input is complete (no unclosed braces/brackets)
		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			// Continue multi-line input
			continue
		}

		// Input is complete - add it to history, parse, and evaluate
		if trimmed != "" {
			line.AppendHistory(fullInput)
		}

		l := lexer.New(fullInput)
		p := parser.New(l)
		program := p.ParseProgram()

		if errs := p.StructuredErrors(); len(errs) != 0 {
			printStructuredErrors(out, errs)
			inputBuffer.Reset()
			continue
		}

		evaluated := ev.Eval(program, env)
		if errObj, ok := evaluated.(*object.Error); ok {
			printRuntimeError(out, errObj)
		} else if rawMode {
			// Raw mode: render the result the way `elf run` does,
			// trailing space included
			fmt.Fprintf(out, "%s \n", evaluated.Inspect())
		} else {
			fmt.Fprintln(out, evaluated.Inspect())
		}

		// Clear buffer for next input
		inputBuffer.Reset()
	}
}

// handleReplCommand handles REPL meta-commands that start with ':'
// Returns (newRawMode, handled) - if handled is true, the command was recognized
func handleReplCommand(cmd string, env *object.Environment, out io.Writer, rawMode bool) (bool, bool) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :env            Show variables in scope")
		fmt.Fprintln(out, "  :clear          Clear all user variables")
		fmt.Fprintln(out, "  :raw            Toggle raw output mode (script-style output)")
		fmt.Fprintln(out, "  exit, quit      Exit the REPL")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Output Modes:")
		fmt.Fprintln(out, "  >> (normal)     Shows elf-lang literals (strings quoted, etc.)")
		fmt.Fprintln(out, "  :> (raw)        Shows output like running a .elf script")
		return rawMode, true

	case ":env":
		printEnvironment(env, out)
		return rawMode, true

	case ":clear":
		// Swap in a fresh environment behind the shared pointer
		*env = *object.NewEnvironment()
		fmt.Fprintln(out, "Environment cleared")
		return rawMode, true

	case ":raw":
		newMode := !rawMode
		if newMode {
			fmt.Fprintln(out, "Raw output mode ON (script-style output)")
		} else {
			fmt.Fprintln(out, "Raw output mode OFF (elf-lang literal output)")
		}
		return newMode, true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
		return rawMode, true
	}
}

// printEnvironment displays all user-defined variables in the environment
func printEnvironment(env *object.Environment, out io.Writer) {
	vars := env.Variables()
	if len(vars) == 0 {
		fmt.Fprintln(out, "(no user variables)")
		return
	}

	// Sort for consistent output
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obj := vars[name]
		value := obj.Inspect()

		// Truncate long values
		if len(value) > 60 {
			value = value[:57] + "..."
		}

		fmt.Fprintf(out, "  %s: %s = %s\n", name, obj.Type(), value)
	}
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	// Don't complete if line is empty or only whitespace
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	// Get the last word being typed
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	lastWord := words[len(words)-1]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed braces, brackets, or
// parentheses, ignoring any inside string literals
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	braceCount := 0
	bracketCount := 0
	parenCount := 0
	inString := false
	escapeNext := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		if ch == '\\' {
			escapeNext = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch ch {
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '[':
			bracketCount++
		case ']':
			bracketCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	// Need more input if any are unclosed
	return braceCount > 0 || bracketCount > 0 || parenCount > 0
}

// printStructuredErrors prints parser errors using structured error format
func printStructuredErrors(out io.Writer, errs []*elferrors.ElfError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
	}
}

// printRuntimeError prints a runtime error with structured formatting
func printRuntimeError(out io.Writer, errObj *object.Error) {
	io.WriteString(out, elferrors.NewRuntimeError(errObj.Message).PrettyString())
	io.WriteString(out, "\n")
}

// saveHistory writes the session history back to file, keeping at most
// limit entries when a limit is set
func saveHistory(line *liner.State, path string, limit int) {
	var buf bytes.Buffer
	if _, err := line.WriteHistory(&buf); err != nil {
		return
	}

	data := buf.Bytes()
	if limit > 0 {
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) > limit {
			lines = lines[len(lines)-limit:]
		}
		data = []byte(strings.Join(lines, "\n") + "\n")
	}

	os.WriteFile(path, data, 0644)
}
