// Package elflang provides a public API for embedding the elf-lang interpreter.
//
// The CLI, the file watcher, and the script-level tests all go through this
// package so that source handling, error reporting, and evaluation behave
// identically everywhere.
package elflang

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/elf-lang/elf/pkg/elflang/ast"
	elferrors "github.com/elf-lang/elf/pkg/elflang/errors"
	"github.com/elf-lang/elf/pkg/elflang/evaluator"
	"github.com/elf-lang/elf/pkg/elflang/lexer"
	"github.com/elf-lang/elf/pkg/elflang/object"
	"github.com/elf-lang/elf/pkg/elflang/parser"
)

// Tokenize scans source and returns every token before the terminating EOF.
// Scanning stops at the first illegal token, reported as a parse error at
// its position.
func Tokenize(source string) ([]lexer.Token, *elferrors.ElfError) {
	l := lexer.New(source)

	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case lexer.EOF:
			return tokens, nil
		case lexer.ILLEGAL:
			msg := tok.Literal
			if utf8.RuneCountInString(msg) == 1 {
				msg = fmt.Sprintf("unexpected character '%s'", msg)
			}
			return tokens, elferrors.NewParseError(msg, tok.Line, tok.Column)
		}
		tokens = append(tokens, tok)
	}
}

// Parse builds a program AST from source. On failure the returned slice
// holds the first error the parser recorded.
func Parse(source string) (*ast.Program, []*elferrors.ElfError) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) != 0 {
		return nil, errs
	}

	return program, nil
}

// Run parses and evaluates source in a fresh environment, writing puts
// output to out. Parse and runtime failures both surface as a single error.
func Run(source string, out io.Writer) (object.Object, *elferrors.ElfError) {
	return RunInEnv(source, object.NewEnvironment(), out)
}

// RunInEnv is Run against a caller-owned environment, for hosts that keep
// bindings alive across runs.
func RunInEnv(source string, env *object.Environment, out io.Writer) (object.Object, *elferrors.ElfError) {
	program, errs := Parse(source)
	if len(errs) != 0 {
		return nil, errs[0]
	}

	result := evaluator.New(out).Eval(program, env)
	if errObj, ok := result.(*object.Error); ok {
		return nil, elferrors.NewRuntimeError(errObj.Message)
	}

	return result, nil
}
