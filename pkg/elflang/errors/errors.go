// Package errors provides the structured error type shared by the elf-lang
// parser and evaluator.
//
// Parser errors carry a source position; runtime errors carry only the
// message, since evaluation reports a single formatted message with no
// in-language recovery.
package errors

import (
	"fmt"
	"strings"
)

// ErrorClass categorizes errors for display and exit-status decisions.
type ErrorClass string

const (
	ClassParse   ErrorClass = "parse"   // Parser/syntax errors (lex errors surface here too)
	ClassRuntime ErrorClass = "runtime" // Evaluation errors
)

// ElfError represents any error from parsing or evaluation.
type ElfError struct {
	Class   ErrorClass `json:"class"`
	Message string     `json:"message"`
	Line    int        `json:"line"`           // 1-based line (0 if unknown)
	Column  int        `json:"column"`         // 1-based column (0 if unknown)
	File    string     `json:"file,omitempty"` // File path (if known)
}

// NewParseError creates a parse error at a source position.
func NewParseError(message string, line, column int) *ElfError {
	return &ElfError{
		Class:   ClassParse,
		Message: message,
		Line:    line,
		Column:  column,
	}
}

// NewRuntimeError creates a runtime error. Runtime errors have no position.
func NewRuntimeError(message string) *ElfError {
	return &ElfError{
		Class:   ClassRuntime,
		Message: message,
	}
}

// Error implements the error interface.
func (e *ElfError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *ElfError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *ElfError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassParse:
		sb.WriteString("Parser error")
	default:
		sb.WriteString("Runtime error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	return sb.String()
}

// WithFile returns a copy of the error with the file path set.
func (e *ElfError) WithFile(file string) *ElfError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *ElfError) WithPosition(line, column int) *ElfError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError returns true if this is a parser error.
func (e *ElfError) IsParseError() bool {
	return e.Class == ClassParse
}
