package tests

import (
	"io"
	"testing"

	"github.com/elf-lang/elf/pkg/elflang/evaluator"
	"github.com/elf-lang/elf/pkg/elflang/lexer"
	"github.com/elf-lang/elf/pkg/elflang/object"
	"github.com/elf-lang/elf/pkg/elflang/parser"
)

// testEvalLiteral evaluates elf code for literal tests
func testEvalLiteral(input string) object.Object {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	env := object.NewEnvironment()
	return evaluator.New(io.Discard).Eval(program, env)
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain integer", "42", "42"},
		{"zero", "0", "0"},
		{"negative", "-17", "-17"},
		{"underscore separator", "1_000_000", "1000000"},
		{"underscores everywhere", "1_2_3", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testEvalLiteral(tt.input)
			if result.Inspect() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result.Inspect())
			}
		})
	}
}

func TestDecimalLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain decimal", "3.14", "3.14"},
		{"trailing zero kept off", "2.0", "2"},
		{"negative decimal", "-0.5", "-0.5"},
		{"underscore separator", "1_000.5", "1000.5"},
		{"float artifact is visible", "0.1 + 0.2", "0.30000000000000004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testEvalLiteral(tt.input)
			if result.Inspect() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result.Inspect())
			}
		})
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain string", `"hello"`, `"hello"`},
		{"empty string", `""`, `""`},
		{"escaped quote", `"say \"hi\""`, `"say "hi""`},
		{"newline escape re-escaped on render", `"a\nb"`, `"a\nb"`},
		{"tab escape re-escaped on render", `"a\tb"`, `"a\tb"`},
		{"unicode text", `"héllo wörld"`, `"héllo wörld"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testEvalLiteral(tt.input)
			if result.Inspect() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result.Inspect())
			}
		})
	}
}

func TestBooleanAndNilLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"true", "true", "true"},
		{"false", "false", "false"},
		{"nil", "nil", "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testEvalLiteral(tt.input)
			if result.Inspect() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result.Inspect())
			}
		})
	}
}

// TestLiteralRoundTrip feeds each primitive's rendering back through the
// interpreter and checks the value survives unchanged.
func TestLiteralRoundTrip(t *testing.T) {
	inputs := []string{
		"42",
		"-7",
		"3.14",
		"0.30000000000000004",
		`"round trip"`,
		"true",
		"false",
		"nil",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := testEvalLiteral(input)
			second := testEvalLiteral(first.Inspect())
			if !object.Equal(first, second) {
				t.Errorf("round trip changed value: %s became %s", first.Inspect(), second.Inspect())
			}
		})
	}
}
