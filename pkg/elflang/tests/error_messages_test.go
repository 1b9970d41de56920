package tests

import (
	"io"
	"testing"

	"github.com/elf-lang/elf/pkg/elflang/evaluator"
	"github.com/elf-lang/elf/pkg/elflang/lexer"
	"github.com/elf-lang/elf/pkg/elflang/object"
	"github.com/elf-lang/elf/pkg/elflang/parser"
)

// testEvalForError evaluates elf code and hands back whatever came out,
// errors included.
func testEvalForError(input string) object.Object {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	env := object.NewEnvironment()
	return evaluator.New(io.Discard).Eval(program, env)
}

func assertErrorMessage(t *testing.T, input, expected string) {
	t.Helper()

	result := testEvalForError(input)
	errObj, ok := result.(*object.Error)
	if !ok {
		t.Fatalf("expected error, got %T (%s)", result, result.Inspect())
	}
	if errObj.Message != expected {
		t.Errorf("wrong error message.\nwant: %s\ngot:  %s", expected, errObj.Message)
	}
}

func TestUnsupportedOperationMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"boolean addition", "true + 1", "Unsupported operation: Boolean + Integer"},
		{"list plus scalar", "[1] + 1", "Unsupported operation: List + Integer"},
		{"nil subtraction", "nil - 1", "Unsupported operation: Nil - Integer"},
		{"set division", "{1} / 2", "Unsupported operation: Set / Integer"},
		{"string times string", `"a" * "b"`, "Unsupported operation: String * String"},
		{"string times decimal", `"ab" * 2.5`, "Unsupported operation: String * Decimal"},
		{"negative string repeat", `"ab" * -1`, "Unsupported operation: String * Integer (< 0)"},
		{"negating a boolean", "-true", "Unsupported operation: -Boolean"},
		{"negating a string", `-"a"`, "Unsupported operation: -String"},
		{"ordering strings", `"a" < "b"`, "Unsupported operation: String < String"},
		{"ordering mixed types", "1 < [2]", "Unsupported operation: Integer < List"},
		{"ordering booleans", "true >= false", "Unsupported operation: Boolean >= Boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorMessage(t, tt.input, tt.expected)
		})
	}
}

func TestDivisionByZeroMessages(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"integer by integer zero", "1 / 0"},
		{"decimal by decimal zero", "1.5 / 0.0"},
		{"integer by decimal zero", "1 / 0.0"},
		{"inside an expression", "10 + 4 / 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorMessage(t, tt.input, "Division by zero")
		})
	}
}

func TestIndexOperationMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"indexing an integer", "5[0]", "Unable to perform index operation, found: Integer[Integer]"},
		{"list with string index", `[1, 2]["a"]`, "Unable to perform index operation, found: List[String]"},
		{"string with decimal index", `"abc"[1.5]`, "Unable to perform index operation, found: String[Decimal]"},
		{"indexing a set", "{1, 2}[0]", "Unable to perform index operation, found: Set[Integer]"},
		{"indexing a boolean", "true[0]", "Unable to perform index operation, found: Boolean[Integer]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorMessage(t, tt.input, tt.expected)
		})
	}
}

func TestUnexpectedArgumentMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"first of integer", "first(5)", "Unexpected argument: first(Integer)"},
		{"rest of boolean", "rest(true)", "Unexpected argument: rest(Boolean)"},
		{"size of nil", "size(nil)", "Unexpected argument: size(Nil)"},
		{"push onto scalar", "push(1, 5)", "Unexpected argument: push(Integer, Integer)"},
		{"push onto string", `push(1, "abc")`, "Unexpected argument: push(Integer, String)"},
		{"assoc into list", "assoc(1, 2, [3])", "Unexpected argument: assoc(Integer, Integer, List)"},
		{"map without function", "map(5, [1])", "Unexpected argument: map(Integer, List)"},
		{"map over scalar", "map(|x| x, 5)", "Unexpected argument: map(Function, Integer)"},
		{"filter over set", "filter(|x| x, {1})", "Unexpected argument: filter(Function, Set)"},
		{"fold over nil", "fold(0, +, nil)", "Unexpected argument: fold(Integer, Function, Nil)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorMessage(t, tt.input, tt.expected)
		})
	}
}

func TestCallingNonFunctions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"calling an integer", "5(1)", "Expected a Function, found: Integer"},
		{"calling a string", `"f"(2)`, "Expected a Function, found: String"},
		{"calling a list", "[1, 2](0)", "Expected a Function, found: List"},
		{"calling a bound scalar", "let x = 4; x(1)", "Expected a Function, found: Integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorMessage(t, tt.input, tt.expected)
		})
	}
}

func TestErrorPropagation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "error inside map stops the pipeline",
			input:    "[1, 2] |> map(|x| x + nil) |> size",
			expected: "Unsupported operation: Integer + Nil",
		},
		{
			name:     "error inside fold surfaces",
			input:    "fold(0, +, [1, true])",
			expected: "Unsupported operation: Integer + Boolean",
		},
		{
			name:     "error inside function body surfaces at call",
			input:    "let f = |x| x[0]; f(5)",
			expected: "Unable to perform index operation, found: Integer[Integer]",
		},
		{
			name:     "error in condition stops the conditional",
			input:    "if missing { 1 } else { 2 }",
			expected: "Identifier can not be found: missing",
		},
		{
			name:     "error in let initializer stops the binding",
			input:    "let x = 1 / 0; x",
			expected: "Division by zero",
		},
		{
			name:     "error in list literal element",
			input:    "[1, 2 + nil, 3]",
			expected: "Unsupported operation: Integer + Nil",
		},
		{
			name:     "error in composed stage surfaces at call",
			input:    "let bad = (|x| x + nil) >> size; bad(1)",
			expected: "Unsupported operation: Integer + Nil",
		},
		{
			name:     "unbound identifier in call argument",
			input:    "size(missing)",
			expected: "Identifier can not be found: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorMessage(t, tt.input, tt.expected)
		})
	}
}
