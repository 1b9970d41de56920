package repl

import "testing"

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"1 + 2", false},
		{"let f = |x| {", true},
		{"let f = |x| { x }", false},
		{"[1, 2,", true},
		{"[1, 2, 3]", false},
		{"map(|x| x,", true},
		{"map(|x| x, [1])", false},
		{`"a string with { inside"`, false},
		{`"unclosed { [ (`, false},
		{`"escaped \" quote" + (`, true},
		{"#{\n  1: 2,", true},
		{"#{1: 2}", false},
	}

	for _, tt := range tests {
		if got := needsMoreInput(tt.input); got != tt.expected {
			t.Errorf("needsMoreInput(%q) = %t, want %t", tt.input, got, tt.expected)
		}
	}
}

func TestFilterCompletions(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"le", []string{"let"}},
		{"f", []string{"first", "filter", "fold", "false"}},
		{"let x = pu", []string{"puts", "push"}},
		{"", nil},
		{"let ", nil},
		{"zzz", nil},
	}

	for _, tt := range tests {
		got := filterCompletions(tt.input)

		if len(got) != len(tt.expected) {
			t.Errorf("filterCompletions(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("filterCompletions(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}
