package object

import "testing"

func TestInspect(t *testing.T) {
	tests := []struct {
		obj      Object
		expected string
	}{
		{&Integer{Value: 5}, "5"},
		{&Integer{Value: -42}, "-42"},
		{&Decimal{Value: 2.5}, "2.5"},
		{&Decimal{Value: 2.0}, "2"},
		{&Decimal{Value: -0.5}, "-0.5"},
		{&Decimal{Value: 0.1 + 0.2}, "0.30000000000000004"},
		{&String{Value: "hello"}, `"hello"`},
		{&String{Value: "a\nb"}, `"a\nb"`},
		{&String{Value: "a\tb"}, `"a\tb"`},
		{&String{Value: `a\b`}, `"a\\b"`},
		{&String{Value: `say "hi"`}, `"say "hi""`},
		{&Boolean{Value: true}, "true"},
		{&Boolean{Value: false}, "false"},
		{&Nil{}, "nil"},
		{&List{Elements: []Object{}}, "[]"},
		{&List{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}, "[1, 2]"},
		{
			&List{Elements: []Object{
				&List{Elements: []Object{&Integer{Value: 1}}},
				&String{Value: "x"},
			}},
			`[[1], "x"]`,
		},
		{NewSet([]Object{&Integer{Value: 2}, &Integer{Value: 1}}), "{1, 2}"},
		{NewSet(nil), "{}"},
		{
			NewDictionary([]DictPair{
				{Key: &String{Value: "b"}, Value: &Integer{Value: 2}},
				{Key: &String{Value: "a"}, Value: &Integer{Value: 1}},
			}),
			`#{"a": 1, "b": 2}`,
		},
		{&Function{}, "|...| { [function] }"},
		{&Builtin{Name: "size", Arity: 1}, "|...| { [builtin] }"},
		{&Partial{}, "|...| { [partial] }"},
		{&Composed{}, "|...| { [composed] }"},
		{&Error{Message: "boom"}, "ERROR: boom"},
	}

	for i, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.expected {
			t.Errorf("tests[%d] - wrong Inspect. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestObjectTypes(t *testing.T) {
	tests := []struct {
		obj      Object
		expected ObjectType
	}{
		{&Integer{Value: 1}, INTEGER_OBJ},
		{&Decimal{Value: 1.5}, DECIMAL_OBJ},
		{&String{Value: "x"}, STRING_OBJ},
		{&Boolean{Value: true}, BOOLEAN_OBJ},
		{&Nil{}, NIL_OBJ},
		{&List{}, LIST_OBJ},
		{&Set{}, SET_OBJ},
		{&Dictionary{}, DICTIONARY_OBJ},
		{&Function{}, FUNCTION_OBJ},
		{&Builtin{}, FUNCTION_OBJ},
		{&Partial{}, FUNCTION_OBJ},
		{&Composed{}, FUNCTION_OBJ},
	}

	for i, tt := range tests {
		if got := tt.obj.Type(); got != tt.expected {
			t.Errorf("tests[%d] - wrong Type. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestNewSetDeduplicatesAndSorts(t *testing.T) {
	s := NewSet([]Object{
		&Integer{Value: 3},
		&Integer{Value: 1},
		&Integer{Value: 3},
		&Decimal{Value: 1.0},
		&Integer{Value: 2},
	})

	if got := s.Inspect(); got != "{1, 2, 3}" {
		t.Errorf("set wrong. expected=%q, got=%q", "{1, 2, 3}", got)
	}
}

func TestNewSetMixedClasses(t *testing.T) {
	s := NewSet([]Object{
		&String{Value: "a"},
		&Integer{Value: 1},
		&Boolean{Value: true},
		&Nil{},
		&List{Elements: []Object{&Integer{Value: 1}}},
	})

	expected := `{nil, true, 1, "a", [1]}`
	if got := s.Inspect(); got != expected {
		t.Errorf("set wrong. expected=%q, got=%q", expected, got)
	}
}

func TestSetContains(t *testing.T) {
	s := NewSet([]Object{&Integer{Value: 1}, &String{Value: "x"}})

	if !s.Contains(&Integer{Value: 1}) {
		t.Errorf("expected set to contain 1")
	}
	if !s.Contains(&Decimal{Value: 1.0}) {
		t.Errorf("expected set to contain 1.0 via numeric equality")
	}
	if s.Contains(&Integer{Value: 2}) {
		t.Errorf("did not expect set to contain 2")
	}
}

func TestNewDictionaryLastWriteWins(t *testing.T) {
	d := NewDictionary([]DictPair{
		{Key: &String{Value: "a"}, Value: &Integer{Value: 1}},
		{Key: &String{Value: "a"}, Value: &Integer{Value: 2}},
	})

	if got := d.Inspect(); got != `#{"a": 2}` {
		t.Errorf("dictionary wrong. expected=%q, got=%q", `#{"a": 2}`, got)
	}
}

func TestDictionaryGet(t *testing.T) {
	d := NewDictionary([]DictPair{
		{Key: &Integer{Value: 1}, Value: &String{Value: "one"}},
	})

	v, ok := d.Get(&Integer{Value: 1})
	if !ok {
		t.Fatalf("expected key 1 to be present")
	}
	if v.Inspect() != `"one"` {
		t.Errorf("value wrong. expected=%q, got=%q", `"one"`, v.Inspect())
	}

	if v, ok := d.Get(&Decimal{Value: 1.0}); !ok || v.Inspect() != `"one"` {
		t.Errorf("expected 1.0 to find key 1, got ok=%t", ok)
	}

	if _, ok := d.Get(&Integer{Value: 2}); ok {
		t.Errorf("did not expect key 2 to be present")
	}
}

func TestDictionaryWith(t *testing.T) {
	d := NewDictionary([]DictPair{
		{Key: &String{Value: "b"}, Value: &Integer{Value: 2}},
	})

	d2 := d.With(&String{Value: "a"}, &Integer{Value: 1})

	if got := d2.Inspect(); got != `#{"a": 1, "b": 2}` {
		t.Errorf("updated dictionary wrong. expected=%q, got=%q", `#{"a": 1, "b": 2}`, got)
	}
	if got := d.Inspect(); got != `#{"b": 2}` {
		t.Errorf("original dictionary changed. got=%q", got)
	}

	d3 := d2.With(&String{Value: "a"}, &Integer{Value: 9})
	if got := d3.Inspect(); got != `#{"a": 9, "b": 2}` {
		t.Errorf("overwrite wrong. expected=%q, got=%q", `#{"a": 9, "b": 2}`, got)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a        Object
		b        Object
		expected int
	}{
		{&Integer{Value: 1}, &Integer{Value: 2}, -1},
		{&Integer{Value: 2}, &Integer{Value: 1}, 1},
		{&Integer{Value: 1}, &Integer{Value: 1}, 0},
		{&Integer{Value: 1}, &Decimal{Value: 1.0}, 0},
		{&Decimal{Value: 0.5}, &Integer{Value: 1}, -1},
		{&String{Value: "apple"}, &String{Value: "banana"}, -1},
		{&String{Value: "a"}, &String{Value: "ab"}, -1},
		{&Boolean{Value: false}, &Boolean{Value: true}, -1},
		{&Nil{}, &Nil{}, 0},

		// class ladder: Nil < Boolean < Number < String < List < Set < Dictionary
		{&Nil{}, &Boolean{Value: false}, -1},
		{&Boolean{Value: true}, &Integer{Value: 0}, -1},
		{&Integer{Value: 99}, &String{Value: ""}, -1},
		{&String{Value: "z"}, &List{}, -1},
		{&List{}, &Set{}, -1},
		{&Set{}, &Dictionary{}, -1},
		{&Dictionary{}, &Function{}, -1},

		// lists compare elementwise, then by length
		{
			&List{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}},
			&List{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 3}}},
			-1,
		},
		{
			&List{Elements: []Object{&Integer{Value: 1}}},
			&List{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}},
			-1,
		},
		{
			&List{Elements: []Object{&Integer{Value: 1}, &Decimal{Value: 2.0}}},
			&List{Elements: []Object{&Decimal{Value: 1.0}, &Integer{Value: 2}}},
			0,
		},
	}

	for i, tt := range tests {
		got := Compare(tt.a, tt.b)
		if sign(got) != tt.expected {
			t.Errorf("tests[%d] - Compare(%s, %s) wrong. expected=%d, got=%d",
				i, tt.a.Inspect(), tt.b.Inspect(), tt.expected, got)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a        Object
		b        Object
		expected bool
	}{
		{&Integer{Value: 1}, &Decimal{Value: 1.0}, true},
		{&Integer{Value: 1}, &Integer{Value: 2}, false},
		{&String{Value: "x"}, &String{Value: "x"}, true},
		{&Integer{Value: 1}, &String{Value: "1"}, false},
		{&Nil{}, &Nil{}, true},
		{&Boolean{Value: false}, &Nil{}, false},
		{
			NewSet([]Object{&Integer{Value: 1}, &Integer{Value: 2}}),
			NewSet([]Object{&Integer{Value: 2}, &Integer{Value: 1}}),
			true,
		},
		{
			NewDictionary([]DictPair{{Key: &String{Value: "a"}, Value: &Integer{Value: 1}}}),
			NewDictionary([]DictPair{{Key: &String{Value: "a"}, Value: &Decimal{Value: 1.0}}}),
			true,
		},
	}

	for i, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.expected {
			t.Errorf("tests[%d] - Equal(%s, %s) wrong. expected=%t, got=%t",
				i, tt.a.Inspect(), tt.b.Inspect(), tt.expected, got)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2.0, "2"},
		{2.5, "2.5"},
		{0.0, "0"},
		{1.0 / 3.0, "0.3333333333333333"},
		{100.0, "100"},
	}

	for i, tt := range tests {
		if got := FormatDecimal(tt.input); got != tt.expected {
			t.Errorf("tests[%d] - wrong rendering. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}
