package object

import (
	"strconv"
	"strings"

	"github.com/elf-lang/elf/pkg/elflang/ast"
)

// ObjectType names the runtime type of a value. The constants are the
// user-facing names that appear in error messages, e.g.
// "Expected a Function, found: Integer".
type ObjectType string

const (
	INTEGER_OBJ    = "Integer"
	DECIMAL_OBJ    = "Decimal"
	STRING_OBJ     = "String"
	BOOLEAN_OBJ    = "Boolean"
	NIL_OBJ        = "Nil"
	LIST_OBJ       = "List"
	SET_OBJ        = "Set"
	DICTIONARY_OBJ = "Dictionary"
	FUNCTION_OBJ   = "Function"
	ERROR_OBJ      = "ERROR"
)

// Object represents all values in the language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer represents integer values
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

// Decimal represents floating-point values
type Decimal struct {
	Value float64
}

func (d *Decimal) Type() ObjectType { return DECIMAL_OBJ }
func (d *Decimal) Inspect() string  { return FormatDecimal(d.Value) }

// FormatDecimal renders a decimal in canonical form: whole values print
// without a fractional part ("2", not "2.0"), everything else prints the
// shortest round-tripping digits without an exponent.
func FormatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String represents string values
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }

// Inspect renders the string quoted, with backslash, newline, and tab
// re-escaped. Double quotes inside the text are left bare.
func (s *String) Inspect() string {
	return "\"" + escapeString(s.Value) + "\""
}

var stringEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\n", "\\n",
	"\t", "\\t",
)

func escapeString(s string) string {
	return stringEscaper.Replace(s)
}

// Boolean represents boolean values
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Nil represents the nil value
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// List represents ordered collections, duplicates allowed
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out strings.Builder

	elements := []string{}
	for _, e := range l.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Set represents unique collections held in canonical sorted order.
// Always construct through NewSet so the invariant holds.
type Set struct {
	Elements []Object
}

// NewSet builds a set from arbitrary elements, deduplicating by structural
// equality and sorting into canonical order. Callers must reject Dictionary
// elements before construction.
func NewSet(elements []Object) *Set {
	unique := make([]Object, 0, len(elements))
	for _, el := range elements {
		found := false
		for _, u := range unique {
			if Equal(u, el) {
				found = true
				break
			}
		}
		if !found {
			unique = append(unique, el)
		}
	}
	SortObjects(unique)
	return &Set{Elements: unique}
}

func (s *Set) Type() ObjectType { return SET_OBJ }
func (s *Set) Inspect() string {
	var out strings.Builder

	elements := []string{}
	for _, e := range s.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("{")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("}")
	return out.String()
}

// Contains reports whether the set holds a structurally equal element
func (s *Set) Contains(v Object) bool {
	for _, el := range s.Elements {
		if Equal(el, v) {
			return true
		}
	}
	return false
}

// DictPair is one key/value entry of a dictionary
type DictPair struct {
	Key   Object
	Value Object
}

// Dictionary represents key-sorted dictionaries with unique keys.
// Always construct through NewDictionary or With so the invariant holds.
type Dictionary struct {
	Pairs []DictPair
}

// NewDictionary builds a dictionary from entries in source order: duplicate
// keys resolve last-write-wins, and the result is sorted by key. Callers
// must reject Dictionary keys before construction.
func NewDictionary(pairs []DictPair) *Dictionary {
	unique := make([]DictPair, 0, len(pairs))
	for _, p := range pairs {
		replaced := false
		for i := range unique {
			if Equal(unique[i].Key, p.Key) {
				unique[i].Value = p.Value
				replaced = true
				break
			}
		}
		if !replaced {
			unique = append(unique, p)
		}
	}
	sortPairs(unique)
	return &Dictionary{Pairs: unique}
}

func (d *Dictionary) Type() ObjectType { return DICTIONARY_OBJ }
func (d *Dictionary) Inspect() string {
	var out strings.Builder

	pairs := []string{}
	for _, p := range d.Pairs {
		pairs = append(pairs, p.Key.Inspect()+": "+p.Value.Inspect())
	}

	out.WriteString("#{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Get returns the value for a structurally equal key
func (d *Dictionary) Get(key Object) (Object, bool) {
	for _, p := range d.Pairs {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// With returns a new dictionary with the key set or overwritten
func (d *Dictionary) With(key, value Object) *Dictionary {
	pairs := make([]DictPair, len(d.Pairs), len(d.Pairs)+1)
	copy(pairs, d.Pairs)
	pairs = append(pairs, DictPair{Key: key, Value: value})
	return NewDictionary(pairs)
}

// Function represents user-defined functions with their closure environment
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "|...| { [function] }" }

// BuiltinFunction is the Go signature of a built-in implementation
type BuiltinFunction func(args ...Object) Object

// Builtin represents built-in functions. Arity drives the uniform partial
// application protocol; a negative arity marks a variadic builtin that is
// never partially applied.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return FUNCTION_OBJ }
func (b *Builtin) Inspect() string  { return "|...| { [builtin] }" }

// Partial represents a callable with some leading arguments already bound
type Partial struct {
	Fn   Object // Function, Builtin, Partial, or Composed
	Args []Object
}

func (p *Partial) Type() ObjectType { return FUNCTION_OBJ }
func (p *Partial) Inspect() string  { return "|...| { [partial] }" }

// Composed represents a composition pipeline; stages apply left to right
type Composed struct {
	Functions []Object
}

func (c *Composed) Type() ObjectType { return FUNCTION_OBJ }
func (c *Composed) Inspect() string  { return "|...| { [composed] }" }

// IsCallable reports whether a value can be applied as a function
func IsCallable(obj Object) bool {
	switch obj.(type) {
	case *Function, *Builtin, *Partial, *Composed:
		return true
	}
	return false
}

// Error represents runtime errors flowing through evaluation
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
