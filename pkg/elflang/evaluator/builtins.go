package evaluator

import (
	"fmt"
	"strings"

	"github.com/elf-lang/elf/pkg/elflang/object"
)

// registerBuiltins wires the builtin table for one evaluator instance. The
// entries close over ev so that puts writes to this evaluator's sink and the
// higher-order builtins call back through its call protocol.
//
// Builtins follow the same partial-application rule as user functions: too
// few arguments yield a partial, extras are ignored. puts is the exception,
// it is variadic and never partial.
func (ev *Evaluator) registerBuiltins() {
	ev.builtins = map[string]*object.Builtin{
		"puts":   {Name: "puts", Arity: -1, Fn: ev.builtinPuts},
		"first":  {Name: "first", Arity: 1, Fn: builtinFirst},
		"rest":   {Name: "rest", Arity: 1, Fn: builtinRest},
		"size":   {Name: "size", Arity: 1, Fn: builtinSize},
		"push":   {Name: "push", Arity: 2, Fn: builtinPush},
		"assoc":  {Name: "assoc", Arity: 3, Fn: builtinAssoc},
		"map":    {Name: "map", Arity: 2, Fn: ev.builtinMap},
		"filter": {Name: "filter", Arity: 2, Fn: ev.builtinFilter},
		"fold":   {Name: "fold", Arity: 3, Fn: ev.builtinFold},
	}

	// Operator functions, for passing to map, fold and friends.
	// 'map(+, xs)' partially applies '+' to each element.
	for _, op := range []string{"+", "-", "*", "/", ">", "<", ">=", "<=", "==", "!="} {
		op := op
		ev.builtins[op] = &object.Builtin{
			Name:  op,
			Arity: 2,
			Fn: func(args ...object.Object) object.Object {
				return evalInfixExpression(op, args[0], args[1])
			},
		}
	}
}

func (ev *Evaluator) builtinPuts(args ...object.Object) object.Object {
	for _, arg := range args {
		fmt.Fprintf(ev.out, "%s ", arg.Inspect())
	}
	fmt.Fprintln(ev.out)
	return NIL
}

func builtinFirst(args ...object.Object) object.Object {
	switch arg := args[0].(type) {
	case *object.List:
		if len(arg.Elements) == 0 {
			return NIL
		}
		return arg.Elements[0]

	case *object.Set:
		if len(arg.Elements) == 0 {
			return NIL
		}
		return arg.Elements[0]

	case *object.String:
		if len(arg.Value) == 0 {
			return NIL
		}
		runes := []rune(arg.Value)
		return &object.String{Value: string(runes[0])}
	}

	return unexpectedArgument("first", args[:1])
}

func builtinRest(args ...object.Object) object.Object {
	switch arg := args[0].(type) {
	case *object.List:
		if len(arg.Elements) == 0 {
			return &object.List{Elements: []object.Object{}}
		}
		rest := make([]object.Object, len(arg.Elements)-1)
		copy(rest, arg.Elements[1:])
		return &object.List{Elements: rest}

	case *object.Set:
		if len(arg.Elements) == 0 {
			return &object.Set{Elements: []object.Object{}}
		}
		rest := make([]object.Object, len(arg.Elements)-1)
		copy(rest, arg.Elements[1:])
		return &object.Set{Elements: rest}

	case *object.String:
		if len(arg.Value) == 0 {
			return &object.String{Value: ""}
		}
		runes := []rune(arg.Value)
		return &object.String{Value: string(runes[1:])}
	}

	return unexpectedArgument("rest", args[:1])
}

// builtinSize counts list and set elements, dictionary entries, and string
// bytes.
func builtinSize(args ...object.Object) object.Object {
	switch arg := args[0].(type) {
	case *object.List:
		return &object.Integer{Value: int64(len(arg.Elements))}
	case *object.Set:
		return &object.Integer{Value: int64(len(arg.Elements))}
	case *object.Dictionary:
		return &object.Integer{Value: int64(len(arg.Pairs))}
	case *object.String:
		return &object.Integer{Value: int64(len(arg.Value))}
	}

	return unexpectedArgument("size", args[:1])
}

// builtinPush returns a new collection with the item added. The input
// collection is never modified.
func builtinPush(args ...object.Object) object.Object {
	item := args[0]

	switch coll := args[1].(type) {
	case *object.List:
		elements := make([]object.Object, 0, len(coll.Elements)+1)
		elements = append(elements, coll.Elements...)
		elements = append(elements, item)
		return &object.List{Elements: elements}

	case *object.Set:
		if item.Type() == object.DICTIONARY_OBJ {
			return newError("Unable to include a Dictionary within a Set")
		}
		elements := make([]object.Object, 0, len(coll.Elements)+1)
		elements = append(elements, coll.Elements...)
		elements = append(elements, item)
		return object.NewSet(elements)
	}

	return unexpectedArgument("push", args[:2])
}

func builtinAssoc(args ...object.Object) object.Object {
	dict, ok := args[2].(*object.Dictionary)
	if !ok {
		return unexpectedArgument("assoc", args[:3])
	}

	key := args[0]
	if key.Type() == object.DICTIONARY_OBJ {
		return newError("Unable to use a Dictionary as a Dictionary key")
	}

	return dict.With(key, args[1])
}

func (ev *Evaluator) builtinMap(args ...object.Object) object.Object {
	fn := args[0]
	list, ok := args[1].(*object.List)
	if !ok || !object.IsCallable(fn) {
		return unexpectedArgument("map", args[:2])
	}

	elements := make([]object.Object, 0, len(list.Elements))
	for _, el := range list.Elements {
		mapped := ev.applyFunction(fn, []object.Object{el})
		if isError(mapped) {
			return mapped
		}
		elements = append(elements, mapped)
	}

	return &object.List{Elements: elements}
}

func (ev *Evaluator) builtinFilter(args ...object.Object) object.Object {
	fn := args[0]
	list, ok := args[1].(*object.List)
	if !ok || !object.IsCallable(fn) {
		return unexpectedArgument("filter", args[:2])
	}

	elements := make([]object.Object, 0, len(list.Elements))
	for _, el := range list.Elements {
		kept := ev.applyFunction(fn, []object.Object{el})
		if isError(kept) {
			return kept
		}
		if isTruthy(kept) {
			elements = append(elements, el)
		}
	}

	return &object.List{Elements: elements}
}

// builtinFold reduces left to right: the accumulator starts at init and the
// folder is called as fn(accumulator, element).
func (ev *Evaluator) builtinFold(args ...object.Object) object.Object {
	fn := args[1]
	list, ok := args[2].(*object.List)
	if !ok || !object.IsCallable(fn) {
		return unexpectedArgument("fold", args[:3])
	}

	acc := args[0]
	for _, el := range list.Elements {
		acc = ev.applyFunction(fn, []object.Object{acc, el})
		if isError(acc) {
			return acc
		}
	}

	return acc
}

func unexpectedArgument(name string, args []object.Object) *object.Error {
	types := make([]string, len(args))
	for i, arg := range args {
		types[i] = string(arg.Type())
	}
	return newError("Unexpected argument: %s(%s)", name, strings.Join(types, ", "))
}
