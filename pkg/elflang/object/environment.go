package object

import "fmt"

type binding struct {
	value   Object
	mutable bool
}

// Environment holds variable bindings with lexical scoping. Each binding
// records whether it was introduced with `let mut`.
type Environment struct {
	store map[string]binding
	outer *Environment
}

// NewEnvironment creates a new top-level environment
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]binding)}
}

// NewEnclosedEnvironment creates a child scope
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]binding), outer: outer}
}

// Get resolves a name, walking outward through enclosing scopes
func (e *Environment) Get(name string) (Object, bool) {
	b, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return b.value, ok
}

// Define introduces a binding in the current scope, shadowing any outer
// binding of the same name, and returns the bound value.
func (e *Environment) Define(name string, val Object, mutable bool) Object {
	e.store[name] = binding{value: val, mutable: mutable}
	return val
}

// Assign overwrites the nearest existing binding. It fails when the name
// is unbound or the binding is not mutable.
func (e *Environment) Assign(name string, val Object) error {
	if b, ok := e.store[name]; ok {
		if !b.mutable {
			return fmt.Errorf("Variable '%s' is not mutable", name)
		}
		e.store[name] = binding{value: val, mutable: true}
		return nil
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return fmt.Errorf("Identifier can not be found: %s", name)
}

// Variables returns a copy of the bindings in this scope, not including
// enclosing scopes. The REPL uses it to list what the user has defined.
func (e *Environment) Variables() map[string]Object {
	vars := make(map[string]Object, len(e.store))
	for name, b := range e.store {
		vars[name] = b.value
	}
	return vars
}
