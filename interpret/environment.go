package interpret

import (
	"fmt"

	"lox/ast"
)

// Environment holds a map of key-value pairs as well as a reference
// to an enclosing environment. Lox scopes form a chain of
// Environments, one per block/call/instance; a lookup that misses in
// the innermost Environment walks outward through Enclosing.
type Environment struct {
	Enclosing *Environment
	values    map[string]interface{}
}

// Define stores a new key-value pair in this environment, shadowing
// any variable of the same name in an enclosing environment.
func (e *Environment) Define(name string, value interface{}) {
	if e.values == nil {
		e.values = make(map[string]interface{})
	}
	e.values[name] = value
}

// Get returns the value bound to name in this environment or the
// nearest enclosing environment that defines it.
func (e *Environment) Get(name ast.Token) (interface{}, error) {
	if val, ok := e.values[name.Lexeme]; ok {
		return val, nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Get(name)
	}
	return nil, runtimeError{token: name, msg: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// Assign rebinds name to value in the nearest environment in the
// chain that already defines it. It never creates a new binding.
func (e *Environment) Assign(name ast.Token, value interface{}) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.Define(name.Lexeme, value)
		return nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Assign(name, value)
	}
	return runtimeError{token: name, msg: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// GetAt returns the value of name in the environment distance scopes
// out from this one, per the resolver's static analysis.
func (e *Environment) GetAt(distance int, name string) interface{} {
	return e.ancestor(distance).values[name]
}

// AssignAt rebinds name to value in the environment distance scopes
// out from this one.
func (e *Environment) AssignAt(distance int, name ast.Token, value interface{}) {
	e.ancestor(distance).Define(name.Lexeme, value)
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Enclosing
	}
	return env
}
