package interpret

import (
	"fmt"

	"lox/ast"
)

// class is a runtime class value: its constructor is callable, and it
// holds the method table consulted by every instance's Get.
type class struct {
	name       string
	methods    map[string]function
	superclass *class
}

// arity returns the arity of the class's constructor (its init
// method), or zero if it declares none.
func (c class) arity() int {
	if initializer, ok := c.findMethod("init"); ok {
		return initializer.arity()
	}
	return 0
}

// call constructs a new instance and runs its initializer, if any.
func (c class) call(interpreter *Interpreter, arguments []interface{}) interface{} {
	in := &instance{class: c}

	if initializer, ok := c.findMethod("init"); ok {
		initializer.bind(in).call(interpreter, arguments)
	}

	return in
}

func (c class) findMethod(name string) (function, bool) {
	method, ok := c.methods[name]
	if ok {
		return method, true
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return function{}, false
}

func (c class) String() string {
	return c.name
}

// Instance is anything a GetExpr/SetExpr can resolve a property
// against. Only *instance implements it today, but keeping the
// interface separate from the concrete type mirrors how callable
// separates "is invocable" from "is a function".
type Instance interface {
	Get(in *Interpreter, name ast.Token) (interface{}, error)
}

// instance is an instance of a class, holding its own field values
// plus a reference to the class for method lookup.
type instance struct {
	class  class
	fields map[string]interface{}
}

// Get returns the value of the field or method with the given name.
// A no-paren getter method runs immediately and returns its result
// instead of a bound method value.
func (i *instance) Get(in *Interpreter, name ast.Token) (interface{}, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}

	if method, ok := i.class.findMethod(name.Lexeme); ok {
		if method.isGetter {
			return method.bind(i).call(in, nil), nil
		}
		return method.bind(i), nil
	}

	return nil, runtimeError{token: name, msg: fmt.Sprintf("Undefined property '%s'.", name.Lexeme)}
}

// set stores the value of a field directly, bypassing any getter
// method of the same name (fields always shadow methods).
func (i *instance) set(name ast.Token, value interface{}) {
	if i.fields == nil {
		i.fields = make(map[string]interface{})
	}
	i.fields[name.Lexeme] = value
}
