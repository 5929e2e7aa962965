package interpret

import "lox/ast"

// callable is anything that can appear on the left of a call
// expression: a declared function, a function expression, a class
// (as its constructor), or a native binding like clock.
type callable interface {
	arity() int
	call(in *Interpreter, args []interface{}) interface{}
}

// function is a user-declared function or method, bound to the
// environment active where it was declared (its closure).
type function struct {
	declaration   ast.FunctionStmt
	closure       *Environment
	isInitializer bool
	// isGetter is true for a no-paren method. Accessing it on an
	// instance runs the body immediately instead of returning a
	// bound method value.
	isGetter bool
}

func (f function) arity() int {
	return len(f.declaration.Params)
}

func (f function) call(interpreter *Interpreter, args []interface{}) (returnVal interface{}) {
	defer func() {
		if err := recover(); err != nil {
			if v, ok := err.(Return); ok {
				if f.isInitializer {
					returnVal = f.closure.GetAt(0, "this")
					return
				}
				returnVal = v.Value
				return
			}
			panic(err)
		}
	}()

	env := Environment{Enclosing: f.closure}
	for i, v := range f.declaration.Params {
		env.Define(v.Lexeme, args[i])
	}
	interpreter.executeBlock(f.declaration.Body, env)

	// A bare `return;` (or falling off the end) inside an init
	// method still yields the instance, per the constructor rule.
	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}

	return nil
}

// bind returns a copy of f whose closure is extended with `this`
// bound to i, so the method body can reference the instance it was
// called on.
func (f function) bind(i *instance) function {
	env := Environment{Enclosing: f.closure}
	env.Define("this", i)
	return function{
		declaration:   f.declaration,
		closure:       &env,
		isInitializer: f.isInitializer,
		isGetter:      f.isGetter,
	}
}

func (f function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

// functionExpr is a function literal evaluated where it appears,
// rather than hoisted into its enclosing scope like a `fun` statement.
type functionExpr struct {
	declaration ast.FunctionExpr
	closure     *Environment
}

func (f functionExpr) arity() int {
	return len(f.declaration.Params)
}

func (f functionExpr) call(in *Interpreter, args []interface{}) (returnVal interface{}) {
	defer func() {
		if err := recover(); err != nil {
			if v, ok := err.(Return); ok {
				returnVal = v.Value
				return
			}
			panic(err)
		}
	}()

	env := Environment{Enclosing: f.closure}
	for i, v := range f.declaration.Params {
		env.Define(v.Lexeme, args[i])
	}
	in.executeBlock(f.declaration.Body, env)
	return nil
}

func (f functionExpr) String() string {
	if f.declaration.Name != nil {
		return "<fn " + f.declaration.Name.Lexeme + ">"
	}
	return "<fn>"
}
