// Generates ast/expr.go and ast/stmt.go from the field lists below.
// Run with `go run ./cmd` from the module root after changing a node's
// shape here.
package main

import (
	"fmt"
	"go/format"
	"os"
	"strings"
)

func main() {
	writeAst("expr", []string{
		"Assign   : Name Token, ID int, Value Expr",
		"Binary   : Left Expr, Operator Token, Right Expr",
		"Call     : Callee Expr, Paren Token, Arguments []Expr",
		"Get      : Object Expr, Name Token",
		"Set      : Object Expr, Name Token, Value Expr",
		"Grouping : Expression Expr",
		"Literal  : Value interface{}",
		"Logical  : Left Expr, Operator Token, Right Expr",
		"Ternary  : Cond Expr, Then Expr, Else Expr",
		"Unary    : Operator Token, Right Expr",
		"Variable : Name Token, ID int",
		"This     : Keyword Token, ID int",
		"Super    : Keyword Token, ID int, Method Token",
		"Function : Name *Token, Params []Token, Body []Stmt",
	})

	writeAst("stmt", []string{
		"Block      : Statements []Stmt",
		"Class      : Name Token, Superclass *VariableExpr, Methods []FunctionStmt",
		"Expression : Expr Expr",
		"Function   : Name Token, Params []Token, Body []Stmt",
		"If         : Condition Expr, ThenBranch Stmt, ElseBranch Stmt",
		"Print      : Expr Expr",
		"Return     : Keyword Token, Value Expr",
		"While      : Condition Expr, Body Stmt",
		"Continue   : ",
		"Break      : ",
		"Var        : Name Token, Initializer Expr",
	})
}

func writeAst(name string, types []string) {
	src, err := defineAst(name, types)
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("ast/"+strings.ToLower(name)+".go", src, 0644)
	if err != nil {
		panic(err)
	}
}

func defineAst(name string, types []string) ([]byte, error) {
	var str string

	str += "package ast\n"
	str += defineInterface(name)
	str += defineTypes(name, types)
	str += defineVisitor(name, types)

	return format.Source([]byte(str))
}

func defineInterface(name string) string {
	return fmt.Sprintf(`
type %s%s interface {
	Accept(visitor %sVisitor) interface{}
}
`, strings.ToUpper(name[:1]), name[1:], strings.ToUpper(name[:1])+name[1:])
}

func defineTypes(name string, types []string) (str string) {
	capName := strings.ToUpper(name[:1]) + name[1:]

	for _, t := range types {
		splitType := strings.SplitN(t, ":", 2)
		fullTypeName := strings.Trim(splitType[0], " ") + capName
		str += fmt.Sprintf("\ntype %s struct {\n", fullTypeName)

		fieldList := strings.TrimSpace(splitType[1])
		if fieldList != "" {
			for _, field := range strings.Split(fieldList, ", ") {
				str += fmt.Sprintf("\t%s\n", strings.Trim(field, " "))
			}
		}

		str += "}\n"

		str += fmt.Sprintf(`
func (b %s) Accept(visitor %sVisitor) interface{} {
	return visitor.Visit%s(b)
}
`, fullTypeName, capName, fullTypeName)
	}
	return str
}

func defineVisitor(name string, types []string) (str string) {
	capName := strings.ToUpper(name[:1]) + name[1:]

	str += fmt.Sprintf("\ntype %sVisitor interface {\n", capName)
	for _, t := range types {
		splitType := strings.SplitN(t, ":", 2)
		fullTypeName := strings.Trim(splitType[0], " ") + capName
		str += fmt.Sprintf("\tVisit%s(%s %s) interface{}\n", fullTypeName, strings.ToLower(name), fullTypeName)
	}
	str += "}\n"
	return str
}
