package interpret_test

import (
	"bytes"
	"os"
	"testing"

	"lox/interpret"
	"lox/parse"
	"lox/resolve"
	"lox/scan"
)

func run(t *testing.T, source string) (stdOut, stdErr string, hadRuntimeError bool) {
	t.Helper()

	errBuf := &bytes.Buffer{}
	tokens, hadScanErr := scan.NewScanner(source, errBuf).ScanTokens()
	if hadScanErr {
		t.Fatalf("scan error: %s", errBuf)
	}

	statements, hadParseErr := parse.NewParser(tokens, errBuf).Parse()
	if hadParseErr {
		t.Fatalf("parse error: %s", errBuf)
	}

	outBuf := &bytes.Buffer{}
	interpreter := interpret.NewInterpreter(outBuf, errBuf)

	if hadResolveErr := resolve.NewResolver(interpreter, errBuf).ResolveStmts(statements); hadResolveErr {
		t.Fatalf("resolve error: %s", errBuf)
	}

	_, hadRuntimeError = interpreter.Interpret(statements)
	return outBuf.String(), errBuf.String(), hadRuntimeError
}

func TestInterpreter_Run(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stdOut string
	}{
		{"string", `print "hello world";`, "hello world\n"},
		{"integer prints without trailing zero", "print 3.0;", "3\n"},
		{"fractional number", "print 3.5;", "3.5\n"},
		{"string as boolean", `print "" and 34;`, "34\n"},
		{"nil as boolean", "print nil and 34;", "nil\n"},

		{"arithmetic operations", "print -1 + 2 * 3 - 4 / 5;", "4.2\n"},
		{"division by zero yields infinity", "print 1 / 0;", "+Inf\n"},
		{"logical operations", "print (!true or false) and false;", "false\n"},
		{"ternary", `print 3 < 4 ? 2 > 5 ? "no" : "yes" : "also no";`, "yes\n"},
		{"string concatenation", `print "hello" + " " + "world";`, "hello world\n"},
		{"comma", "print (1, 2);", "2\n"},
		{"equality across types is false", `print 1 == "1";`, "false\n"},

		{"variable declaration", "var a = 10; print a*2;", "20\n"},
		{"variable assignment after declaration", "var a; a = 20; print a*2;", "40\n"},
		{"variable re-assignment", "var a = 10; print a; a = 20; print a*2;", "10\n40\n"},

		{"block scoping", `var a = "global a";
var b = "global b";
var c = "global c";
{
    var a = "outer a";
    var b = "outer b";
    {
        var a = "inner a";
        print a;
        print b;
        print c;
    }
    print a;
    print b;
    print c;
}
print a;
print b;
print c;`, "inner a\nouter b\nglobal c\nouter a\nouter b\nglobal c\nglobal a\nglobal b\nglobal c\n"},

		{"if block", `if (true) { if (false) { print "hello"; } else { print "world"; } }`, "world\n"},

		{"for loop", `var a = 0;
var temp;

for (var b = 1; a < 10; b = temp + b) {
    print a;
    temp = a;
    a = b;
}`, "0\n1\n1\n2\n3\n5\n8\n"},
		{"break statement", `var a = 1;
while (true) {
    a = a + 1;
    print a;
    if (a == 4) break;
}`, "2\n3\n4\n"},
		{"continue statement", `var a = 1;
while (a < 10) {
    a = a * 2;
    print a;
    if (a > 4) {
        continue;
    } else {
        a = a + 1;
    }
}`, "2\n6\n12\n"},

		{"function", `fun sayHi(first, last) {
    print "Hello, " + first + " " + last;
}
sayHi("Dear", "Reader");`, "Hello, Dear Reader\n"},
		{"return statement", `fun sayHi(first, last) {
    return "Hello, " + first + " " + last;
}
print sayHi("Dear", "Reader");`, "Hello, Dear Reader\n"},
		{"closure", `fun makeCounter() {
    var i = 0;
    fun count() {
        i = i + 1;
        print i;
    }
    return count;
}
var counter = makeCounter();
counter();
counter();`, "1\n2\n"},
		{"anonymous function", `var f = fun (a, b) { return a + b; };
print f(1, 2);`, "3\n"},

		{"class instance field", `class Point {
    init(x, y) {
        this.x = x;
        this.y = y;
    }
}
var p = Point(1, 2);
print p.x + p.y;`, "3\n"},
		{"instance stringifies as class-name instance", `class Point {}
print Point();`, "Point instance\n"},
		{"class stringifies as its name", `class Point {}
print Point;`, "Point\n"},
		{"method call", `class Greeter {
    greet(name) {
        return "Hi, " + name;
    }
}
print Greeter().greet("Ada");`, "Hi, Ada\n"},
		{"getter method", `class Circle {
    init(radius) {
        this.radius = radius;
    }
    area {
        return 3 * this.radius * this.radius;
    }
}
print Circle(2).area;`, "12\n"},
		{"inheritance and super", `class Animal {
    speak() {
        return "...";
    }
}
class Dog < Animal {
    speak() {
        return "Woof, said the " + super.speak();
    }
}
print Dog().speak();`, "Woof, said the ...\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdOut, stdErr, hadRuntimeError := run(t, tt.source)
			if hadRuntimeError {
				t.Fatalf("unexpected runtime error: %s", stdErr)
			}
			if stdOut != tt.stdOut {
				t.Fatalf("stdOut: got %q, want %q", stdOut, tt.stdOut)
			}
		})
	}
}

func TestInterpreter_RuntimeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"undefined variable", "print undefined_name;"},
		{"add number and string", `print 1 + "a";`},
		{"call a non-callable", `var a = 1; a();`},
		{"wrong arity", "fun f(a, b) { return a; } f(1);"},
		{"get on non-instance", `var a = 1; print a.x;`},
		{"set on non-instance", `var a = 1; a.x = 2;`},
		{"undefined property", "class A {} print A().missing;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stdErr, hadRuntimeError := run(t, tt.source)
			if !hadRuntimeError {
				t.Fatalf("expected a runtime error, got none (stderr: %s)", stdErr)
			}
		})
	}
}

func TestInterpreter_ClosureCapturesVariableNotValue(t *testing.T) {
	source := `fun makeCounter() {
    var i = 0;
    return fun () {
        i = i + 1;
        return i;
    };
}
var c1 = makeCounter();
var c2 = makeCounter();
c1();
c1();
print c1();
print c2();`
	stdOut, _, hadRuntimeError := run(t, source)
	if hadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if stdOut != "3\n1\n" {
		t.Fatalf("got %q, want independent counters 3 then 1", stdOut)
	}
}

// This exercises Interpret against os.Stderr/os.Stdout-shaped writers,
// matching how cmd/lox wires the pipeline together.
func TestInterpreter_WritesToProvidedWriters(t *testing.T) {
	tokens, _ := scan.NewScanner(`print "ok";`, os.Stderr).ScanTokens()
	statements, _ := parse.NewParser(tokens, os.Stderr).Parse()
	out := &bytes.Buffer{}
	interpreter := interpret.NewInterpreter(out, os.Stderr)
	resolve.NewResolver(interpreter, os.Stderr).ResolveStmts(statements)
	if _, hadErr := interpreter.Interpret(statements); hadErr {
		t.Fatal("unexpected runtime error")
	}
	if out.String() != "ok\n" {
		t.Fatalf("got %q", out.String())
	}
}
