package lox

import (
	"strings"
	"testing"
)

// resolveSource runs lexer+parser+resolver and returns the interpreter
// (whose locals table the resolver filled) plus the statements.
func resolveSource(t *testing.T, src string) (*Interpreter, []Stmt, *Diagnostics) {
	t.Helper()
	diag := NewDiagnostics(&strings.Builder{})
	toks := NewLexer(src, diag).Scan()
	stmts := NewParser(toks, diag).Parse()
	if diag.HadError {
		t.Fatalf("parse failed for %q:\n%s", src, diagText(diag))
	}
	ip := NewInterpreter(&strings.Builder{})
	NewResolver(ip, diag).Resolve(stmts)
	return ip, stmts, diag
}

// findVariable returns the first VariableExpr for name in the tree.
func findVariable(stmts []Stmt, name string) *VariableExpr {
	var found *VariableExpr
	var walkExpr func(Expr)
	var walkStmt func(Stmt)

	walkExpr = func(e Expr) {
		if found != nil || e == nil {
			return
		}
		switch ex := e.(type) {
		case *VariableExpr:
			if ex.Name.Lexeme == name {
				found = ex
			}
		case *GroupingExpr:
			walkExpr(ex.Inner)
		case *UnaryExpr:
			walkExpr(ex.Right)
		case *BinaryExpr:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *LogicalExpr:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *AssignExpr:
			walkExpr(ex.Value)
		case *CallExpr:
			walkExpr(ex.Callee)
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *GetExpr:
			walkExpr(ex.Object)
		case *SetExpr:
			walkExpr(ex.Object)
			walkExpr(ex.Value)
		}
	}
	walkStmt = func(s Stmt) {
		if found != nil || s == nil {
			return
		}
		switch st := s.(type) {
		case *ExpressionStmt:
			walkExpr(st.Expression)
		case *PrintStmt:
			walkExpr(st.Expression)
		case *VarStmt:
			walkExpr(st.Initializer)
		case *BlockStmt:
			for _, inner := range st.Statements {
				walkStmt(inner)
			}
		case *IfStmt:
			walkExpr(st.Condition)
			walkStmt(st.ThenBranch)
			walkStmt(st.ElseBranch)
		case *WhileStmt:
			walkExpr(st.Condition)
			walkStmt(st.Body)
			walkExpr(st.Increment)
		case *FunctionStmt:
			for _, inner := range st.Body {
				walkStmt(inner)
			}
		case *ReturnStmt:
			walkExpr(st.Value)
		case *ClassStmt:
			for _, m := range st.Methods {
				walkStmt(m)
			}
		}
	}
	for _, s := range stmts {
		walkStmt(s)
	}
	return found
}

func wantDistance(t *testing.T, ip *Interpreter, e Expr, d int) {
	t.Helper()
	got, ok := ip.locals[e.ID()]
	if !ok {
		t.Fatalf("expression not in resolution map (want distance %d)", d)
	}
	if got != d {
		t.Fatalf("want distance %d, got %d", d, got)
	}
}

func wantGlobal(t *testing.T, ip *Interpreter, e Expr) {
	t.Helper()
	if d, ok := ip.locals[e.ID()]; ok {
		t.Fatalf("expression should resolve globally, got distance %d", d)
	}
}

// --- distances --------------------------------------------------------------

func Test_Resolver_GlobalReadIsUnresolved(t *testing.T) {
	ip, stmts, _ := resolveSource(t, `var a = 1; print a;`)
	wantGlobal(t, ip, findVariable(stmts, "a"))
}

func Test_Resolver_LocalReadAtDistanceZero(t *testing.T) {
	ip, stmts, _ := resolveSource(t, `{ var a = 1; print a; }`)
	wantDistance(t, ip, findVariable(stmts, "a"), 0)
}

func Test_Resolver_ReadThroughEnclosingBlocks(t *testing.T) {
	ip, stmts, _ := resolveSource(t, `{ var a = 1; { { print a; } } }`)
	wantDistance(t, ip, findVariable(stmts, "a"), 2)
}

func Test_Resolver_FreeVariableInClosure(t *testing.T) {
	// Inside count's body: body scope (0) → makeCounter body (1).
	ip, stmts, _ := resolveSource(t, `
		fun makeCounter() {
		  var i = 0;
		  fun count() { print i; }
		  return count;
		}`)
	wantDistance(t, ip, findVariable(stmts, "i"), 1)
}

func Test_Resolver_IdenticalOccurrencesResolveIndependently(t *testing.T) {
	// The two `print a;` read different declarations even though the
	// expressions are textually identical.
	ip, stmts, _ := resolveSource(t, `
		var a = 1;
		{
		  print a;
		  var a = 2;
		  print a;
		}`)

	var vars []*VariableExpr
	var collect func(Stmt)
	collect = func(s Stmt) {
		switch st := s.(type) {
		case *PrintStmt:
			if v, ok := st.Expression.(*VariableExpr); ok {
				vars = append(vars, v)
			}
		case *BlockStmt:
			for _, inner := range st.Statements {
				collect(inner)
			}
		}
	}
	for _, s := range stmts {
		collect(s)
	}
	if len(vars) != 2 {
		t.Fatalf("want 2 variable reads, got %d", len(vars))
	}
	wantGlobal(t, ip, vars[0])
	wantDistance(t, ip, vars[1], 0)
}

func Test_Resolver_ParamsResolveInFunctionScope(t *testing.T) {
	ip, stmts, _ := resolveSource(t, `fun f(x) { print x; }`)
	wantDistance(t, ip, findVariable(stmts, "x"), 0)
}

// --- static errors ----------------------------------------------------------

func Test_Resolver_TopLevelReturn(t *testing.T) {
	wantStaticErr(t, `return 1;`, "Can't return from top-level code.")
	wantStaticErr(t, `return;`, "Can't return from top-level code.")
}

func Test_Resolver_SelfInitializer(t *testing.T) {
	wantStaticErr(t, `{ var a = a; }`, "Can't read local variable in its own initializer.")
}

func Test_Resolver_Redeclaration(t *testing.T) {
	wantStaticErr(t, `{ var a = 1; var a = 2; }`, "Already a variable with this name in this scope.")
	wantStaticErr(t, `fun f(a) { var a = 1; }`, "Already a variable with this name in this scope.")
	// Redeclaring a global is allowed.
	wantOut(t, `var a = 1; var a = 2; print a;`, "2")
}

func Test_Resolver_SelfInheritance(t *testing.T) {
	wantStaticErr(t, `class Oops < Oops {}`, "A class can't inherit from itself.")
}

func Test_Resolver_ThisOutsideClass(t *testing.T) {
	wantStaticErr(t, `this;`, "Can't use 'this' outside of a class.")
	wantStaticErr(t, `fun f() { print this; }`, "Can't use 'this' outside of a class.")
}

func Test_Resolver_SuperErrors(t *testing.T) {
	wantStaticErr(t, `super.x;`, "Can't use 'super' outside of a class.")
	wantStaticErr(t, `class C { m() { super.x; } }`, "Can't use 'super' in a class with no superclass.")
}

func Test_Resolver_ReturnValueFromInitializer(t *testing.T) {
	wantStaticErr(t, `class C { init() { return 1; } }`, "Can't return a value from an initializer.")
	// A bare return is allowed.
	wantOut(t, `class C { init() { return; } } print C();`, "C instance")
}

func Test_Resolver_ErrorsSuppressExecution(t *testing.T) {
	out, diag := runProgram(t, `print "side effect"; return 1;`)
	if !diag.HadError {
		t.Fatalf("want static error")
	}
	if out != "" {
		t.Fatalf("execution must be suppressed, got stdout %q", out)
	}
}

func Test_Resolver_ReportsMultipleErrors(t *testing.T) {
	_, diag := runProgram(t, `return 1; this;`)
	if !diag.HadError {
		t.Fatalf("want static errors")
	}
	msg := diagText(diag)
	if !strings.Contains(msg, "Can't return from top-level code.") ||
		!strings.Contains(msg, "Can't use 'this' outside of a class.") {
		t.Fatalf("want both diagnostics, got %q", msg)
	}
}
