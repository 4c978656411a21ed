// interpreter.go — the tree walker.
//
// The interpreter owns the global frame, one mutable current-frame
// pointer, and the resolution side table written by the resolver
// (expression node ID → scope distance). Evaluation is strict and
// left-to-right everywhere: callee before arguments, left operand
// before right, object before value in a property write.
//
// Control flow that crosses statement boundaries — return, break,
// continue, runtime errors — unwinds as a panic with a dedicated
// payload type, caught at the function call, the enclosing loop, or
// the top-level Interpret respectively. Block execution restores the
// previous frame with a defer, so every unwind path leaves the
// environment chain consistent.
package lox

import (
	"fmt"
	"io"
	"os"
)

// Internal unwind signals. Never surfaced to users.
type returnSignal struct{ value Value }
type breakSignal struct{}
type continueSignal struct{}

type Interpreter struct {
	Globals *Env
	env     *Env        // current frame
	locals  map[int]int // expression node ID → scope distance
	nodeSeq int         // last node ID issued across all parses
	stdout  io.Writer
}

// NewInterpreter builds an interpreter whose globals hold the native
// functions. Print output goes to stdout (os.Stdout when nil).
func NewInterpreter(stdout io.Writer) *Interpreter {
	if stdout == nil {
		stdout = os.Stdout
	}
	globals := NewEnv(nil)
	globals.Define("clock", NativeVal(clockNative()))

	return &Interpreter{
		Globals: globals,
		env:     globals,
		locals:  make(map[int]int),
		stdout:  stdout,
	}
}

// resolve records a scope distance for an expression. Called only by
// the resolver.
func (ip *Interpreter) resolve(expr Expr, depth int) {
	ip.locals[expr.ID()] = depth
}

// Run performs one full scan → parse → resolve → interpret pass over
// src. Static errors suppress resolution and execution; the caller
// reads the outcome from the sink's flags. Globals and resolved
// distances persist on the interpreter, so a REPL can Run repeatedly.
func (ip *Interpreter) Run(src string, diag *Diagnostics) {
	toks := NewLexer(src, diag).Scan()

	// Node IDs continue across runs: closures from earlier lines keep
	// their resolution entries, so a later parse must never reissue an
	// already-used ID.
	p := NewParser(toks, diag)
	p.nextID = ip.nodeSeq
	stmts := p.Parse()
	ip.nodeSeq = p.nextID
	if diag.HadError {
		return
	}

	NewResolver(ip, diag).Resolve(stmts)
	if diag.HadError {
		return
	}

	ip.Interpret(stmts, diag)
}

// Interpret executes a program. The first runtime error aborts the run
// and is reported through the sink; the environment chain is already
// restored when it surfaces.
func (ip *Interpreter) Interpret(stmts []Stmt, diag *Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			if rte, ok := r.(*RuntimeError); ok {
				diag.Runtime(rte)
				return
			}
			panic(r)
		}
	}()
	for _, s := range stmts {
		ip.execute(s)
	}
}

// fail raises a runtime error located at tok.
func fail(tok Token, format string, args ...interface{}) {
	panic(&RuntimeError{Token: tok, Msg: fmt.Sprintf(format, args...)})
}

// ---- statements ----

func (ip *Interpreter) execute(s Stmt) {
	switch st := s.(type) {
	case *ExpressionStmt:
		ip.evaluate(st.Expression)

	case *PrintStmt:
		v := ip.evaluate(st.Expression)
		fmt.Fprintln(ip.stdout, Stringify(v))

	case *VarStmt:
		v := Nil
		if st.Initializer != nil {
			v = ip.evaluate(st.Initializer)
		}
		ip.env.Define(st.Name.Lexeme, v)

	case *BlockStmt:
		ip.executeBlock(st.Statements, NewEnv(ip.env))

	case *IfStmt:
		if Truthy(ip.evaluate(st.Condition)) {
			ip.execute(st.ThenBranch)
		} else if st.ElseBranch != nil {
			ip.execute(st.ElseBranch)
		}

	case *WhileStmt:
		for Truthy(ip.evaluate(st.Condition)) {
			if ip.runLoopBody(st.Body) {
				break
			}
			// The increment of a desugared for runs after every
			// iteration, including ones ended by continue. A break
			// skips it along with the rest of the loop.
			if st.Increment != nil {
				ip.evaluate(st.Increment)
			}
		}

	case *FunctionStmt:
		ip.env.Define(st.Name.Lexeme, FunVal(NewFunction(st, ip.env, false)))

	case *ReturnStmt:
		v := Nil
		if st.Value != nil {
			v = ip.evaluate(st.Value)
		}
		panic(returnSignal{value: v})

	case *BreakStmt:
		panic(breakSignal{})

	case *ContinueStmt:
		panic(continueSignal{})

	case *ClassStmt:
		ip.executeClass(st)
	}
}

// executeBlock runs stmts in env and restores the previous frame on
// every exit path, unwinds included.
func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()

	for _, s := range stmts {
		ip.execute(s)
	}
}

// runLoopBody executes one iteration, absorbing break and continue.
// Reports whether the loop should stop.
func (ip *Interpreter) runLoopBody(body Stmt) (brk bool) {
	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case breakSignal:
				brk = true
			case continueSignal:
				brk = false
			default:
				panic(r)
			}
		}
	}()
	ip.execute(body)
	return false
}

func (ip *Interpreter) executeClass(st *ClassStmt) {
	var superclass *Class
	if st.Superclass != nil {
		sv := ip.evaluate(st.Superclass)
		if sv.Tag != VTClass {
			fail(st.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sv.Data.(*Class)
	}

	ip.env.Define(st.Name.Lexeme, Nil)

	// Methods close over a frame holding "super" when inheriting, so
	// super dispatch inside a method finds the superclass one hop
	// above the bound "this" frame.
	env := ip.env
	if st.Superclass != nil {
		env = NewEnv(ip.env)
		env.Define("super", ClassVal(superclass))
	}

	methods := make(map[string]*Function, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, env, m.Name.Lexeme == "init")
	}

	class := NewClass(st.Name.Lexeme, superclass, methods)
	if err := ip.env.Assign(st.Name, ClassVal(class)); err != nil {
		panic(err)
	}
}

// ---- expressions ----

func (ip *Interpreter) evaluate(e Expr) Value {
	switch ex := e.(type) {
	case *LiteralExpr:
		return literalValue(ex.Value)

	case *GroupingExpr:
		return ip.evaluate(ex.Inner)

	case *UnaryExpr:
		right := ip.evaluate(ex.Right)
		switch ex.Op.Type {
		case MINUS:
			if right.Tag != VTNum {
				fail(ex.Op, "Operand must be a number.")
			}
			return Num(-right.Data.(float64))
		case BANG:
			return Bool(!Truthy(right))
		}
		return Nil

	case *BinaryExpr:
		return ip.evalBinary(ex)

	case *LogicalExpr:
		left := ip.evaluate(ex.Left)
		if ex.Op.Type == OR {
			if Truthy(left) {
				return left
			}
		} else if !Truthy(left) {
			return left
		}
		return ip.evaluate(ex.Right)

	case *VariableExpr:
		return ip.lookUpVariable(ex.Name, ex)

	case *AssignExpr:
		v := ip.evaluate(ex.Value)
		if d, ok := ip.locals[ex.ID()]; ok {
			ip.env.AssignAt(d, ex.Name, v)
		} else if err := ip.Globals.Assign(ex.Name, v); err != nil {
			panic(err)
		}
		return v

	case *CallExpr:
		return ip.evalCall(ex)

	case *GetExpr:
		obj := ip.evaluate(ex.Object)
		if obj.Tag != VTInstance {
			fail(ex.Name, "Only instances have properties.")
		}
		v, err := obj.Data.(*Instance).Get(ex.Name)
		if err != nil {
			panic(err)
		}
		return v

	case *SetExpr:
		obj := ip.evaluate(ex.Object)
		if obj.Tag != VTInstance {
			fail(ex.Name, "Only instances have fields.")
		}
		v := ip.evaluate(ex.Value)
		obj.Data.(*Instance).Set(ex.Name, v)
		return v

	case *ThisExpr:
		return ip.lookUpVariable(ex.Keyword, ex)

	case *SuperExpr:
		return ip.evalSuper(ex)
	}
	return Nil
}

func (ip *Interpreter) lookUpVariable(name Token, expr Expr) Value {
	if d, ok := ip.locals[expr.ID()]; ok {
		return ip.env.GetAt(d, name.Lexeme)
	}
	v, err := ip.Globals.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (ip *Interpreter) evalBinary(ex *BinaryExpr) Value {
	left := ip.evaluate(ex.Left)
	right := ip.evaluate(ex.Right)

	num := func(v Value) float64 { return v.Data.(float64) }
	bothNums := left.Tag == VTNum && right.Tag == VTNum
	needNums := func() {
		if !bothNums {
			fail(ex.Op, "Operands must be numbers.")
		}
	}

	switch ex.Op.Type {
	case PLUS:
		if bothNums {
			return Num(num(left) + num(right))
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string))
		}
		fail(ex.Op, "Operands must be numbers or strings.")
	case MINUS:
		needNums()
		return Num(num(left) - num(right))
	case STAR:
		needNums()
		return Num(num(left) * num(right))
	case SLASH:
		needNums()
		return Num(num(left) / num(right))
	case GREATER:
		needNums()
		return Bool(num(left) > num(right))
	case GREATER_EQUAL:
		needNums()
		return Bool(num(left) >= num(right))
	case LESS:
		needNums()
		return Bool(num(left) < num(right))
	case LESS_EQUAL:
		needNums()
		return Bool(num(left) <= num(right))
	case EQUAL_EQUAL:
		return Bool(Equal(left, right))
	case BANG_EQUAL:
		return Bool(!Equal(left, right))
	}
	return Nil
}

func (ip *Interpreter) evalCall(ex *CallExpr) Value {
	callee := ip.evaluate(ex.Callee)

	args := make([]Value, 0, len(ex.Args))
	for _, a := range ex.Args {
		args = append(args, ip.evaluate(a))
	}

	fn, ok := AsCallable(callee)
	if !ok {
		fail(ex.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		fail(ex.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(ip, args)
}

// evalSuper relies on the resolver stacking the "super" frame exactly
// one above the "this" frame: the superclass sits at the resolved
// distance, the receiver one hop closer.
func (ip *Interpreter) evalSuper(ex *SuperExpr) Value {
	d := ip.locals[ex.ID()]
	superclass := ip.env.GetAt(d, "super").Data.(*Class)
	object := ip.env.GetAt(d-1, "this").Data.(*Instance)

	method := superclass.FindMethod(ex.Method.Lexeme)
	if method == nil {
		fail(ex.Method, "Undefined property '"+ex.Method.Lexeme+"'.")
	}
	return FunVal(method.Bind(object))
}
