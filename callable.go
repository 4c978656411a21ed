// callable.go — runtime callables: user functions and natives.
//
// Every callable exposes the uniform {Arity, Call} capability. A user
// function holds its AST declaration plus the environment captured at
// declaration time; calling it builds a fresh child frame of that
// closure, binds the parameters, and runs the body. A return statement
// unwinds via a returnSignal panic caught here.
package lox

import "time"

// Callable is any value invokable with '()'.
type Callable interface {
	Arity() int
	Call(ip *Interpreter, args []Value) Value
}

// NativeFn is a built-in implemented in the host.
type NativeFn struct {
	name  string
	arity int
	impl  func(ip *Interpreter, args []Value) Value
}

func (n *NativeFn) Arity() int { return n.arity }
func (n *NativeFn) Call(ip *Interpreter, args []Value) Value {
	return n.impl(ip, args)
}

// clockNative returns seconds since the Unix epoch as a double.
func clockNative() *NativeFn {
	return &NativeFn{
		name:  "clock",
		arity: 0,
		impl: func(_ *Interpreter, _ []Value) Value {
			return Num(float64(time.Now().UnixNano()) / 1e9)
		},
	}
}

// Function is a user-defined function or method.
type Function struct {
	decl          *FunctionStmt
	closure       *Env
	isInitializer bool
}

func NewFunction(decl *FunctionStmt, closure *Env, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Name() string { return f.decl.Name.Lexeme }
func (f *Function) Arity() int   { return len(f.decl.Params) }

// Bind produces a new function whose closure has one extra frame
// defining "this" bound to inst, inserted between the method's
// captured environment and its future call frames. Inside the body
// "this" therefore resolves at distance 1 (distance 2 for "super",
// whose frame sits one further out).
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", InstanceVal(inst))
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// Call runs the body in a fresh child of the closure. An initializer
// always returns the bound "this" — on normal completion and on a bare
// "return;" alike (the resolver rejects valued returns in init).
func (f *Function) Call(ip *Interpreter, args []Value) (result Value) {
	env := NewEnv(f.closure)
	for i, p := range f.decl.Params {
		env.Define(p.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.isInitializer {
				result = f.closure.GetAt(0, "this")
			} else {
				result = sig.value
			}
		}
	}()

	ip.executeBlock(f.decl.Body, env)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	return Nil
}
