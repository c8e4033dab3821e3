// callable.go — function values.
//
// Callable is the single calling surface shared by user functions, classes
// (construction) and host natives. A user Function pairs its declaration
// with the environment frame captured where it was declared; calling it
// builds one fresh frame over that closure, binds parameters positionally,
// and executes the body. Return values travel as a returnSig panic caught
// here at the call frame.
package lox

import (
	"time"
)

// Callable is anything invocable from Lox code.
type Callable interface {
	Arity() int
	Call(ip *Interpreter, args []Value) Value
}

// Function is a user-defined function or method.
type Function struct {
	decl          *FunctionStmt
	closure       *Env
	isInitializer bool
}

// NewFunction wraps a declaration with its closure environment.
func NewFunction(decl *FunctionStmt, closure *Env, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.decl.Params) }

// Call executes the body in a new frame parented on the closure. An
// initializer always yields the bound 'this', whether it returns early or
// falls off the end.
func (f *Function) Call(ip *Interpreter, args []Value) (out Value) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSig)
			if !ok {
				panic(r)
			}
			if f.isInitializer {
				out = f.closure.GetAt(0, "this")
				return
			}
			out = sig.v
		}
	}()

	env := NewEnv(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	ip.executeBlock(f.decl.Body, env)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	return Nil
}

// Bind produces a copy of the method whose closure has 'this' defined over
// the given instance.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", InstanceVal(inst))
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

func (f *Function) String() string { return "<fn " + f.decl.Name.Lexeme + ">" }

// NativeFun is a builtin implemented by the host.
type NativeFun struct {
	name  string
	arity int
	fn    func(ip *Interpreter, args []Value) Value
}

func (n *NativeFun) Arity() int { return n.arity }

func (n *NativeFun) Call(ip *Interpreter, args []Value) Value {
	return n.fn(ip, args)
}

func (n *NativeFun) String() string { return "<native fn>" }

// defineNative installs a builtin into globals under name.
func (ip *Interpreter) defineNative(name string, arity int, fn func(*Interpreter, []Value) Value) {
	ip.Globals.Define(name, FunVal(&NativeFun{name: name, arity: arity, fn: fn}))
}

// registerStandardNatives installs the builtin library. The language surface
// is deliberately tiny: clock() is the only builtin.
func registerStandardNatives(ip *Interpreter) {
	// clock() — current wall time in seconds as a double
	ip.defineNative("clock", 0, func(_ *Interpreter, _ []Value) Value {
		return Num(float64(time.Now().UnixNano()) / 1e9)
	})
}
