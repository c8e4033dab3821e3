// interpreter.go — the tree-walking evaluator.
//
// Execution walks the AST directly with a type switch per node; there is no
// bytecode stage. Two panic signals thread control flow through the walk:
// rtErr carries a runtime failure (token + message) and returnSig carries a
// 'return' value up to its call frame. Both are private; the only recover
// for rtErr sits at the public Interpret/Evaluate boundary, where the
// failure is handed to the reporter and execution of the program stops.
//
// Variable access is two-tier: references the resolver annotated with a
// scope distance use the environment's *At operations and cannot miss;
// everything else is a global and fails with "Undefined variable" when
// absent.
package lox

import (
	"fmt"
	"io"
	"os"
)

////////////////////////////////////////////////////////////////////////////////
//                         PRIVATE PANIC / ERROR HELPERS
////////////////////////////////////////////////////////////////////////////////

type returnSig struct{ v Value }

type rtErr struct {
	tok Token
	msg string
}

// fail raises a runtime error attributed to tok.
func fail(tok Token, msg string) {
	panic(rtErr{tok: tok, msg: msg})
}

////////////////////////////////////////////////////////////////////////////////
//                                 INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter evaluates resolved programs against a chain of environments.
type Interpreter struct {
	// Globals is the outermost environment; builtins live here and the
	// driver may inspect it.
	Globals *Env

	env      *Env         // current frame
	locals   map[Expr]int // resolver side table: node → scope distance
	reporter *Reporter
	stdout   io.Writer
}

// NewInterpreter constructs an interpreter with the builtin globals
// installed. Output defaults to stdout; tests swap it with SetOutput.
func NewInterpreter(reporter *Reporter) *Interpreter {
	ip := &Interpreter{
		Globals:  NewEnv(nil),
		locals:   map[Expr]int{},
		reporter: reporter,
		stdout:   os.Stdout,
	}
	ip.env = ip.Globals
	registerStandardNatives(ip)
	return ip
}

// SetOutput redirects the print sink.
func (ip *Interpreter) SetOutput(w io.Writer) { ip.stdout = w }

// resolve records the scope distance for a local reference. Called by the
// resolver; depths are immutable afterwards.
func (ip *Interpreter) resolve(e Expr, depth int) {
	ip.locals[e] = depth
}

// Interpret executes statements in program order. A runtime error unwinds
// the whole walk, is reported, and stops the program.
func (ip *Interpreter) Interpret(stmts []Stmt) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			ip.reporter.Runtime(&RuntimeError{Tok: e.tok, Msg: e.msg})
		}
	}()
	for _, s := range stmts {
		ip.exec(s)
	}
}

// Evaluate evaluates a single expression and returns its value, surfacing a
// runtime failure as a *RuntimeError instead of reporting it. The REPL uses
// this to echo expression results.
func (ip *Interpreter) Evaluate(e Expr) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			err = &RuntimeError{Tok: sig.tok, Msg: sig.msg}
		}
	}()
	return ip.eval(e), nil
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) exec(s Stmt) {
	switch s := s.(type) {
	case *ExprStmt:
		ip.eval(s.Expression)

	case *PrintStmt:
		v := ip.eval(s.Expression)
		io.WriteString(ip.stdout, FormatValue(v)+"\n")

	case *VarStmt:
		v := Nil
		if s.Initializer != nil {
			v = ip.eval(s.Initializer)
		}
		ip.env.Define(s.Name.Lexeme, v)

	case *BlockStmt:
		ip.executeBlock(s.Statements, NewEnv(ip.env))

	case *IfStmt:
		if isTruthy(ip.eval(s.Condition)) {
			ip.exec(s.Then)
		} else if s.Else != nil {
			ip.exec(s.Else)
		}

	case *WhileStmt:
		for isTruthy(ip.eval(s.Condition)) {
			ip.exec(s.Body)
		}

	case *FunctionStmt:
		ip.env.Define(s.Name.Lexeme, FunVal(NewFunction(s, ip.env, false)))

	case *ReturnStmt:
		v := Nil
		if s.Value != nil {
			v = ip.eval(s.Value)
		}
		panic(returnSig{v: v})

	case *ClassStmt:
		ip.execClass(s)
	}
}

// executeBlock runs statements in the given frame, restoring the previous
// frame on the way out (including unwinds).
func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) {
	prev := ip.env
	defer func() { ip.env = prev }()
	ip.env = env
	for _, s := range stmts {
		ip.exec(s)
	}
}

func (ip *Interpreter) execClass(s *ClassStmt) {
	var superclass *Class
	if s.Superclass != nil {
		sv := ip.eval(s.Superclass)
		sc, ok := sv.Data.(*Class)
		if sv.Tag != VTClass || !ok {
			fail(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	// two-step definition lets methods refer to the class by name
	ip.env.Define(s.Name.Lexeme, Nil)

	env := ip.env
	if superclass != nil {
		env = NewEnv(env)
		env.Define("super", ClassVal(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, env, m.Name.Lexeme == "init")
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	ip.env.Assign(s.Name.Lexeme, ClassVal(class))
}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) eval(e Expr) Value {
	switch e := e.(type) {
	case *Literal:
		return e.Value

	case *Grouping:
		return ip.eval(e.Expression)

	case *Variable:
		return ip.lookUpVariable(e.Name, e)

	case *Assign:
		v := ip.eval(e.Value)
		if depth, ok := ip.locals[e]; ok {
			ip.env.AssignAt(depth, e.Name.Lexeme, v)
		} else if !ip.Globals.Assign(e.Name.Lexeme, v) {
			fail(e.Name, "Undefined variable '"+e.Name.Lexeme+"'.")
		}
		return v

	case *Unary:
		return ip.evalUnary(e)

	case *Binary:
		return ip.evalBinary(e)

	case *Logical:
		left := ip.eval(e.Left)
		if e.Op.Type == OR {
			if isTruthy(left) {
				return left
			}
		} else if !isTruthy(left) {
			return left
		}
		return ip.eval(e.Right)

	case *Call:
		return ip.evalCall(e)

	case *Get:
		obj := ip.eval(e.Object)
		if obj.Tag != VTInstance {
			fail(e.Name, "Only instances have properties.")
		}
		return obj.Data.(*Instance).Get(e.Name)

	case *Set:
		obj := ip.eval(e.Object)
		if obj.Tag != VTInstance {
			fail(e.Name, "Only instances have fields.")
		}
		v := ip.eval(e.Value)
		obj.Data.(*Instance).SetField(e.Name, v)
		return v

	case *This:
		return ip.lookUpVariable(e.Keyword, e)

	case *Super:
		return ip.evalSuper(e)
	}
	return Nil
}

// lookUpVariable reads a resolved local at its recorded depth, or falls back
// to globals.
func (ip *Interpreter) lookUpVariable(name Token, e Expr) Value {
	if depth, ok := ip.locals[e]; ok {
		return ip.env.GetAt(depth, name.Lexeme)
	}
	v, ok := ip.Globals.Get(name.Lexeme)
	if !ok {
		fail(name, "Undefined variable '"+name.Lexeme+"'.")
	}
	return v
}

func (ip *Interpreter) evalUnary(e *Unary) Value {
	right := ip.eval(e.Right)
	switch e.Op.Type {
	case MINUS:
		if right.Tag != VTNum {
			fail(e.Op, "Operand must be a number.")
		}
		return Num(-right.Data.(float64))
	case BANG:
		return Bool(!isTruthy(right))
	}
	return Nil
}

func (ip *Interpreter) evalBinary(e *Binary) Value {
	left := ip.eval(e.Left)
	right := ip.eval(e.Right)

	switch e.Op.Type {
	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.Data.(float64) + right.Data.(float64))
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string))
		}
		fail(e.Op, "Operands must be two numbers or two strings.")
	case MINUS:
		a, b := ip.numberOperands(e.Op, left, right)
		return Num(a - b)
	case STAR:
		a, b := ip.numberOperands(e.Op, left, right)
		return Num(a * b)
	case SLASH:
		// IEEE semantics; division by zero yields ±Inf or NaN
		a, b := ip.numberOperands(e.Op, left, right)
		return Num(a / b)
	case GREATER:
		a, b := ip.numberOperands(e.Op, left, right)
		return Bool(a > b)
	case GREATER_EQUAL:
		a, b := ip.numberOperands(e.Op, left, right)
		return Bool(a >= b)
	case LESS:
		a, b := ip.numberOperands(e.Op, left, right)
		return Bool(a < b)
	case LESS_EQUAL:
		a, b := ip.numberOperands(e.Op, left, right)
		return Bool(a <= b)
	case EQUAL_EQUAL:
		return Bool(valuesEqual(left, right))
	case BANG_EQUAL:
		return Bool(!valuesEqual(left, right))
	}
	return Nil
}

func (ip *Interpreter) numberOperands(op Token, left, right Value) (float64, float64) {
	if left.Tag != VTNum || right.Tag != VTNum {
		fail(op, "Operands must be numbers.")
	}
	return left.Data.(float64), right.Data.(float64)
}

func (ip *Interpreter) evalCall(e *Call) Value {
	callee := ip.eval(e.Callee)

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		args = append(args, ip.eval(a))
	}

	callable, ok := ip.asCallable(callee)
	if !ok {
		fail(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		fail(e.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(ip, args)
}

func (ip *Interpreter) asCallable(v Value) (Callable, bool) {
	switch v.Tag {
	case VTFun:
		return v.Data.(Callable), true
	case VTClass:
		return v.Data.(*Class), true
	}
	return nil, false
}

// evalSuper reads the superclass at the resolved depth and 'this' one frame
// inside it, then binds the named superclass method to the instance.
func (ip *Interpreter) evalSuper(e *Super) Value {
	depth := ip.locals[e]
	superclass := ip.env.GetAt(depth, "super").Data.(*Class)
	inst := ip.env.GetAt(depth-1, "this").Data.(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		fail(e.Method, "Undefined property '"+e.Method.Lexeme+"'.")
	}
	return FunVal(method.Bind(inst))
}
