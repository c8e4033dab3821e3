// resolver.go — static resolution pass.
//
// A single walk over the AST that binds every local variable use to a scope
// distance (0 = innermost) recorded in the interpreter's side table, and
// diagnoses the static errors that must suppress execution: reading a local
// in its own initializer, duplicate locals, 'return' outside a function, a
// value return inside an initializer, misplaced 'this'/'super', and a class
// inheriting from itself. Globals are intentionally left unannotated; the
// interpreter falls back to the globals chain for them.
package lox

type funcKind int

const (
	fnNone funcKind = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classKind int

const (
	clNone classKind = iota
	clClass
	clSubclass
)

// Resolver computes scope depths for the interpreter and reports static
// semantic errors through the shared reporter.
type Resolver struct {
	ip       *Interpreter
	reporter *Reporter

	// scopes holds only local scopes (the global scope is implicit). Each
	// maps a name to whether its initializer has finished.
	scopes          []map[string]bool
	currentFunction funcKind
	currentClass    classKind
}

// NewResolver creates a resolver that writes depths into ip's side table.
func NewResolver(ip *Interpreter, reporter *Reporter) *Resolver {
	return &Resolver{ip: ip, reporter: reporter}
}

// Resolve walks the whole program.
func (r *Resolver) Resolve(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

// ─────────────────────────────── scope helpers ──────────────────────────────

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare inserts the name as not-yet-initialized; duplicates in the same
// local scope are an error (globals may be re-declared freely).
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reporter.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks the name as fully initialized.
func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the distance from the use site to the defining local
// scope; a miss means the name is (or will be) a global.
func (r *Resolver) resolveLocal(e Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.ip.resolve(e, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, kind funcKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.Resolve(fn.Body)
	r.endScope()

	r.currentFunction = enclosing
}

// ─────────────────────────────── statements ─────────────────────────────────

func (r *Resolver) resolveStmt(s Stmt) {
	switch s := s.(type) {
	case *BlockStmt:
		r.beginScope()
		r.Resolve(s.Statements)
		r.endScope()

	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *FunctionStmt:
		// the name is defined before the body so the function can recurse
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ClassStmt:
		enclosing := r.currentClass
		r.currentClass = clClass

		r.declare(s.Name)
		r.define(s.Name)

		if s.Superclass != nil {
			if s.Name.Lexeme == s.Superclass.Name.Lexeme {
				r.reporter.ErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
			}
			r.currentClass = clSubclass
			r.resolveExpr(s.Superclass)

			r.beginScope()
			r.scopes[len(r.scopes)-1]["super"] = true
		}

		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		for _, method := range s.Methods {
			kind := fnMethod
			if method.Name.Lexeme == "init" {
				kind = fnInitializer
			}
			r.resolveFunction(method, kind)
		}
		r.endScope()

		if s.Superclass != nil {
			r.endScope()
		}
		r.currentClass = enclosing

	case *ExprStmt:
		r.resolveExpr(s.Expression)

	case *PrintStmt:
		r.resolveExpr(s.Expression)

	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ReturnStmt:
		if r.currentFunction == fnNone {
			r.reporter.ErrorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.reporter.ErrorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	}
}

// ─────────────────────────────── expressions ────────────────────────────────

func (r *Resolver) resolveExpr(e Expr) {
	switch e := e.(type) {
	case *Variable:
		if len(r.scopes) > 0 {
			if declared, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !declared {
				r.reporter.ErrorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	case *Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *This:
		if r.currentClass == clNone {
			r.reporter.ErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *Super:
		switch r.currentClass {
		case clNone:
			r.reporter.ErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case clClass:
			r.reporter.ErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(e, e.Keyword)
		}

	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *Unary:
		r.resolveExpr(e.Right)

	case *Grouping:
		r.resolveExpr(e.Expression)

	case *Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *Get:
		r.resolveExpr(e.Object)

	case *Set:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Value)

	case *Literal:
		// nothing to resolve
	}
}
