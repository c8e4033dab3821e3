// printer.go — display forms and a debug AST printer.
//
// FormatValue is the single conversion used by 'print' and the REPL echo.
// FormatExpr renders an expression tree in a parenthesized prefix form; it
// exists for the parser tests and for debugging precedence questions.
package lox

import (
	"math"
	"strconv"
	"strings"
)

// FormatValue converts a runtime value to its display form: numbers drop a
// trailing .0 when integer-valued, booleans and nil print as their keywords,
// strings print verbatim, functions as <fn NAME>, classes as their name, and
// instances as "NAME instance".
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return formatNumber(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTFun:
		if f, ok := v.Data.(*Function); ok {
			return f.String()
		}
		return v.Data.(*NativeFun).String()
	case VTClass:
		return v.Data.(*Class).String()
	case VTInstance:
		return v.Data.(*Instance).String()
	}
	return "nil"
}

// formatNumber prints integer-valued doubles in plain decimal (every integer
// up to 2^53 round-trips without a fractional suffix); everything else uses
// the shortest float form.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e16 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatExpr renders an expression in parenthesized prefix form, e.g.
// (* (- 123) (group 45.67)).
func FormatExpr(e Expr) string {
	switch e := e.(type) {
	case *Literal:
		return FormatValue(e.Value)
	case *Grouping:
		return parens("group", e.Expression)
	case *Unary:
		return parens(e.Op.Lexeme, e.Right)
	case *Binary:
		return parens(e.Op.Lexeme, e.Left, e.Right)
	case *Logical:
		return parens(e.Op.Lexeme, e.Left, e.Right)
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return parens("= "+e.Name.Lexeme, e.Value)
	case *Call:
		return parens("call", append([]Expr{e.Callee}, e.Args...)...)
	case *Get:
		return parens("."+e.Name.Lexeme, e.Object)
	case *Set:
		return parens("="+e.Name.Lexeme, e.Object, e.Value)
	case *This:
		return "this"
	case *Super:
		return "(super " + e.Method.Lexeme + ")"
	}
	return "?"
}

func parens(name string, parts ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(FormatExpr(p))
	}
	b.WriteByte(')')
	return b.String()
}
