// printer_test.go
package lox

import (
	"math"
	"testing"
)

func wantFormat(t *testing.T, v Value, s string) {
	t.Helper()
	if got := FormatValue(v); got != s {
		t.Fatalf("FormatValue: want %q, got %q", s, got)
	}
}

func TestFormatPrimitives(t *testing.T) {
	wantFormat(t, Nil, "nil")
	wantFormat(t, Bool(true), "true")
	wantFormat(t, Bool(false), "false")
	wantFormat(t, Str("plain text"), "plain text")
	wantFormat(t, Str(""), "")
}

func TestFormatNumbers(t *testing.T) {
	wantFormat(t, Num(55), "55")
	wantFormat(t, Num(-7), "-7")
	wantFormat(t, Num(0), "0")
	wantFormat(t, Num(1.5), "1.5")
	wantFormat(t, Num(0.25), "0.25")
	// every integer in the exactly-representable range prints in decimal
	wantFormat(t, Num(9007199254740992), "9007199254740992")
	wantFormat(t, Num(-9007199254740992), "-9007199254740992")
	// specials fall through to the default float rendering
	wantFormat(t, Num(math.Inf(1)), "+Inf")
	wantFormat(t, Num(math.Inf(-1)), "-Inf")
	wantFormat(t, Num(math.NaN()), "NaN")
}

func TestFormatCallables(t *testing.T) {
	decl := &FunctionStmt{Name: Token{Type: IDENTIFIER, Lexeme: "f"}}
	wantFormat(t, FunVal(NewFunction(decl, NewEnv(nil), false)), "<fn f>")

	class := &Class{Name: "Widget", Methods: map[string]*Function{}}
	wantFormat(t, ClassVal(class), "Widget")
	wantFormat(t, InstanceVal(NewInstance(class)), "Widget instance")
}

func TestFormatExprTrees(t *testing.T) {
	// (* (- 123) (group 45.67)) — the classic shape
	e := &Binary{
		Left:  &Unary{Op: Token{Type: MINUS, Lexeme: "-"}, Right: &Literal{Value: Num(123)}},
		Op:    Token{Type: STAR, Lexeme: "*"},
		Right: &Grouping{Expression: &Literal{Value: Num(45.67)}},
	}
	if got := FormatExpr(e); got != "(* (- 123) (group 45.67))" {
		t.Fatalf("FormatExpr: got %q", got)
	}
}
