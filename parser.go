// parser.go — recursive-descent parser for Lox.
//
// One-token lookahead over the lexer's stream. Each grammar rule is a method
// returning (node, error); a hard error has already been reported through
// the Reporter when it is raised, so declaration() only has to discard the
// broken statement and resynchronize before continuing. That keeps one run
// of the parser able to surface many independent syntax errors.
//
// The 'for' statement does not survive parsing: it is lowered here into an
// initializer block around a while loop, so the downstream passes only ever
// see the core statement forms.
package lox

// Parse parses a token stream into a list of statements. Statements that
// failed to parse are dropped; their diagnostics are on the reporter.
func Parse(toks []Token, reporter *Reporter) []Stmt {
	p := &parser{toks: toks, reporter: reporter}
	return p.program()
}

type parser struct {
	toks     []Token
	i        int
	reporter *Reporter
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.i++
	}
	return p.prev()
}

func (p *parser) check(tt TokenType) bool {
	return !p.atEnd() && p.peek().Type == tt
}

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.check(t) {
			p.i++
			return true
		}
	}
	return false
}

// need consumes a token of the given kind or raises a reported parse error.
func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.err(p.peek(), msg)
}

// err reports the diagnostic immediately and returns the error that unwinds
// the current rule up to declaration().
func (p *parser) err(tok Token, msg string) error {
	p.reporter.ErrorAt(tok, msg)
	return &ParseError{Tok: tok, Msg: msg}
}

// synchronize discards tokens to a likely statement boundary: just past a
// ';', or in front of a keyword that can begin a declaration or statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.prev().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// ─────────────────────────────── declarations ───────────────────────────────

func (p *parser) program() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *parser) declaration() Stmt {
	var s Stmt
	var err error
	switch {
	case p.match(CLASS):
		s, err = p.classDecl()
	case p.match(FUN):
		s, err = p.function("function")
	case p.match(VAR):
		s, err = p.varDecl()
	default:
		s, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return s
}

func (p *parser) classDecl() (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *Variable
	if p.match(LESS) {
		superName, err := p.need(IDENTIFIER, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &Variable{Name: superName}
	}

	if _, err := p.need(LEFT_BRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*FunctionStmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		m, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m.(*FunctionStmt))
	}
	if _, err := p.need(RIGHT_BRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *parser) function(kind string) (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LEFT_PAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				// reported, not raised; parsing continues past the cap
				p.reporter.ErrorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.need(IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.need(LEFT_BRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *parser) varDecl() (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(EQUAL) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: init}, nil
}

// ─────────────────────────────── statements ─────────────────────────────────

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.match(FOR):
		return p.forStmt()
	case p.match(IF):
		return p.ifStmt()
	case p.match(PRINT):
		return p.printStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(LEFT_BRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts}, nil
	default:
		return p.exprStmt()
	}
}

// block parses declarations up to the closing brace. Broken declarations
// recover inside declaration(), so a block survives errors in its body.
func (p *parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, err := p.need(RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

// forStmt lowers the for loop to { init; while (cond) { body; inc; } }.
func (p *parser) forStmt() (Stmt, error) {
	if _, err := p.need(LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init, err = p.varDecl()
	default:
		init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var inc Expr
	if !p.check(RIGHT_PAREN) {
		inc, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if inc != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expression: inc}}}
	}
	if cond == nil {
		cond = &Literal{Value: Bool(true)}
	}
	body = &WhileStmt{Condition: cond, Body: body}
	if init != nil {
		body = &BlockStmt{Statements: []Stmt{init, body}}
	}
	return body, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	if _, err := p.need(LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, Then: then, Else: elseBranch}, nil
}

func (p *parser) printStmt() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: e}, nil
}

func (p *parser) returnStmt() (Stmt, error) {
	keyword := p.prev()
	var value Expr
	var err error
	if !p.check(SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	if _, err := p.need(LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

func (p *parser) exprStmt() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expression: e}, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

// assignment parses the left side as an ordinary expression first, then
// inspects it when an '=' follows: a Variable becomes Assign, a Get becomes
// Set, and anything else is an invalid target (reported, not raised, so the
// parse keeps its position).
func (p *parser) assignment() (Expr, error) {
	e, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(EQUAL) {
		equals := p.prev()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := e.(type) {
		case *Variable:
			return &Assign{Name: target.Name, Value: value}, nil
		case *Get:
			return &Set{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		p.reporter.ErrorAt(equals, "Invalid assignment target.")
	}
	return e, nil
}

func (p *parser) logicOr() (Expr, error) {
	e, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		e = &Logical{Left: e, Op: op, Right: right}
	}
	return e, nil
}

func (p *parser) logicAnd() (Expr, error) {
	e, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		e = &Logical{Left: e, Op: op, Right: right}
	}
	return e, nil
}

func (p *parser) equality() (Expr, error) {
	e, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(BANG_EQUAL, EQUAL_EQUAL) {
		op := p.prev()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		e = &Binary{Left: e, Op: op, Right: right}
	}
	return e, nil
}

func (p *parser) comparison() (Expr, error) {
	e, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		op := p.prev()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		e = &Binary{Left: e, Op: op, Right: right}
	}
	return e, nil
}

func (p *parser) term() (Expr, error) {
	e, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MINUS, PLUS) {
		op := p.prev()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		e = &Binary{Left: e, Op: op, Right: right}
	}
	return e, nil
}

func (p *parser) factor() (Expr, error) {
	e, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(SLASH, STAR) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		e = &Binary{Left: e, Op: op, Right: right}
	}
	return e, nil
}

func (p *parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Right: right}, nil
	}
	return p.call()
}

func (p *parser) call() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LEFT_PAREN):
			e, err = p.finishCall(e)
			if err != nil {
				return nil, err
			}
		case p.match(DOT):
			name, err := p.need(IDENTIFIER, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			e = &Get{Object: e, Name: name}
		default:
			return e, nil
		}
	}
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.reporter.ErrorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			a, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.need(RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &Literal{Value: Bool(false)}, nil
	case p.match(TRUE):
		return &Literal{Value: Bool(true)}, nil
	case p.match(NIL):
		return &Literal{Value: Nil}, nil
	case p.match(NUMBER):
		return &Literal{Value: Num(p.prev().Literal.(float64))}, nil
	case p.match(STRING):
		return &Literal{Value: Str(p.prev().Literal.(string))}, nil
	case p.match(SUPER):
		keyword := p.prev()
		if _, err := p.need(DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.need(IDENTIFIER, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &Super{Keyword: keyword, Method: method}, nil
	case p.match(THIS):
		return &This{Keyword: p.prev()}, nil
	case p.match(IDENTIFIER):
		return &Variable{Name: p.prev()}, nil
	case p.match(LEFT_PAREN):
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &Grouping{Expression: e}, nil
	}
	return nil, p.err(p.peek(), "Expect expression.")
}
