// Package parser implements a recursive-descent parser producing the
// Script language's AST.
package parser

import (
	"fmt"

	"github.com/chazu/scriptrunner/internal/ast"
	"github.com/chazu/scriptrunner/internal/lexer"
	"github.com/chazu/scriptrunner/internal/token"
)

// Error is a syntactic error carrying the source position it occurred at.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Parser consumes a token stream produced by the lexer and builds an AST.
type Parser struct {
	toks   []token.Token
	pos    int
	errors []*Error
}

// Parse tokenizes and parses source text in one step, returning the
// top-level statement list plus any lexical and syntactic errors.
func Parse(source string) ([]ast.Stmt, []*lexer.Error, []*Error) {
	toks, lexErrs := lexer.Tokenize(source)
	p := New(toks)
	stmts := p.ParseProgram()
	return stmts, lexErrs, p.errors
}

// New creates a Parser over an already-tokenized input. toks must end in
// an EOF token.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Errors returns the accumulated syntactic errors.
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) peekIs(k token.Kind) bool {
	return p.peek().Kind == k
}

// expect advances past the current token if it matches k, else records
// an error and leaves the cursor in place.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.curIs(k) {
		return p.advance(), true
	}
	p.errorf("expected %s, got %s", k, p.cur().Kind)
	return token.Token{}, false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Pos: p.cur().Pos, Message: fmt.Sprintf(format, args...)})
}

// statementStartKinds are the keywords synchronize() treats as a safe
// place to resume parsing.
var statementStartKinds = map[token.Kind]bool{
	token.If:       true,
	token.While:    true,
	token.For:      true,
	token.ForEach:  true,
	token.Function: true,
	token.Return:   true,
}

// synchronize advances past tokens until the next semicolon or the start
// of a statement-beginning keyword, so that parsing of later statements
// can continue after a syntax error.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.Semicolon) {
			p.advance()
			return
		}
		if statementStartKinds[p.cur().Kind] {
			return
		}
		p.advance()
	}
}

// ParseProgram parses the whole token stream into top-level statements.
// Statements whose production failed are excluded from the result; the
// corresponding error is recorded and parsing continues.
func (p *Parser) ParseProgram() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.curIs(token.EOF) {
		before := len(p.errors)
		stmt := p.parseDeclaration()
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) parseDeclaration() ast.Stmt {
	if p.curIs(token.Function) {
		return p.parseFunctionDecl()
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.ForEach:
		return p.parseForEach()
	case token.Return:
		return p.parseReturn()
	case token.Break:
		pos := p.advance().Pos
		return &ast.Break{Base: ast.NewBase(pos)}
	case token.Continue:
		pos := p.advance().Pos
		return &ast.Continue{Base: ast.NewBase(pos)}
	case token.LBrace:
		return p.parseBlock()
	case token.Repeat, token.Until:
		p.errorf("%s is not yet implemented", p.cur().Kind)
		p.advance()
		return nil
	case token.Try:
		p.errorf("try/catch/finally is not yet implemented")
		p.advance()
		return nil
	case token.Identifier:
		if p.peekIs(token.Assign) {
			return p.parseAssignment()
		}
		return p.parseExpressionStmt()
	default:
		return p.parseExpressionStmt()
	}
}

// parseStatementNoSemi parses a statement usable inside a for(...) header
// (an assignment or an expression statement; not a block or keyword
// statement).
func (p *Parser) parseStatementNoSemi() ast.Stmt {
	if p.curIs(token.Identifier) && p.peekIs(token.Assign) {
		return p.parseAssignmentNoTerminator()
	}
	pos := p.cur().Pos
	expr := p.parseExpr()
	return &ast.ExpressionStmt{Base: ast.NewBase(pos), Expr: expr}
}

func (p *Parser) parseAssignment() ast.Stmt {
	return p.parseAssignmentNoTerminator()
}

func (p *Parser) parseAssignmentNoTerminator() ast.Stmt {
	pos := p.cur().Pos
	name := p.advance().Lexeme
	p.expect(token.Assign)
	value := p.parseExpr()
	return &ast.AssignmentStmt{Base: ast.NewBase(pos), Name: name, Value: value}
}

func (p *Parser) parseExpressionStmt() ast.Stmt {
	pos := p.cur().Pos
	expr := p.parseExpr()
	return &ast.ExpressionStmt{Base: ast.NewBase(pos), Expr: expr}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.advance().Pos // consume 'if'
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseStatement()
	node := &ast.If{Base: ast.NewBase(pos), Cond: cond, Then: then}
	if p.curIs(token.Else) {
		p.advance()
		node.Else = p.parseStatement()
	}
	return node
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.advance().Pos // consume 'while'
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseStatement()
	return &ast.While{Base: ast.NewBase(pos), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.advance().Pos // consume 'for'
	p.expect(token.LParen)

	var init ast.Stmt
	if !p.curIs(token.Semicolon) {
		init = p.parseStatementNoSemi()
	}
	p.expect(token.Semicolon)

	var cond ast.Expr
	if !p.curIs(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon)

	var step ast.Stmt
	if !p.curIs(token.RParen) {
		step = p.parseStatementNoSemi()
	}
	p.expect(token.RParen)

	body := p.parseStatement()
	return &ast.For{Base: ast.NewBase(pos), Init: init, Cond: cond, Step: step, Body: body}
}

func (p *Parser) parseForEach() ast.Stmt {
	pos := p.advance().Pos // consume 'foreach'
	p.expect(token.LParen)
	varTok, _ := p.expect(token.Identifier)
	p.expect(token.In)
	iterable := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseStatement()
	return &ast.ForEach{Base: ast.NewBase(pos), Var: varTok.Lexeme, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.advance().Pos // consume 'return'
	node := &ast.Return{Base: ast.NewBase(pos)}
	if !p.atStatementEnd() {
		node.Value = p.parseExpr()
	}
	return node
}

// atStatementEnd reports whether the cursor sits at a token that can
// never start an expression — used to detect an absent `return` value.
func (p *Parser) atStatementEnd() bool {
	switch p.cur().Kind {
	case token.Semicolon, token.RBrace, token.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseBlock() ast.Stmt {
	return p.parseBlockNode()
}

func (p *Parser) parseBlockNode() *ast.Block {
	pos := p.advance().Pos // consume '{'
	var stmts []ast.Stmt
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		before := len(p.errors)
		stmt := p.parseDeclaration()
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		// Semicolons are accepted, but not required, as a statement
		// separator inside a block.
		if p.curIs(token.Semicolon) {
			p.advance()
		}
	}
	p.expect(token.RBrace)
	return &ast.Block{Base: ast.NewBase(pos), Stmts: stmts}
}

func (p *Parser) parseFunctionDecl() ast.Stmt {
	pos := p.advance().Pos // consume 'function'
	nameTok, _ := p.expect(token.Identifier)
	p.expect(token.LParen)
	var params []string
	for !p.curIs(token.RParen) && !p.curIs(token.EOF) {
		paramTok, ok := p.expect(token.Identifier)
		if ok {
			params = append(params, paramTok.Lexeme)
		}
		if p.curIs(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen)
	body := p.parseBlockNode()
	return &ast.Function{Base: ast.NewBase(pos), Name: nameTok.Lexeme, Params: params, Body: body}
}

// ---------------------------------------------------------------------------
// Expressions (precedence climbing)
// ---------------------------------------------------------------------------

func (p *Parser) parseExpr() ast.Expr {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.curIs(token.Or) {
		pos := p.cur().Pos
		op := p.advance().Kind
		right := p.parseLogicalAnd()
		left = &ast.Binary{Base: ast.NewBase(pos), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for p.curIs(token.And) {
		pos := p.cur().Pos
		op := p.advance().Kind
		right := p.parseEquality()
		left = &ast.Binary{Base: ast.NewBase(pos), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.curIs(token.Eq) || p.curIs(token.NotEq) {
		pos := p.cur().Pos
		op := p.advance().Kind
		right := p.parseComparison()
		left = &ast.Binary{Base: ast.NewBase(pos), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for p.curIs(token.Lt) || p.curIs(token.LtEq) || p.curIs(token.Gt) || p.curIs(token.GtEq) {
		pos := p.cur().Pos
		op := p.advance().Kind
		right := p.parseTerm()
		left = &ast.Binary{Base: ast.NewBase(pos), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.curIs(token.Plus) || p.curIs(token.Minus) {
		pos := p.cur().Pos
		op := p.advance().Kind
		right := p.parseFactor()
		left = &ast.Binary{Base: ast.NewBase(pos), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.curIs(token.Star) || p.curIs(token.Slash) || p.curIs(token.Percent) {
		pos := p.cur().Pos
		op := p.advance().Kind
		right := p.parseUnary()
		left = &ast.Binary{Base: ast.NewBase(pos), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curIs(token.Bang) || p.curIs(token.Minus) {
		pos := p.cur().Pos
		op := p.advance().Kind
		operand := p.parseUnary()
		return &ast.Unary{Base: ast.NewBase(pos), Op: op, Operand: operand}
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			expr = p.parseCallArgs(expr)
		case token.Dot:
			pos := p.advance().Pos
			nameTok, _ := p.expect(token.Identifier)
			expr = &ast.Member{Base: ast.NewBase(pos), Object: expr, Name: nameTok.Lexeme}
		case token.LBracket:
			pos := p.advance().Pos
			idx := p.parseExpr()
			p.expect(token.RBracket)
			expr = &ast.Index{Base: ast.NewBase(pos), Object: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expr) ast.Expr {
	pos := p.advance().Pos // consume '('
	var args []ast.Expr
	var named map[string]ast.Expr
	for !p.curIs(token.RParen) && !p.curIs(token.EOF) {
		if p.curIs(token.Identifier) && p.peekIs(token.Colon) {
			nameTok := p.advance()
			p.advance() // consume ':'
			if named == nil {
				named = make(map[string]ast.Expr)
			}
			named[nameTok.Lexeme] = p.parseExpr()
		} else {
			args = append(args, p.parseExpr())
		}
		if p.curIs(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen)
	return &ast.Call{Base: ast.NewBase(pos), Callee: callee, Args: args, Named: named}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.Int, token.Float, token.String, token.True, token.False, token.Null:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(tok.Pos), Token: tok}
	case token.Identifier:
		p.advance()
		return &ast.Variable{Base: ast.NewBase(tok.Pos), Name: tok.Lexeme}
	case token.LParen:
		p.advance()
		expr := p.parseExpr()
		p.expect(token.RParen)
		return expr
	case token.LBracket:
		return p.parseArrayLiteral()
	default:
		p.errorf("unexpected token %s", tok.Kind)
		p.advance()
		return &ast.Literal{Base: ast.NewBase(tok.Pos), Token: token.Token{Kind: token.Null, Pos: tok.Pos}}
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	pos := p.advance().Pos // consume '['
	var elems []ast.Expr
	for !p.curIs(token.RBracket) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseExpr())
		if p.curIs(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBracket)
	return &ast.Array{Base: ast.NewBase(pos), Elements: elems}
}
