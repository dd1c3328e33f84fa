// Package parser builds a Bop AST from a lexer's token stream by
// recursive descent with precedence climbing, following the grammar in
// spec §6.
package parser

import (
	"strconv"

	"github.com/stevepryde/bop-lang/internal/ast"
	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/lexer"
	"github.com/stevepryde/bop-lang/pkg/token"
)

// Parser turns a Lexer's token stream into an *ast.Program. It fails fast:
// the first syntax error aborts parsing, matching the lexer's own
// abort-on-first-error behavior and Bop's "errors halt execution" design
// (spec §7). There is no error-recovery/resync path.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	// fnDepth tracks whether we are currently inside a function body, so
	// nested `fn` declarations can be rejected at parse time (spec §4.6).
	fnDepth int
}

// New creates a Parser reading from l. It primes curToken/peekToken with
// two calls to the lexer, so construction can itself fail.
func New(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.peekToken = tok
	return nil
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if !p.curIs(t) {
		return token.Token{}, bopErrors.New(bopErrors.Syntax, p.curToken.Line,
			"expected %s, found %s", t, p.curToken.Type)
	}
	tok := p.curToken
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// skipTerminators consumes zero or more consecutive TERMINATOR tokens,
// implementing spec §4.2's "multiple consecutive terminators collapse to
// one" at the parser level (the lexer emits them one per newline/`;`; the
// parser is what treats a run of them as a single statement boundary).
func (p *Parser) skipTerminators() error {
	for p.curIs(token.TERMINATOR) {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// endStatement consumes the terminator following a statement. A terminator
// is permitted but not required immediately before `}` or EOF (spec §4.3).
func (p *Parser) endStatement() error {
	if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return nil
	}
	if !p.curIs(token.TERMINATOR) {
		return bopErrors.New(bopErrors.Syntax, p.curToken.Line,
			"expected statement terminator, found %s", p.curToken.Type)
	}
	return p.skipTerminators()
}

// Parse parses the whole token stream into a Program.
func (p *Parser) Parse() (*ast.Program, error) {
	if err := p.skipTerminators(); err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.FOR:
		return p.parseFor()
	case token.FN:
		return p.parseFnDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBreak(line), nil
	case token.CONTINUE:
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewContinue(line), nil
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseLet() (ast.Statement, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume 'let'
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewLet(line, nameTok.Literal, value), nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	if err := p.skipTerminators(); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) {
		if p.curIs(token.EOF) {
			return nil, bopErrors.New(bopErrors.Syntax, p.curToken.Line, "unexpected end of input, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewBlock(lbrace.Line, stmts), nil
}

// parseIfStatement handles the statement form of `if`: an arbitrary chain
// of `else if` clauses followed by an optional final `else` (spec §6).
func (p *Parser) parseIfStatement() (ast.Statement, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseIfs []ast.ElseIf
	var elseBlock *ast.Block
	for p.curIs(token.ELSE) {
		if err := p.advance(); err != nil { // consume 'else'
			return nil, err
		}
		if p.curIs(token.IF) {
			if err := p.advance(); err != nil { // consume 'if'
				return nil, err
			}
			elifCond, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elifBody, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			elseIfs = append(elseIfs, ast.ElseIf{Cond: elifCond, Body: elifBody})
			continue
		}
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		break
	}
	return ast.NewIf(line, cond, then, elseIfs, elseBlock), nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(line, cond, body), nil
}

func (p *Parser) parseRepeat() (ast.Statement, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewRepeat(line, count, body), nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume 'for'
		return nil, err
	}
	identTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(line, identTok.Literal, iter, body), nil
}

func (p *Parser) parseFnDecl() (ast.Statement, error) {
	line := p.curToken.Line
	if p.fnDepth > 0 {
		return nil, bopErrors.New(bopErrors.Syntax, line, "nested function declarations are not permitted")
	}
	if err := p.advance(); err != nil { // consume 'fn'
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.curIs(token.RPAREN) {
		if len(params) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
			if p.curIs(token.RPAREN) {
				return nil, bopErrors.New(bopErrors.Syntax, p.curToken.Line, "trailing comma is not permitted")
			}
		}
		paramTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, paramTok.Literal)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	p.fnDepth++
	body, err := p.parseBlock()
	p.fnDepth--
	if err != nil {
		return nil, err
	}
	return ast.NewFnDecl(line, nameTok.Literal, params, body), nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume 'return'
		return nil, err
	}
	if p.curIs(token.TERMINATOR) || p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return ast.NewReturn(line, nil), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(line, value), nil
}

// parseExprOrAssignStatement parses an expression and, if followed by an
// assignment operator, reinterprets it as an AssignTarget (spec §6's
// `target = IDENT | postfix "[" expr "]"`).
func (p *Parser) parseExprOrAssignStatement() (ast.Statement, error) {
	line := p.curToken.Line
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	op, isAssign := assignOpFor(p.curToken.Type)
	if !isAssign {
		return ast.NewExprStmt(line, expr), nil
	}
	target, err := toAssignTarget(expr)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil { // consume assignment operator
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewAssign(line, target, op, value), nil
}

func assignOpFor(t token.Type) (ast.AssignOp, bool) {
	switch t {
	case token.ASSIGN:
		return ast.AssignSet, true
	case token.PLUS_ASSIGN:
		return ast.AssignAdd, true
	case token.MINUS_ASSIGN:
		return ast.AssignSub, true
	case token.STAR_ASSIGN:
		return ast.AssignMul, true
	case token.SLASH_ASSIGN:
		return ast.AssignDiv, true
	case token.PERCENT_ASSIGN:
		return ast.AssignMod, true
	default:
		return 0, false
	}
}

func toAssignTarget(expr ast.Expression) (ast.AssignTarget, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return ast.NewNameTarget(e.Line(), e.Name), nil
	case *ast.Index:
		return ast.NewIndexTarget(e.Line(), e.Receiver, e.Key), nil
	default:
		return nil, bopErrors.New(bopErrors.Syntax, expr.Line(), "invalid assignment target")
	}
}

// ---- Expressions: precedence climbing per spec §6 ----
//
//	expr = or ; or = and ("||" and)* ; and = eq ("&&" eq)* ; eq = cmp ...
//	cmp = add ... ; add = mul ... ; mul = un ... ; un = ("!"|"-") un | postfix

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.OR) {
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(line, ast.BinOr, left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.AND) {
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(line, ast.BinAnd, left, right)
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.EQ) || p.curIs(token.NOT_EQ) {
		op := ast.BinEq
		if p.curIs(token.NOT_EQ) {
			op = ast.BinNotEq
		}
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(line, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.curToken.Type {
		case token.LT:
			op = ast.BinLt
		case token.GT:
			op = ast.BinGt
		case token.LT_EQ:
			op = ast.BinLtEq
		case token.GT_EQ:
			op = ast.BinGtEq
		default:
			return left, nil
		}
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(line, op, left, right)
	}
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		op := ast.BinAdd
		if p.curIs(token.MINUS) {
			op = ast.BinSub
		}
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(line, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.curToken.Type {
		case token.STAR:
			op = ast.BinMul
		case token.SLASH:
			op = ast.BinDiv
		case token.PERCENT:
			op = ast.BinMod
		default:
			return left, nil
		}
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(line, op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.curToken.Type {
	case token.BANG:
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(line, ast.UnaryNot, operand), nil
	case token.MINUS:
		line := p.curToken.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(line, ast.UnaryNeg, operand), nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary followed by any number of index or method
// postfix operators (spec §6). Bare function-call syntax `IDENT(args)` is
// recognized only directly off a primary identifier (see parsePrimary),
// matching spec §4.3's rule that a call target is always a name, never an
// arbitrary postfix value.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curToken.Type {
		case token.LBRACK:
			line := p.curToken.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			expr = ast.NewIndex(line, expr, key)
		case token.DOT:
			line := p.curToken.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = ast.NewMethod(line, expr, nameTok.Literal, args)
		default:
			return expr, nil
		}
	}
}

// parseArgs parses a comma-separated argument list up to (and consuming)
// the closing ')'. Trailing commas are a syntax error (spec §4.3).
func (p *Parser) parseArgs() ([]ast.Expression, error) {
	var args []ast.Expression
	for !p.curIs(token.RPAREN) {
		if len(args) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
			if p.curIs(token.RPAREN) {
				return nil, bopErrors.New(bopErrors.Syntax, p.curToken.Line, "trailing comma is not permitted")
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.curToken
	switch tok.Type {
	case token.NUMBER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, bopErrors.New(bopErrors.Syntax, tok.Line, "invalid number literal %q", tok.Literal)
		}
		return ast.NewNumLit(tok.Line, v), nil
	case token.STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStrLit(tok.Line, tok.Segments), nil
	case token.TRUE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBoolLit(tok.Line, true), nil
	case token.FALSE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBoolLit(tok.Line, false), nil
	case token.NONE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewNoneLit(tok.Line), nil
	case token.IDENT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.curIs(token.LPAREN) {
			if err := p.advance(); err != nil { // consume '('
				return nil, err
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return ast.NewCall(tok.Line, tok.Literal, args), nil
		}
		return ast.NewIdent(tok.Line, tok.Literal), nil
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACK:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseDictLit()
	case token.IF:
		return p.parseIfExpr()
	default:
		return nil, bopErrors.New(bopErrors.Syntax, tok.Line, "unexpected token %s", tok.Type)
	}
}

func (p *Parser) parseArrayLit() (ast.Expression, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var elems []ast.Expression
	for !p.curIs(token.RBRACK) {
		if len(elems) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
			if p.curIs(token.RBRACK) {
				return nil, bopErrors.New(bopErrors.Syntax, p.curToken.Line, "trailing comma is not permitted")
			}
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return ast.NewArrayLit(line, elems), nil
}

// parseDictLit parses `{"k": v, ...}`; keys must be string literals with no
// interpolation (spec §4.3).
func (p *Parser) parseDictLit() (ast.Expression, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	var entries []ast.DictEntry
	for !p.curIs(token.RBRACE) {
		if len(entries) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
			if p.curIs(token.RBRACE) {
				return nil, bopErrors.New(bopErrors.Syntax, p.curToken.Line, "trailing comma is not permitted")
			}
		}
		keyTok := p.curToken
		if keyTok.Type != token.STRING {
			return nil, bopErrors.New(bopErrors.Syntax, keyTok.Line, "dict keys must be string literals")
		}
		if len(keyTok.Segments) != 1 || keyTok.Segments[0].Ident {
			return nil, bopErrors.New(bopErrors.Syntax, keyTok.Line, "dict keys must not contain interpolation")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{Key: keyTok.Segments[0].Text, Value: value})
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewDictLit(line, entries), nil
}

// parseIfExpr parses the expression form `if expr block else block` (spec
// §6's ifExpr production: a single mandatory else, no `else if` chain.
// Use a statement-position `if` for that.
func (p *Parser) parseIfExpr() (ast.Expression, error) {
	line := p.curToken.Line
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, bopErrors.New(bopErrors.Syntax, p.curToken.Line, "'if' used as an expression requires an 'else' branch")
	}
	els, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewIfExpr(line, cond, then, els), nil
}
