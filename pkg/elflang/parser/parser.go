package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/elf-lang/elf/pkg/elflang/ast"
	elferrors "github.com/elf-lang/elf/pkg/elflang/errors"
	"github.com/elf-lang/elf/pkg/elflang/lexer"
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	THREAD      // |>
	COMPOSE     // >>
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // ==
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X
	INDEX       // list[index]
	CALL        // myFunction(X)
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.THREAD:   THREAD,
	lexer.COMPOSE:  COMPOSE,
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALS,
	lexer.NOT_EQ:   EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LTE:      LESSGREATER,
	lexer.GTE:      LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.SLASH:    PRODUCT,
	lexer.ASTERISK: PRODUCT,
	lexer.LBRACKET: INDEX,
	lexer.LPAREN:   CALL,
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*elferrors.ElfError

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	// Initialize prefix parse functions
	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.DECIMAL, p.parseDecimalLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NIL, p.parseNilLiteral)
	p.registerPrefix(lexer.MINUS, p.parseMinusExpression)
	// Bare operator tokens in expression position name the operator's
	// function value, e.g. map(+, xs) or fold(0, >=, xs).
	p.registerPrefix(lexer.PLUS, p.parseIdentifier)
	p.registerPrefix(lexer.ASTERISK, p.parseIdentifier)
	p.registerPrefix(lexer.SLASH, p.parseIdentifier)
	p.registerPrefix(lexer.LT, p.parseIdentifier)
	p.registerPrefix(lexer.GT, p.parseIdentifier)
	p.registerPrefix(lexer.LTE, p.parseIdentifier)
	p.registerPrefix(lexer.GTE, p.parseIdentifier)
	p.registerPrefix(lexer.EQ, p.parseIdentifier)
	p.registerPrefix(lexer.NOT_EQ, p.parseIdentifier)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseSetLiteral)
	p.registerPrefix(lexer.HASH_BRACE, p.parseDictLiteral)
	p.registerPrefix(lexer.PIPE, p.parseFunctionLiteral)
	// '||' lexes as a single OR token; in prefix position it is the empty
	// parameter list of a function literal.
	p.registerPrefix(lexer.OR, p.parseFunctionLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpression)
	p.registerPrefix(lexer.LET, p.parseLetExpression)

	// Initialize infix parse functions
	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerInfix(lexer.PLUS, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS, p.parseInfixExpression)
	p.registerInfix(lexer.SLASH, p.parseInfixExpression)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpression)
	p.registerInfix(lexer.EQ, p.parseInfixExpression)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(lexer.LT, p.parseInfixExpression)
	p.registerInfix(lexer.GT, p.parseInfixExpression)
	p.registerInfix(lexer.LTE, p.parseInfixExpression)
	p.registerInfix(lexer.GTE, p.parseInfixExpression)
	p.registerInfix(lexer.AND, p.parseInfixExpression)
	p.registerInfix(lexer.OR, p.parseInfixExpression)
	p.registerInfix(lexer.THREAD, p.parseThreadExpression)
	p.registerInfix(lexer.COMPOSE, p.parseComposeExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns parser errors as strings (convenience method for tests).
// Prefer StructuredErrors() for production code.
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		if err.Line > 0 {
			result[i] = fmt.Sprintf("line %d, column %d: %s", err.Line, err.Column, err.Message)
		} else {
			result[i] = err.Message
		}
	}
	return result
}

// StructuredErrors returns parser errors as structured ElfError objects.
func (p *Parser) StructuredErrors() []*elferrors.ElfError {
	return p.structuredErrors
}

// addError adds a structured error.
// Only the first error is recorded - subsequent errors are usually cascading noise.
func (p *Parser) addError(msg string, line, column int) {
	if len(p.structuredErrors) > 0 {
		return
	}

	p.structuredErrors = append(p.structuredErrors, elferrors.NewParseError(msg, line, column))
}

// registerPrefix registers a prefix parse function
func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers an infix parse function
func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses the program and returns the AST
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	if len(p.structuredErrors) == 0 {
		p.validateBareIfs(program)
	}

	return program
}

// parseStatement parses statements
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.COMMENT:
		return p.parseCommentStatement()
	case lexer.IDENT:
		// Assignment only exists at statement level: 'x = value'
		if p.peekTokenIs(lexer.ASSIGN) {
			return p.parseAssignmentStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseCommentStatement() ast.Statement {
	return &ast.CommentStatement{Token: p.curToken, Value: p.curToken.Literal}
}

// parseAssignmentStatement parses 'name = value'
func (p *Parser) parseAssignmentStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	expression := &ast.AssignmentExpression{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}

	p.nextToken() // consume '='
	p.nextToken() // move to the value expression
	expression.Value = p.parseExpression(LOWEST)

	stmt.Expression = expression

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

// parseExpression parses expressions using Pratt parsing
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}

	leftExp := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

// Parse functions for different expression types

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	cleaned := strings.ReplaceAll(p.curToken.Literal, "_", "")
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		p.addError(fmt.Sprintf("could not parse %q as integer", p.curToken.Literal), p.curToken.Line, p.curToken.Column)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseDecimalLiteral() ast.Expression {
	lit := &ast.DecimalLiteral{Token: p.curToken}

	cleaned := strings.ReplaceAll(p.curToken.Literal, "_", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		p.addError(fmt.Sprintf("could not parse %q as decimal", p.curToken.Literal), p.curToken.Line, p.curToken.Column)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: decodeString(p.curToken.Literal)}
}

// decodeString strips the surrounding quotes and decodes the escape
// sequences \n \t \" \\. Unknown escapes pass through untouched.
func decodeString(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	s = strings.TrimSuffix(s, `"`)

	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case '"':
			out.WriteByte('"')
		case '\\':
			out.WriteByte('\\')
		default:
			out.WriteByte('\\')
			out.WriteByte(s[i])
		}
	}
	return out.String()
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

// parseMinusExpression decides between unary minus and the '-' identifier
// by lookahead: '-' is unary when the next token can start an expression,
// otherwise it names the subtraction function, e.g. map(-, xs) or [-].
func (p *Parser) parseMinusExpression() ast.Expression {
	if !canStartExpression(p.peekToken.Type) {
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)

	return expression
}

// canStartExpression reports whether a token can begin a primary expression
func canStartExpression(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.INT, lexer.DECIMAL, lexer.STRING,
		lexer.TRUE, lexer.FALSE, lexer.NIL,
		lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE, lexer.HASH_BRACE,
		lexer.PIPE, lexer.OR, lexer.IF, lexer.LET,
		lexer.MINUS, lexer.PLUS, lexer.ASTERISK, lexer.SLASH:
		return true
	}
	return false
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

// parseThreadExpression parses 'initial |> f |> g'. Chains fold into a
// single node holding the initial value and the stages in application order.
func (p *Parser) parseThreadExpression(left ast.Expression) ast.Expression {
	if thread, ok := left.(*ast.FunctionThread); ok {
		p.nextToken()
		thread.Functions = append(thread.Functions, p.parseExpression(THREAD))
		return thread
	}

	expression := &ast.FunctionThread{Token: p.curToken, Initial: left}

	p.nextToken()
	expression.Functions = []ast.Expression{p.parseExpression(THREAD)}

	return expression
}

// parseComposeExpression parses 'f >> g >> h'. Chains fold into a single
// node listing every stage in application order, the first included.
func (p *Parser) parseComposeExpression(left ast.Expression) ast.Expression {
	if composition, ok := left.(*ast.FunctionComposition); ok {
		p.nextToken()
		composition.Functions = append(composition.Functions, p.parseExpression(COMPOSE))
		return composition
	}

	expression := &ast.FunctionComposition{Token: p.curToken}

	p.nextToken()
	expression.Functions = []ast.Expression{left, p.parseExpression(COMPOSE)}

	return expression
}

// parseGroupedExpression parses '(expression)'. Parentheses only group;
// they leave no node behind.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	list.Items = p.parseExpressionList(lexer.RBRACKET)
	return list
}

func (p *Parser) parseSetLiteral() ast.Expression {
	set := &ast.SetLiteral{Token: p.curToken}
	set.Items = p.parseExpressionList(lexer.RBRACE)
	return set
}

// parseDictLiteral parses dictionary literals like #{"a": 1, "b": 2}
func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken}
	dict.Items = []ast.DictEntry{}

	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return dict
	}

	p.nextToken()

	for {
		key := p.parseExpression(LOWEST)

		if !p.expectPeek(lexer.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)

		dict.Items = append(dict.Items, ast.DictEntry{Key: key, Value: value})

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken() // consume comma
		if p.peekTokenIs(lexer.RBRACE) {
			break // trailing comma
		}
		p.nextToken() // move to the next key
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	return dict
}

// parseFunctionLiteral parses '|x, y| { ... }', '|x| expr', and the
// zero-parameter forms '|| { ... }' and '|| expr'.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}

	if p.curTokenIs(lexer.OR) {
		lit.Parameters = []*ast.Identifier{}
	} else {
		lit.Parameters = p.parseFunctionParameters()
		if lit.Parameters == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		lit.Body = p.parseBlockStatement()
		return lit
	}

	// Shorthand body: a single expression wrapped as a one-statement block
	p.nextToken()
	bodyToken := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	lit.Body = &ast.BlockStatement{
		Token: bodyToken,
		Statements: []ast.Statement{
			&ast.ExpressionStatement{Token: bodyToken, Expression: expr},
		},
	}

	return lit
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		return identifiers
	}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(lexer.PIPE) {
		return nil
	}

	return identifiers
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}

	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	expression.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()

		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}

		expression.Alternative = p.parseBlockStatement()
	}

	return expression
}

// parseLetExpression parses 'let name = value' and 'let mut name = value'.
// Let is an expression yielding the bound value, so it nests: 'let a = let b = 2'.
func (p *Parser) parseLetExpression() ast.Expression {
	expression := &ast.LetExpression{Token: p.curToken}

	if p.peekTokenIs(lexer.MUT) {
		p.nextToken()
		expression.Mutable = true
	}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}

	expression.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}

	p.nextToken()
	expression.Value = p.parseExpression(LOWEST)

	return expression
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.addError("expected '}', got 'end of file'", p.curToken.Line, p.curToken.Column)
	}

	return block
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: fn}
	exp.Arguments = p.parseExpressionList(lexer.RPAREN)
	return exp
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}

	return exp
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken() // consume comma
		// Check for trailing comma (next token is closing delimiter)
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken() // move to next element
		args = append(args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}

	return args
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	} else {
		p.peekError(t)
		return false
	}
}

func (p *Parser) peekError(t lexer.TokenType) {
	tokenName := tokenTypeToReadableName(t)
	gotLiteral := p.peekToken.Literal
	if gotLiteral == "" {
		gotLiteral = tokenTypeToReadableName(p.peekToken.Type)
	}

	// Report the error at the position after the last successfully parsed token
	line := p.curToken.Line
	column := p.curToken.Column + len(p.curToken.Literal)

	p.addError(fmt.Sprintf("expected %s, got '%s'", tokenName, gotLiteral), line, column)
}

func (p *Parser) noPrefixParseFnError(t lexer.TokenType) {
	literal := p.curToken.Literal
	if literal == "" {
		literal = tokenTypeToReadableName(t)
	}

	// If curToken is on a new line compared to prevToken,
	// report the error at the previous token (where the expression should have been)
	line := p.curToken.Line
	column := p.curToken.Column + len(p.curToken.Literal)

	if p.prevToken.Type != lexer.ILLEGAL && p.curToken.Line > p.prevToken.Line {
		line = p.prevToken.Line
		column = p.prevToken.Column + len(p.prevToken.Literal)
	} else if p.prevToken.Type != lexer.ILLEGAL {
		column = p.prevToken.Column + len(p.prevToken.Literal)
	}

	if t == lexer.ILLEGAL {
		// An illegal token is either a single stray character, or a message
		// the lexer already composed (unterminated string); use the latter
		// directly, anchored at the token itself.
		if utf8.RuneCountInString(literal) > 1 {
			p.addError(literal, p.curToken.Line, p.curToken.Column)
		} else {
			p.addError(fmt.Sprintf("unexpected character '%s'", literal), line, column)
		}
	} else {
		p.addError(fmt.Sprintf("unexpected '%s'", literal), line, column)
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// validateBareIfs walks the finished tree and rejects 'if' without 'else'
// anywhere its value would be consumed. A bare if may stand alone as a
// top-level statement or as a non-final statement inside a block; in value
// position the missing branch has no defined result, so it is a parse error.
func (p *Parser) validateBareIfs(program *ast.Program) {
	for _, stmt := range program.Statements {
		p.validateStatement(stmt, true)
	}
}

func (p *Parser) validateStatement(stmt ast.Statement, bareIfOK bool) {
	if es, ok := stmt.(*ast.ExpressionStatement); ok {
		p.validateExpression(es.Expression, bareIfOK)
	}
}

func (p *Parser) validateBlock(block *ast.BlockStatement) {
	if block == nil {
		return
	}

	// The block's value comes from its last expression statement;
	// trailing comments do not move that position.
	last := -1
	for i, stmt := range block.Statements {
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			last = i
		}
	}

	for i, stmt := range block.Statements {
		p.validateStatement(stmt, i != last)
	}
}

func (p *Parser) validateExpression(expr ast.Expression, bareIfOK bool) {
	switch e := expr.(type) {
	case *ast.IfExpression:
		if e.Alternative == nil && !bareIfOK {
			p.addError("if used as a value requires an else block", e.Token.Line, e.Token.Column)
		}
		p.validateExpression(e.Condition, false)
		p.validateBlock(e.Consequence)
		p.validateBlock(e.Alternative)
	case *ast.LetExpression:
		p.validateExpression(e.Value, false)
	case *ast.AssignmentExpression:
		p.validateExpression(e.Value, false)
	case *ast.PrefixExpression:
		p.validateExpression(e.Right, false)
	case *ast.InfixExpression:
		p.validateExpression(e.Left, false)
		p.validateExpression(e.Right, false)
	case *ast.IndexExpression:
		p.validateExpression(e.Left, false)
		p.validateExpression(e.Index, false)
	case *ast.ListLiteral:
		for _, item := range e.Items {
			p.validateExpression(item, false)
		}
	case *ast.SetLiteral:
		for _, item := range e.Items {
			p.validateExpression(item, false)
		}
	case *ast.DictLiteral:
		for _, entry := range e.Items {
			p.validateExpression(entry.Key, false)
			p.validateExpression(entry.Value, false)
		}
	case *ast.FunctionLiteral:
		p.validateBlock(e.Body)
	case *ast.CallExpression:
		p.validateExpression(e.Function, false)
		for _, arg := range e.Arguments {
			p.validateExpression(arg, false)
		}
	case *ast.FunctionComposition:
		for _, fn := range e.Functions {
			p.validateExpression(fn, false)
		}
	case *ast.FunctionThread:
		p.validateExpression(e.Initial, false)
		for _, fn := range e.Functions {
			p.validateExpression(fn, false)
		}
	}
}

// tokenTypeToReadableName returns a human-readable name for error messages
func tokenTypeToReadableName(t lexer.TokenType) string {
	switch t {
	case lexer.IDENT:
		return "identifier"
	case lexer.INT:
		return "integer"
	case lexer.DECIMAL:
		return "decimal"
	case lexer.STRING:
		return "string"
	case lexer.COMMENT:
		return "comment"
	case lexer.EOF:
		return "end of file"

	// Operators
	case lexer.ASSIGN:
		return "'='"
	case lexer.PLUS:
		return "'+'"
	case lexer.MINUS:
		return "'-'"
	case lexer.ASTERISK:
		return "'*'"
	case lexer.SLASH:
		return "'/'"
	case lexer.LT:
		return "'<'"
	case lexer.GT:
		return "'>'"
	case lexer.LTE:
		return "'<='"
	case lexer.GTE:
		return "'>='"
	case lexer.EQ:
		return "'=='"
	case lexer.NOT_EQ:
		return "'!='"
	case lexer.AND:
		return "'&&'"
	case lexer.OR:
		return "'||'"
	case lexer.THREAD:
		return "'|>'"
	case lexer.COMPOSE:
		return "'>>'"
	case lexer.PIPE:
		return "'|'"

	// Delimiters
	case lexer.COMMA:
		return "','"
	case lexer.SEMICOLON:
		return "';'"
	case lexer.COLON:
		return "':'"
	case lexer.LPAREN:
		return "'('"
	case lexer.RPAREN:
		return "')'"
	case lexer.LBRACE:
		return "'{'"
	case lexer.RBRACE:
		return "'}'"
	case lexer.LBRACKET:
		return "'['"
	case lexer.RBRACKET:
		return "']'"
	case lexer.HASH_BRACE:
		return "'#{'"

	// Keywords
	case lexer.LET:
		return "'let'"
	case lexer.MUT:
		return "'mut'"
	case lexer.IF:
		return "'if'"
	case lexer.ELSE:
		return "'else'"
	case lexer.TRUE:
		return "'true'"
	case lexer.FALSE:
		return "'false'"
	case lexer.NIL:
		return "'nil'"
	}

	return fmt.Sprintf("token(%d)", int(t))
}
