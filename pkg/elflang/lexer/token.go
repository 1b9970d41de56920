package lexer

import "fmt"

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	COMMENT // // single line comment

	// Identifiers and literals
	IDENT   // add, foobar, x, y, ...
	INT     // 1343456, 1_000_000
	DECIMAL // 3.14159, 1_000.5
	STRING  // "foobar"

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
	EQ       // ==
	NOT_EQ   // !=
	AND      // &&
	OR       // ||
	THREAD   // |>
	COMPOSE  // >>
	PIPE     // | (function parameter delimiter)

	// Delimiters
	COMMA      // ,
	SEMICOLON  // ;
	COLON      // :
	LPAREN     // (
	RPAREN     // )
	LBRACE     // {
	RBRACE     // }
	LBRACKET   // [
	RBRACKET   // ]
	HASH_BRACE // #{ (dictionary literal opener)

	// Keywords
	LET   // "let"
	MUT   // "mut"
	IF    // "if"
	ELSE  // "else"
	TRUE  // "true"
	FALSE // "false"
	NIL   // "nil"
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

// String returns the external name of the token type. Keyword and literal
// tokens use short uppercase names; operator and delimiter tokens are named
// by their own spelling. These names are the ones the token dump emits.
func (tt TokenType) String() string {
	switch tt {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case COMMENT:
		return "CMT"
	case IDENT:
		return "ID"
	case INT:
		return "INT"
	case DECIMAL:
		return "DEC"
	case STRING:
		return "STR"
	case ASSIGN:
		return "="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case ASTERISK:
		return "*"
	case SLASH:
		return "/"
	case LT:
		return "<"
	case GT:
		return ">"
	case LTE:
		return "<="
	case GTE:
		return ">="
	case EQ:
		return "=="
	case NOT_EQ:
		return "!="
	case AND:
		return "&&"
	case OR:
		return "||"
	case THREAD:
		return "|>"
	case COMPOSE:
		return ">>"
	case PIPE:
		return "|"
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case COLON:
		return ":"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case LBRACKET:
		return "["
	case RBRACKET:
		return "]"
	case HASH_BRACE:
		return "#{"
	case LET:
		return "LET"
	case MUT:
		return "MUT"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case NIL:
		return "NIL"
	default:
		return "UNKNOWN"
	}
}

var keywords = map[string]TokenType{
	"let":   LET,
	"mut":   MUT,
	"if":    IF,
	"else":  ELSE,
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
