package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune (for Unicode support)
	chSize       int  // byte size of current character (1 for ASCII, 1-4 for UTF-8)
	line         int  // current line number
	column       int  // current column number
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		filename: "<input>",
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// Filename returns the name of the source being lexed
func (l *Lexer) Filename() string {
	return l.filename
}

// LexerState holds the state of a lexer for save/restore
type LexerState struct {
	position     int
	readPosition int
	ch           byte
	chRune       rune
	chSize       int
	line         int
	column       int
}

// SaveState saves the current lexer state for potential restoration
func (l *Lexer) SaveState() LexerState {
	return LexerState{
		position:     l.position,
		readPosition: l.readPosition,
		ch:           l.ch,
		chRune:       l.chRune,
		chSize:       l.chSize,
		line:         l.line,
		column:       l.column,
	}
}

// RestoreState restores the lexer to a previously saved state
func (l *Lexer) RestoreState(state LexerState) {
	l.position = state.position
	l.readPosition = state.readPosition
	l.ch = state.ch
	l.chRune = state.chRune
	l.chSize = state.chSize
	l.line = state.line
	l.column = state.column
}

// PeekToken returns the next token without consuming it.
// This is used for lookahead when the parser needs to see beyond the
// current peek token.
func (l *Lexer) PeekToken() Token {
	state := l.SaveState()
	tok := l.NextToken()
	l.RestoreState(state)
	return tok
}

// readChar reads the next character and advances position.
// Uses a hybrid approach: ASCII fast-path for single-byte characters,
// UTF-8 decoding for multi-byte characters (to support Unicode identifiers).
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	// ASCII fast-path: single-byte characters (most common case)
	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		if l.ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		return
	}

	// Non-ASCII: decode the full UTF-8 rune
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size

	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: EQ, Literal: "==", Line: line, Column: col}
		} else {
			tok = newToken(ASSIGN, l.ch, l.line, l.column)
		}
	case '!':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: "!=", Line: line, Column: col}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	case '>':
		switch l.peekChar() {
		case '=':
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: GTE, Literal: ">=", Line: line, Column: col}
		case '>':
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: COMPOSE, Literal: ">>", Line: line, Column: col}
		default:
			tok = newToken(GT, l.ch, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: LTE, Literal: "<=", Line: line, Column: col}
		} else {
			tok = newToken(LT, l.ch, l.line, l.column)
		}
	case '&':
		if l.peekChar() == '&' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: AND, Literal: "&&", Line: line, Column: col}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	case '|':
		switch l.peekChar() {
		case '|':
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: OR, Literal: "||", Line: line, Column: col}
		case '>':
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: THREAD, Literal: "|>", Line: line, Column: col}
		default:
			tok = newToken(PIPE, l.ch, l.line, l.column)
		}
	case '#':
		if l.peekChar() == '{' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: HASH_BRACE, Literal: "#{", Line: line, Column: col}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	case '/':
		if l.peekChar() == '/' {
			line, col := l.line, l.column
			literal := l.readComment()
			return Token{Type: COMMENT, Literal: literal, Line: line, Column: col}
		}
		tok = newToken(SLASH, l.ch, l.line, l.column)
	case '+':
		tok = newToken(PLUS, l.ch, l.line, l.column)
	case '-':
		tok = newToken(MINUS, l.ch, l.line, l.column)
	case '*':
		tok = newToken(ASTERISK, l.ch, l.line, l.column)
	case ',':
		tok = newToken(COMMA, l.ch, l.line, l.column)
	case ';':
		tok = newToken(SEMICOLON, l.ch, l.line, l.column)
	case ':':
		tok = newToken(COLON, l.ch, l.line, l.column)
	case '(':
		tok = newToken(LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(RPAREN, l.ch, l.line, l.column)
	case '{':
		tok = newToken(LBRACE, l.ch, l.line, l.column)
	case '}':
		tok = newToken(RBRACE, l.ch, l.line, l.column)
	case '[':
		tok = newToken(LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(RBRACKET, l.ch, l.line, l.column)
	case '"':
		line, col := l.line, l.column
		literal, terminated := l.readString()
		if !terminated {
			msg := fmt.Sprintf("Unterminated string starting with \"%s\"",
				truncate(strings.TrimPrefix(literal, `"`), 20))
			return Token{Type: ILLEGAL, Literal: msg, Line: line, Column: col}
		}
		return Token{Type: STRING, Literal: literal, Line: line, Column: col}
	case 0:
		tok.Type = EOF
		tok.Literal = ""
		tok.Line = l.line
		tok.Column = l.column
	default:
		if isLetterRune(l.chRune) {
			line, col := l.line, l.column
			literal := l.readIdentifier()
			return Token{Type: LookupIdent(literal), Literal: literal, Line: line, Column: col}
		}
		if isDigit(l.ch) {
			line, col := l.line, l.column
			literal, tokType := l.readNumber()
			return Token{Type: tokType, Literal: literal, Line: line, Column: col}
		}
		tok = newToken(ILLEGAL, l.ch, l.line, l.column)
	}

	l.readChar()
	return tok
}

func newToken(tokenType TokenType, ch byte, line, column int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}
}

// readIdentifier reads an identifier or keyword.
// Supports Unicode identifiers (e.g., π, α) via isLetterRune.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetterRune(l.chRune) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or decimal literal. Underscore separators are
// kept in the literal text. A dot only starts a fractional part when a digit
// follows it, so "1.foo" lexes as INT then dot.
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume the '.'
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position], DECIMAL
	}

	return l.input[position:l.position], INT
}

// readString reads a string literal and returns the raw source slice,
// surrounding quotes included, plus whether the string was terminated.
// Escape sequences are not decoded here; a backslash always carries the
// following character verbatim. Strings cannot span multiple lines.
func (l *Lexer) readString() (string, bool) {
	position := l.position
	l.readChar() // consume opening quote

	for l.ch != '"' && l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar() // skip past the escaped character
		}
		l.readChar()
	}

	terminated := l.ch == '"'
	if terminated {
		l.readChar() // consume closing quote
	}

	return l.input[position:l.position], terminated
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// readComment reads a single-line comment up to (not including) the newline.
// The leading slashes are kept in the literal.
func (l *Lexer) readComment() string {
	position := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return l.input[position:l.position]
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// isLetterRune checks if a rune is a valid identifier character (letter or underscore)
func isLetterRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
