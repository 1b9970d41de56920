package ast

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/elf-lang/elf/pkg/elflang/lexer"
)

// Node represents any node in the AST.
//
// Every node also implements json.Marshaler: the tree serializes to the
// canonical JSON shape the `elf ast` dump emits. Marshaling goes through
// map[string]any so keys always come out in alphabetical order.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"statements": statementsOrEmpty(p.Statements),
		"type":       "Program",
	})
}

// ExpressionStatement wraps a single expression used as a statement
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

func (es *ExpressionStatement) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  "Expression",
		"value": es.Expression,
	})
}

// CommentStatement represents a line comment kept in the tree.
// Comments produce no value and are skipped by the evaluator.
type CommentStatement struct {
	Token lexer.Token // the lexer.COMMENT token
	Value string      // comment text including the leading //
}

func (cs *CommentStatement) statementNode()       {}
func (cs *CommentStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CommentStatement) String() string       { return cs.Value }

func (cs *CommentStatement) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  "Comment",
		"value": cs.Value,
	})
}

// BlockStatement represents brace-delimited blocks like '{ ... }'
type BlockStatement struct {
	Token      lexer.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

func (bs *BlockStatement) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"statements": statementsOrEmpty(bs.Statements),
		"type":       "Block",
	})
}

// Identifier represents identifier expressions
type Identifier struct {
	Token lexer.Token // the lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

func (i *Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name": i.Value,
		"type": "Identifier",
	})
}

// IntegerLiteral represents integer literals.
// Value holds the parsed number; the dump keeps the source text, so
// underscore separators like 1_000 survive serialization.
type IntegerLiteral struct {
	Token lexer.Token // the lexer.INT token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

func (il *IntegerLiteral) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  "Integer",
		"value": il.Token.Literal,
	})
}

// DecimalLiteral represents decimal literals like 3.14
type DecimalLiteral struct {
	Token lexer.Token // the lexer.DECIMAL token
	Value float64
}

func (dl *DecimalLiteral) expressionNode()      {}
func (dl *DecimalLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DecimalLiteral) String() string       { return dl.Token.Literal }

func (dl *DecimalLiteral) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  "Decimal",
		"value": dl.Token.Literal,
	})
}

// StringLiteral represents string literals. Value is the decoded text with
// escape sequences already processed.
type StringLiteral struct {
	Token lexer.Token // the lexer.STRING token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return sl.Token.Literal }

func (sl *StringLiteral) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  "String",
		"value": sl.Value,
	})
}

// Boolean represents boolean literals
type Boolean struct {
	Token lexer.Token // the lexer.TRUE or lexer.FALSE token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

func (b *Boolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  "Boolean",
		"value": b.Value,
	})
}

// NilLiteral represents the nil literal
type NilLiteral struct {
	Token lexer.Token // the lexer.NIL token
}

func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NilLiteral) String() string       { return "nil" }

func (nl *NilLiteral) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": "Nil",
	})
}

// LetExpression represents 'let x = 5' and 'let mut x = 5'. Let is an
// expression: it yields the bound value, so it can appear anywhere a
// primary expression can.
type LetExpression struct {
	Token   lexer.Token // the lexer.LET token
	Name    *Identifier
	Mutable bool
	Value   Expression
}

func (le *LetExpression) expressionNode()      {}
func (le *LetExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LetExpression) String() string {
	var out bytes.Buffer

	out.WriteString("let ")
	if le.Mutable {
		out.WriteString("mut ")
	}
	out.WriteString(le.Name.String())
	out.WriteString(" = ")

	if le.Value != nil {
		out.WriteString(le.Value.String())
	}

	return out.String()
}

func (le *LetExpression) MarshalJSON() ([]byte, error) {
	nodeType := "Let"
	if le.Mutable {
		nodeType = "MutableLet"
	}
	return json.Marshal(map[string]any{
		"name":  le.Name,
		"type":  nodeType,
		"value": le.Value,
	})
}

// AssignmentExpression represents 'x = 5' targeting an existing mutable binding
type AssignmentExpression struct {
	Token lexer.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) String() string {
	var out bytes.Buffer

	out.WriteString(ae.Name.String())
	out.WriteString(" = ")

	if ae.Value != nil {
		out.WriteString(ae.Value.String())
	}

	return out.String()
}

func (ae *AssignmentExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":  ae.Name,
		"type":  "Assignment",
		"value": ae.Value,
	})
}

// PrefixExpression represents prefix expressions; unary minus is the only one
type PrefixExpression struct {
	Token    lexer.Token // the prefix token, e.g. -
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

func (pe *PrefixExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"operand":  pe.Right,
		"operator": pe.Operator,
		"type":     "Prefix",
	})
}

// InfixExpression represents infix expressions like 'x + y'
type InfixExpression struct {
	Token    lexer.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

func (ie *InfixExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"left":     ie.Left,
		"operator": ie.Operator,
		"right":    ie.Right,
		"type":     "Infix",
	})
}

// IndexExpression represents index access like 'list[0]' or 'dict["key"]'
type IndexExpression struct {
	Token lexer.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ix.Left.String())
	out.WriteString("[")
	out.WriteString(ix.Index.String())
	out.WriteString("])")

	return out.String()
}

func (ix *IndexExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"index": ix.Index,
		"left":  ix.Left,
		"type":  "Index",
	})
}

// ListLiteral represents list literals like [1, 2, 3]
type ListLiteral struct {
	Token lexer.Token // the '[' token
	Items []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string {
	var out bytes.Buffer

	items := []string{}
	for _, item := range ll.Items {
		items = append(items, item.String())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("]")

	return out.String()
}

func (ll *ListLiteral) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"items": expressionsOrEmpty(ll.Items),
		"type":  "List",
	})
}

// SetLiteral represents set literals like {1, 2, 3}
type SetLiteral struct {
	Token lexer.Token // the '{' token
	Items []Expression
}

func (sl *SetLiteral) expressionNode()      {}
func (sl *SetLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *SetLiteral) String() string {
	var out bytes.Buffer

	items := []string{}
	for _, item := range sl.Items {
		items = append(items, item.String())
	}

	out.WriteString("{")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("}")

	return out.String()
}

func (sl *SetLiteral) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"items": expressionsOrEmpty(sl.Items),
		"type":  "Set",
	})
}

// DictEntry is one key/value pair of a dictionary literal, in source order
type DictEntry struct {
	Key   Expression
	Value Expression
}

func (de DictEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"key":   de.Key,
		"value": de.Value,
	})
}

// DictLiteral represents dictionary literals like #{"a": 1}
type DictLiteral struct {
	Token lexer.Token // the '#{' token
	Items []DictEntry
}

func (dl *DictLiteral) expressionNode()      {}
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) String() string {
	var out bytes.Buffer

	items := []string{}
	for _, entry := range dl.Items {
		items = append(items, entry.Key.String()+": "+entry.Value.String())
	}

	out.WriteString("#{")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("}")

	return out.String()
}

func (dl *DictLiteral) MarshalJSON() ([]byte, error) {
	items := dl.Items
	if items == nil {
		items = []DictEntry{}
	}
	return json.Marshal(map[string]any{
		"items": items,
		"type":  "Dictionary",
	})
}

// IfExpression represents 'if cond { ... } else { ... }'. Alternative is nil
// when the else branch is absent and serializes as null.
type IfExpression struct {
	Token       lexer.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(ie.Condition.String())
	out.WriteString(" ")
	out.WriteString(ie.Consequence.String())

	if ie.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(ie.Alternative.String())
	}

	return out.String()
}

func (ie *IfExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"alternative": ie.Alternative,
		"condition":   ie.Condition,
		"consequence": ie.Consequence,
		"type":        "If",
	})
}

// FunctionLiteral represents function literals like '|x, y| { x + y }'.
// A shorthand body '|x| expr' parses into a Block with one statement.
type FunctionLiteral struct {
	Token      lexer.Token // the '|' (or '||') token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fl.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("|")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString("| { ")
	out.WriteString(fl.Body.String())
	out.WriteString(" }")

	return out.String()
}

func (fl *FunctionLiteral) MarshalJSON() ([]byte, error) {
	params := fl.Parameters
	if params == nil {
		params = []*Identifier{}
	}
	return json.Marshal(map[string]any{
		"body":       fl.Body,
		"parameters": params,
		"type":       "Function",
	})
}

// CallExpression represents function calls
type CallExpression struct {
	Token     lexer.Token // the '(' token
	Function  Expression  // identifier, function literal, or any callee expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}

func (ce *CallExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"arguments": expressionsOrEmpty(ce.Arguments),
		"function":  ce.Function,
		"type":      "Call",
	})
}

// FunctionComposition represents '>>' chains folded into one N-ary node,
// stages in left-to-right application order.
type FunctionComposition struct {
	Token     lexer.Token // the first '>>' token
	Functions []Expression
}

func (fc *FunctionComposition) expressionNode()      {}
func (fc *FunctionComposition) TokenLiteral() string { return fc.Token.Literal }
func (fc *FunctionComposition) String() string {
	var out bytes.Buffer

	fns := []string{}
	for _, fn := range fc.Functions {
		fns = append(fns, fn.String())
	}

	out.WriteString("(")
	out.WriteString(strings.Join(fns, " >> "))
	out.WriteString(")")

	return out.String()
}

func (fc *FunctionComposition) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"functions": expressionsOrEmpty(fc.Functions),
		"type":      "FunctionComposition",
	})
}

// FunctionThread represents '|>' chains folded into one N-ary node: an
// initial value and the stages it is passed through, left to right.
type FunctionThread struct {
	Token     lexer.Token // the first '|>' token
	Initial   Expression
	Functions []Expression
}

func (ft *FunctionThread) expressionNode()      {}
func (ft *FunctionThread) TokenLiteral() string { return ft.Token.Literal }
func (ft *FunctionThread) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ft.Initial.String())
	for _, fn := range ft.Functions {
		out.WriteString(" |> ")
		out.WriteString(fn.String())
	}
	out.WriteString(")")

	return out.String()
}

func (ft *FunctionThread) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"functions": expressionsOrEmpty(ft.Functions),
		"initial":   ft.Initial,
		"type":      "FunctionThread",
	})
}

// statementsOrEmpty keeps empty statement lists serializing as [] not null
func statementsOrEmpty(stmts []Statement) []Statement {
	if stmts == nil {
		return []Statement{}
	}
	return stmts
}

func expressionsOrEmpty(exprs []Expression) []Expression {
	if exprs == nil {
		return []Expression{}
	}
	return exprs
}
