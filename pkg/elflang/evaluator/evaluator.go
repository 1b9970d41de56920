package evaluator

import (
	"fmt"
	"io"
	"strings"

	"github.com/elf-lang/elf/pkg/elflang/ast"
	"github.com/elf-lang/elf/pkg/elflang/object"
)

// Singleton objects for common values
var (
	NIL   = &object.Nil{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// Evaluator walks an AST against an Environment. It owns the output sink
// that puts writes to, so independent evaluations never share state.
type Evaluator struct {
	out      io.Writer
	builtins map[string]*object.Builtin
}

// New creates an evaluator writing puts output to out
func New(out io.Writer) *Evaluator {
	ev := &Evaluator{out: out}
	ev.registerBuiltins()
	return ev
}

// Eval evaluates an AST node and returns the resulting object
func (ev *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return ev.evalProgram(node, env)

	case *ast.ExpressionStatement:
		return ev.Eval(node.Expression, env)

	case *ast.BlockStatement:
		return ev.evalBlockStatement(node, env)

	// Literals
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.DecimalLiteral:
		return &object.Decimal{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.NilLiteral:
		return NIL

	case *ast.ListLiteral:
		elements := ev.evalExpressions(node.Items, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &object.List{Elements: elements}

	case *ast.SetLiteral:
		return ev.evalSetLiteral(node, env)

	case *ast.DictLiteral:
		return ev.evalDictLiteral(node, env)

	case *ast.FunctionLiteral:
		return &object.Function{
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}

	// Expressions
	case *ast.Identifier:
		return ev.evalIdentifier(node, env)

	case *ast.LetExpression:
		val := ev.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		return env.Define(node.Name.Value, val, node.Mutable)

	case *ast.AssignmentExpression:
		val := ev.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		if err := env.Assign(node.Name.Value, val); err != nil {
			return newError("%s", err)
		}
		return val

	case *ast.PrefixExpression:
		right := ev.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		if node.Operator == "&&" || node.Operator == "||" {
			return ev.evalLogicalExpression(node, env)
		}
		left := ev.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := ev.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Operator, left, right)

	case *ast.IndexExpression:
		left := ev.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		index := ev.Eval(node.Index, env)
		if isError(index) {
			return index
		}
		return evalIndexExpression(left, index)

	case *ast.IfExpression:
		return ev.evalIfExpression(node, env)

	case *ast.CallExpression:
		fn := ev.Eval(node.Function, env)
		if isError(fn) {
			return fn
		}
		args := ev.evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return ev.applyFunction(fn, args)

	case *ast.FunctionComposition:
		stages := ev.evalExpressions(node.Functions, env)
		if len(stages) == 1 && isError(stages[0]) {
			return stages[0]
		}
		return &object.Composed{Functions: stages}

	case *ast.FunctionThread:
		return ev.evalThreadExpression(node, env)
	}

	return NIL
}

// evalProgram evaluates top-level statements in order. The program's value
// is the value of its last expression statement; comments contribute nothing.
func (ev *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = NIL

	for _, statement := range program.Statements {
		if _, ok := statement.(*ast.CommentStatement); ok {
			continue
		}

		result = ev.Eval(statement, env)
		if isError(result) {
			return result
		}
	}

	return result
}

// evalBlockStatement evaluates a block in a fresh child scope and yields
// the value of its last expression statement, or nil for an empty block.
func (ev *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = NIL

	blockEnv := object.NewEnclosedEnvironment(env)

	for _, statement := range block.Statements {
		if _, ok := statement.(*ast.CommentStatement); ok {
			continue
		}

		result = ev.Eval(statement, blockEnv)
		if isError(result) {
			return result
		}
	}

	return result
}

func (ev *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}

	if builtin, ok := ev.builtins[node.Value]; ok {
		return builtin
	}

	return newError("Identifier can not be found: %s", node.Value)
}

func (ev *Evaluator) evalSetLiteral(node *ast.SetLiteral, env *object.Environment) object.Object {
	elements := ev.evalExpressions(node.Items, env)
	if len(elements) == 1 && isError(elements[0]) {
		return elements[0]
	}

	for _, el := range elements {
		if el.Type() == object.DICTIONARY_OBJ {
			return newError("Unable to include a Dictionary within a Set")
		}
	}

	return object.NewSet(elements)
}

func (ev *Evaluator) evalDictLiteral(node *ast.DictLiteral, env *object.Environment) object.Object {
	pairs := make([]object.DictPair, 0, len(node.Items))

	for _, item := range node.Items {
		key := ev.Eval(item.Key, env)
		if isError(key) {
			return key
		}
		if key.Type() == object.DICTIONARY_OBJ {
			return newError("Unable to use a Dictionary as a Dictionary key")
		}

		value := ev.Eval(item.Value, env)
		if isError(value) {
			return value
		}

		pairs = append(pairs, object.DictPair{Key: key, Value: value})
	}

	return object.NewDictionary(pairs)
}

// evalLogicalExpression evaluates '&&' and '||' with short-circuiting: the
// right operand is untouched when the left operand decides the result.
func (ev *Evaluator) evalLogicalExpression(node *ast.InfixExpression, env *object.Environment) object.Object {
	left := ev.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	if node.Operator == "&&" {
		if !isTruthy(left) {
			return FALSE
		}
	} else {
		if isTruthy(left) {
			return TRUE
		}
	}

	right := ev.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	return nativeBoolToBooleanObject(isTruthy(right))
}

func (ev *Evaluator) evalIfExpression(node *ast.IfExpression, env *object.Environment) object.Object {
	condition := ev.Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return ev.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return ev.Eval(node.Alternative, env)
	}
	return NIL
}

// evalThreadExpression evaluates the initial value once, then feeds each
// stage the previous result as its sole argument.
func (ev *Evaluator) evalThreadExpression(node *ast.FunctionThread, env *object.Environment) object.Object {
	result := ev.Eval(node.Initial, env)
	if isError(result) {
		return result
	}

	for _, stage := range node.Functions {
		fn := ev.Eval(stage, env)
		if isError(fn) {
			return fn
		}

		result = ev.applyFunction(fn, []object.Object{result})
		if isError(result) {
			return result
		}
	}

	return result
}

func (ev *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) []object.Object {
	var result []object.Object

	for _, e := range exps {
		evaluated := ev.Eval(e, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

// applyFunction implements the uniform call protocol. Too few arguments
// yield a partial application; extra arguments are ignored. It applies to
// user functions, builtins, partials, and compositions alike.
func (ev *Evaluator) applyFunction(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) < len(fn.Parameters) {
			return &object.Partial{Fn: fn, Args: args}
		}
		extendedEnv := extendFunctionEnv(fn, args)
		return ev.Eval(fn.Body, extendedEnv)

	case *object.Builtin:
		if fn.Arity >= 0 && len(args) < fn.Arity {
			return &object.Partial{Fn: fn, Args: args}
		}
		return fn.Fn(args...)

	case *object.Partial:
		combined := make([]object.Object, 0, len(fn.Args)+len(args))
		combined = append(combined, fn.Args...)
		combined = append(combined, args...)
		return ev.applyFunction(fn.Fn, combined)

	case *object.Composed:
		return ev.applyComposed(fn, args)

	default:
		return newError("Expected a Function, found: %s", fn.Type())
	}
}

// applyComposed threads through the stages left to right. The first stage
// receives the caller's arguments, every later stage the previous result.
func (ev *Evaluator) applyComposed(composed *object.Composed, args []object.Object) object.Object {
	if len(composed.Functions) == 0 {
		return NIL
	}

	result := ev.applyFunction(composed.Functions[0], args)
	if isError(result) {
		return result
	}

	for _, stage := range composed.Functions[1:] {
		result = ev.applyFunction(stage, []object.Object{result})
		if isError(result) {
			return result
		}
	}

	return result
}

func extendFunctionEnv(fn *object.Function, args []object.Object) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		env.Define(param.Value, args[i], false)
	}

	return env
}

func evalPrefixExpression(operator string, right object.Object) object.Object {
	if operator != "-" {
		return newError("unknown operator: %s%s", operator, right.Type())
	}

	switch right := right.(type) {
	case *object.Integer:
		return &object.Integer{Value: -right.Value}
	case *object.Decimal:
		return &object.Decimal{Value: -right.Value}
	}

	return newError("Unsupported operation: -%s", right.Type())
}

func evalInfixExpression(operator string, left, right object.Object) object.Object {
	switch operator {
	case "==":
		return nativeBoolToBooleanObject(object.Equal(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!object.Equal(left, right))
	case "+":
		return evalPlusExpression(left, right)
	case "-":
		return evalMinusExpression(left, right)
	case "*":
		return evalStarExpression(left, right)
	case "/":
		return evalSlashExpression(left, right)
	case ">", "<", ">=", "<=":
		return evalComparisonExpression(operator, left, right)
	}

	return newError("Unsupported operation: %s %s %s", left.Type(), operator, right.Type())
}

// evalPlusExpression handles '+' across every operand pair it supports:
// numeric addition, string concatenation and stringification, list
// concatenation, set union, and right-biased dictionary merge.
func evalPlusExpression(left, right object.Object) object.Object {
	switch l := left.(type) {
	case *object.Integer:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: l.Value + r.Value}
		case *object.Decimal:
			return &object.Decimal{Value: float64(l.Value) + r.Value}
		case *object.String:
			return &object.String{Value: l.Inspect() + r.Value}
		}

	case *object.Decimal:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Decimal{Value: l.Value + float64(r.Value)}
		case *object.Decimal:
			return &object.Decimal{Value: l.Value + r.Value}
		case *object.String:
			return &object.String{Value: l.Inspect() + r.Value}
		}

	case *object.String:
		switch r := right.(type) {
		case *object.String:
			return &object.String{Value: l.Value + r.Value}
		case *object.Integer:
			return &object.String{Value: l.Value + r.Inspect()}
		case *object.Decimal:
			return &object.String{Value: l.Value + r.Inspect()}
		}

	case *object.List:
		if r, ok := right.(*object.List); ok {
			elements := make([]object.Object, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return &object.List{Elements: elements}
		}

	case *object.Set:
		if r, ok := right.(*object.Set); ok {
			elements := make([]object.Object, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return object.NewSet(elements)
		}

	case *object.Dictionary:
		if r, ok := right.(*object.Dictionary); ok {
			pairs := make([]object.DictPair, 0, len(l.Pairs)+len(r.Pairs))
			pairs = append(pairs, l.Pairs...)
			pairs = append(pairs, r.Pairs...)
			return object.NewDictionary(pairs)
		}
	}

	return newError("Unsupported operation: %s + %s", left.Type(), right.Type())
}

func evalMinusExpression(left, right object.Object) object.Object {
	switch l := left.(type) {
	case *object.Integer:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: l.Value - r.Value}
		case *object.Decimal:
			return &object.Decimal{Value: float64(l.Value) - r.Value}
		}
	case *object.Decimal:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Decimal{Value: l.Value - float64(r.Value)}
		case *object.Decimal:
			return &object.Decimal{Value: l.Value - r.Value}
		}
	}

	return newError("Unsupported operation: %s - %s", left.Type(), right.Type())
}

// evalStarExpression multiplies numbers and repeats strings. 'n * s' and
// 's * n' both repeat; a negative or decimal count is its own error.
func evalStarExpression(left, right object.Object) object.Object {
	// Integer * String commutes to String * Integer
	if left.Type() == object.INTEGER_OBJ && right.Type() == object.STRING_OBJ {
		left, right = right, left
	}

	switch l := left.(type) {
	case *object.Integer:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: l.Value * r.Value}
		case *object.Decimal:
			return &object.Decimal{Value: float64(l.Value) * r.Value}
		}
	case *object.Decimal:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Decimal{Value: l.Value * float64(r.Value)}
		case *object.Decimal:
			return &object.Decimal{Value: l.Value * r.Value}
		}
	case *object.String:
		switch r := right.(type) {
		case *object.Integer:
			if r.Value < 0 {
				return newError("Unsupported operation: String * Integer (< 0)")
			}
			return &object.String{Value: strings.Repeat(l.Value, int(r.Value))}
		case *object.Decimal:
			return newError("Unsupported operation: String * Decimal")
		}
	}

	return newError("Unsupported operation: %s * %s", left.Type(), right.Type())
}

// evalSlashExpression divides numbers. A zero right operand is always
// 'Division by zero', whatever the left operand is. Integer division
// truncates toward zero.
func evalSlashExpression(left, right object.Object) object.Object {
	switch r := right.(type) {
	case *object.Integer:
		if r.Value == 0 {
			return newError("Division by zero")
		}
	case *object.Decimal:
		if r.Value == 0 {
			return newError("Division by zero")
		}
	}

	switch l := left.(type) {
	case *object.Integer:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: l.Value / r.Value}
		case *object.Decimal:
			return &object.Decimal{Value: float64(l.Value) / r.Value}
		}
	case *object.Decimal:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Decimal{Value: l.Value / float64(r.Value)}
		case *object.Decimal:
			return &object.Decimal{Value: l.Value / r.Value}
		}
	}

	return newError("Unsupported operation: %s / %s", left.Type(), right.Type())
}

// evalComparisonExpression orders numeric operands; every other operand
// pair is unsupported.
func evalComparisonExpression(operator string, left, right object.Object) object.Object {
	if !isNumeric(left) || !isNumeric(right) {
		return newError("Unsupported operation: %s %s %s", left.Type(), operator, right.Type())
	}

	c := object.Compare(left, right)

	switch operator {
	case ">":
		return nativeBoolToBooleanObject(c > 0)
	case "<":
		return nativeBoolToBooleanObject(c < 0)
	case ">=":
		return nativeBoolToBooleanObject(c >= 0)
	case "<=":
		return nativeBoolToBooleanObject(c <= 0)
	}

	return newError("Unsupported operation: %s %s %s", left.Type(), operator, right.Type())
}

func isNumeric(obj object.Object) bool {
	return obj.Type() == object.INTEGER_OBJ || obj.Type() == object.DECIMAL_OBJ
}

// evalIndexExpression indexes lists and strings by integer position
// (negative counts from the end, out of range yields nil) and dictionaries
// by key (absent key yields nil).
func evalIndexExpression(left, index object.Object) object.Object {
	switch l := left.(type) {
	case *object.List:
		idx, ok := index.(*object.Integer)
		if !ok {
			return newError("Unable to perform index operation, found: %s[%s]", left.Type(), index.Type())
		}
		return evalListIndex(l, idx.Value)

	case *object.String:
		idx, ok := index.(*object.Integer)
		if !ok {
			return newError("Unable to perform index operation, found: %s[%s]", left.Type(), index.Type())
		}
		return evalStringIndex(l, idx.Value)

	case *object.Dictionary:
		if value, ok := l.Get(index); ok {
			return value
		}
		return NIL
	}

	return newError("Unable to perform index operation, found: %s[%s]", left.Type(), index.Type())
}

func evalListIndex(list *object.List, idx int64) object.Object {
	length := int64(len(list.Elements))

	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return NIL
	}

	return list.Elements[idx]
}

// evalStringIndex addresses characters, not bytes
func evalStringIndex(str *object.String, idx int64) object.Object {
	runes := []rune(str.Value)
	length := int64(len(runes))

	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return NIL
	}

	return &object.String{Value: string(runes[idx])}
}

// isTruthy implements the truthiness table: false and nil are falsy, as are
// zero numbers, empty strings, and empty collections.
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Nil:
		return false
	case *object.Boolean:
		return obj.Value
	case *object.Integer:
		return obj.Value != 0
	case *object.Decimal:
		return obj.Value != 0
	case *object.String:
		return len(obj.Value) != 0
	case *object.List:
		return len(obj.Elements) != 0
	case *object.Set:
		return len(obj.Elements) != 0
	case *object.Dictionary:
		return len(obj.Pairs) != 0
	}
	return true
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
