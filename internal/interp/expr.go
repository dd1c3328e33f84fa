package interp

import (
	"math"
	"strings"

	"github.com/stevepryde/bop-lang/internal/ast"
	"github.com/stevepryde/bop-lang/internal/env"
	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/suggest"
	"github.com/stevepryde/bop-lang/internal/value"
)

// evalExpression evaluates expr for its value. Every result is an
// independently owned value.Value: for Ident this means the copy-on-read
// invariant of spec §3 (scope.Lookup returns the live binding, Copy
// detaches it before it's used anywhere else).
func (i *Interpreter) evalExpression(expr ast.Expression, scope *env.Environment) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.NumLit:
		return value.NewNumber(e.Value), nil
	case *ast.BoolLit:
		return value.NewBool(e.Value), nil
	case *ast.NoneLit:
		return value.None, nil
	case *ast.StrLit:
		return i.evalStringLit(e, scope)
	case *ast.Ident:
		return i.evalIdent(e, scope)
	case *ast.ArrayLit:
		elems := make([]value.Value, len(e.Elements))
		for idx, elemExpr := range e.Elements {
			v, err := i.evalExpression(elemExpr, scope)
			if err != nil {
				return nil, err
			}
			elems[idx] = v
		}
		return value.NewArray(elems), nil
	case *ast.DictLit:
		d := value.NewDict()
		for _, entry := range e.Entries {
			v, err := i.evalExpression(entry.Value, scope)
			if err != nil {
				return nil, err
			}
			d.Set(entry.Key, v)
		}
		return d, nil
	case *ast.Unary:
		return i.evalUnary(e, scope)
	case *ast.Binary:
		return i.evalBinary(e, scope)
	case *ast.Index:
		recv, err := i.evalExpression(e.Receiver, scope)
		if err != nil {
			return nil, err
		}
		key, err := i.evalExpression(e.Key, scope)
		if err != nil {
			return nil, err
		}
		return indexRead(recv, key, e.Line())
	case *ast.Call:
		return i.evalCall(e, scope)
	case *ast.Method:
		return i.evalMethod(e, scope)
	case *ast.IfExpr:
		return i.evalIfExpr(e, scope)
	default:
		return nil, bopErrors.New(bopErrors.Runtime, expr.Line(), "internal error: unhandled expression type %T", expr)
	}
}

func (i *Interpreter) evalIdent(e *ast.Ident, scope *env.Environment) (value.Value, error) {
	if v, ok := scope.Lookup(e.Name); ok {
		return v.Copy(), nil
	}
	if _, ok := i.functions[e.Name]; ok {
		return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "'%s' is a function, call it with '%s()'", e.Name, e.Name)
	}
	if isBuiltinName(e.Name) {
		return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "'%s' is a function, call it with '%s()'", e.Name, e.Name)
	}
	return nil, i.unknownNameError(e.Name, scope, e.Line())
}

func (i *Interpreter) evalStringLit(e *ast.StrLit, scope *env.Environment) (value.Value, error) {
	if len(e.Segments) == 1 && !e.Segments[0].Ident {
		return value.NewString(e.Segments[0].Text), nil
	}
	var sb strings.Builder
	for _, seg := range e.Segments {
		if !seg.Ident {
			sb.WriteString(seg.Text)
			continue
		}
		v, ok := scope.Lookup(seg.Text)
		if !ok {
			return nil, i.unknownNameError(seg.Text, scope, e.Line())
		}
		sb.WriteString(v.String())
	}
	return value.NewString(sb.String()), nil
}

func (i *Interpreter) evalUnary(e *ast.Unary, scope *env.Environment) (value.Value, error) {
	operand, err := i.evalExpression(e.Operand, scope)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.UnaryNot:
		b, ok := operand.(value.BoolValue)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "'!' requires a boolean, got %s", operand.Type())
		}
		return value.NewBool(!bool(b)), nil
	case ast.UnaryNeg:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "unary '-' requires a number, got %s", operand.Type())
		}
		return value.NewNumber(-float64(n)), nil
	default:
		return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "internal error: unhandled unary operator")
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary, scope *env.Environment) (value.Value, error) {
	// && and || short-circuit and never evaluate the right operand
	// unless needed (spec §4.6).
	if e.Op == ast.BinAnd || e.Op == ast.BinOr {
		left, err := i.evalExpression(e.Left, scope)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(value.BoolValue)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "'%s' requires a boolean, got %s", binSymbol(e.Op), left.Type())
		}
		if e.Op == ast.BinAnd && !bool(lb) {
			return value.NewBool(false), nil
		}
		if e.Op == ast.BinOr && bool(lb) {
			return value.NewBool(true), nil
		}
		right, err := i.evalExpression(e.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(value.BoolValue)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, e.Line(), "'%s' requires a boolean, got %s", binSymbol(e.Op), right.Type())
		}
		return value.NewBool(bool(rb)), nil
	}

	left, err := i.evalExpression(e.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(e.Right, scope)
	if err != nil {
		return nil, err
	}
	return evalBinaryOp(e.Op, left, right, e.Line())
}

func binSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.BinAnd:
		return "&&"
	case ast.BinOr:
		return "||"
	default:
		return "?"
	}
}

// evalBinaryOp implements spec §4.6's arithmetic/comparison/equality
// rules, shared between Binary expressions and compound assignment.
func evalBinaryOp(op ast.BinaryOp, left, right value.Value, line int) (value.Value, error) {
	switch op {
	case ast.BinEq:
		return value.NewBool(left.Equal(right)), nil
	case ast.BinNotEq:
		return value.NewBool(!left.Equal(right)), nil
	}

	if op == ast.BinAdd {
		ls, lIsStr := left.(value.StringValue)
		rs, rIsStr := right.(value.StringValue)
		if lIsStr && rIsStr {
			return value.NewString(string(ls) + string(rs)), nil
		}
		if lIsStr != rIsStr {
			return nil, bopErrors.New(bopErrors.Runtime, line, "cannot add %s and %s, use str() to convert first", left.Type(), right.Type())
		}
	}

	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	switch op {
	case ast.BinLt, ast.BinGt, ast.BinLtEq, ast.BinGtEq:
		ls, lIsStr := left.(value.StringValue)
		rs, rIsStr := right.(value.StringValue)
		if lIsStr && rIsStr {
			return compareStrings(op, string(ls), string(rs)), nil
		}
		if !lok || !rok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "cannot compare %s and %s", left.Type(), right.Type())
		}
		return compareNumbers(op, float64(ln), float64(rn)), nil
	}

	if !lok || !rok {
		return nil, bopErrors.New(bopErrors.Runtime, line, "'%s' requires numbers, got %s and %s", binSymbol2(op), left.Type(), right.Type())
	}
	a, b := float64(ln), float64(rn)
	switch op {
	case ast.BinAdd:
		return value.NewNumber(a + b), nil
	case ast.BinSub:
		return value.NewNumber(a - b), nil
	case ast.BinMul:
		return value.NewNumber(a * b), nil
	case ast.BinDiv:
		if b == 0 {
			return value.NewNumber(math.NaN()), nil // division by zero yields NaN (spec §4.6)
		}
		return value.NewNumber(a / b), nil
	case ast.BinMod:
		if b == 0 {
			return nil, bopErrors.New(bopErrors.Runtime, line, "modulo by zero")
		}
		return value.NewNumber(math.Mod(a, b)), nil
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "internal error: unhandled binary operator")
	}
}

func binSymbol2(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	default:
		return "?"
	}
}

func compareNumbers(op ast.BinaryOp, a, b float64) value.Value {
	switch op {
	case ast.BinLt:
		return value.NewBool(a < b)
	case ast.BinGt:
		return value.NewBool(a > b)
	case ast.BinLtEq:
		return value.NewBool(a <= b)
	case ast.BinGtEq:
		return value.NewBool(a >= b)
	default:
		return value.NewBool(false)
	}
}

func compareStrings(op ast.BinaryOp, a, b string) value.Value {
	switch op {
	case ast.BinLt:
		return value.NewBool(a < b)
	case ast.BinGt:
		return value.NewBool(a > b)
	case ast.BinLtEq:
		return value.NewBool(a <= b)
	case ast.BinGtEq:
		return value.NewBool(a >= b)
	default:
		return value.NewBool(false)
	}
}

func (i *Interpreter) evalIfExpr(e *ast.IfExpr, scope *env.Environment) (value.Value, error) {
	cond, err := i.evalExpression(e.Cond, scope)
	if err != nil {
		return nil, err
	}
	b, err := requireBool(cond, e.Line())
	if err != nil {
		return nil, err
	}
	if b {
		return i.evalBlockValue(e.Then, scope)
	}
	return i.evalBlockValue(e.Else, scope)
}

// evalBlockValue runs a block used in expression position (spec §4.3):
// every statement but the last executes normally; the last statement must
// be an expression statement, whose value is the block's value.
func (i *Interpreter) evalBlockValue(block *ast.Block, scope *env.Environment) (value.Value, error) {
	child := scope.Push()
	if len(block.Statements) == 0 {
		return value.None, nil
	}
	for _, stmt := range block.Statements[:len(block.Statements)-1] {
		if err := i.execStatement(stmt, child); err != nil {
			return nil, err
		}
	}
	last := block.Statements[len(block.Statements)-1]
	exprStmt, ok := last.(*ast.ExprStmt)
	if !ok {
		return nil, bopErrors.New(bopErrors.Syntax, last.Line(), "a block used as an expression must end with an expression statement")
	}
	if err := i.tick(child, exprStmt.Line()); err != nil {
		return nil, err
	}
	return i.evalExpression(exprStmt.Expr, child)
}

// evalLive resolves expr to its live, shared value.Value rather than a
// defensive copy, so mutating methods (push, sort, ...) and index-assign
// targets affect the binding the script is actually talking about. This
// is safe because Array and Dict are always handled through pointers: a
// live lookup on an Ident or a nested Index returns the very *Array/*Dict
// the environment holds, while any other expression form (a call result,
// a fresh literal) produces a value nothing else can alias anyway.
func (i *Interpreter) evalLive(expr ast.Expression, scope *env.Environment) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		v, ok := scope.Lookup(e.Name)
		if !ok {
			return nil, i.unknownNameError(e.Name, scope, e.Line())
		}
		return v, nil
	case *ast.Index:
		recv, err := i.evalLive(e.Receiver, scope)
		if err != nil {
			return nil, err
		}
		key, err := i.evalExpression(e.Key, scope)
		if err != nil {
			return nil, err
		}
		return indexReadLive(recv, key, e.Line())
	default:
		return i.evalExpression(expr, scope)
	}
}

// indexReadLive is indexRead's counterpart for mutation paths: array
// element reads return the live slot (so `grid[0].push(1)` mutates the
// nested array in place) rather than a defensive copy.
func indexReadLive(recv, key value.Value, line int) (value.Value, error) {
	switch r := recv.(type) {
	case *value.Array:
		idx, err := arrayIndex(key, len(r.Elements), line)
		if err != nil {
			return nil, err
		}
		return r.Elements[idx], nil
	case *value.Dict:
		k, ok := key.(value.StringValue)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "dict keys must be strings, got %s", key.Type())
		}
		v, found := r.Get(string(k))
		if !found {
			return value.None, nil
		}
		return v, nil
	case value.StringValue:
		return indexRead(recv, key, line)
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "cannot index a %s", recv.Type())
	}
}

func indexRead(recv, key value.Value, line int) (value.Value, error) {
	switch r := recv.(type) {
	case *value.Array:
		idx, err := arrayIndex(key, len(r.Elements), line)
		if err != nil {
			return nil, err
		}
		return r.Elements[idx].Copy(), nil
	case value.StringValue:
		runes := r.Runes()
		idx, err := arrayIndex(key, len(runes), line)
		if err != nil {
			return nil, err
		}
		return value.NewString(string(runes[idx])), nil
	case *value.Dict:
		k, ok := key.(value.StringValue)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "dict keys must be strings, got %s", key.Type())
		}
		v, found := r.Get(string(k))
		if !found {
			return value.None, nil
		}
		return v.Copy(), nil
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "cannot index a %s", recv.Type())
	}
}

func indexAssign(recv, key, newVal value.Value, line int) error {
	switch r := recv.(type) {
	case *value.Array:
		idx, err := arrayIndex(key, len(r.Elements), line)
		if err != nil {
			return err
		}
		r.Elements[idx] = newVal
		return nil
	case *value.Dict:
		k, ok := key.(value.StringValue)
		if !ok {
			return bopErrors.New(bopErrors.Runtime, line, "dict keys must be strings, got %s", key.Type())
		}
		r.Set(string(k), newVal)
		return nil
	case value.StringValue:
		return bopErrors.New(bopErrors.Runtime, line, "strings are immutable")
	default:
		return bopErrors.New(bopErrors.Runtime, line, "cannot index a %s", recv.Type())
	}
}

// arrayIndex resolves a Bop array/string index (an integer, negative
// counting from the end) to a Go slice index, erroring if out of range
// (spec §3, §4.6).
func arrayIndex(key value.Value, length int, line int) (int, error) {
	n, ok := key.(value.Number)
	if !ok {
		return 0, bopErrors.New(bopErrors.Runtime, line, "index must be a number, got %s", key.Type())
	}
	if float64(n) != math.Trunc(float64(n)) {
		return 0, bopErrors.New(bopErrors.Runtime, line, "index must be an integer, got %s", n.String())
	}
	idx := int(n)
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, bopErrors.New(bopErrors.Runtime, line, "index %d out of range (length %d)", int(n), length)
	}
	return idx, nil
}

func isBuiltinName(name string) bool {
	for _, n := range builtinNames {
		if n == name {
			return true
		}
	}
	return false
}

var builtinNames = []string{
	"print", "inspect", "str", "int", "type", "abs", "min", "max", "rand", "len", "range",
}

// suggestUnknownFunction builds the "function not found" error for a
// call that no built-in, user function, or host recognizes (spec §4.6
// step 3).
func (i *Interpreter) suggestUnknownFunction(name string, line int) error {
	candidates := append([]string{}, builtinNames...)
	for fn := range i.functions {
		candidates = append(candidates, fn)
	}
	candidates = append(candidates, i.hostHandledNames...)
	err := bopErrors.New(bopErrors.Runtime, line, "function not found: '%s'", name)
	if hint := i.host.FunctionHint(); hint != "" {
		err.Message += " (" + hint + ")"
	}
	if s, ok := suggest.Find(name, candidates); ok {
		err = err.WithSuggestion(s)
	}
	return err
}
