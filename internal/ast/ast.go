// Package ast defines Bop's abstract syntax tree (spec §3): the statement
// and expression node kinds the parser builds and the evaluator walks.
package ast

import "github.com/stevepryde/bop-lang/pkg/token"

// Node is implemented by every AST node. Every node carries its source
// line (spec §3), 1-based from the start of the program.
type Node interface {
	Line() int
}

// Statement is a top-level or block-level construct that does not itself
// produce a value for the surrounding expression context.
type Statement interface {
	Node
	statementNode()
}

// Expression produces a Value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: a sequence of statements.
type Program struct {
	Statements []Statement
}

// base embeds the source line shared by every concrete node, the way
// small tree-walkers commonly thread position information through an AST.
type base struct {
	line int
}

func (b base) Line() int { return b.line }

// ---- Statements ----

// Let declares a new binding in the innermost scope: `let x = expr`.
type Let struct {
	base
	Name  string
	Value Expression
}

func (*Let) statementNode() {}

// AssignTarget is the left-hand side of an Assign statement: either a bare
// name or an indexed location (spec §3's AssignTarget).
type AssignTarget interface {
	Node
	assignTargetNode()
}

// NameTarget assigns directly to a variable: `x = expr`.
type NameTarget struct {
	base
	Name string
}

func (*NameTarget) assignTargetNode() {}

// IndexTarget assigns into a container: `recv[key] = expr`.
type IndexTarget struct {
	base
	Receiver Expression
	Key      Expression
}

func (*IndexTarget) assignTargetNode() {}

// AssignOp identifies which assignment operator was used; compound
// operators apply the corresponding binary op to the current value first
// (spec §4.6).
type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

// Assign stores a (possibly compound-operated) value into a target.
type Assign struct {
	base
	Target AssignTarget
	Op     AssignOp
	Value  Expression
}

func (*Assign) statementNode() {}

// Block is a brace-delimited sequence of statements; it pushes and pops
// its own environment frame (spec §4.4).
type Block struct {
	base
	Statements []Statement
}

// ElseIf is one `else if cond { ... }` clause chained onto an If.
type ElseIf struct {
	Cond Expression
	Body *Block
}

// If is the `if/else if*/else?` statement form (spec §4.3: a statement
// when it appears at statement position).
type If struct {
	base
	Cond    Expression
	Then    *Block
	ElseIfs []ElseIf
	Else    *Block // nil if no else clause
}

func (*If) statementNode() {}

// While loops while Cond evaluates true; Cond must be boolean (spec §4.6).
type While struct {
	base
	Cond Expression
	Body *Block
}

func (*While) statementNode() {}

// Repeat loops Count times; Count must evaluate to a non-negative
// integer-valued number (spec §4.6).
type Repeat struct {
	base
	Count Expression
	Body  *Block
}

func (*Repeat) statementNode() {}

// For iterates Ident over Iter, which may be an array, string, or dict
// (spec §4.6).
type For struct {
	base
	Ident string
	Iter  Expression
	Body  *Block
}

func (*For) statementNode() {}

// FnDecl declares a top-level named function; nested declarations are
// rejected at parse time (spec §4.6).
type FnDecl struct {
	base
	Name   string
	Params []string
	Body   *Block
}

func (*FnDecl) statementNode() {}

// Return unwinds to the nearest enclosing call with an optional value;
// Value is nil for a bare `return`.
type Return struct {
	base
	Value Expression // nil if bare `return`
}

func (*Return) statementNode() {}

// Break unwinds to the nearest enclosing loop and ends it.
type Break struct{ base }

func (*Break) statementNode() {}

// Continue unwinds to the nearest enclosing loop and starts its next
// iteration.
type Continue struct{ base }

func (*Continue) statementNode() {}

// ExprStmt evaluates an expression for its side effects (or, as the last
// statement of a block used in expression position, for its value).
type ExprStmt struct {
	base
	Expr Expression
}

func (*ExprStmt) statementNode() {}

// ---- Expressions ----

// NumLit is a numeric literal (spec §4.2: digits, optional fractional
// part, no exponent).
type NumLit struct {
	base
	Value float64
}

func (*NumLit) expressionNode() {}

// StrLit is a string literal, pre-split into interpolation segments by the
// lexer (spec §4.2).
type StrLit struct {
	base
	Segments []token.Segment
}

func (*StrLit) expressionNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func (*BoolLit) expressionNode() {}

// NoneLit is the `none` literal.
type NoneLit struct{ base }

func (*NoneLit) expressionNode() {}

// Ident references a variable, or, if unbound, a function name, which the
// evaluator rejects with a "call it with ()" hint per spec §4.3.
type Ident struct {
	base
	Name string
}

func (*Ident) expressionNode() {}

// ArrayLit is an `[e1, e2, ...]` literal.
type ArrayLit struct {
	base
	Elements []Expression
}

func (*ArrayLit) expressionNode() {}

// DictEntry is one `"key": value` pair of a DictLit; keys must be string
// literals (spec §4.3).
type DictEntry struct {
	Key   string
	Value Expression
}

// DictLit is a `{"k": v, ...}` literal.
type DictLit struct {
	base
	Entries []DictEntry
}

func (*DictLit) expressionNode() {}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
)

// Unary is a prefix `!` or `-` expression.
type Unary struct {
	base
	Op      UnaryOp
	Operand Expression
}

func (*Unary) expressionNode() {}

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNotEq
	BinLt
	BinGt
	BinLtEq
	BinGtEq
	BinAnd
	BinOr
)

// Binary is an infix expression; And/Or short-circuit (spec §4.6).
type Binary struct {
	base
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (*Binary) expressionNode() {}

// Call invokes a named function: built-in, user-declared, or host-provided
// (spec §4.6's three-step dispatch). The target is always a bare name,
// never a value (spec §4.3).
type Call struct {
	base
	Name string
	Args []Expression
}

func (*Call) expressionNode() {}

// Method invokes a method on the value produced by Receiver (spec §4.5).
type Method struct {
	base
	Receiver Expression
	Name     string
	Args     []Expression
}

func (*Method) expressionNode() {}

// Index reads recv[key]; recv may be an array, string, or dict.
type Index struct {
	base
	Receiver Expression
	Key      Expression
}

func (*Index) expressionNode() {}

// IfExpr is the expression form of `if`, which requires an else branch
// (spec §4.3). Its value is the value of the taken branch's final
// expression statement.
type IfExpr struct {
	base
	Cond Expression
	Then *Block
	Else *Block
}

func (*IfExpr) expressionNode() {}

// Constructors below set the embedded line; they exist so the parser's
// call sites read as plain struct literals without repeating `base{line}`
// everywhere.

func NewLet(line int, name string, value Expression) *Let {
	return &Let{base: base{line}, Name: name, Value: value}
}

func NewNameTarget(line int, name string) *NameTarget {
	return &NameTarget{base: base{line}, Name: name}
}

func NewIndexTarget(line int, recv, key Expression) *IndexTarget {
	return &IndexTarget{base: base{line}, Receiver: recv, Key: key}
}

func NewAssign(line int, target AssignTarget, op AssignOp, value Expression) *Assign {
	return &Assign{base: base{line}, Target: target, Op: op, Value: value}
}

func NewBlock(line int, statements []Statement) *Block {
	return &Block{base: base{line}, Statements: statements}
}

func NewIf(line int, cond Expression, then *Block, elseIfs []ElseIf, els *Block) *If {
	return &If{base: base{line}, Cond: cond, Then: then, ElseIfs: elseIfs, Else: els}
}

func NewWhile(line int, cond Expression, body *Block) *While {
	return &While{base: base{line}, Cond: cond, Body: body}
}

func NewRepeat(line int, count Expression, body *Block) *Repeat {
	return &Repeat{base: base{line}, Count: count, Body: body}
}

func NewFor(line int, ident string, iter Expression, body *Block) *For {
	return &For{base: base{line}, Ident: ident, Iter: iter, Body: body}
}

func NewFnDecl(line int, name string, params []string, body *Block) *FnDecl {
	return &FnDecl{base: base{line}, Name: name, Params: params, Body: body}
}

func NewReturn(line int, value Expression) *Return {
	return &Return{base: base{line}, Value: value}
}

func NewBreak(line int) *Break { return &Break{base{line}} }

func NewContinue(line int) *Continue { return &Continue{base{line}} }

func NewExprStmt(line int, expr Expression) *ExprStmt {
	return &ExprStmt{base: base{line}, Expr: expr}
}

func NewNumLit(line int, value float64) *NumLit {
	return &NumLit{base: base{line}, Value: value}
}

func NewStrLit(line int, segments []token.Segment) *StrLit {
	return &StrLit{base: base{line}, Segments: segments}
}

func NewBoolLit(line int, value bool) *BoolLit {
	return &BoolLit{base: base{line}, Value: value}
}

func NewNoneLit(line int) *NoneLit { return &NoneLit{base{line}} }

func NewIdent(line int, name string) *Ident {
	return &Ident{base: base{line}, Name: name}
}

func NewArrayLit(line int, elements []Expression) *ArrayLit {
	return &ArrayLit{base: base{line}, Elements: elements}
}

func NewDictLit(line int, entries []DictEntry) *DictLit {
	return &DictLit{base: base{line}, Entries: entries}
}

func NewUnary(line int, op UnaryOp, operand Expression) *Unary {
	return &Unary{base: base{line}, Op: op, Operand: operand}
}

func NewBinary(line int, op BinaryOp, left, right Expression) *Binary {
	return &Binary{base: base{line}, Op: op, Left: left, Right: right}
}

func NewCall(line int, name string, args []Expression) *Call {
	return &Call{base: base{line}, Name: name, Args: args}
}

func NewMethod(line int, receiver Expression, name string, args []Expression) *Method {
	return &Method{base: base{line}, Receiver: receiver, Name: name, Args: args}
}

func NewIndex(line int, receiver, key Expression) *Index {
	return &Index{base: base{line}, Receiver: receiver, Key: key}
}

func NewIfExpr(line int, cond Expression, then, els *Block) *IfExpr {
	return &IfExpr{base: base{line}, Cond: cond, Then: then, Else: els}
}
