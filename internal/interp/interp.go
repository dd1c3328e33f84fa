// Package interp implements Bop's tree-walking evaluator (spec §4.6):
// statement and expression evaluation, lexical scoping via internal/env,
// call dispatch across built-ins/user functions/host, and sandbox step
// and memory accounting.
package interp

import (
	"math"

	"github.com/stevepryde/bop-lang/internal/ast"
	"github.com/stevepryde/bop-lang/internal/env"
	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/lexer"
	"github.com/stevepryde/bop-lang/internal/parser"
	"github.com/stevepryde/bop-lang/internal/suggest"
	"github.com/stevepryde/bop-lang/internal/value"
)

// ---- control-flow unwind signals (spec §7: "a non-error control-flow
// channel distinct from errors") ----

type breakSignal struct{ line int }

func (breakSignal) Error() string { return "break" }

type continueSignal struct{ line int }

func (continueSignal) Error() string { return "continue" }

type returnSignal struct {
	value value.Value
	line  int
}

func (returnSignal) Error() string { return "return" }

// Interpreter runs a single Bop program against a Host within Limits.
type Interpreter struct {
	host   Host
	limits Limits

	steps    int
	memBytes int
	rng      *splitMix64

	functions map[string]*ast.FnDecl
	rootEnv   *env.Environment

	// hostHandledNames accumulates function names the host has
	// previously reported Handled for, widening the "did you mean"
	// candidate set for later unknown-function errors (spec §4.6 step
	// 3's "(optionally) prior host-reported names").
	hostHandledNames []string
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithSeed fixes the PRNG seed `rand` draws from, overriding the default
// (spec §9's open question on rand's seed).
func WithSeed(seed uint64) Option {
	return func(i *Interpreter) { i.rng = newSplitMix64(seed) }
}

// New creates an Interpreter bound to host, enforcing limits.
func New(host Host, limits Limits, opts ...Option) *Interpreter {
	i := &Interpreter{
		host:      host,
		limits:    limits,
		rng:       newSplitMix64(defaultSeed),
		functions: make(map[string]*ast.FnDecl),
		rootEnv:   env.New(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run lexes, parses, and executes source to completion, or returns the
// first *bopErrors.Error encountered (spec §6's conceptual
// `run(source, host, limits) → ok | err(Error)`).
func (i *Interpreter) Run(source string) error {
	l := lexer.New(source)
	p, err := parser.New(l)
	if err != nil {
		return err
	}
	prog, err := p.Parse()
	if err != nil {
		return err
	}
	if err := i.collectFunctions(prog); err != nil {
		return err
	}

	topEnv := i.rootEnv.Push()
	if err := i.runBlockStatements(prog.Statements, topEnv); err != nil {
		switch sig := err.(type) {
		case breakSignal:
			return bopErrors.New(bopErrors.Runtime, sig.line, "'break' used outside of a loop")
		case continueSignal:
			return bopErrors.New(bopErrors.Runtime, sig.line, "'continue' used outside of a loop")
		case returnSignal:
			return bopErrors.New(bopErrors.Runtime, sig.line, "'return' used outside of a function")
		default:
			return err
		}
	}
	return nil
}

// collectFunctions is the pre-pass of spec §4.6: gather top-level `fn`
// declarations into the global function table before any statement runs.
// Nested declarations are already rejected at parse time.
func (i *Interpreter) collectFunctions(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		fn, ok := stmt.(*ast.FnDecl)
		if !ok {
			continue
		}
		if isBuiltinName(fn.Name) {
			return bopErrors.New(bopErrors.Syntax, fn.Line(), "'%s' is a built-in function and cannot be redeclared", fn.Name)
		}
		if _, exists := i.functions[fn.Name]; exists {
			return bopErrors.New(bopErrors.Syntax, fn.Line(), "function '%s' is already declared", fn.Name)
		}
		i.functions[fn.Name] = fn
	}
	return nil
}

// tick is the sandbox's single accounting point (spec §4.6): called on
// entry to every statement and every loop iteration. It advances the step
// counter, invokes the host tick callback, and refreshes the memory
// estimate from everything currently reachable through scope.
//
// Memory is recomputed wholesale here, once per tick, rather than
// incrementally added-to on allocation and subtracted-from on drop: spec
// §4.6 explicitly allows "reference-counted drop, or equivalent", and a
// tick-boundary recomputation over the live scope chain is a simpler
// equivalent that needs no manual refcounting, at the cost of only
// noticing a blown budget at the next tick rather than the exact
// allocation that crossed it.
func (i *Interpreter) tick(scope *env.Environment, line int) error {
	i.steps++
	if i.steps > i.limits.MaxSteps {
		return bopErrors.New(bopErrors.LimitExceeded, line, "step limit of %d exceeded", i.limits.MaxSteps)
	}
	if err := i.host.OnTick(); err != nil {
		return bopErrors.New(bopErrors.LimitExceeded, line, "execution cancelled: %s", err.Error())
	}
	i.memBytes = scope.LiveByteSize(value.ByteSize)
	if i.memBytes > i.limits.MaxMemory {
		return bopErrors.New(bopErrors.LimitExceeded, line, "memory limit of %d bytes exceeded", i.limits.MaxMemory)
	}
	return nil
}

// runBlockStatements executes stmts in scope in order, stopping at the
// first error or unwind signal.
func (i *Interpreter) runBlockStatements(stmts []ast.Statement, scope *env.Environment) error {
	for _, stmt := range stmts {
		if err := i.execStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

// execBlock runs a brace-delimited block in a fresh child of scope (spec
// §4.4: blocks push a frame on entry).
func (i *Interpreter) execBlock(block *ast.Block, scope *env.Environment) error {
	return i.runBlockStatements(block.Statements, scope.Push())
}

func (i *Interpreter) execStatement(stmt ast.Statement, scope *env.Environment) error {
	if err := i.tick(scope, stmt.Line()); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case *ast.Let:
		v, err := i.evalExpression(s.Value, scope)
		if err != nil {
			return err
		}
		if err := scope.Declare(s.Name, v.Copy()); err != nil {
			return bopErrors.New(bopErrors.Runtime, s.Line(), "%s", err.Error())
		}
		return nil
	case *ast.Assign:
		return i.execAssign(s, scope)
	case *ast.If:
		return i.execIf(s, scope)
	case *ast.While:
		return i.execWhile(s, scope)
	case *ast.Repeat:
		return i.execRepeat(s, scope)
	case *ast.For:
		return i.execFor(s, scope)
	case *ast.FnDecl:
		return nil // collected in the pre-pass; nothing to do at runtime
	case *ast.Return:
		var v value.Value = value.None
		if s.Value != nil {
			rv, err := i.evalExpression(s.Value, scope)
			if err != nil {
				return err
			}
			v = rv
		}
		return returnSignal{value: v, line: s.Line()}
	case *ast.Break:
		return breakSignal{line: s.Line()}
	case *ast.Continue:
		return continueSignal{line: s.Line()}
	case *ast.ExprStmt:
		_, err := i.evalExpression(s.Expr, scope)
		return err
	default:
		return bopErrors.New(bopErrors.Runtime, stmt.Line(), "internal error: unhandled statement type %T", stmt)
	}
}

func (i *Interpreter) execIf(s *ast.If, scope *env.Environment) error {
	cond, err := i.evalExpression(s.Cond, scope)
	if err != nil {
		return err
	}
	b, err := requireBool(cond, s.Line())
	if err != nil {
		return err
	}
	if b {
		return i.execBlock(s.Then, scope)
	}
	for _, elif := range s.ElseIfs {
		c, err := i.evalExpression(elif.Cond, scope)
		if err != nil {
			return err
		}
		eb, err := requireBool(c, elif.Cond.Line())
		if err != nil {
			return err
		}
		if eb {
			return i.execBlock(elif.Body, scope)
		}
	}
	if s.Else != nil {
		return i.execBlock(s.Else, scope)
	}
	return nil
}

func (i *Interpreter) execWhile(s *ast.While, scope *env.Environment) error {
	for {
		cond, err := i.evalExpression(s.Cond, scope)
		if err != nil {
			return err
		}
		b, err := requireBool(cond, s.Line())
		if err != nil {
			return err
		}
		if !b {
			return nil
		}
		if err := i.tick(scope, s.Line()); err != nil {
			return err
		}
		if err := i.runBlockStatements(s.Body.Statements, scope.Push()); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (i *Interpreter) execRepeat(s *ast.Repeat, scope *env.Environment) error {
	countVal, err := i.evalExpression(s.Count, scope)
	if err != nil {
		return err
	}
	n, ok := countVal.(value.Number)
	if !ok {
		return bopErrors.New(bopErrors.Runtime, s.Line(), "'repeat' count must be a number, got %s", countVal.Type())
	}
	if float64(n) != math.Trunc(float64(n)) || float64(n) < 0 {
		return bopErrors.New(bopErrors.Runtime, s.Line(), "'repeat' count must be a non-negative integer-valued number")
	}
	for k := int64(0); k < int64(n); k++ {
		if err := i.tick(scope, s.Line()); err != nil {
			return err
		}
		if err := i.runBlockStatements(s.Body.Statements, scope.Push()); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) execFor(s *ast.For, scope *env.Environment) error {
	iterVal, err := i.evalExpression(s.Iter, scope)
	if err != nil {
		return err
	}
	items, err := iterationItems(iterVal, s.Line())
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := i.tick(scope, s.Line()); err != nil {
			return err
		}
		iterScope := scope.Push()
		if err := iterScope.Declare(s.Ident, item); err != nil {
			return bopErrors.New(bopErrors.Runtime, s.Line(), "%s", err.Error())
		}
		if err := i.runBlockStatements(s.Body.Statements, iterScope); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// iterationItems materializes the per-iteration values of a `for` loop's
// iterable, evaluated once up front (spec §5's ordering rule).
func iterationItems(iterVal value.Value, line int) ([]value.Value, error) {
	switch v := iterVal.(type) {
	case *value.Array:
		items := make([]value.Value, len(v.Elements))
		for idx, e := range v.Elements {
			items[idx] = e.Copy()
		}
		return items, nil
	case value.StringValue:
		runes := v.Runes()
		items := make([]value.Value, len(runes))
		for idx, r := range runes {
			items[idx] = value.NewString(string(r))
		}
		return items, nil
	case *value.Dict:
		keys := v.Keys()
		items := make([]value.Value, len(keys))
		for idx, k := range keys {
			items[idx] = value.NewString(k)
		}
		return items, nil
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "cannot iterate over a %s", iterVal.Type())
	}
}

func (i *Interpreter) execAssign(s *ast.Assign, scope *env.Environment) error {
	newVal, err := i.evalExpression(s.Value, scope)
	if err != nil {
		return err
	}
	switch t := s.Target.(type) {
	case *ast.NameTarget:
		if s.Op != ast.AssignSet {
			cur, ok := scope.Lookup(t.Name)
			if !ok {
				return i.unknownNameError(t.Name, scope, t.Line())
			}
			combined, err := applyCompound(s.Op, cur.Copy(), newVal, s.Line())
			if err != nil {
				return err
			}
			newVal = combined
		}
		if !scope.Assign(t.Name, newVal.Copy()) {
			return i.unknownNameError(t.Name, scope, t.Line())
		}
		return nil
	case *ast.IndexTarget:
		recv, err := i.evalLive(t.Receiver, scope)
		if err != nil {
			return err
		}
		key, err := i.evalExpression(t.Key, scope)
		if err != nil {
			return err
		}
		if s.Op != ast.AssignSet {
			cur, err := indexRead(recv, key, s.Line())
			if err != nil {
				return err
			}
			combined, err := applyCompound(s.Op, cur, newVal, s.Line())
			if err != nil {
				return err
			}
			newVal = combined
		}
		return indexAssign(recv, key, newVal.Copy(), s.Line())
	default:
		return bopErrors.New(bopErrors.Runtime, s.Line(), "internal error: unhandled assign target %T", s.Target)
	}
}

func applyCompound(op ast.AssignOp, cur, rhs value.Value, line int) (value.Value, error) {
	var binOp ast.BinaryOp
	switch op {
	case ast.AssignAdd:
		binOp = ast.BinAdd
	case ast.AssignSub:
		binOp = ast.BinSub
	case ast.AssignMul:
		binOp = ast.BinMul
	case ast.AssignDiv:
		binOp = ast.BinDiv
	case ast.AssignMod:
		binOp = ast.BinMod
	default:
		return rhs, nil
	}
	return evalBinaryOp(binOp, cur, rhs, line)
}

// unknownNameError builds the "I don't know what 'x' is" runtime error
// with a suggestion drawn from every visible variable, user function, and
// built-in name (spec §4.4, §4.7).
func (i *Interpreter) unknownNameError(name string, scope *env.Environment, line int) error {
	candidates := scope.Names()
	for fn := range i.functions {
		candidates = append(candidates, fn)
	}
	candidates = append(candidates, builtinNames...)
	err := bopErrors.New(bopErrors.Runtime, line, "I don't know what '%s' is", name)
	if s, ok := suggest.Find(name, candidates); ok {
		err = err.WithSuggestion(s)
	}
	return err
}

func requireBool(v value.Value, line int) (bool, error) {
	b, ok := v.(value.BoolValue)
	if !ok {
		return false, bopErrors.New(bopErrors.Runtime, line, "condition must be a boolean, got %s", v.Type())
	}
	return bool(b), nil
}
