package interp

import (
	"github.com/stevepryde/bop-lang/internal/ast"
	"github.com/stevepryde/bop-lang/internal/env"
	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/suggest"
	"github.com/stevepryde/bop-lang/internal/value"
)

// evalCall dispatches a Call(name, args) node through the three-step
// lookup of spec §4.6: built-in, then user function, then host.
func (i *Interpreter) evalCall(e *ast.Call, scope *env.Environment) (value.Value, error) {
	args, err := i.evalArgs(e.Args, scope)
	if err != nil {
		return nil, err
	}

	if isBuiltinName(e.Name) {
		return i.callBuiltin(e.Name, args, e.Line())
	}

	if fn, ok := i.functions[e.Name]; ok {
		return i.callUserFunction(fn, args, e.Line())
	}

	result := i.host.Call(e.Name, args, e.Line())
	switch result.Outcome {
	case Handled:
		i.hostHandledNames = append(i.hostHandledNames, e.Name)
		if result.Err != nil {
			return nil, result.Err
		}
		if result.Result == nil {
			return value.None, nil
		}
		return result.Result.Copy(), nil
	default:
		return nil, i.suggestUnknownFunction(e.Name, e.Line())
	}
}

func (i *Interpreter) evalArgs(argExprs []ast.Expression, scope *env.Environment) ([]value.Value, error) {
	args := make([]value.Value, len(argExprs))
	for idx, a := range argExprs {
		v, err := i.evalExpression(a, scope)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return args, nil
}

// callUserFunction evaluates a user-declared function call: a fresh call
// frame chained only to the (variable-free) globals layer, parameters
// declared into it before the body runs (spec §4.4, §4.6).
func (i *Interpreter) callUserFunction(fn *ast.FnDecl, args []value.Value, line int) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, bopErrors.New(bopErrors.Runtime, line, "function '%s' expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	frame := env.CallFrame(i.rootEnv)
	for idx, param := range fn.Params {
		if err := frame.Declare(param, args[idx].Copy()); err != nil {
			return nil, bopErrors.New(bopErrors.Runtime, line, "%s", err.Error())
		}
	}
	// The call frame itself holds the parameters; the body's statements
	// run directly in it rather than in an additional pushed child, so
	// there is exactly one frame between "globals" and the body's own
	// block-scoped locals.
	err := i.runBlockStatements(fn.Body.Statements, frame)
	if err == nil {
		return value.None, nil
	}
	if ret, ok := err.(returnSignal); ok {
		return ret.value, nil
	}
	if _, ok := err.(breakSignal); ok {
		return nil, bopErrors.New(bopErrors.Runtime, line, "'break' used outside of a loop")
	}
	if _, ok := err.(continueSignal); ok {
		return nil, bopErrors.New(bopErrors.Runtime, line, "'continue' used outside of a loop")
	}
	return nil, err
}

// evalMethod dispatches Method(recv, name, args) to the receiver's type's
// method set (spec §4.5). The receiver is resolved live so that mutating
// methods affect the binding the script named, not a throwaway copy.
func (i *Interpreter) evalMethod(e *ast.Method, scope *env.Environment) (value.Value, error) {
	recv, err := i.evalLive(e.Receiver, scope)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(e.Args, scope)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case value.StringValue:
		return callStringMethod(r, e.Name, args, e.Line())
	case *value.Array:
		return callArrayMethod(r, e.Name, args, e.Line())
	case *value.Dict:
		return callDictMethod(r, e.Name, args, e.Line())
	default:
		return nil, unknownMethodError(r.Type(), e.Name, nil, e.Line())
	}
}

// unknownMethodError builds the "unknown method" error with a suggestion
// drawn from the receiver type's own method set (spec §4.5).
func unknownMethodError(typeName, name string, methodSet []string, line int) error {
	err := bopErrors.New(bopErrors.Runtime, line, "unknown method '%s' on type '%s'", name, typeName)
	if s, ok := suggest.Find(name, methodSet); ok {
		err = err.WithSuggestion(s)
	}
	return err
}
