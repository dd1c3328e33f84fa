package interp

import (
	"math"
	"strconv"
	"strings"

	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/value"
)

// maxRangeLength bounds `range`'s output length (spec §4.5): exceeding it
// is a LimitExceeded error, independent of the run's overall memory limit.
const maxRangeLength = 10_000

// callBuiltin dispatches a call to one of the fixed global built-ins
// (spec §4.5), validating arity and argument types itself since built-ins
// have no declared signature to check against.
func (i *Interpreter) callBuiltin(name string, args []value.Value, line int) (value.Value, error) {
	switch name {
	case "print":
		return i.builtinPrint(args)
	case "inspect":
		return builtinInspect(args, line)
	case "str":
		return builtinStr(args, line)
	case "int":
		return builtinInt(args, line)
	case "type":
		return builtinType(args, line)
	case "abs":
		return builtinAbs(args, line)
	case "min":
		return builtinMin(args, line)
	case "max":
		return builtinMax(args, line)
	case "rand":
		return i.builtinRand(args, line)
	case "len":
		return builtinLen(args, line)
	case "range":
		return builtinRange(args, line)
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "internal error: unhandled built-in '%s'", name)
	}
}

func arityError(name string, want string, got int, line int) error {
	return bopErrors.New(bopErrors.Runtime, line, "%s() expects %s argument(s), got %d", name, want, got)
}

func (i *Interpreter) builtinPrint(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = a.String()
	}
	i.host.OnPrint(strings.Join(parts, " "))
	return value.None, nil
}

func builtinInspect(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("inspect", "1", len(args), line)
	}
	return value.NewString(args[0].Inspect()), nil
}

func builtinStr(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("str", "1", len(args), line)
	}
	return value.NewString(args[0].String()), nil
}

func builtinInt(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("int", "1", len(args), line)
	}
	switch v := args[0].(type) {
	case value.Number:
		return value.NewNumber(math.Trunc(float64(v))), nil
	case value.BoolValue:
		if v {
			return value.NewNumber(1), nil
		}
		return value.NewNumber(0), nil
	case value.StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, bopErrors.New(bopErrors.Runtime, line, "int(): cannot parse %q as a number", string(v))
		}
		return value.NewNumber(math.Trunc(f)), nil
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "int() does not accept %s", args[0].Type())
	}
}

func builtinType(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("type", "1", len(args), line)
	}
	return value.NewString(args[0].Type()), nil
}

func builtinAbs(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("abs", "1", len(args), line)
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, bopErrors.New(bopErrors.Runtime, line, "abs() requires a number, got %s", args[0].Type())
	}
	return value.NewNumber(math.Abs(float64(n))), nil
}

func builtinMin(args []value.Value, line int) (value.Value, error) {
	if len(args) != 2 {
		return nil, arityError("min", "2", len(args), line)
	}
	a, aok := args[0].(value.Number)
	b, bok := args[1].(value.Number)
	if !aok || !bok {
		return nil, bopErrors.New(bopErrors.Runtime, line, "min() requires numbers, got %s and %s", args[0].Type(), args[1].Type())
	}
	if float64(b) < float64(a) {
		return b, nil
	}
	return a, nil // ties return the first (spec §4.5)
}

func builtinMax(args []value.Value, line int) (value.Value, error) {
	if len(args) != 2 {
		return nil, arityError("max", "2", len(args), line)
	}
	a, aok := args[0].(value.Number)
	b, bok := args[1].(value.Number)
	if !aok || !bok {
		return nil, bopErrors.New(bopErrors.Runtime, line, "max() requires numbers, got %s and %s", args[0].Type(), args[1].Type())
	}
	if float64(b) > float64(a) {
		return b, nil
	}
	return a, nil // ties return the first (spec §4.5)
}

func (i *Interpreter) builtinRand(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("rand", "1", len(args), line)
	}
	n, ok := args[0].(value.Number)
	if !ok || float64(n) != math.Trunc(float64(n)) || n <= 0 {
		return nil, bopErrors.New(bopErrors.Runtime, line, "rand() requires a positive integer, got %s", args[0].String())
	}
	return value.NewNumber(float64(i.rng.intn(int64(n)))), nil
}

func builtinLen(args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("len", "1", len(args), line)
	}
	switch v := args[0].(type) {
	case value.StringValue:
		return value.NewNumber(float64(len(v.Runes()))), nil
	case *value.Array:
		return value.NewNumber(float64(len(v.Elements))), nil
	case *value.Dict:
		return value.NewNumber(float64(v.Len())), nil
	default:
		return nil, bopErrors.New(bopErrors.Runtime, line, "len() does not accept %s", args[0].Type())
	}
}

// builtinRange implements range(n) / range(a,b) / range(a,b,s) (spec
// §4.5): the two-arg form auto-detects direction, the three-arg form uses
// an explicit step (0 is an error; a direction mismatched with the
// endpoints yields an empty array rather than an error).
func builtinRange(args []value.Value, line int) (value.Value, error) {
	var start, stop, step float64
	switch len(args) {
	case 1:
		n, ok := args[0].(value.Number)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "range() requires numbers, got %s", args[0].Type())
		}
		start, stop, step = 0, float64(n), 1
	case 2:
		a, aok := args[0].(value.Number)
		b, bok := args[1].(value.Number)
		if !aok || !bok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "range() requires numbers, got %s and %s", args[0].Type(), args[1].Type())
		}
		start, stop = float64(a), float64(b)
		if start <= stop {
			step = 1
		} else {
			step = -1
		}
	case 3:
		a, aok := args[0].(value.Number)
		b, bok := args[1].(value.Number)
		s, sok := args[2].(value.Number)
		if !aok || !bok || !sok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "range() requires numbers")
		}
		if s == 0 {
			return nil, bopErrors.New(bopErrors.Runtime, line, "range() step must not be zero")
		}
		start, stop, step = float64(a), float64(b), float64(s)
	default:
		return nil, arityError("range", "1 to 3", len(args), line)
	}

	for _, v := range []float64{start, stop, step} {
		if v != math.Trunc(v) {
			return nil, bopErrors.New(bopErrors.Runtime, line, "range() requires integer-valued numbers")
		}
	}

	var elems []value.Value
	if step > 0 {
		for v := start; v < stop; v += step {
			if len(elems) >= maxRangeLength {
				return nil, bopErrors.New(bopErrors.LimitExceeded, line, "range() exceeds the maximum length of %d", maxRangeLength)
			}
			elems = append(elems, value.NewNumber(v))
		}
	} else {
		for v := start; v > stop; v += step {
			if len(elems) >= maxRangeLength {
				return nil, bopErrors.New(bopErrors.LimitExceeded, line, "range() exceeds the maximum length of %d", maxRangeLength)
			}
			elems = append(elems, value.NewNumber(v))
		}
	}
	return value.NewArray(elems), nil
}
