package interp

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/value"
)

var stringMethodNames = []string{
	"len", "contains", "starts_with", "ends_with", "index_of",
	"split", "replace", "upper", "lower", "trim", "slice",
}

func callStringMethod(s value.StringValue, name string, args []value.Value, line int) (value.Value, error) {
	str := string(s)
	switch name {
	case "len":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		return value.NewNumber(float64(len(s.Runes()))), nil
	case "contains":
		sub, err := singleStringArg(name, args, line)
		if err != nil {
			return nil, err
		}
		return value.NewBool(strings.Contains(str, sub)), nil
	case "starts_with":
		sub, err := singleStringArg(name, args, line)
		if err != nil {
			return nil, err
		}
		return value.NewBool(strings.HasPrefix(str, sub)), nil
	case "ends_with":
		sub, err := singleStringArg(name, args, line)
		if err != nil {
			return nil, err
		}
		return value.NewBool(strings.HasSuffix(str, sub)), nil
	case "index_of":
		sub, err := singleStringArg(name, args, line)
		if err != nil {
			return nil, err
		}
		byteIdx := strings.Index(str, sub)
		if byteIdx < 0 {
			return value.None, nil
		}
		return value.NewNumber(float64(len([]rune(str[:byteIdx])))), nil
	case "split":
		sep, err := singleStringArg(name, args, line)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(str, sep)
		elems := make([]value.Value, len(parts))
		for idx, p := range parts {
			elems[idx] = value.NewString(p)
		}
		return value.NewArray(elems), nil
	case "replace":
		if err := checkArity(name, 2, len(args), line); err != nil {
			return nil, err
		}
		oldS, ok1 := args[0].(value.StringValue)
		newS, ok2 := args[1].(value.StringValue)
		if !ok1 || !ok2 {
			return nil, bopErrors.New(bopErrors.Runtime, line, "%s() requires two strings", name)
		}
		return value.NewString(strings.ReplaceAll(str, string(oldS), string(newS))), nil
	case "upper":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		return value.NewString(value.Upper(str)), nil
	case "lower":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		return value.NewString(value.Lower(str)), nil
	case "trim":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		return value.NewString(strings.TrimFunc(str, unicode.IsSpace)), nil
	case "slice":
		return stringSlice(s, args, line)
	default:
		return nil, unknownMethodError("string", name, stringMethodNames, line)
	}
}

func singleStringArg(name string, args []value.Value, line int) (string, error) {
	if len(args) != 1 {
		return "", arityError(name, "1", len(args), line)
	}
	s, ok := args[0].(value.StringValue)
	if !ok {
		return "", bopErrors.New(bopErrors.Runtime, line, "%s() requires a string, got %s", name, args[0].Type())
	}
	return string(s), nil
}

func checkArity(name string, want, got int, line int) error {
	if got != want {
		return arityError(name, strconv.Itoa(want), got, line)
	}
	return nil
}

// sliceBounds clamps (start, end) per spec §4.5: negative indices count
// from the end, result is clamped into [0, length], end defaults to
// length.
func sliceBounds(length int, args []value.Value, line int) (int, int, error) {
	if len(args) > 2 {
		return 0, 0, arityError("slice", "0 to 2", len(args), line)
	}
	start, end := 0, length
	if len(args) >= 1 {
		if _, isNone := args[0].(value.NoneValue); !isNone {
			n, ok := args[0].(value.Number)
			if !ok {
				return 0, 0, bopErrors.New(bopErrors.Runtime, line, "slice() start must be a number, got %s", args[0].Type())
			}
			start = int(n)
		}
	}
	if len(args) == 2 {
		if _, isNone := args[1].(value.NoneValue); !isNone {
			n, ok := args[1].(value.Number)
			if !ok {
				return 0, 0, bopErrors.New(bopErrors.Runtime, line, "slice() end must be a number, got %s", args[1].Type())
			}
			end = int(n)
		}
	}
	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	start = clamp(start, 0, length)
	end = clamp(end, 0, length)
	if end < start {
		end = start
	}
	return start, end, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func stringSlice(s value.StringValue, args []value.Value, line int) (value.Value, error) {
	runes := s.Runes()
	start, end, err := sliceBounds(len(runes), args, line)
	if err != nil {
		return nil, err
	}
	return value.NewString(string(runes[start:end])), nil
}

var arrayMethodNames = []string{
	"len", "push", "pop", "has", "index_of", "insert", "remove",
	"slice", "reverse", "sort",
}

func callArrayMethod(a *value.Array, name string, args []value.Value, line int) (value.Value, error) {
	switch name {
	case "len":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		return value.NewNumber(float64(len(a.Elements))), nil
	case "push":
		if err := checkArity(name, 1, len(args), line); err != nil {
			return nil, err
		}
		a.Elements = append(a.Elements, args[0].Copy())
		return value.None, nil
	case "pop":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		if len(a.Elements) == 0 {
			return nil, bopErrors.New(bopErrors.Runtime, line, "pop() on an empty array")
		}
		last := a.Elements[len(a.Elements)-1]
		a.Elements = a.Elements[:len(a.Elements)-1]
		return last, nil
	case "has":
		if err := checkArity(name, 1, len(args), line); err != nil {
			return nil, err
		}
		for _, e := range a.Elements {
			if e.Equal(args[0]) {
				return value.NewBool(true), nil
			}
		}
		return value.NewBool(false), nil
	case "index_of":
		if err := checkArity(name, 1, len(args), line); err != nil {
			return nil, err
		}
		for idx, e := range a.Elements {
			if e.Equal(args[0]) {
				return value.NewNumber(float64(idx)), nil
			}
		}
		return value.None, nil
	case "insert":
		if err := checkArity(name, 2, len(args), line); err != nil {
			return nil, err
		}
		idxVal, ok := args[0].(value.Number)
		if !ok || float64(idxVal) != math.Trunc(float64(idxVal)) {
			return nil, bopErrors.New(bopErrors.Runtime, line, "insert() index must be an integer")
		}
		idx := int(idxVal)
		if idx < 0 || idx > len(a.Elements) {
			return nil, bopErrors.New(bopErrors.Runtime, line, "insert() index %d out of range (length %d)", idx, len(a.Elements))
		}
		a.Elements = append(a.Elements, nil)
		copy(a.Elements[idx+1:], a.Elements[idx:])
		a.Elements[idx] = args[1].Copy()
		return value.None, nil
	case "remove":
		if err := checkArity(name, 1, len(args), line); err != nil {
			return nil, err
		}
		idxVal, ok := args[0].(value.Number)
		if !ok || float64(idxVal) != math.Trunc(float64(idxVal)) {
			return nil, bopErrors.New(bopErrors.Runtime, line, "remove() index must be an integer")
		}
		idx := int(idxVal)
		if idx < 0 || idx >= len(a.Elements) {
			return nil, bopErrors.New(bopErrors.Runtime, line, "remove() index %d out of range (length %d)", idx, len(a.Elements))
		}
		removed := a.Elements[idx]
		a.Elements = append(a.Elements[:idx], a.Elements[idx+1:]...)
		return removed, nil
	case "slice":
		start, end, err := sliceBounds(len(a.Elements), args, line)
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, end-start)
		for idx, e := range a.Elements[start:end] {
			out[idx] = e.Copy()
		}
		return value.NewArray(out), nil
	case "reverse":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		for l, r := 0, len(a.Elements)-1; l < r; l, r = l+1, r-1 {
			a.Elements[l], a.Elements[r] = a.Elements[r], a.Elements[l]
		}
		return a, nil
	case "sort":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		if err := sortArray(a, line); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, unknownMethodError("array", name, arrayMethodNames, line)
	}
}

// sortArray implements array `sort()` (spec §4.5): stable, and requires
// every element to be the same comparable type (all numbers or all
// strings). Mixed-type sort is an intentional tightening spec §9 flags
// as not explicit in the reference material.
func sortArray(a *value.Array, line int) error {
	if len(a.Elements) < 2 {
		return nil
	}
	switch a.Elements[0].(type) {
	case value.Number:
		for _, e := range a.Elements {
			if _, ok := e.(value.Number); !ok {
				return bopErrors.New(bopErrors.Runtime, line, "sort() requires all elements to be the same type")
			}
		}
		sort.SliceStable(a.Elements, func(i, j int) bool {
			return float64(a.Elements[i].(value.Number)) < float64(a.Elements[j].(value.Number))
		})
		return nil
	case value.StringValue:
		for _, e := range a.Elements {
			if _, ok := e.(value.StringValue); !ok {
				return bopErrors.New(bopErrors.Runtime, line, "sort() requires all elements to be the same type")
			}
		}
		sort.SliceStable(a.Elements, func(i, j int) bool {
			return string(a.Elements[i].(value.StringValue)) < string(a.Elements[j].(value.StringValue))
		})
		return nil
	default:
		return bopErrors.New(bopErrors.Runtime, line, "sort() requires numbers or strings, got %s", a.Elements[0].Type())
	}
}

var dictMethodNames = []string{"len", "keys", "values", "has"}

func callDictMethod(d *value.Dict, name string, args []value.Value, line int) (value.Value, error) {
	switch name {
	case "len":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		return value.NewNumber(float64(d.Len())), nil
	case "keys":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		keys := d.Keys()
		elems := make([]value.Value, len(keys))
		for idx, k := range keys {
			elems[idx] = value.NewString(k)
		}
		return value.NewArray(elems), nil
	case "values":
		if err := checkArity(name, 0, len(args), line); err != nil {
			return nil, err
		}
		keys := d.Keys()
		elems := make([]value.Value, len(keys))
		for idx, k := range keys {
			v, _ := d.Get(k)
			elems[idx] = v.Copy()
		}
		return value.NewArray(elems), nil
	case "has":
		if err := checkArity(name, 1, len(args), line); err != nil {
			return nil, err
		}
		k, ok := args[0].(value.StringValue)
		if !ok {
			return nil, bopErrors.New(bopErrors.Runtime, line, "has() requires a string key, got %s", args[0].Type())
		}
		return value.NewBool(d.Has(string(k))), nil
	default:
		return nil, unknownMethodError("dict", name, dictMethodNames, line)
	}
}
