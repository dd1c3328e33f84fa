// Package value implements Bop's six-variant tagged value domain (spec
// §3/§4.1): numbers, strings, booleans, none, arrays, and dicts, with
// their equality, copy, and rendering rules.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Value is implemented by every Bop runtime value.
type Value interface {
	// Type is one of "number", "string", "bool", "none", "array", "dict"
	// (spec §4.5's type() built-in uses these names verbatim).
	Type() string
	// String is the "str" display rendering (spec §4.1).
	String() string
	// Inspect is the "inspect" debug rendering: identical to String
	// except that strings render quoted with escapes.
	Inspect() string
	// Equal reports strict, same-type structural equality (spec §4.1).
	Equal(other Value) bool
	// Copy returns an independent deep copy, per the copy-semantics
	// invariant in spec §3: mutating the result never affects v.
	Copy() Value
}

// ---- Number ----

// Number is a 64-bit IEEE-754 float. Bop has no separate integer type;
// "integer-valued" numbers are floats with a zero fractional part.
type Number float64

func NewNumber(f float64) Number { return Number(f) }

func (Number) Type() string { return "number" }

// String renders the shortest round-trip decimal form (spec §9's open
// question on numeric rendering): whole-valued numbers print without a
// fractional part, e.g. 5 not 5.0 and 1000000 not 1e+06. Magnitudes of
// 1e21 and above, NaN and infinities use exponent/'g' formatting.
func (n Number) String() string {
	f := float64(n)
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (n Number) Inspect() string { return n.String() }

// Equal follows IEEE-754 semantics via Go's built-in float comparison,
// which already gives NaN == NaN => false as spec §4.1 requires.
func (n Number) Equal(other Value) bool {
	o, ok := other.(Number)
	return ok && float64(n) == float64(o)
}

func (n Number) Copy() Value { return n }

// ---- String ----

// StringValue is immutable UTF-8 text.
type StringValue string

func NewString(s string) StringValue { return StringValue(s) }

func (StringValue) Type() string { return "string" }

func (s StringValue) String() string { return string(s) }

// Inspect quotes the string and escapes the same characters the lexer
// recognizes as escape sequences (spec §4.2), so inspect output round-trips
// through the lexer.
func (s StringValue) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (s StringValue) Equal(other Value) bool {
	o, ok := other.(StringValue)
	return ok && s == o
}

func (s StringValue) Copy() Value { return s }

// Runes returns the string's Unicode scalar values, the unit Bop indexes
// and slices strings by (spec §3).
func (s StringValue) Runes() []rune { return []rune(string(s)) }

var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

// Upper and Lower implement the `upper()`/`lower()` string methods (spec
// §4.5) via golang.org/x/text's locale-aware case mapping rather than
// strings.ToUpper/ToLower, so casing of non-ASCII scripts follows Unicode
// case-folding rules instead of ASCII-only behavior.
func Upper(s string) string { return upperCaser.String(s) }
func Lower(s string) string { return lowerCaser.String(s) }

// ---- Bool ----

type BoolValue bool

func NewBool(b bool) BoolValue { return BoolValue(b) }

func (BoolValue) Type() string { return "bool" }

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b BoolValue) Inspect() string { return b.String() }

func (b BoolValue) Equal(other Value) bool {
	o, ok := other.(BoolValue)
	return ok && b == o
}

func (b BoolValue) Copy() Value { return b }

// ---- None ----

// NoneValue is Bop's single absence-of-value variant.
type NoneValue struct{}

// None is the sole NoneValue instance; every `none` literal and implicit
// statement result shares it since it carries no state.
var None = NoneValue{}

func (NoneValue) Type() string { return "none" }
func (NoneValue) String() string  { return "none" }
func (NoneValue) Inspect() string { return "none" }

func (NoneValue) Equal(other Value) bool {
	_, ok := other.(NoneValue)
	return ok
}

func (n NoneValue) Copy() Value { return n }

// ---- Array ----

// Array is an ordered, in-place-mutable sequence. It is always handled
// through a pointer so that method calls like `a.push(v)` mutate the same
// backing store the caller's variable is bound to; a fresh *Array is
// allocated only where the copy-semantics invariant requires one (see
// Copy, and the evaluator's read/assignment paths).
type Array struct {
	Elements []Value
}

func NewArray(elements []Value) *Array {
	return &Array{Elements: elements}
}

func (*Array) Type() string { return "array" }

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = renderElement(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Inspect() string { return a.String() }

func (a *Array) Equal(other Value) bool {
	o, ok := other.(*Array)
	if !ok || len(a.Elements) != len(o.Elements) {
		return false
	}
	for i := range a.Elements {
		if !a.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

func (a *Array) Copy() Value {
	elems := make([]Value, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.Copy()
	}
	return &Array{Elements: elems}
}

// ---- Dict ----

// Dict is a string-keyed mapping that preserves insertion order (spec
// §3). Like Array, it is always handled through a pointer so in-place
// mutation (spec §4.5's dict assignment semantics) is visible through
// every binding that shares it, with independence restored on copy.
type Dict struct {
	keys   []string
	values map[string]Value
}

func NewDict() *Dict {
	return &Dict{values: map[string]Value{}}
}

func (*Dict) Type() string { return "dict" }

// Set inserts or overwrites k. Insertion order is preserved: overwriting
// an existing key does not move it.
func (d *Dict) Set(k string, v Value) {
	if _, exists := d.values[k]; !exists {
		d.keys = append(d.keys, k)
	}
	d.values[k] = v
}

func (d *Dict) Get(k string) (Value, bool) {
	v, ok := d.values[k]
	return v, ok
}

func (d *Dict) Has(k string) bool {
	_, ok := d.values[k]
	return ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Dict) Len() int { return len(d.keys) }

func (d *Dict) String() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = fmt.Sprintf("%q: %s", k, renderElement(d.values[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Inspect() string { return d.String() }

func (d *Dict) Equal(other Value) bool {
	o, ok := other.(*Dict)
	if !ok || len(d.keys) != len(o.keys) {
		return false
	}
	for i, k := range d.keys {
		if o.keys[i] != k {
			return false
		}
		ov, exists := o.values[k]
		if !exists || !d.values[k].Equal(ov) {
			return false
		}
	}
	return true
}

func (d *Dict) Copy() Value {
	out := NewDict()
	out.keys = append([]string(nil), d.keys...)
	out.values = make(map[string]Value, len(d.values))
	for k, v := range d.values {
		out.values[k] = v.Copy()
	}
	return out
}

// renderElement renders a value the way it appears nested inside an array
// or dict: strings use Inspect (quoted), everything else uses String
// (spec §4.1).
func renderElement(v Value) string {
	if s, ok := v.(StringValue); ok {
		return s.Inspect()
	}
	return v.String()
}

// ByteSize estimates the memory footprint of v for the sandbox's running
// memory counter (spec §4.6): strings count one unit per byte, containers
// count elementSlotCost units per element slot (plus key bytes for dicts)
// plus their own contents, recursively.
// Numbers, bools, and none are a fixed small cost.
func ByteSize(v Value) int {
	switch x := v.(type) {
	case StringValue:
		return len(string(x))
	case *Array:
		total := len(x.Elements) * elementSlotCost
		for _, e := range x.Elements {
			total += ByteSize(e)
		}
		return total
	case *Dict:
		total := x.Len() * elementSlotCost
		for _, k := range x.keys {
			total += len(k)
			total += ByteSize(x.values[k])
		}
		return total
	default:
		return scalarCost
	}
}

const (
	elementSlotCost = 8 // one uniform slot cost per container element (spec §4.6)
	scalarCost      = 8
)
