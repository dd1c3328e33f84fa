// Package env implements Bop's lexical scope chain (spec §4.4): a stack
// of frames mapping identifier to value.Value, with block-scoped push/pop
// and isolated call frames for function invocation.
package env

import "github.com/stevepryde/bop-lang/internal/value"

// Environment is one frame of the scope chain. Bop's identifiers are
// ordinary case-sensitive names (spec §3 reserves exact keyword
// spellings and never mentions case folding), so frames here are a
// plain map keyed on the identifier text, not a case-folding map.
type Environment struct {
	store map[string]value.Value
	outer *Environment
}

// New creates a root frame with no parent, used for the globals layer,
// which per spec §4.4 holds function declarations and no variables.
func New() *Environment {
	return &Environment{store: make(map[string]value.Value)}
}

// Push opens a new block scope chained to e (spec §4.4's push()). The
// matching pop() is simply discarding the returned child and continuing
// to use e. Go's garbage collector reclaims the frame once nothing
// references it, so there is no separate Pop method.
func (e *Environment) Push() *Environment {
	return &Environment{store: make(map[string]value.Value), outer: e}
}

// CallFrame opens a function-call frame chained only to globals, never to
// the caller's locals (spec §4.4: "a fresh chain [globals, call_frame]").
// globals must be the process-wide function-declaration layer.
func CallFrame(globals *Environment) *Environment {
	return globals.Push()
}

// Declare inserts name into the innermost frame. Re-declaring a name
// already present in this exact frame is an error (spec §4.4); shadowing
// a name from an outer frame is allowed.
func (e *Environment) Declare(name string, v value.Value) error {
	if _, exists := e.store[name]; exists {
		return &RedeclaredError{Name: name}
	}
	e.store[name] = v
	return nil
}

// Assign searches outward from e and stores v in the frame where name is
// already bound. It returns false if name is bound nowhere in the
// chain; callers attach a "did you mean" suggestion themselves (spec
// §4.4 folds built-in names into that suggestion's candidate set, which
// this package has no knowledge of).
func (e *Environment) Assign(name string, v value.Value) bool {
	for frame := e; frame != nil; frame = frame.outer {
		if _, exists := frame.store[name]; exists {
			frame.store[name] = v
			return true
		}
	}
	return false
}

// Lookup searches outward from e and returns the live value bound to
// name, without copying it. Callers that want Bop's copy-on-read
// semantics (spec §3) must call Copy() themselves; callers that need to
// mutate a container in place (e.g. a method receiver) use this value
// directly.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for frame := e; frame != nil; frame = frame.outer {
		if v, exists := frame.store[name]; exists {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether name is bound anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// Names returns every identifier visible from e, innermost frames first,
// for building "did you mean" candidate sets (spec §4.4, §4.7).
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for frame := e; frame != nil; frame = frame.outer {
		for name := range frame.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// LiveByteSize sums sizeOf over every value currently reachable from e
// (one entry per visible name, innermost binding wins on shadowing),
// for the sandbox's tick-boundary memory estimate (spec §4.6).
func (e *Environment) LiveByteSize(sizeOf func(value.Value) int) int {
	total := 0
	for _, name := range e.Names() {
		if v, ok := e.Lookup(name); ok {
			total += sizeOf(v)
		}
	}
	return total
}

// RedeclaredError reports a `let` re-declaring a name already bound in
// the same frame.
type RedeclaredError struct {
	Name string
}

func (e *RedeclaredError) Error() string {
	return "'" + e.Name + "' is already declared in this scope"
}
