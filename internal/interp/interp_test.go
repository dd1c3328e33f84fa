package interp

import (
	"strings"
	"testing"

	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/internal/value"
)

// recordingHost captures print() output and counts on_tick calls, for
// asserting on both visible output and tick accounting (spec §8).
type recordingHost struct {
	NopHost
	lines []string
	ticks int
}

func (h *recordingHost) OnPrint(message string) { h.lines = append(h.lines, message) }

func (h *recordingHost) OnTick() error {
	h.ticks++
	return nil
}

func runWith(t *testing.T, source string, limits Limits) (*recordingHost, error) {
	t.Helper()
	host := &recordingHost{}
	interp := New(host, limits)
	err := interp.Run(source)
	return host, err
}

func run(t *testing.T, source string) (*recordingHost, error) {
	t.Helper()
	return runWith(t, source, StandardLimits)
}

// Scenario 1 (spec §8): sum 1..10.
func TestScenarioSumOneToTen(t *testing.T) {
	host, err := run(t, `let t=0; for i in range(1,11){ t+=i } print(str(t))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.lines) != 1 || host.lines[0] != "55" {
		t.Fatalf("expected [\"55\"], got %v", host.lines)
	}
}

// Scenario 2 (spec §8): FizzBuzz 1..15, one print per iteration.
func TestScenarioFizzBuzz(t *testing.T) {
	source := `
fn fizzbuzz(n) {
	if n % 15 == 0 { return "FizzBuzz" }
	if n % 3 == 0 { return "Fizz" }
	if n % 5 == 0 { return "Buzz" }
	return str(n)
}
for i in range(1,16) {
	print(fizzbuzz(i))
}
`
	host, err := run(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Split("1,2,Fizz,4,Buzz,Fizz,7,8,Fizz,Buzz,11,Fizz,13,14,FizzBuzz", ",")
	if len(host.lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(host.lines), host.lines)
	}
	for i, line := range host.lines {
		if line != want[i] {
			t.Errorf("line %d: got %q, want %q", i, line, want[i])
		}
	}
}

// Scenario 3 (spec §8, spec §3's copy-semantics invariant): assigning an
// array to another name must not alias the backing store.
func TestScenarioCopySemantics(t *testing.T) {
	host, err := run(t, `let a=[1,2,3]; let b=a; b.push(4); print(str(a)); print(str(b))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"[1, 2, 3]", "[1, 2, 3, 4]"}
	if len(host.lines) != 2 || host.lines[0] != want[0] || host.lines[1] != want[1] {
		t.Fatalf("got %v, want %v", host.lines, want)
	}
}

// Scenario 4 (spec §8): string interpolation.
func TestScenarioInterpolation(t *testing.T) {
	host, err := run(t, `let name="Alice"; let count=5; print("Hello, {name}! You have {count} items.")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Hello, Alice! You have 5 items."
	if len(host.lines) != 1 || host.lines[0] != want {
		t.Fatalf("got %v, want [%q]", host.lines, want)
	}
}

// Scenario 5 (spec §8, §4.7): an unknown function call close to a builtin
// name gets a "did you mean" suggestion.
func TestScenarioDidYouMean(t *testing.T) {
	_, err := run(t, `pritn("x")`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "did you mean 'print'") {
		t.Fatalf("error %q does not mention the suggestion", err.Error())
	}
}

// Scenario 6 (spec §8, §5): a program exceeding max_steps halts with a
// LimitExceeded error instead of running forever, with no print and no
// panic escaping Run.
func TestScenarioStepLimitHalts(t *testing.T) {
	host, err := runWith(t, `while true {}`, Limits{MaxSteps: 1000, MaxMemory: StandardLimits.MaxMemory})
	if err == nil {
		t.Fatal("expected a LimitExceeded error")
	}
	if !bopErrors.Is(err, bopErrors.LimitExceeded) {
		t.Fatalf("expected LimitExceeded, got %v", err)
	}
	if len(host.lines) != 0 {
		t.Fatalf("expected no output, got %v", host.lines)
	}
	if host.ticks > 1000 {
		t.Fatalf("expected at most 1000 ticks, got %d", host.ticks)
	}
}

// Scenario 7 (spec §8, §4.2's auto-terminator rule): a brace on its own
// line after a value-like token is a syntax error, since the newline
// after `3` already closed the statement.
func TestScenarioBlockBracingError(t *testing.T) {
	source := "if x > 3\n{\nprint(\"hi\")\n}\n"
	_, err := run(t, source)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if !bopErrors.Is(err, bopErrors.Syntax) {
		t.Fatalf("expected a SyntaxError, got %v", err)
	}
	// Spec §8 scenario 7: the error is reported on the line of the "{",
	// not the line of "if x > 3" above it.
	be, ok := err.(*bopErrors.Error)
	if !ok {
		t.Fatalf("expected *bopErrors.Error, got %T", err)
	}
	if be.Line != 2 {
		t.Fatalf("expected error on line 2 (the '{'), got line %d", be.Line)
	}
}

// Scenario 8 (spec §8): division always produces a float; int() truncates.
func TestScenarioDivision(t *testing.T) {
	host, err := run(t, `print(str(7/2)); print(str(int(7/2)))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"3.5", "3"}
	if len(host.lines) != 2 || host.lines[0] != want[0] || host.lines[1] != want[1] {
		t.Fatalf("got %v, want %v", host.lines, want)
	}
}

// Step counting invariant (spec §8): a program with N statements/loop
// iterations performs exactly N tick callbacks absent early termination.
func TestTickCountMatchesStatementsAndIterations(t *testing.T) {
	// 3 top-level statements, plus 5 loop-iteration ticks (one per
	// iteration of `for i in range(0,5)`), plus the loop body's own
	// print statement tick each iteration = 3 + 5 + 5 = 13.
	host, err := run(t, `
let t=0
for i in range(0,5) {
	print(str(i))
}
print(str(t))
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.ticks != 13 {
		t.Fatalf("expected 13 ticks, got %d", host.ticks)
	}
}

// Array reverse is an involution (spec §8 invariant).
func TestArrayReverseReverseIsIdentity(t *testing.T) {
	host, err := run(t, `let a=[1,2,3,4]; let b=a.reverse().reverse(); print(str(b))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.lines) != 1 || host.lines[0] != "[1, 2, 3, 4]" {
		t.Fatalf("got %v", host.lines)
	}
}

// let must copy the value it binds: a mutating, self-returning method
// like reverse() hands back its own receiver, so without a copy here
// `b` would alias `a`'s backing array and a later b.push would leak
// into a (spec §3's copy-semantics invariant).
func TestLetCopiesMutatingMethodResult(t *testing.T) {
	host, err := run(t, `let a=[3,2,1]; let b=a.reverse(); b.push(9); print(str(a))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.lines) != 1 || host.lines[0] != "[3, 2, 1]" {
		t.Fatalf("got %v, expected a left unchanged by mutating b", host.lines)
	}
}

// upper().lower().upper() == upper() (spec §8 invariant).
func TestStringUpperLowerUpperIdempotence(t *testing.T) {
	host, err := run(t, `let s="MiXeD"; print(s.upper().lower().upper() == s.upper())`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.lines) != 1 || host.lines[0] != "true" {
		t.Fatalf("got %v", host.lines)
	}
}

// range(k) has length k and range(k)[i] == i (spec §8 invariant).
func TestRangeInvariant(t *testing.T) {
	host, err := run(t, `let r=range(5); print(str(r.len())); print(str(r[0])); print(str(r[4]))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"5", "0", "4"}
	for i, w := range want {
		if host.lines[i] != w {
			t.Errorf("line %d: got %q, want %q", i, host.lines[i], w)
		}
	}
}

// Dict iteration order matches d.keys() order (spec §8 invariant).
func TestDictIterationMatchesKeysOrder(t *testing.T) {
	host, err := run(t, `
let d={"z": 1, "a": 2, "m": 3}
let order=[]
for k in d {
	order.push(k)
}
print(str(order))
print(str(d.keys()))
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.lines) != 2 || host.lines[0] != host.lines[1] {
		t.Fatalf("iteration order %v did not match keys() order", host.lines)
	}
}

// An unrecognized function name with no host handler and no close
// built-in or user-function match gets an error with no "did you mean"
// suggestion (spec §4.7's distance threshold).
func TestUnknownFunctionWithoutCloseMatchHasNoSuggestion(t *testing.T) {
	host := &recordingHost{}
	interp := New(host, StandardLimits)
	err := interp.Run(`totally_unregistered_name()`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("did not expect a suggestion for an unrelated name: %v", err)
	}
}

// value.Value results returned from the host are copied before entering
// script scope, so later in-script mutation cannot reach back into
// whatever the host retained (spec §6's embedding contract).
type arrayReturningHost struct {
	NopHost
	shared *value.Array
}

func (h *arrayReturningHost) Call(name string, args []value.Value, line int) CallResult {
	if name == "shared_array" {
		return CallResult{Outcome: Handled, Result: h.shared}
	}
	return CallResult{Outcome: NotHandled}
}

func TestHostCallResultIsCopiedNotAliased(t *testing.T) {
	shared := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2)})
	host := &arrayReturningHost{shared: shared}
	interp := New(host, StandardLimits)
	if err := interp.Run(`let a=shared_array(); a.push(3)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shared.Elements) != 2 {
		t.Fatalf("host's retained array was mutated: %v", shared.Elements)
	}
}

func TestWithSeedIsDeterministic(t *testing.T) {
	host1 := &recordingHost{}
	i1 := New(host1, StandardLimits, WithSeed(42))
	if err := i1.Run(`print(str(rand(1000)))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	host2 := &recordingHost{}
	i2 := New(host2, StandardLimits, WithSeed(42))
	if err := i2.Run(`print(str(rand(1000)))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if host1.lines[0] != host2.lines[0] {
		t.Fatalf("same seed produced different results: %v vs %v", host1.lines, host2.lines)
	}
}
