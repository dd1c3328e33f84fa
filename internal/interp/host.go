package interp

import "github.com/stevepryde/bop-lang/internal/value"

// Host is the embedding-side contract the evaluator consumes (spec §6): a
// single polymorphic capability set the host application implements to
// supply custom functions, receive output, and observe/cancel execution.
type Host interface {
	// Call is invoked when the evaluator encounters a call that is
	// neither a built-in nor a user-declared function. line is the
	// 1-based source line of the call, for host-side diagnostics.
	Call(name string, args []value.Value, line int) CallResult
	// OnPrint is invoked by the `print` built-in with the concatenated
	// message; the default CLI host writes it to standard output.
	OnPrint(message string)
	// FunctionHint returns free-form text appended to "function not
	// found" errors, or "" for none.
	FunctionHint() string
	// OnTick is invoked before every statement and loop iteration
	// (spec §4.6); a non-nil error halts execution with a LimitExceeded
	// error whose message includes the host error's text.
	OnTick() error
}

// Outcome reports whether a Host.Call was handled.
type Outcome int

const (
	// NotHandled means the host does not recognize the function name;
	// the evaluator raises "function not found" (spec §4.6 step 3).
	NotHandled Outcome = iota
	// Handled means the host executed the call; Result carries its
	// return value (value.None if the host call has no meaningful
	// result).
	Handled
)

// CallResult is the return value of Host.Call.
type CallResult struct {
	Outcome Outcome
	Result  value.Value
	Err     error
}

// Limits bounds a single run's resource consumption (spec §6).
type Limits struct {
	// MaxSteps is the maximum number of tick events (statements and
	// loop iterations) before execution halts with LimitExceeded.
	MaxSteps int
	// MaxMemory is the maximum estimated live byte count across all
	// strings and array/dict element slots (spec §4.6).
	MaxMemory int
}

// StandardLimits and DemoLimits are the two presets spec §6 recommends.
var (
	StandardLimits = Limits{MaxSteps: 10_000, MaxMemory: 10 * 1024 * 1024}
	DemoLimits     = Limits{MaxSteps: 1_000, MaxMemory: 1024 * 1024}
)

// NopHost is a Host that handles nothing, discards print output, and
// never cancels. Useful as an embedding default or in tests that don't
// exercise host callbacks.
type NopHost struct{}

func (NopHost) Call(name string, args []value.Value, line int) CallResult {
	return CallResult{Outcome: NotHandled}
}
func (NopHost) OnPrint(message string) {}
func (NopHost) FunctionHint() string   { return "" }
func (NopHost) OnTick() error          { return nil }
