// Package bop is Bop's public embedding API (spec §6): a host application
// constructs an Engine with its own Host implementation and a Limits
// preset, then hands it source text to run. The constructor takes
// functional options and a single method runs a script to completion,
// using a narrow, interface-based host contract rather than a reflection-
// based FFI.
package bop

import (
	"github.com/stevepryde/bop-lang/internal/config"
	"github.com/stevepryde/bop-lang/internal/interp"
	"github.com/stevepryde/bop-lang/internal/value"
)

// Host is the capability set a host application implements to embed Bop
// (spec §6): handling unknown function calls, receiving print output,
// annotating "function not found" errors, and observing/cancelling
// execution at each tick.
type Host = interp.Host

// Outcome reports whether Host.Call recognized the function it was asked
// to handle.
type Outcome = interp.Outcome

const (
	NotHandled = interp.NotHandled
	Handled    = interp.Handled
)

// CallResult is what Host.Call returns.
type CallResult = interp.CallResult

// Value is the dynamic value type scripts operate on and hosts exchange
// with Call/CallResult.
type Value = value.Value

// Limits bounds a run's step count and memory footprint (spec §5).
type Limits = interp.Limits

// StandardLimits and DemoLimits are the two presets spec §6 recommends.
// Preset returns the same values by name, plus any others an embedding
// application has added to internal/config's presets.yaml.
var (
	StandardLimits = interp.StandardLimits
	DemoLimits     = interp.DemoLimits
)

// Preset looks up a named limits preset (e.g. "standard", "demo") from
// the embedded preset document.
func Preset(name string) (Limits, bool) {
	return config.Lookup(name)
}

// NopHost is a Host that handles no calls, discards print output, and
// never cancels a run. Useful as an embedding starting point or in tests
// that don't care about host interaction.
type NopHost = interp.NopHost

// Option configures an Engine at construction time.
type Option = interp.Option

// WithSeed fixes the deterministic PRNG `rand` draws from (spec §9),
// overriding the default seed.
func WithSeed(seed uint64) Option {
	return interp.WithSeed(seed)
}

// Engine runs Bop programs against a fixed Host and Limits. It is
// single-use per Run rather than holding compiled program state across
// multiple calls: spec §4.6's function table and tick/memory counters
// are scoped to one program's execution.
type Engine struct {
	host   Host
	limits Limits
	opts   []Option
}

// New constructs an Engine bound to host and limits.
func New(host Host, limits Limits, opts ...Option) *Engine {
	return &Engine{host: host, limits: limits, opts: opts}
}

// Run lexes, parses, and evaluates source against the Engine's Host and
// Limits, returning the first error (syntax, runtime, or sandbox limit)
// encountered, or nil on successful completion (spec §6's conceptual
// `run(source, host, limits) → ok | err(Error)`).
func (e *Engine) Run(source string) error {
	return interp.New(e.host, e.limits, e.opts...).Run(source)
}
