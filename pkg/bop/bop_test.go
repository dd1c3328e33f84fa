package bop_test

import (
	"testing"

	"github.com/stevepryde/bop-lang/pkg/bop"
)

type capturingHost struct {
	bop.NopHost
	lines []string
}

func (h *capturingHost) OnPrint(message string) { h.lines = append(h.lines, message) }

func TestEngineRunSumScenario(t *testing.T) {
	host := &capturingHost{}
	engine := bop.New(host, bop.StandardLimits)
	if err := engine.Run(`let t=0; for i in range(1,11){ t+=i } print(str(t))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.lines) != 1 || host.lines[0] != "55" {
		t.Fatalf("got %v", host.lines)
	}
}

func TestPresetLookup(t *testing.T) {
	demo, ok := bop.Preset("demo")
	if !ok {
		t.Fatal("expected a 'demo' preset")
	}
	if demo != bop.DemoLimits {
		t.Fatalf("got %+v, want %+v", demo, bop.DemoLimits)
	}
}

type callHandlingHost struct {
	bop.NopHost
}

func (callHandlingHost) Call(name string, args []bop.Value, line int) bop.CallResult {
	if name == "double" && len(args) == 1 {
		return bop.CallResult{Outcome: bop.Handled, Result: args[0]}
	}
	return bop.CallResult{Outcome: bop.NotHandled}
}

func TestEngineDelegatesUnknownCallsToHost(t *testing.T) {
	engine := bop.New(callHandlingHost{}, bop.StandardLimits)
	if err := engine.Run(`double(5)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
