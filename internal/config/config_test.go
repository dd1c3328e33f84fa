package config

import "testing"

func TestStandardPresetMatchesInterpDefaults(t *testing.T) {
	got, ok := Lookup("standard")
	if !ok {
		t.Fatal("expected a 'standard' preset")
	}
	if got.MaxSteps != 10_000 || got.MaxMemory != 10*1024*1024 {
		t.Fatalf("got %+v", got)
	}
}

func TestDemoPresetIsTighter(t *testing.T) {
	standard, _ := Lookup("standard")
	demo, ok := Lookup("demo")
	if !ok {
		t.Fatal("expected a 'demo' preset")
	}
	if demo.MaxSteps >= standard.MaxSteps || demo.MaxMemory >= standard.MaxMemory {
		t.Fatalf("expected demo to be tighter than standard, got demo=%+v standard=%+v", demo, standard)
	}
}

func TestLookupUnknownPreset(t *testing.T) {
	if _, ok := Lookup("nonexistent"); ok {
		t.Fatal("expected Lookup to report false for an unknown preset name")
	}
}

func TestNamesIncludesBothBuiltinPresets(t *testing.T) {
	names := Names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["standard"] || !seen["demo"] {
		t.Fatalf("expected 'standard' and 'demo' in %v", names)
	}
}
