// Package config loads Bop's named sandbox limit presets from an embedded
// YAML document (spec §5), so a host can select "standard" or "demo" by
// name instead of hand-wiring interp.Limits values.
package config

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/stevepryde/bop-lang/internal/interp"
)

//go:embed presets.yaml
var presetsYAML []byte

type preset struct {
	MaxSteps  int `yaml:"max_steps"`
	MaxMemory int `yaml:"max_memory"`
}

// Presets maps a preset name to its parsed Limits, loaded once at package
// init from presets.yaml.
var Presets map[string]interp.Limits

func init() {
	var raw map[string]preset
	if err := yaml.Unmarshal(presetsYAML, &raw); err != nil {
		panic(fmt.Sprintf("config: malformed embedded presets.yaml: %s", err))
	}
	Presets = make(map[string]interp.Limits, len(raw))
	for name, p := range raw {
		Presets[name] = interp.Limits{MaxSteps: p.MaxSteps, MaxMemory: p.MaxMemory}
	}
}

// Lookup returns the named preset's Limits, or false if name is not one of
// the presets embedded in presets.yaml.
func Lookup(name string) (interp.Limits, bool) {
	l, ok := Presets[name]
	return l, ok
}

// Names returns every preset name, for building a CLI flag's usage text or
// a "did you mean" candidate set.
func Names() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
