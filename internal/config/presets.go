package config

import "github.com/san-kum/glucosim/internal/env"

// Presets are named ready-to-run scenarios.
var Presets = map[string]*Config{
	"steady": {
		Subject:    "adolescent#003",
		Steps:      1440,
		Seed:       1,
		Output:     DefaultOutput,
		Controller: "safety",
		Policy:     DefaultConfig().Policy,
		Scenario: ScenarioConfig{
			Samples:  []env.Sample{{CGM: 120}},
			HoldLast: true,
		},
	},
	"meal-day": {
		Subject:    "adolescent#003",
		Steps:      1440,
		Seed:       1,
		Output:     DefaultOutput,
		Controller: "safety",
		Scenario: ScenarioConfig{
			Samples: []env.Sample{
				{CGM: 110, Time: "00:00"},
				{CGM: 112, Meal: 45, Time: "07:30"},
				{CGM: 160, Time: "08:30"},
				{CGM: 135, Meal: 70, Time: "12:30"},
				{CGM: 180, Time: "13:30"},
				{CGM: 140, Meal: 60, Time: "18:45"},
				{CGM: 170, Time: "19:45"},
				{CGM: 125, Time: "23:00"},
			},
			HoldLast: true,
			Jitter:   2,
		},
	},
	"hypo": {
		Subject:    "adult#001",
		Steps:      240,
		Seed:       1,
		Output:     DefaultOutput,
		Controller: "safety",
		Scenario: ScenarioConfig{
			Samples: []env.Sample{
				{CGM: 95},
				{CGM: 82},
				{CGM: 71},
				{CGM: 65},
				{CGM: 62},
				{CGM: 68},
				{CGM: 80},
			},
			HoldLast: true,
		},
	},
}

func init() {
	// presets without explicit policy constants inherit the defaults
	def := DefaultConfig().Policy
	for _, p := range Presets {
		if p.Policy == (PolicyConfig{}) {
			p.Policy = def
		}
	}
}

// GetPreset returns the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
