package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glucosim/internal/env"
)

const (
	DefaultSubject      = "adolescent#003"
	DefaultSteps        = 1440 // 24 h of 1-minute steps
	DefaultSeed         = 1
	DefaultOutput       = "sim_results_summary.csv"
	DefaultBasalRate    = 0.05
	DefaultMealBolus    = 1.0
	DefaultLowThreshold = 70.0
)

// Config is the full run configuration. Subject identity, dosing
// constants, seed and step budget are config-time values; there is no
// runtime surface that changes them mid-run.
type Config struct {
	Subject    string         `yaml:"subject"`
	Steps      int            `yaml:"steps"`
	Seed       int64          `yaml:"seed"`
	Output     string         `yaml:"output"`
	Controller string         `yaml:"controller"`
	Policy     PolicyConfig   `yaml:"policy"`
	Scenario   ScenarioConfig `yaml:"scenario"`
}

// PolicyConfig holds the dosing constants of the safety policy and the
// gains of the PID variant.
type PolicyConfig struct {
	BasalRate    float64 `yaml:"basal_rate"`
	MealBolus    float64 `yaml:"meal_bolus"`
	LowThreshold float64 `yaml:"low_threshold"`
	Kp           float64 `yaml:"kp"`
	Ki           float64 `yaml:"ki"`
	Kd           float64 `yaml:"kd"`
	Target       float64 `yaml:"target"`
}

// ScenarioConfig drives the scripted environment.
type ScenarioConfig struct {
	Samples  []env.Sample `yaml:"samples"`
	HoldLast bool         `yaml:"hold_last"`
	Jitter   float64      `yaml:"jitter"`
}

func DefaultConfig() *Config {
	return &Config{
		Subject:    DefaultSubject,
		Steps:      DefaultSteps,
		Seed:       DefaultSeed,
		Output:     DefaultOutput,
		Controller: "safety",
		Policy: PolicyConfig{
			BasalRate:    DefaultBasalRate,
			MealBolus:    DefaultMealBolus,
			LowThreshold: DefaultLowThreshold,
			Kp:           0.0005,
			Ki:           0.00001,
			Kd:           0.001,
			Target:       110,
		},
		Scenario: ScenarioConfig{
			Samples:  []env.Sample{{CGM: 120}},
			HoldLast: true,
		},
	}
}

// Load reads and validates a YAML config file. Values not present keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateYAML(path, data); err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
