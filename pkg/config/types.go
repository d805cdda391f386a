package config

import "github.com/aco-bench/experiment-core/pkg/models"

// Experiment is the top-level experiment configuration
type Experiment struct {
	LogLevel    string `yaml:"log_level"`
	Mode        string `yaml:"mode"`   // fixed_iterations or time_budget
	Preset      string `yaml:"preset"` // development or production, optional
	Iterations  int    `yaml:"iterations"`
	Repetitions int    `yaml:"repetitions"`
	ThreadCounts []int `yaml:"thread_counts"`
	BaseSeed     int64 `yaml:"base_seed"`

	// FailureEscalationFraction is the fraction of failed repetitions within
	// one (instance, thread count) configuration above which the whole
	// session is aborted.
	FailureEscalationFraction float64 `yaml:"failure_escalation_fraction"`

	Instances []models.InstanceDescriptor `yaml:"instances"`
	Simulator *Simulator                  `yaml:"simulator,omitempty"`
}

// Simulator holds the cost-model coefficients for the stand-in run
// simulator. A real solver backend ignores this section.
type Simulator struct {
	PerCityCostSeconds  float64 `yaml:"per_city_cost_seconds"`
	SerialFraction      float64 `yaml:"serial_fraction"`
	QualitySpread       float64 `yaml:"quality_spread"`
	MaxIterationCeiling int     `yaml:"max_iteration_ceiling"`
}

// Presets matching the original benchmark harness: development keeps the
// sweep short for smoke runs, production is the full measurement campaign.
const (
	PresetDevelopment = "development"
	PresetProduction  = "production"
)

// DefaultExperiment returns an experiment configuration with the standard
// sweep parameters: thread counts {1, 2, 4, 8} and the development preset.
func DefaultExperiment() *Experiment {
	return &Experiment{
		LogLevel:                  "info",
		Mode:                      string(models.ModeFixedIterations),
		Preset:                    PresetDevelopment,
		Iterations:                10,
		Repetitions:               5,
		ThreadCounts:              []int{1, 2, 4, 8},
		BaseSeed:                  42,
		FailureEscalationFraction: 0.5,
	}
}

// applyPreset fills iteration and repetition counts from the named preset
// when they are not set explicitly.
func applyPreset(cfg *Experiment) {
	switch cfg.Preset {
	case PresetProduction:
		if cfg.Iterations == 0 {
			cfg.Iterations = 100
		}
		if cfg.Repetitions == 0 {
			cfg.Repetitions = 30
		}
	case PresetDevelopment, "":
		if cfg.Iterations == 0 {
			cfg.Iterations = 10
		}
		if cfg.Repetitions == 0 {
			cfg.Repetitions = 5
		}
	}
}
