package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aco-bench/experiment-core/pkg/models"
)

// ParseExperimentYAML parses an Experiment from YAML bytes, applies preset
// defaults and validates it.
func ParseExperimentYAML(data []byte) (*Experiment, error) {
	cfg := DefaultExperiment()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse experiment yaml: %w", err)
	}

	applyPreset(cfg)

	if err := validateExperiment(cfg); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}

	return cfg, nil
}

// ParseExperimentYAMLString parses an Experiment from a YAML string.
func ParseExperimentYAMLString(yamlText string) (*Experiment, error) {
	return ParseExperimentYAML([]byte(yamlText))
}

// validateExperiment performs validation on the experiment configuration
func validateExperiment(cfg *Experiment) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	mode := models.Mode(cfg.Mode)
	if mode != models.ModeFixedIterations && mode != models.ModeTimeBudget {
		return fmt.Errorf("invalid mode: %s (must be %s or %s)", cfg.Mode, models.ModeFixedIterations, models.ModeTimeBudget)
	}

	if cfg.Preset != "" && cfg.Preset != PresetDevelopment && cfg.Preset != PresetProduction {
		return fmt.Errorf("invalid preset: %s (must be %s or %s)", cfg.Preset, PresetDevelopment, PresetProduction)
	}

	if cfg.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Repetitions <= 0 {
		return fmt.Errorf("repetitions must be positive, got %d", cfg.Repetitions)
	}

	if len(cfg.ThreadCounts) == 0 {
		return fmt.Errorf("at least one thread count must be defined")
	}
	seen := make(map[int]bool)
	hasSerial := false
	for _, tc := range cfg.ThreadCounts {
		if tc <= 0 {
			return fmt.Errorf("thread counts must be positive, got %d", tc)
		}
		if seen[tc] {
			return fmt.Errorf("duplicate thread count: %d", tc)
		}
		seen[tc] = true
		if tc == 1 {
			hasSerial = true
		}
	}
	if !hasSerial {
		return fmt.Errorf("thread_counts must include 1: the serial run is the speedup baseline")
	}

	if cfg.FailureEscalationFraction <= 0 || cfg.FailureEscalationFraction > 1 {
		return fmt.Errorf("failure_escalation_fraction must be in (0, 1], got %f", cfg.FailureEscalationFraction)
	}

	if len(cfg.Instances) == 0 {
		return fmt.Errorf("at least one instance must be defined")
	}
	instanceIDs := make(map[string]bool)
	for _, inst := range cfg.Instances {
		if inst.ID == "" {
			return fmt.Errorf("instance id cannot be empty")
		}
		if instanceIDs[inst.ID] {
			return fmt.Errorf("duplicate instance id: %s", inst.ID)
		}
		instanceIDs[inst.ID] = true
		if inst.CityCount <= 0 {
			return fmt.Errorf("instance %s: cities must be positive", inst.ID)
		}
		if inst.OptimalObjective <= 0 {
			return fmt.Errorf("instance %s: optimal must be positive", inst.ID)
		}
	}

	if cfg.Simulator != nil {
		if err := validateSimulator(cfg.Simulator); err != nil {
			return fmt.Errorf("simulator validation failed: %w", err)
		}
	}

	return nil
}

// validateSimulator validates the simulator cost-model section
func validateSimulator(s *Simulator) error {
	if s.PerCityCostSeconds <= 0 {
		return fmt.Errorf("per_city_cost_seconds must be positive, got %f", s.PerCityCostSeconds)
	}
	if s.SerialFraction <= 0 || s.SerialFraction >= 1 {
		return fmt.Errorf("serial_fraction must be in (0, 1), got %f", s.SerialFraction)
	}
	if s.QualitySpread < 0 {
		return fmt.Errorf("quality_spread cannot be negative, got %f", s.QualitySpread)
	}
	if s.MaxIterationCeiling <= 0 {
		return fmt.Errorf("max_iteration_ceiling must be positive, got %d", s.MaxIterationCeiling)
	}
	return nil
}
