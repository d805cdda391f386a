package config

import (
	"fmt"
	"os"
)

// LoadExperiment loads and parses an experiment configuration file
func LoadExperiment(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file %s: %w", path, err)
	}
	cfg, err := ParseExperimentYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse experiment file %s: %w", path, err)
	}
	return cfg, nil
}
