// Package baseline establishes the single-thread reference measurements
// that all speedup and time-budget derivations are anchored to.
package baseline

import (
	"fmt"

	"github.com/aco-bench/experiment-core/internal/sim"
	"github.com/aco-bench/experiment-core/pkg/models"
	"github.com/aco-bench/experiment-core/pkg/utils"
)

// Baseline holds the serial wall times measured for one instance, keyed by
// repetition index.
type Baseline struct {
	InstanceID   string
	IterationCap int
	wallTimes    map[int]float64
}

// WallTime returns the baseline wall time for a repetition index.
func (b *Baseline) WallTime(repetition int) (float64, bool) {
	t, ok := b.wallTimes[repetition]
	return t, ok
}

// WallTimes returns a copy of the full repetition-to-seconds mapping, for
// sessions that pair runs exactly by repetition.
func (b *Baseline) WallTimes() map[int]float64 {
	out := make(map[int]float64, len(b.wallTimes))
	for k, v := range b.wallTimes {
		out[k] = v
	}
	return out
}

// Mean returns the mean baseline wall time, the single scalar used as the
// instance's time budget in time-budget sweeps.
func (b *Baseline) Mean() float64 {
	values := make([]float64, 0, len(b.wallTimes))
	for _, v := range b.wallTimes {
		values = append(values, v)
	}
	return utils.Mean(values)
}

// Repetitions returns the number of baseline samples.
func (b *Baseline) Repetitions() int {
	return len(b.wallTimes)
}

// Measurer runs the serial reference measurements. It must run before any
// parallel measurement of the same instance in a session: the experiment
// protocol embeds the baseline mean as the time budget of subsequent runs.
type Measurer struct {
	exec     sim.Executor
	baseSeed int64
}

// NewMeasurer creates a baseline measurer over the given executor.
func NewMeasurer(exec sim.Executor, baseSeed int64) *Measurer {
	return &Measurer{exec: exec, baseSeed: baseSeed}
}

// Measure executes repetitions serial fixed-iteration runs for the instance
// and returns the per-repetition wall times.
func (m *Measurer) Measure(instanceID string, iterationCap, repetitions int) (*Baseline, error) {
	if repetitions < 1 {
		return nil, fmt.Errorf("%w: baseline repetitions must be positive, got %d", sim.ErrConfiguration, repetitions)
	}

	b := &Baseline{
		InstanceID:   instanceID,
		IterationCap: iterationCap,
		wallTimes:    make(map[int]float64, repetitions),
	}

	for rep := 0; rep < repetitions; rep++ {
		cfg := models.RunConfig{
			InstanceID:      instanceID,
			ThreadCount:     1,
			Mode:            models.ModeFixedIterations,
			IterationCap:    iterationCap,
			RepetitionIndex: rep,
			RandomSeed:      m.baseSeed + int64(rep),
		}
		res, err := m.exec.Execute(cfg)
		if err != nil {
			return nil, fmt.Errorf("baseline run %d for %s: %w", rep, instanceID, err)
		}
		b.wallTimes[rep] = res.WallTimeSeconds
	}

	return b, nil
}
