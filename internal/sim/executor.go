// Package sim provides the run executor contract and the deterministic
// stand-in simulator that fills it when no real solver is attached.
package sim

import (
	"errors"
	"fmt"

	"github.com/aco-bench/experiment-core/pkg/models"
)

var (
	// ErrConfiguration marks a malformed RunConfig: invalid thread count or
	// missing stop condition. Raised before any timing is attempted.
	ErrConfiguration = errors.New("invalid run configuration")
	// ErrExecution marks a failed solver invocation or an out-of-range
	// result.
	ErrExecution = errors.New("run execution failed")
)

// Executor produces one measurement for a run configuration. The stand-in
// simulator and a real solver backend are drop-in substitutes behind this
// contract; the experiment runner and aggregator never see the difference.
type Executor interface {
	Execute(cfg models.RunConfig) (models.RunResult, error)
}

// ValidateConfig checks the parts of a RunConfig that any executor must
// reject before attempting a run.
func ValidateConfig(cfg models.RunConfig) error {
	if cfg.ThreadCount < 1 {
		return fmt.Errorf("%w: thread_count must be positive, got %d", ErrConfiguration, cfg.ThreadCount)
	}
	switch cfg.Mode {
	case models.ModeFixedIterations:
		if cfg.IterationCap < 1 {
			return fmt.Errorf("%w: fixed-iterations run requires a positive iteration_cap", ErrConfiguration)
		}
	case models.ModeTimeBudget:
		if cfg.TimeBudgetSeconds <= 0 {
			return fmt.Errorf("%w: time-budget run requires a positive time_budget_seconds", ErrConfiguration)
		}
	default:
		if cfg.IterationCap < 1 && cfg.TimeBudgetSeconds <= 0 {
			return fmt.Errorf("%w: no stop condition set", ErrConfiguration)
		}
		return fmt.Errorf("%w: unknown run mode %q", ErrConfiguration, cfg.Mode)
	}
	return nil
}
