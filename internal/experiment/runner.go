// Package experiment orchestrates the full measurement sweep: instances in
// catalog order, thread counts ascending, repetitions innermost, with
// serial baselines measured before any parallel run they are paired with.
package experiment

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aco-bench/experiment-core/internal/baseline"
	"github.com/aco-bench/experiment-core/internal/catalog"
	"github.com/aco-bench/experiment-core/internal/sim"
	"github.com/aco-bench/experiment-core/internal/sysinfo"
	"github.com/aco-bench/experiment-core/pkg/logger"
	"github.com/aco-bench/experiment-core/pkg/models"
)

var (
	// ErrBaselineMissing marks a time-budget sweep requested for an
	// instance whose baseline was never measured.
	ErrBaselineMissing = errors.New("baseline missing")
	// ErrTooManyFailures marks a configuration whose failed repetitions
	// exceeded the escalation fraction; it is fatal to the whole session.
	ErrTooManyFailures = errors.New("too many failed repetitions")
	// ErrSessionFinished is returned when Run is called on a session that
	// already completed or failed. Sessions are single-use.
	ErrSessionFinished = errors.New("session already finished")
)

// State is the session lifecycle state.
type State string

const (
	StateNotStarted        State = "not_started"
	StateBaselineCollected State = "baseline_collected"
	StateRunning           State = "running"
	StateCompleted         State = "completed"
	StateFailed            State = "failed"
)

// Options configures one experiment session.
type Options struct {
	Mode         models.Mode
	ThreadCounts []int
	Repetitions  int
	IterationCap int
	BaseSeed     int64

	// FailureEscalationFraction is the fraction of failed repetitions
	// within one (instance, thread count) configuration above which the
	// session is aborted.
	FailureEscalationFraction float64
}

func (o Options) withDefaults() Options {
	if len(o.ThreadCounts) == 0 {
		o.ThreadCounts = []int{1, 2, 4, 8}
	}
	sort.Ints(o.ThreadCounts)
	if o.Repetitions == 0 {
		o.Repetitions = 5
	}
	if o.FailureEscalationFraction == 0 {
		o.FailureEscalationFraction = 0.5
	}
	return o
}

// Failure describes one failed run, or a whole aborted instance sweep when
// RepetitionIndex is negative.
type Failure struct {
	InstanceID      string
	ThreadCount     int
	RepetitionIndex int
	Reason          string
}

// Summary reports the outcome of a session regardless of how many
// individual runs failed.
type Summary struct {
	Mode      models.Mode
	State     State
	Attempted int
	Succeeded int
	Failed    int
	Failures  []Failure
	Duration  time.Duration
	Host      *sysinfo.Snapshot
}

// Runner drives one experiment session. All session state (baselines,
// result log, seed bookkeeping) lives on the runner, so sessions are
// independently testable and re-runnable within one process.
type Runner struct {
	catalog *catalog.Catalog
	exec    sim.Executor
	opts    Options

	state     State
	log       *ResultLog
	baselines map[string]*baseline.Baseline
	completed int
	attempted int
	failures  []Failure
}

// New creates a session runner.
func New(cat *catalog.Catalog, exec sim.Executor, opts Options) *Runner {
	return &Runner{
		catalog:   cat,
		exec:      exec,
		opts:      opts.withDefaults(),
		state:     StateNotStarted,
		log:       NewResultLog(),
		baselines: make(map[string]*baseline.Baseline),
	}
}

// State returns the current session state.
func (r *Runner) State() State {
	return r.state
}

// Records returns a snapshot of the session's result log in append order.
func (r *Runner) Records() []models.OutputRecord {
	return r.log.Snapshot()
}

// Baseline returns the measured baseline for an instance, if any.
func (r *Runner) Baseline(instanceID string) (*baseline.Baseline, bool) {
	b, ok := r.baselines[instanceID]
	return b, ok
}

// CollectBaselines measures the serial reference times for every catalog
// instance. It must run before a time-budget sweep; an instance whose
// baseline measurement fails is recorded and skipped, the others continue.
func (r *Runner) CollectBaselines() error {
	if r.state != StateNotStarted {
		return fmt.Errorf("%w: baselines can only be collected before the sweep", ErrSessionFinished)
	}

	m := baseline.NewMeasurer(r.exec, r.opts.BaseSeed)
	for _, id := range r.catalog.AllIDs() {
		b, err := m.Measure(id, r.opts.IterationCap, r.opts.Repetitions)
		if err != nil {
			r.failures = append(r.failures, Failure{InstanceID: id, ThreadCount: 1, RepetitionIndex: -1, Reason: err.Error()})
			logger.Warn("baseline measurement failed", "instance", id, "error", err)
			continue
		}
		r.baselines[id] = b
		logger.Info("baseline collected", "instance", id, "mean_seconds", b.Mean(), "repetitions", b.Repetitions())
	}

	r.state = StateBaselineCollected
	return nil
}

// Run executes the full sweep and returns the session summary. On a fatal
// error the summary still covers everything flushed to the result log
// before the failure.
func (r *Runner) Run() (*Summary, error) {
	switch r.state {
	case StateRunning:
		return nil, fmt.Errorf("session is already running")
	case StateCompleted, StateFailed:
		return nil, ErrSessionFinished
	}

	start := time.Now()
	r.state = StateRunning
	logger.Info("sweep started", "mode", r.opts.Mode, "instances", r.catalog.Len(),
		"thread_counts", r.opts.ThreadCounts, "repetitions", r.opts.Repetitions)

	var fatal error
	for _, id := range r.catalog.AllIDs() {
		if err := r.runInstance(id); err != nil {
			if errors.Is(err, sim.ErrConfiguration) || errors.Is(err, ErrBaselineMissing) {
				// Aborts only this instance's sweep; others continue.
				r.failures = append(r.failures, Failure{InstanceID: id, RepetitionIndex: -1, Reason: err.Error()})
				logger.Warn("instance sweep aborted", "instance", id, "error", err)
				continue
			}
			fatal = err
			break
		}
	}

	summary := r.buildSummary(time.Since(start))
	if fatal != nil {
		r.state = StateFailed
		summary.State = StateFailed
		logger.Error("session failed", "error", fatal, "records_flushed", r.log.Len())
		return summary, fatal
	}

	r.state = StateCompleted
	summary.State = StateCompleted
	logger.Info("session completed", "attempted", summary.Attempted,
		"succeeded", summary.Succeeded, "failed", summary.Failed,
		"duration", summary.Duration)
	return summary, nil
}

func (r *Runner) runInstance(id string) error {
	inst, err := r.catalog.Lookup(id)
	if err != nil {
		return fmt.Errorf("%w: %v", sim.ErrConfiguration, err)
	}

	var budget float64
	if r.opts.Mode == models.ModeTimeBudget {
		b, ok := r.baselines[id]
		if !ok {
			return fmt.Errorf("%w: no baseline measured for %s", ErrBaselineMissing, id)
		}
		// Every thread count and repetition of this instance races
		// against the same ceiling: the instance's baseline mean.
		budget = b.Mean()
	}

	// Serial wall times collected during this sweep, keyed by the
	// repetition they came from. Pairing is by repetition index, never by
	// arrival order: a failed serial repetition leaves a hole, it does not
	// shift later samples.
	baselineWalls := make(map[int]float64, r.opts.Repetitions)

	for _, tc := range r.opts.ThreadCounts {
		failed := 0
		for rep := 0; rep < r.opts.Repetitions; rep++ {
			r.attempted++
			cfg := models.RunConfig{
				InstanceID:      id,
				ThreadCount:     tc,
				Mode:            r.opts.Mode,
				RepetitionIndex: rep,
				RandomSeed:      r.opts.BaseSeed + int64(rep) + int64(r.completed),
			}
			switch r.opts.Mode {
			case models.ModeTimeBudget:
				cfg.TimeBudgetSeconds = budget
				cfg.IterationCap = r.opts.IterationCap
			default:
				cfg.IterationCap = r.opts.IterationCap
			}

			res, err := r.exec.Execute(cfg)
			if err != nil {
				if errors.Is(err, sim.ErrConfiguration) {
					return err
				}
				failed++
				r.failures = append(r.failures, Failure{InstanceID: id, ThreadCount: tc, RepetitionIndex: rep, Reason: err.Error()})
				logger.Warn("run failed", "instance", id, "threads", tc, "repetition", rep, "error", err)
				if float64(failed) > r.opts.FailureEscalationFraction*float64(r.opts.Repetitions) {
					return fmt.Errorf("%w: %d of %d repetitions failed for %s at %d threads",
						ErrTooManyFailures, failed, r.opts.Repetitions, id, tc)
				}
				continue
			}
			r.completed++

			derived, err := r.derive(res, baselineWalls)
			if err != nil {
				return err
			}
			if tc == 1 {
				baselineWalls[rep] = res.WallTimeSeconds
			}

			r.log.Append(buildRecord(inst, res, derived))
			logger.Debug("run completed", "instance", id, "threads", tc, "repetition", rep,
				"wall_seconds", res.WallTimeSeconds, "speedup", derived.Speedup)
		}
	}
	return nil
}

// derive pairs a run with the serial baseline of the same repetition index.
// Serial runs are their own baseline: speedup and efficiency are 1.0 by
// definition. When the repetition's own serial sample is missing, the last
// available sample is reused and the metrics are flagged.
func (r *Runner) derive(res models.RunResult, baselineWalls map[int]float64) (models.DerivedMetrics, error) {
	ips := res.IterationsPerSecond()
	if res.Config.ThreadCount == 1 {
		return models.DerivedMetrics{Speedup: 1, Efficiency: 1, IterationsPerSecond: ips}, nil
	}

	if len(baselineWalls) == 0 {
		return models.DerivedMetrics{}, fmt.Errorf("%w: no serial sample to pair %s against",
			ErrBaselineMissing, res.Config.InstanceID)
	}

	wall, ok := baselineWalls[res.Config.RepetitionIndex]
	degraded := false
	if !ok {
		last := -1
		for rep := range baselineWalls {
			if rep > last {
				last = rep
			}
		}
		wall = baselineWalls[last]
		degraded = true
	}

	speedup := wall / res.WallTimeSeconds
	return models.DerivedMetrics{
		Speedup:             speedup,
		Efficiency:          speedup / float64(res.Config.ThreadCount),
		IterationsPerSecond: ips,
		DegradedPairing:     degraded,
	}, nil
}

func buildRecord(inst models.InstanceDescriptor, res models.RunResult, derived models.DerivedMetrics) models.OutputRecord {
	return models.OutputRecord{
		InstanceID:           inst.ID,
		ThreadCount:          res.Config.ThreadCount,
		RepetitionIndex:      res.Config.RepetitionIndex,
		Mode:                 res.Config.Mode,
		BoundValue:           res.Config.Bound(),
		WallTimeSeconds:      res.WallTimeSeconds,
		IterationsCompleted:  res.IterationsCompleted,
		ObjectiveValue:       res.ObjectiveValue,
		RatioToOptimal:       res.RatioToOptimal(inst.OptimalObjective),
		Speedup:              derived.Speedup,
		Efficiency:           derived.Efficiency,
		IterationsPerSecond:  derived.IterationsPerSecond,
		ConvergenceIteration: res.ConvergenceIteration,
		RandomSeed:           res.Config.RandomSeed,
		DegradedPairing:      derived.DegradedPairing,
	}
}

func (r *Runner) buildSummary(duration time.Duration) *Summary {
	failures := make([]Failure, len(r.failures))
	copy(failures, r.failures)
	return &Summary{
		Mode:      r.opts.Mode,
		Attempted: r.attempted,
		Succeeded: r.log.Len(),
		Failed:    len(failures),
		Failures:  failures,
		Duration:  duration,
		Host:      sysinfo.Collect(),
	}
}
