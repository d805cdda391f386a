package models

// Mode selects the stop condition that controls a run.
type Mode string

const (
	// ModeFixedIterations stops a run after a fixed iteration count.
	ModeFixedIterations Mode = "fixed_iterations"
	// ModeTimeBudget stops a run when a wall-clock ceiling is reached.
	ModeTimeBudget Mode = "time_budget"
)

// InstanceDescriptor describes a benchmark problem instance with a known
// optimal objective value. Descriptors are immutable after registration.
type InstanceDescriptor struct {
	ID               string  `yaml:"id" json:"id"`
	CityCount        int     `yaml:"cities" json:"city_count"`
	OptimalObjective float64 `yaml:"optimal" json:"optimal_objective"`
}

// RunConfig fully determines a single measurement. Exactly one of
// IterationCap/TimeBudgetSeconds is the controlling stop condition,
// selected by Mode; in time-budget mode a positive IterationCap acts
// only as an upper iteration ceiling.
type RunConfig struct {
	InstanceID        string  `json:"instance_id"`
	ThreadCount       int     `json:"thread_count"`
	Mode              Mode    `json:"mode"`
	IterationCap      int     `json:"iteration_cap,omitempty"`
	TimeBudgetSeconds float64 `json:"time_budget_seconds,omitempty"`
	RepetitionIndex   int     `json:"repetition_index"`
	RandomSeed        int64   `json:"random_seed"`
}

// Bound returns the value of the controlling stop condition: the iteration
// cap in fixed-iterations mode, the budget in seconds in time-budget mode.
func (c RunConfig) Bound() float64 {
	if c.Mode == ModeTimeBudget {
		return c.TimeBudgetSeconds
	}
	return float64(c.IterationCap)
}

// RunResult is one completed measurement. Immutable after creation.
type RunResult struct {
	Config               RunConfig `json:"config"`
	WallTimeSeconds      float64   `json:"wall_time_seconds"`
	IterationsCompleted  int       `json:"iterations_completed"`
	ObjectiveValue       float64   `json:"objective_value"`
	ConvergenceIteration int       `json:"convergence_iteration"`
}

// RatioToOptimal is derived on demand so it can never go stale relative
// to the instance's optimal objective.
func (r RunResult) RatioToOptimal(optimalObjective float64) float64 {
	if optimalObjective <= 0 {
		return 0
	}
	return r.ObjectiveValue / optimalObjective
}

// IterationsPerSecond is the run's iteration throughput.
func (r RunResult) IterationsPerSecond() float64 {
	if r.WallTimeSeconds <= 0 {
		return 0
	}
	return float64(r.IterationsCompleted) / r.WallTimeSeconds
}

// DerivedMetrics compares a run against the serial baseline of the same
// instance and repetition index. DegradedPairing marks metrics whose own
// baseline sample was missing, so the last available sample was reused.
type DerivedMetrics struct {
	Speedup             float64 `json:"speedup"`
	Efficiency          float64 `json:"efficiency"`
	IterationsPerSecond float64 `json:"iterations_per_second"`
	DegradedPairing     bool    `json:"degraded_pairing,omitempty"`
}

// Stat is a mean/standard-deviation pair for one aggregated quantity.
type Stat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// AggregateStat summarizes all runs of one (instance, thread count) group.
// Recomputed fresh from the full result set; never mutated in place.
type AggregateStat struct {
	InstanceID          string `json:"instance_id"`
	ThreadCount         int    `json:"thread_count"`
	SampleCount         int    `json:"sample_count"`
	RatioToOptimal      Stat   `json:"ratio_to_optimal"`
	WallTimeSeconds     Stat   `json:"wall_time_seconds"`
	Speedup             Stat   `json:"speedup"`
	Efficiency          Stat   `json:"efficiency"`
	IterationsCompleted Stat   `json:"iterations_completed"`
}

// OutputRecord is the flat per-run row handed to downstream reporting.
// Field names and types are stable across sessions; downstream consumers
// key on InstanceID and ThreadCount by exact match.
type OutputRecord struct {
	InstanceID           string  `json:"instance_id"`
	ThreadCount          int     `json:"thread_count"`
	RepetitionIndex      int     `json:"repetition_index"`
	Mode                 Mode    `json:"mode"`
	BoundValue           float64 `json:"iteration_cap_or_budget"`
	WallTimeSeconds      float64 `json:"wall_time_seconds"`
	IterationsCompleted  int     `json:"iterations_completed"`
	ObjectiveValue       float64 `json:"objective_value"`
	RatioToOptimal       float64 `json:"ratio_to_optimal"`
	Speedup              float64 `json:"speedup"`
	Efficiency           float64 `json:"efficiency"`
	IterationsPerSecond  float64 `json:"iterations_per_second"`
	ConvergenceIteration int     `json:"convergence_iteration"`
	RandomSeed           int64   `json:"random_seed"`
	DegradedPairing      bool    `json:"degraded_pairing,omitempty"`
}
