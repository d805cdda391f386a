// Package export writes measurement records and summary statistics as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aco-bench/experiment-core/pkg/models"
)

var recordHeader = []string{
	"instance_id",
	"thread_count",
	"repetition_index",
	"mode",
	"iteration_cap_or_budget",
	"wall_time_seconds",
	"iterations_completed",
	"objective_value",
	"ratio_to_optimal",
	"speedup",
	"efficiency",
	"iterations_per_second",
	"convergence_iteration",
	"random_seed",
	"degraded_pairing",
}

var aggregateHeader = []string{
	"instance_id",
	"thread_count",
	"sample_count",
	"ratio_to_optimal_mean",
	"ratio_to_optimal_std",
	"wall_time_seconds_mean",
	"wall_time_seconds_std",
	"speedup_mean",
	"speedup_std",
	"efficiency_mean",
	"efficiency_std",
	"iterations_completed_mean",
	"iterations_completed_std",
}

// WriteRecords writes one CSV row per measurement record, preceded by a
// header row. Rows keep the order of the input slice.
func WriteRecords(w io.Writer, records []models.OutputRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.InstanceID,
			strconv.Itoa(rec.ThreadCount),
			strconv.Itoa(rec.RepetitionIndex),
			string(rec.Mode),
			formatFloat(rec.BoundValue),
			formatFloat(rec.WallTimeSeconds),
			strconv.Itoa(rec.IterationsCompleted),
			formatFloat(rec.ObjectiveValue),
			formatFloat(rec.RatioToOptimal),
			formatFloat(rec.Speedup),
			formatFloat(rec.Efficiency),
			formatFloat(rec.IterationsPerSecond),
			strconv.Itoa(rec.ConvergenceIteration),
			strconv.FormatInt(rec.RandomSeed, 10),
			strconv.FormatBool(rec.DegradedPairing),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAggregates writes one CSV row per (instance, thread count) summary,
// preceded by a header row.
func WriteAggregates(w io.Writer, stats []models.AggregateStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(aggregateHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range stats {
		row := []string{
			s.InstanceID,
			strconv.Itoa(s.ThreadCount),
			strconv.Itoa(s.SampleCount),
			formatFloat(s.RatioToOptimal.Mean),
			formatFloat(s.RatioToOptimal.Std),
			formatFloat(s.WallTimeSeconds.Mean),
			formatFloat(s.WallTimeSeconds.Std),
			formatFloat(s.Speedup.Mean),
			formatFloat(s.Speedup.Std),
			formatFloat(s.Efficiency.Mean),
			formatFloat(s.Efficiency.Std),
			formatFloat(s.IterationsCompleted.Mean),
			formatFloat(s.IterationsCompleted.Std),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
