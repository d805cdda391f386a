// Package aggregate turns per-run measurement records into per-configuration
// summary statistics.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aco-bench/experiment-core/pkg/models"
	"github.com/aco-bench/experiment-core/pkg/utils"
)

// ErrAggregation marks input that cannot be summarized, such as duplicate
// or inconsistent records for the same configuration.
var ErrAggregation = errors.New("aggregation error")

type groupKey struct {
	instanceID  string
	threadCount int
}

type group struct {
	ratio      []float64
	wall       []float64
	speedup    []float64
	efficiency []float64
	iterations []float64
	seen       map[int]bool
}

// Aggregate groups records by (instance, thread count) and computes the mean
// and sample standard deviation of each measured and derived quantity. Output
// rows follow instanceOrder, thread counts ascending within an instance.
// Instances with no records produce no row; an empty input produces an empty
// result.
func Aggregate(records []models.OutputRecord, instanceOrder []string) ([]models.AggregateStat, error) {
	known := make(map[string]bool, len(instanceOrder))
	for _, id := range instanceOrder {
		known[id] = true
	}

	groups := make(map[groupKey]*group)
	for _, rec := range records {
		if !known[rec.InstanceID] {
			return nil, fmt.Errorf("%w: record for unknown instance %q", ErrAggregation, rec.InstanceID)
		}
		key := groupKey{rec.InstanceID, rec.ThreadCount}
		g := groups[key]
		if g == nil {
			g = &group{seen: make(map[int]bool)}
			groups[key] = g
		}
		if g.seen[rec.RepetitionIndex] {
			return nil, fmt.Errorf("%w: duplicate repetition %d for %s at %d threads",
				ErrAggregation, rec.RepetitionIndex, rec.InstanceID, rec.ThreadCount)
		}
		g.seen[rec.RepetitionIndex] = true

		g.ratio = append(g.ratio, rec.RatioToOptimal)
		g.wall = append(g.wall, rec.WallTimeSeconds)
		g.speedup = append(g.speedup, rec.Speedup)
		g.efficiency = append(g.efficiency, rec.Efficiency)
		g.iterations = append(g.iterations, float64(rec.IterationsCompleted))
	}

	stats := make([]models.AggregateStat, 0, len(groups))
	for _, id := range instanceOrder {
		threads := make([]int, 0, 8)
		for key := range groups {
			if key.instanceID == id {
				threads = append(threads, key.threadCount)
			}
		}
		sort.Ints(threads)

		for _, tc := range threads {
			g := groups[groupKey{id, tc}]
			stats = append(stats, models.AggregateStat{
				InstanceID:          id,
				ThreadCount:         tc,
				SampleCount:         len(g.ratio),
				RatioToOptimal:      stat(g.ratio),
				WallTimeSeconds:     stat(g.wall),
				Speedup:             stat(g.speedup),
				Efficiency:          stat(g.efficiency),
				IterationsCompleted: stat(g.iterations),
			})
		}
	}
	return stats, nil
}

func stat(values []float64) models.Stat {
	return models.Stat{
		Mean: utils.Mean(values),
		Std:  utils.StdDev(values),
	}
}
