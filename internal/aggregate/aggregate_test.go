package aggregate

import (
	"errors"
	"math"
	"testing"

	"github.com/aco-bench/experiment-core/pkg/models"
)

func record(id string, tc, rep int, wall, speedup float64) models.OutputRecord {
	return models.OutputRecord{
		InstanceID:      id,
		ThreadCount:     tc,
		RepetitionIndex: rep,
		WallTimeSeconds: wall,
		Speedup:         speedup,
		Efficiency:      speedup / float64(tc),
		RatioToOptimal:  1.05,
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	stats, err := Aggregate(nil, []string{"eil51"})
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty output, got %d rows", len(stats))
	}
}

func TestAggregateGroupsAndStats(t *testing.T) {
	records := []models.OutputRecord{
		record("eil51", 1, 0, 0.50, 1.0),
		record("eil51", 1, 1, 0.52, 1.0),
		record("eil51", 4, 0, 0.150, 3.40),
		record("eil51", 4, 1, 0.154, 3.30),
	}

	stats, err := Aggregate(records, []string{"eil51"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}

	serial := stats[0]
	if serial.ThreadCount != 1 || serial.SampleCount != 2 {
		t.Errorf("unexpected serial row: %+v", serial)
	}
	if math.Abs(serial.WallTimeSeconds.Mean-0.51) > 1e-12 {
		t.Errorf("serial wall mean %f, expected 0.51", serial.WallTimeSeconds.Mean)
	}
	// Sample standard deviation of {0.50, 0.52}.
	if math.Abs(serial.WallTimeSeconds.Std-0.02/math.Sqrt2) > 1e-12 {
		t.Errorf("serial wall std %f, expected %f", serial.WallTimeSeconds.Std, 0.02/math.Sqrt2)
	}

	parallel := stats[1]
	if parallel.ThreadCount != 4 {
		t.Fatalf("expected second row at 4 threads, got %d", parallel.ThreadCount)
	}
	if math.Abs(parallel.Speedup.Mean-3.35) > 1e-12 {
		t.Errorf("parallel speedup mean %f, expected 3.35", parallel.Speedup.Mean)
	}
}

func TestAggregateSingleSampleHasZeroStd(t *testing.T) {
	stats, err := Aggregate([]models.OutputRecord{record("eil51", 1, 0, 0.51, 1.0)}, []string{"eil51"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if stats[0].WallTimeSeconds.Std != 0 {
		t.Errorf("single sample must have std 0, got %f", stats[0].WallTimeSeconds.Std)
	}
}

func TestAggregateRowOrder(t *testing.T) {
	records := []models.OutputRecord{
		record("kroA100", 8, 0, 0.2, 5.0),
		record("eil51", 4, 0, 0.15, 3.4),
		record("kroA100", 2, 0, 0.6, 1.8),
		record("eil51", 1, 0, 0.51, 1.0),
	}

	stats, err := Aggregate(records, []string{"eil51", "kroA100"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	type row struct {
		id string
		tc int
	}
	want := []row{{"eil51", 1}, {"eil51", 4}, {"kroA100", 2}, {"kroA100", 8}}
	if len(stats) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(stats))
	}
	for i, w := range want {
		if stats[i].InstanceID != w.id || stats[i].ThreadCount != w.tc {
			t.Errorf("row %d: got %s/%d, expected %s/%d",
				i, stats[i].InstanceID, stats[i].ThreadCount, w.id, w.tc)
		}
	}
}

func TestAggregateRejectsDuplicateRepetition(t *testing.T) {
	records := []models.OutputRecord{
		record("eil51", 4, 0, 0.15, 3.4),
		record("eil51", 4, 0, 0.16, 3.2),
	}
	if _, err := Aggregate(records, []string{"eil51"}); !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation for duplicate repetition, got %v", err)
	}
}

func TestAggregateRejectsUnknownInstance(t *testing.T) {
	records := []models.OutputRecord{record("gr666", 1, 0, 0.5, 1.0)}
	if _, err := Aggregate(records, []string{"eil51"}); !errors.Is(err, ErrAggregation) {
		t.Errorf("expected ErrAggregation for unknown instance, got %v", err)
	}
}
