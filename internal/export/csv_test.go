package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/aco-bench/experiment-core/pkg/models"
)

func TestWriteRecords(t *testing.T) {
	records := []models.OutputRecord{
		{
			InstanceID:           "eil51",
			ThreadCount:          4,
			RepetitionIndex:      2,
			Mode:                 models.ModeFixedIterations,
			BoundValue:           100,
			WallTimeSeconds:      0.150,
			IterationsCompleted:  100,
			ObjectiveValue:       447.3,
			RatioToOptimal:       1.05,
			Speedup:              3.4,
			Efficiency:           0.85,
			IterationsPerSecond:  666.666667,
			ConvergenceIteration: 61,
			RandomSeed:           44,
		},
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "instance_id" || rows[0][len(rows[0])-1] != "degraded_pairing" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if len(rows[1]) != len(rows[0]) {
		t.Fatalf("row width %d does not match header width %d", len(rows[1]), len(rows[0]))
	}

	row := rows[1]
	if row[0] != "eil51" || row[1] != "4" || row[2] != "2" || row[3] != "fixed_iterations" {
		t.Errorf("unexpected identity columns: %v", row[:4])
	}
	if row[9] != "3.400000" {
		t.Errorf("speedup column %q, expected 3.400000", row[9])
	}
	if row[14] != "false" {
		t.Errorf("degraded column %q, expected false", row[14])
	}
}

func TestWriteRecordsEmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestWriteAggregates(t *testing.T) {
	stats := []models.AggregateStat{
		{
			InstanceID:          "kroA100",
			ThreadCount:         8,
			SampleCount:         30,
			RatioToOptimal:      models.Stat{Mean: 1.04, Std: 0.01},
			WallTimeSeconds:     models.Stat{Mean: 0.2, Std: 0.003},
			Speedup:             models.Stat{Mean: 5.1, Std: 0.2},
			Efficiency:          models.Stat{Mean: 0.6375, Std: 0.025},
			IterationsCompleted: models.Stat{Mean: 100, Std: 0},
		},
	}

	var buf bytes.Buffer
	if err := WriteAggregates(&buf, stats); err != nil {
		t.Fatalf("WriteAggregates failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}

	row := rows[1]
	if row[0] != "kroA100" || row[1] != "8" || row[2] != "30" {
		t.Errorf("unexpected identity columns: %v", row[:3])
	}
	if row[7] != "5.100000" {
		t.Errorf("speedup mean column %q, expected 5.100000", row[7])
	}
}
