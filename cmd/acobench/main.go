package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aco-bench/experiment-core/internal/aggregate"
	"github.com/aco-bench/experiment-core/internal/catalog"
	"github.com/aco-bench/experiment-core/internal/experiment"
	"github.com/aco-bench/experiment-core/internal/export"
	"github.com/aco-bench/experiment-core/internal/sim"
	"github.com/aco-bench/experiment-core/pkg/config"
	"github.com/aco-bench/experiment-core/pkg/logger"
	"github.com/aco-bench/experiment-core/pkg/models"
)

func main() {
	var configPath string
	var outDir string
	var logLevel string

	flag.StringVar(&configPath, "config", "", "path to experiment YAML (empty for built-in defaults)")
	flag.StringVar(&outDir, "out", "results", "output directory for CSV files")
	flag.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg := config.DefaultExperiment()
	if configPath != "" {
		loaded, err := config.LoadExperiment(configPath)
		if err != nil {
			logger.Error("failed to load configuration", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stdout))

	if err := run(cfg, outDir); err != nil {
		logger.Error("experiment failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Experiment, outDir string) error {
	cat := catalog.Default()
	if len(cfg.Instances) > 0 {
		var err error
		cat, err = catalog.FromDescriptors(cfg.Instances)
		if err != nil {
			return fmt.Errorf("failed to build instance catalog: %w", err)
		}
	}

	model := sim.DefaultCostModel()
	if s := cfg.Simulator; s != nil {
		model = sim.CostModel{
			PerCityCostSeconds:  s.PerCityCostSeconds,
			SerialFraction:      s.SerialFraction,
			QualitySpread:       s.QualitySpread,
			MaxIterationCeiling: s.MaxIterationCeiling,
		}
	}

	runner := experiment.New(cat, sim.NewSimulator(cat, model), experiment.Options{
		Mode:                      models.Mode(cfg.Mode),
		ThreadCounts:              cfg.ThreadCounts,
		Repetitions:               cfg.Repetitions,
		IterationCap:              cfg.Iterations,
		BaseSeed:                  cfg.BaseSeed,
		FailureEscalationFraction: cfg.FailureEscalationFraction,
	})

	if models.Mode(cfg.Mode) == models.ModeTimeBudget {
		if err := runner.CollectBaselines(); err != nil {
			return err
		}
	}

	summary, err := runner.Run()
	if err != nil && !errors.Is(err, experiment.ErrTooManyFailures) {
		return err
	}
	sessionErr := err

	if summary.Host != nil {
		logger.Info("host environment", "platform", summary.Host.Platform,
			"cpu", summary.Host.CPUModel, "cores", summary.Host.LogicalCores,
			"ram_bytes", summary.Host.TotalRAMBytes)
	}
	for _, f := range summary.Failures {
		logger.Warn("recorded failure", "instance", f.InstanceID, "threads", f.ThreadCount,
			"repetition", f.RepetitionIndex, "reason", f.Reason)
	}

	// Flush whatever was measured even when the session escalated.
	records := runner.Records()
	if err := writeOutputs(outDir, records, cat.AllIDs()); err != nil {
		return err
	}

	logger.Info("results written", "dir", outDir, "records", len(records),
		"attempted", summary.Attempted, "failed", summary.Failed, "duration", summary.Duration)
	return sessionErr
}

func writeOutputs(outDir string, records []models.OutputRecord, instanceOrder []string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runsPath := filepath.Join(outDir, "runs.csv")
	runsFile, err := os.Create(runsPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", runsPath, err)
	}
	defer runsFile.Close()
	if err := export.WriteRecords(runsFile, records); err != nil {
		return err
	}

	stats, err := aggregate.Aggregate(records, instanceOrder)
	if err != nil {
		return err
	}

	summaryPath := filepath.Join(outDir, "summary.csv")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", summaryPath, err)
	}
	defer summaryFile.Close()
	return export.WriteAggregates(summaryFile, stats)
}
