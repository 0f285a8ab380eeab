package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"codeberg.org/halvar/luxaudit/internal/config"
	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/ingest"
	"codeberg.org/halvar/luxaudit/internal/lighting"
	"codeberg.org/halvar/luxaudit/internal/logger"
	"codeberg.org/halvar/luxaudit/internal/observe"
	"codeberg.org/halvar/luxaudit/internal/pid"
	"codeberg.org/halvar/luxaudit/internal/report"
	"codeberg.org/halvar/luxaudit/internal/results"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLogLevel(level)
		}
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if cfg.Input == "" {
		logger.Fatal().Msg("No input file configured, pass --input or set it in luxaudit.toml")
	}

	detector, err := lighting.New(cfg.DetectorConfig())
	if err != nil {
		fatal(err, "Invalid detection parameters")
	}

	recorder, err := results.NewService(resultsConfig(), logger.Default())
	if err != nil {
		fatal(err, "Failed to initialize verdict store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.Watch {
		err = watch(ctx, detector, recorder)
	} else {
		err = runOnce(ctx, detector, recorder)
	}
	if err != nil {
		logFailure(err, "Analysis failed")
	}

	if closeErr := recorder.Close(); closeErr != nil {
		logger.Error().Err(closeErr).Msg("Failed to close verdict store")
	}

	if err != nil {
		os.Exit(1)
	}
}

func resultsConfig() results.Config {
	resultsCfg := results.DefaultConfig()
	resultsCfg.Enabled = cfg.Results
	if cfg.Database != "" {
		resultsCfg.DBPath = cfg.Database
	}
	return resultsCfg
}

func runOnce(ctx context.Context, detector lighting.Detector, recorder results.Recorder) error {
	s, err := ingest.Load(cfg.Input, cfg.Format)
	if err != nil {
		observe.ObserveIngestError()
		return err
	}

	verdict, err := detector.Evaluate(s)
	if err != nil {
		return err
	}
	observe.ObserveAnalysis(verdict.Excessive)

	rep := report.New(filepath.Base(cfg.Input), verdict)

	logger.Info().
		Str("run_id", rep.RunID.String()).
		Int("night_samples", verdict.NightSamples).
		Int("on_samples", verdict.OnSamples).
		Bool("excessive", verdict.Excessive).
		Msg("Analysis complete")

	if err := recordVerdicts(ctx, recorder, rep); err != nil {
		return err
	}

	return writeReport(rep)
}

func recordVerdicts(ctx context.Context, recorder results.Recorder, rep report.Report) error {
	for _, night := range rep.Verdict.Nights {
		record := &results.VerdictRecord{
			RunID:      rep.RunID,
			RecordedAt: rep.GeneratedAt,
			Source:     rep.Source,
			Night:      night.Date,
			Samples:    night.Samples,
			OnSamples:  night.OnSamples,
			OnFraction: night.OnFraction,
			Excessive:  night.Excessive,
		}

		if err := recorder.Record(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

func writeReport(rep report.Report) error {
	errFactory := errors.New()

	if cfg.Report == "" {
		return rep.Render(cfg.ReportFormat, os.Stdout)
	}

	f, err := os.Create(cfg.Report)
	if err != nil {
		return errFactory.Wrap(errors.ErrRenderReport, err)
	}
	defer f.Close()

	if err := rep.Render(cfg.ReportFormat, f); err != nil {
		return err
	}

	logger.Info().Str("path", cfg.Report).Msg("Report written")
	return nil
}

func watch(ctx context.Context, detector lighting.Detector, recorder results.Recorder) error {
	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	observe.Init()
	if cfg.MetricsListen != "" {
		go observe.Serve(ctx, cfg.MetricsListen, logger.Default())
	}

	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().
		Str("input", cfg.Input).
		Dur("interval", interval).
		Msg("Watch mode activated")

	// A failed run is logged and counted, the watcher keeps going.
	if err := runOnce(ctx, detector, recorder); err != nil {
		logFailure(err, "Analysis run failed")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := runOnce(ctx, detector, recorder); err != nil {
				logFailure(err, "Analysis run failed")
			}
		}
	}
}

func logFailure(err error, msg string) {
	var coded errors.Error
	if errors.As(err, &coded) {
		logger.ErrorWithCode(coded).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}

func fatal(err error, msg string) {
	var coded errors.Error
	if errors.As(err, &coded) {
		logger.FatalWithCode(coded).Msg(msg)
		return
	}
	logger.Fatal().Err(err).Msg(msg)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
