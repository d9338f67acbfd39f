package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/movingsphere/internal/application/replay"
	"github.com/younwookim/movingsphere/internal/application/sandbox"
	"github.com/younwookim/movingsphere/internal/application/system"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
	"github.com/younwookim/movingsphere/internal/telemetry"
)

// simulate runs a recorded session headless and returns one sample per
// step. When trace is not nil the samples are also written to it as CSV.
func simulate(cfg *config.GameConfig, stageCfg *config.StageConfig, r *replay.Replayer, trace io.Writer) ([]telemetry.Sample, error) {
	stage, err := system.LoadStage(stageCfg, cfg.Entities, cfg.Physics)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage: %w", err)
	}
	sb, err := sandbox.New(cfg.Physics, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox: %w", err)
	}

	inputSystem := system.NewInputSystem(cfg.Physics)
	dt := r.FixedStep(cfg.Physics.Physics.FixedStep)

	samples := make([]telemetry.Sample, 0, r.TotalFrames())
	for {
		input, ok := r.GetInput()
		if !ok {
			break
		}
		ctx := sb.Tick(dt, inputSystem.Intent(input))
		step := sb.Steps()
		samples = append(samples, telemetry.NewSample(step, float64(step)*dt, ctx, sb.Agent().Position()))
	}

	if trace != nil {
		if err := telemetry.NewWriter(trace).Write(samples...); err != nil {
			return nil, fmt.Errorf("failed to write trace: %w", err)
		}
	}
	return samples, nil
}

// createTrace opens the CSV trace file of a replay.
var createTrace = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// replayFile replays a recording against the stage it was recorded on,
// optionally writing a CSV trace, and logs a summary of the run. A trace
// that fails to close is reported as an error.
func replayFile(cfg *config.GameConfig, loader *config.Loader, path, tracePath string) (summary telemetry.Summary, err error) {
	data, err := replay.LoadReplay(path)
	if err != nil {
		return telemetry.Summary{}, err
	}
	r := replay.NewReplayer(*data)

	stageName := r.Stage()
	if stageName == "" {
		stageName = defaultStage
	}
	stageCfg, err := loader.LoadStage(stageName)
	if err != nil {
		return telemetry.Summary{}, err
	}

	var trace io.Writer
	if tracePath != "" {
		f, createErr := createTrace(tracePath)
		if createErr != nil {
			return telemetry.Summary{}, fmt.Errorf("failed to create trace: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close trace: %w", closeErr)
			}
		}()
		trace = f
	}

	samples, err := simulate(cfg, stageCfg, r, trace)
	if err != nil {
		return telemetry.Summary{}, fmt.Errorf("failed to replay %s: %w", path, err)
	}

	summary = telemetry.Summarize(samples)
	entry := logrus.WithFields(summary.Fields()).WithFields(logrus.Fields{
		"replay": path,
		"stage":  stageName,
	})
	if tracePath != "" {
		entry = entry.WithField("trace", tracePath)
	}
	entry.Info("replay finished")
	return summary, nil
}
