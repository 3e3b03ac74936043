package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier receives every stage result as it is produced. Publishing is
// best-effort observability; a failing notifier never alters the run.
type Notifier interface {
	Publish(ctx context.Context, result StageResult) error
}

// Runner executes stages strictly in order against one workspace. The first
// fatal failure aborts the remaining sequence; best-effort failures are
// recorded and swallowed.
type Runner struct {
	ws       *Workspace
	stages   []Stage
	notifier Notifier
}

func NewRunner(ws *Workspace, stages []Stage, notifier Notifier) *Runner {
	return &Runner{
		ws:       ws,
		stages:   stages,
		notifier: notifier,
	}
}

// Run executes the configured stages sequentially. It returns every result
// produced before the run ended, and the first fatal stage error if any.
func (r *Runner) Run(ctx context.Context) ([]StageResult, error) {
	if err := r.ws.EnsureDirs(); err != nil {
		return nil, err
	}

	results := make([]StageResult, 0, len(r.stages))

	for _, stage := range r.stages {
		log.Info().Str("stage", stage.Name).Str("policy", string(stage.Policy)).Msg("stage started")

		started := time.Now()
		report, err := stage.Run(ctx, r.ws)

		result := StageResult{
			Stage:      stage.Name,
			Policy:     stage.Policy,
			Passed:     err == nil,
			Report:     report,
			StartedAt:  started.UTC(),
			DurationMs: time.Since(started).Milliseconds(),
			err:        err,
		}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)

		r.publish(ctx, result)

		switch {
		case err == nil:
			log.Info().Str("stage", stage.Name).Str("report", report).Msg("stage passed")

		case stage.Policy == BestEffort:
			log.Warn().Err(err).Str("stage", stage.Name).Str("report", report).Msg("stage failed, continuing")

		default:
			log.Error().Err(err).Str("stage", stage.Name).Str("report", report).Msg("stage failed, aborting")
			return results, err
		}
	}

	return results, nil
}

func (r *Runner) publish(ctx context.Context, result StageResult) {
	if r.notifier == nil {
		return
	}

	if err := r.notifier.Publish(ctx, result); err != nil {
		log.Warn().Err(err).Str("stage", result.Stage).Msg("unable to publish stage result")
	}
}
