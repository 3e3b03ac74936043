// Package pipeline sequences the quality gates and assembles the release
// artifact. Stages are declared as an ordered list of descriptors; adding
// or reordering a stage is a data change, not a control-flow change.
package pipeline

import (
	"context"
	"time"
)

type (
	// Policy decides what a stage failure does to the rest of the run.
	Policy string

	// Stage is one quality gate or build step. Run returns the path of the
	// report artifact it wrote (may be empty) and the stage outcome.
	Stage struct {
		Name   string
		Policy Policy
		Run    RunFunc
	}

	RunFunc func(ctx context.Context, ws *Workspace) (string, error)

	// StageResult is the immutable record of one stage execution.
	StageResult struct {
		Stage      string    `json:"stage"`
		Policy     Policy    `json:"policy"`
		Passed     bool      `json:"passed"`
		Report     string    `json:"report,omitempty"`
		Error      string    `json:"error,omitempty"`
		StartedAt  time.Time `json:"started_at"`
		DurationMs int64     `json:"duration_ms"`

		err error
	}
)

const (
	// Fatal stages abort the remaining sequence on failure.
	Fatal Policy = "fatal"

	// BestEffort stages have their failure recorded and swallowed.
	BestEffort Policy = "best-effort"
)

// Err returns the underlying stage error, nil when the stage passed.
func (r StageResult) Err() error {
	return r.err
}

// Stages returns the canonical gate sequence in execution order. Cheap
// fast-feedback checks come first so a broken tree fails before the
// expensive build, test, and docs work starts.
func Stages() []Stage {
	return []Stage{
		{Name: "fmt", Policy: Fatal, Run: runFormat},
		{Name: "lint", Policy: Fatal, Run: runLint},
		{Name: "vet", Policy: Fatal, Run: runVet},
		{Name: "sec", Policy: BestEffort, Run: runSecurity},
		{Name: "build", Policy: Fatal, Run: runBuild},
		{Name: "smoke", Policy: Fatal, Run: runSmoke},
		{Name: "test", Policy: Fatal, Run: runTest},
		{Name: "cover", Policy: Fatal, Run: runCover},
		{Name: "docs", Policy: Fatal, Run: runDocs},
	}
}

// Select returns the canonical stages matching names, preserving canonical
// order regardless of the order names are given in.
func Select(names ...string) ([]Stage, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Stage
	for _, s := range Stages() {
		if wanted[s.Name] {
			out = append(out, s)
			delete(wanted, s.Name)
		}
	}

	for n := range wanted {
		return nil, wrapErr(errUnknownStage, "%q", n)
	}

	return out, nil
}
