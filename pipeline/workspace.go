package pipeline

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/relgate-io/relgate/pkg"
)

// Workspace carries the configuration and per-run identity every stage
// invocation receives as an explicit parameter. There is no ambient state,
// so orchestrator tests can run in parallel against isolated temp trees.
type Workspace struct {
	Cfg   *pkg.Config
	RunID string
}

func NewWorkspace(cfg *pkg.Config) *Workspace {
	return &Workspace{
		Cfg:   cfg,
		RunID: uuid.NewString(),
	}
}

// EnsureDirs creates the disjoint output subdirectories the stages write to.
func (w *Workspace) EnsureDirs() error {
	dirs := []string{
		w.Cfg.ReportsDir(),
		w.Cfg.TestResultsDir(),
		w.Cfg.CoverageDir(),
		w.Cfg.DistDir(),
		w.Cfg.SiteDir(),
		w.Cfg.ReleaseDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory %s: %w", dir, err)
		}
	}

	return nil
}
