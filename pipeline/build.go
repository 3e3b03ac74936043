package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relgate-io/relgate/exec"
)

// buildDescriptor is the file whose presence makes a source tree buildable.
const buildDescriptor = "go.mod"

// runBuild produces the binary and source distribution artifacts and the
// checksum manifest covering them. A tree without a build descriptor fails
// before anything is produced.
func runBuild(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	report := filepath.Join(cfg.ReportsDir(), "build.txt")

	if _, err := os.Stat(filepath.Join(cfg.Source, buildDescriptor)); err != nil {
		return "", wrapErr(ErrBuildDescriptorMissing, "%s not found in %s", buildDescriptor, cfg.Source)
	}

	binary, err := filepath.Abs(cfg.Binary())
	if err != nil {
		return "", fmt.Errorf("unable to resolve artifact path: %w", err)
	}

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Go,
		Args:    []string{"build", "-o", binary, "."},
		Dir:     cfg.Source,
	}, exec.WithReport(report))

	if res.Err != nil {
		return report, res.Err
	}
	if res.ExitCode != 0 {
		return report, wrapErr(ErrBuildFailed, "%s build exited %d", cfg.Tools.Go, res.ExitCode)
	}

	srcArchive := filepath.Join(cfg.DistDir(), cfg.Name+"-src.tar.gz")
	if err := writeSourceArchive(cfg.Source, srcArchive, cfg.Output); err != nil {
		return report, fmt.Errorf("unable to archive source tree: %w", err)
	}

	if _, err := WriteSums(cfg.DistDir()); err != nil {
		return report, fmt.Errorf("unable to write checksum manifest: %w", err)
	}

	return report, nil
}
