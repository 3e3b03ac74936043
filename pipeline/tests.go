package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relgate-io/relgate/exec"
)

// runTest executes the suite once, writing the structured per-event result
// stream. Tool diagnostics on stderr stay out of the structured file.
func runTest(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	results := filepath.Join(cfg.TestResultsDir(), "tests.json")

	f, err := os.Create(results)
	if err != nil {
		return "", fmt.Errorf("unable to create test result file: %w", err)
	}
	defer f.Close()

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Go,
		Args:    []string{"test", "-json", "./..."},
		Dir:     cfg.Source,
	}, exec.WithStdout(f))

	if res.Err != nil {
		return results, res.Err
	}
	if res.ExitCode != 0 {
		return results, wrapErr(ErrUnitTest, "%s test exited %d", cfg.Tools.Go, res.ExitCode)
	}

	return results, nil
}

// runCover re-executes the suite under instrumentation. It does not replace
// the plain test stage: instrumentation can shift timing-sensitive behavior,
// so both result artifacts are kept.
func runCover(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg

	profile, err := filepath.Abs(filepath.Join(cfg.CoverageDir(), "coverage.out"))
	if err != nil {
		return "", fmt.Errorf("unable to resolve coverage path: %w", err)
	}
	rendered, err := filepath.Abs(filepath.Join(cfg.CoverageDir(), "coverage.html"))
	if err != nil {
		return "", fmt.Errorf("unable to resolve coverage path: %w", err)
	}

	report := filepath.Join(cfg.ReportsDir(), "cover.txt")

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Go,
		Args:    []string{"test", "-coverprofile=" + profile, "./..."},
		Dir:     cfg.Source,
	}, exec.WithReport(report))

	if res.Err != nil {
		return report, res.Err
	}
	if res.ExitCode != 0 {
		return report, wrapErr(ErrCoverage, "instrumented tests exited %d", res.ExitCode)
	}

	res = exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Go,
		Args:    []string{"tool", "cover", "-html=" + profile, "-o", rendered},
		Dir:     cfg.Source,
	})

	if res.Err != nil {
		return report, res.Err
	}
	if res.ExitCode != 0 {
		return report, wrapErr(ErrCoverage, "report rendering exited %d", res.ExitCode)
	}

	return report, nil
}
