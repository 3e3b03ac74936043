package pipeline

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/relgate-io/relgate/exec"
)

// lintIssue matches one issue line of the linter's text output
// (file.go:line:col: message).
var lintIssue = regexp.MustCompile(`(?m)^\S+\.go:\d+:\d+:`)

// runFormat checks formatting without touching the tree. The formatter
// exits zero even when files deviate, so the violation signal is its
// stdout listing.
func runFormat(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	report := filepath.Join(cfg.ReportsDir(), "fmt.txt")

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Gofmt,
		Args:    []string{"-l", "."},
		Dir:     cfg.Source,
	}, exec.WithReport(report))

	if res.Err != nil {
		return report, res.Err
	}
	if res.ExitCode != 0 {
		return report, wrapErr(ErrFormattingViolation, "%s exited %d", cfg.Tools.Gofmt, res.ExitCode)
	}

	if listed := strings.TrimSpace(res.Stdout); listed != "" {
		files := strings.Split(listed, "\n")
		return report, wrapErr(ErrFormattingViolation, "%d files need formatting", len(files))
	}

	return report, nil
}

func runLint(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	report := filepath.Join(cfg.ReportsDir(), "lint.txt")

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Lint,
		Args:    []string{"run", "./..."},
		Dir:     cfg.Source,
	}, exec.WithReport(report))

	if res.Err != nil {
		return report, res.Err
	}

	issues := len(lintIssue.FindAllString(res.Stdout, -1))

	if res.ExitCode != 0 {
		return report, wrapErr(ErrLintPolicyViolation, "%d issues reported", issues)
	}
	if cfg.Lint.MaxIssues >= 0 && issues > cfg.Lint.MaxIssues {
		return report, wrapErr(ErrLintPolicyViolation, "%d issues exceed threshold %d", issues, cfg.Lint.MaxIssues)
	}

	return report, nil
}

func runVet(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	report := filepath.Join(cfg.ReportsDir(), "vet.txt")

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Go,
		Args:    []string{"vet", "./..."},
		Dir:     cfg.Source,
	}, exec.WithReport(report))

	if res.Err != nil {
		return report, res.Err
	}
	if res.ExitCode != 0 {
		return report, wrapErr(ErrTypeCheck, "%s vet exited %d", cfg.Tools.Go, res.ExitCode)
	}

	return report, nil
}

// runSecurity runs both scanners unconditionally: a static code scan and a
// dependency vulnerability scan. Reports are always written; findings are
// surfaced through the best-effort result and never abort the run.
func runSecurity(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg

	scanners := []struct {
		name    string
		program string
		args    []string
		report  string
	}{
		{"gosec", cfg.Tools.Gosec, []string{"./..."}, filepath.Join(cfg.ReportsDir(), "gosec.txt")},
		{"govulncheck", cfg.Tools.Govulncheck, []string{"./..."}, filepath.Join(cfg.ReportsDir(), "govulncheck.txt")},
	}

	var failed []string
	for _, sc := range scanners {
		res := exec.Run(ctx, exec.Command{
			Program: sc.program,
			Args:    sc.args,
			Dir:     cfg.Source,
		}, exec.WithReport(sc.report))

		if !res.Ok() {
			log.Warn().Str("scanner", sc.name).Str("report", sc.report).Msg("scanner reported findings")
			failed = append(failed, sc.name)
		}
	}

	if len(failed) > 0 {
		return cfg.ReportsDir(), wrapErr(ErrSecurityFindings, "%s", strings.Join(failed, ", "))
	}

	return cfg.ReportsDir(), nil
}
