package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/relgate-io/relgate/exec"
)

// runSmoke installs the freshly built binary into an ephemeral isolated
// environment, asks it for its version, and verifies the answer is
// readable. The environment is torn down unconditionally so repeated runs
// never leak sandboxes.
func runSmoke(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	report := filepath.Join(cfg.ReportsDir(), "smoke.txt")

	binary, err := filepath.Abs(cfg.Binary())
	if err != nil {
		return "", fmt.Errorf("unable to resolve artifact path: %w", err)
	}
	if _, err := os.Stat(binary); err != nil {
		return "", wrapErr(ErrSmokeTest, "artifact %s missing, run the build stage first", binary)
	}

	sandbox, err := exec.NewSandbox(exec.SandboxConfig{
		Isolation: cfg.Smoke.Isolation,
		FromEnv:   cfg.Smoke.FromEnv,
		Url:       cfg.Smoke.Url,
		Image:     cfg.Smoke.Image,
		RunID:     ws.RunID,
	})
	if err != nil {
		return "", wrapErr(ErrSmokeTest, "unable to create sandbox: %v", err)
	}
	defer func() {
		if err := sandbox.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("unable to tear down smoke sandbox")
		}
	}()

	res, err := sandbox.Run(ctx, binary, "version")
	if err != nil {
		return "", wrapErr(ErrSmokeTest, "%v", err)
	}

	output := res.Stdout + res.Stderr
	if werr := os.WriteFile(report, []byte(output), 0o644); werr != nil {
		return "", fmt.Errorf("unable to write smoke report: %w", werr)
	}

	if !res.Ok() {
		return report, wrapErr(ErrSmokeTest, "probe exited %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return report, wrapErr(ErrSmokeTest, "version attribute not readable")
	}

	return report, nil
}
