package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPassesOnSilentTool(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Gofmt = stubTool(t, "exit 0")

	report, err := runFormat(context.Background(), ws)

	require.NoError(t, err)
	assert.FileExists(t, report)
}

func TestFormatViolationOnListedFiles(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Gofmt = stubTool(t, `printf 'a.go\nb.go\n'`)

	_, err := runFormat(context.Background(), ws)

	require.ErrorIs(t, err, ErrFormattingViolation)
	assert.Contains(t, err.Error(), "2 files")
}

func TestLintExitFailureIsPolicyViolation(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Lint = stubTool(t, `printf 'main.go:3:1: shadowed variable (govet)\n'; exit 1`)

	report, err := runLint(context.Background(), ws)

	require.ErrorIs(t, err, ErrLintPolicyViolation)
	assert.FileExists(t, report)
}

func TestLintThreshold(t *testing.T) {
	t.Parallel()

	script := `printf 'main.go:3:1: first (govet)\nmain.go:9:2: second (staticcheck)\n'; exit 0`

	cases := []struct {
		name      string
		maxIssues int
		wantErr   bool
	}{
		{"zero tolerance", 0, true},
		{"below threshold", 5, false},
		{"count check disabled", -1, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ws := testWorkspace(t)
			ws.Cfg.Tools.Lint = stubTool(t, script)
			ws.Cfg.Lint.MaxIssues = tc.maxIssues

			_, err := runLint(context.Background(), ws)

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrLintPolicyViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVetFailure(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Go = stubTool(t, "exit 2")

	_, err := runVet(context.Background(), ws)

	assert.ErrorIs(t, err, ErrTypeCheck)
}

func TestSecurityWritesBothReports(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Gosec = stubTool(t, `echo 'G101 hardcoded credential'; exit 1`)
	ws.Cfg.Tools.Govulncheck = stubTool(t, `echo 'no vulnerabilities found'; exit 0`)

	_, err := runSecurity(context.Background(), ws)

	require.ErrorIs(t, err, ErrSecurityFindings)
	assert.FileExists(t, filepath.Join(ws.Cfg.ReportsDir(), "gosec.txt"))
	assert.FileExists(t, filepath.Join(ws.Cfg.ReportsDir(), "govulncheck.txt"))
}

// Security findings must never change the pipeline outcome, whatever the
// scanners do.
func TestSecurityFailureNeverFatal(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Gosec = stubTool(t, "exit 1")
	ws.Cfg.Tools.Govulncheck = stubTool(t, "exit 1")

	stages, err := Select("sec")
	require.NoError(t, err)

	results, err := NewRunner(ws, stages, nil).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.ErrorIs(t, results[0].Err(), ErrSecurityFindings)
}

func TestBuildDescriptorMissing(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)

	_, err := runBuild(context.Background(), ws)

	require.ErrorIs(t, err, ErrBuildDescriptorMissing)

	entries, rerr := os.ReadDir(ws.Cfg.DistDir())
	require.NoError(t, rerr)
	assert.Empty(t, entries, "no distribution artifact may exist")
}
