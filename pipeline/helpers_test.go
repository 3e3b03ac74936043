package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relgate-io/relgate/pkg"
)

// testWorkspace builds an isolated workspace rooted in temp directories so
// orchestrator tests can run in parallel.
func testWorkspace(t *testing.T) *Workspace {
	t.Helper()

	cfg := &pkg.Config{
		Name:   "demo",
		Source: t.TempDir(),
		Output: filepath.Join(t.TempDir(), "build"),
		Tools: pkg.ToolsConfig{
			Go:          "go",
			Gofmt:       "gofmt",
			Lint:        "golangci-lint",
			Gosec:       "gosec",
			Govulncheck: "govulncheck",
		},
	}

	ws := NewWorkspace(cfg)
	require.NoError(t, ws.EnsureDirs())
	return ws
}

// stubTool writes an executable shell script standing in for an external
// tool and returns its path.
func stubTool(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

type recordingNotifier struct {
	results []StageResult
	err     error
}

func (n *recordingNotifier) Publish(_ context.Context, result StageResult) error {
	n.results = append(n.results, result)
	return n.err
}
