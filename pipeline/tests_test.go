package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitTestStageWritesStructuredResults(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Go = stubTool(t, `printf '{"Action":"pass","Package":"demo"}\n'`)

	report, err := runTest(context.Background(), ws)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Cfg.TestResultsDir(), "tests.json"), report)
	assert.FileExists(t, report)
}

func TestUnitTestStageFailure(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Go = stubTool(t, "exit 1")

	_, err := runTest(context.Background(), ws)

	assert.ErrorIs(t, err, ErrUnitTest)
}

func TestCoverStageWritesBothReports(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	seedBuildableTree(t, ws)

	report, err := runCover(context.Background(), ws)

	require.NoError(t, err)
	assert.FileExists(t, report)
	assert.FileExists(t, filepath.Join(ws.Cfg.CoverageDir(), "coverage.out"))
	assert.FileExists(t, filepath.Join(ws.Cfg.CoverageDir(), "coverage.html"))
}

func TestCoverStageFailure(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	ws.Cfg.Tools.Go = stubTool(t, "exit 1")

	_, err := runCover(context.Background(), ws)

	assert.ErrorIs(t, err, ErrCoverage)
}
