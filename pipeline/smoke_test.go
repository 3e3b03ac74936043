package pipeline

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installFakeArtifact(t *testing.T, ws *Workspace, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(ws.Cfg.Binary(), []byte("#!/bin/sh\n"+script+"\n"), 0o755))
}

func TestSmokePassesOnReadableVersion(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	installFakeArtifact(t, ws, `echo "0.1.0"`)

	report, err := runSmoke(context.Background(), ws)

	require.NoError(t, err)
	assert.FileExists(t, report)
}

func TestSmokeFailsOnUnreadableVersion(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	installFakeArtifact(t, ws, "exit 0")

	_, err := runSmoke(context.Background(), ws)

	assert.ErrorIs(t, err, ErrSmokeTest)
}

func TestSmokeFailsOnProbeExit(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)
	installFakeArtifact(t, ws, "exit 9")

	_, err := runSmoke(context.Background(), ws)

	assert.ErrorIs(t, err, ErrSmokeTest)
}

func TestSmokeFailsWithoutArtifact(t *testing.T) {
	t.Parallel()

	ws := testWorkspace(t)

	_, err := runSmoke(context.Background(), ws)

	assert.ErrorIs(t, err, ErrSmokeTest)
}
