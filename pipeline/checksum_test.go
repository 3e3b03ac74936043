package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndVerifySums(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), []byte("alpha"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.bin"), []byte("beta"), 0o644))

	out, err := WriteSums(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SumsFile), out)

	assert.NoError(t, VerifySums(dir))
}

func TestVerifySumsDetectsTampering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(path, []byte("alpha"), 0o644))

	_, err := WriteSums(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))

	err = VerifySums(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestWriteSumsExcludesItselfAndOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), []byte("alpha"), 0o644))

	_, err := WriteSums(dir)
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, SumsFile))
	require.NoError(t, err)

	// a second run must not hash the manifest into itself
	_, err = WriteSums(dir)
	require.NoError(t, err)

	second, err := os.ReadFile(filepath.Join(dir, SumsFile))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestHashFileStable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	a, err := HashFile(path)
	require.NoError(t, err)
	b, err := HashFile(path)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
