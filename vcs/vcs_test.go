package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository, plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("payload"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add("f.txt")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir, repo, hash
}

func TestDescribeOutsideRepository(t *testing.T) {
	meta := Describe(t.TempDir())

	assert.Equal(t, FallbackVersion, meta.Version)
	assert.Equal(t, FallbackCommit, meta.Commit)
}

func TestDescribeUntaggedRepository(t *testing.T) {
	dir, _, hash := initRepo(t)

	meta := Describe(dir)

	assert.Equal(t, FallbackVersion, meta.Version)
	assert.Equal(t, hash.String()[:shortHashLen], meta.Commit)
}

func TestDescribePicksHighestSemverTag(t *testing.T) {
	dir, repo, hash := initRepo(t)

	for _, tag := range []string{"v0.2.0", "v0.10.1", "v0.9.9"} {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}

	meta := Describe(dir)

	assert.Equal(t, "0.10.1", meta.Version)
	assert.Equal(t, hash.String()[:shortHashLen], meta.Commit)
}

func TestDescribeAcceptsTagsWithoutPrefix(t *testing.T) {
	dir, repo, hash := initRepo(t)

	_, err := repo.CreateTag("1.2.3", hash, nil)
	require.NoError(t, err)

	meta := Describe(dir)
	assert.Equal(t, "1.2.3", meta.Version)
}

func TestDescribeIgnoresNonSemverTags(t *testing.T) {
	dir, repo, hash := initRepo(t)

	for _, tag := range []string{"release-candidate", "v0.3.0"} {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}

	meta := Describe(dir)
	assert.Equal(t, "0.3.0", meta.Version)
}
