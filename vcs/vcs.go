// Package vcs derives release metadata (version, commit) from the git state
// of a source tree. Lookups degrade to fixed placeholder values when the
// tree is not a repository or carries no tags; they are never fatal, so
// packaging always succeeds.
package vcs

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/mod/semver"
)

const (
	// FallbackVersion is embedded when no semver tag is reachable.
	FallbackVersion = "0.0.0"

	// FallbackCommit is embedded when no commit hash is available.
	FallbackCommit = "dev"

	shortHashLen = 7
)

// Metadata identifies the source state a release was packaged from.
type Metadata struct {
	Version string
	Commit  string
}

// Describe resolves the version and commit for the tree at dir. It never
// returns an error: anything unavailable is replaced by its placeholder.
func Describe(dir string) Metadata {
	meta := Metadata{
		Version: FallbackVersion,
		Commit:  FallbackCommit,
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("no repository metadata, using placeholders")
		return meta
	}

	if head, err := repo.Head(); err == nil {
		hash := head.Hash().String()
		if len(hash) >= shortHashLen {
			meta.Commit = hash[:shortHashLen]
		}
	} else {
		log.Debug().Err(err).Msg("unable to resolve HEAD")
	}

	if v := latestTag(repo); v != "" {
		meta.Version = v
	}

	return meta
}

// latestTag returns the highest semver tag in the repository, without the
// leading "v", or empty when none exists.
func latestTag(repo *git.Repository) string {
	tags, err := repo.Tags()
	if err != nil {
		log.Debug().Err(err).Msg("unable to list tags")
		return ""
	}
	defer tags.Close()

	best := ""
	for {
		ref, err := tags.Next()
		if err != nil {
			break
		}

		name := ref.Name().Short()
		candidate := name
		if !strings.HasPrefix(candidate, "v") {
			candidate = "v" + candidate
		}

		if !semver.IsValid(candidate) {
			continue
		}
		if best == "" || semver.Compare(candidate, best) > 0 {
			best = candidate
		}
	}

	return strings.TrimPrefix(best, "v")
}
