package pipeline

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/relgate-io/relgate/vcs"
)

// BuildRelease assembles the versioned, checksummed release archive from
// the outputs the gate sequence left behind. It is only called after every
// fatal stage passed; no partial archive ever exists. Missing VCS metadata
// degrades to placeholder values and is never fatal.
func BuildRelease(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg

	meta := vcs.Describe(cfg.Source)
	log.Info().Str("version", meta.Version).Str("commit", meta.Commit).Msg("packaging release")

	name := fmt.Sprintf("%s-%s+%s.tar.gz", cfg.Name, sanitizeRef(meta.Version), sanitizeRef(meta.Commit))
	archive := filepath.Join(cfg.ReleaseDir(), name)

	files, err := collectBundle(cfg.Output)
	if err != nil {
		return "", err
	}

	manifest := Manifest{
		Name:      cfg.Name,
		Version:   meta.Version,
		Commit:    meta.Commit,
		BuiltAt:   time.Now().UTC(),
		Toolchain: runtime.Version(),
		RunID:     ws.RunID,
		Files:     files,
	}

	if err := writeArchive(archive, cfg.Output, manifest); err != nil {
		_ = os.Remove(archive)
		return "", err
	}

	sum, err := HashFile(archive)
	if err != nil {
		return "", err
	}

	sumFile := archive + ".sha256"
	line := fmt.Sprintf("%s  %s\n", sum, name)
	if err := os.WriteFile(sumFile, []byte(line), 0o644); err != nil {
		return "", fmt.Errorf("unable to write archive checksum: %w", err)
	}

	log.Info().Str("archive", archive).Str("checksum", sumFile).Msg("release artifact written")
	return archive, nil
}

// bundleDirs are the output subtrees bundled into the release archive.
var bundleDirs = []string{"dist", "reports", "test-results", "coverage", "site"}

func collectBundle(output string) ([]string, error) {
	var files []string

	for _, dir := range bundleDirs {
		root := filepath.Join(output, dir)

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipDir
			}
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, dir+"/"+filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("unable to collect %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func writeArchive(dest, output string, manifest Manifest) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unable to create archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	data, err := manifest.Marshal()
	if err != nil {
		return err
	}
	if err := addBytes(tw, ManifestFile, data); err != nil {
		return err
	}

	for _, dir := range bundleDirs {
		if _, err := addTree(tw, filepath.Join(output, dir), dir); err != nil {
			return fmt.Errorf("unable to bundle %s: %w", dir, err)
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
