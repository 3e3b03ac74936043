package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/relgate-io/relgate/exec"
)

// runDocs renders the documentation into the static site directory: the
// generated API text plus a copy of the hand-written sources under docs/.
func runDocs(ctx context.Context, ws *Workspace) (string, error) {
	cfg := ws.Cfg
	api := filepath.Join(cfg.SiteDir(), "api.txt")

	f, err := os.Create(api)
	if err != nil {
		return "", fmt.Errorf("unable to create api document: %w", err)
	}
	defer f.Close()

	res := exec.Run(ctx, exec.Command{
		Program: cfg.Tools.Go,
		Args:    []string{"doc", "-all", "."},
		Dir:     cfg.Source,
	}, exec.WithStdout(f))

	if res.Err != nil {
		return api, res.Err
	}
	if res.ExitCode != 0 {
		return api, wrapErr(ErrDocsBuild, "%s doc exited %d", cfg.Tools.Go, res.ExitCode)
	}

	if err := copyDocSources(filepath.Join(cfg.Source, "docs"), cfg.SiteDir()); err != nil {
		return api, wrapErr(ErrDocsBuild, "%v", err)
	}

	return api, nil
}

func copyDocSources(src, dst string) error {
	entries, err := os.ReadDir(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to read documentation sources: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("unable to copy %s: %w", src, err)
	}

	return nil
}
