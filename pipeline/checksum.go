package pipeline

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SumsFile is the checksum manifest name written next to distribution
// artifacts, in the `sha256sum` two-space format.
const SumsFile = "SHA256SUMS"

// HashFile returns the hex-encoded SHA-256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("unable to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteSums hashes every regular file under dir (except the manifest
// itself) and overwrites dir/SHA256SUMS with the sorted result.
func WriteSums(dir string) (string, error) {
	var lines []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == SumsFile {
			return nil
		}

		sum, err := HashFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Strings(lines)

	out := filepath.Join(dir, SumsFile)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("unable to write %s: %w", out, err)
	}

	return out, nil
}

// VerifySums recomputes every digest listed in dir/SHA256SUMS and returns
// an error on the first mismatch or missing file.
func VerifySums(dir string) error {
	f, err := os.Open(filepath.Join(dir, SumsFile))
	if err != nil {
		return fmt.Errorf("unable to open checksum manifest: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		sum, name, found := strings.Cut(line, "  ")
		if !found {
			return fmt.Errorf("malformed checksum line %q", line)
		}

		actual, err := HashFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		if actual != sum {
			return fmt.Errorf("checksum mismatch for %s", name)
		}
	}

	return scanner.Err()
}
