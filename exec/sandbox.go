package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	ProcessIsolation = "process"
	DockerIsolation  = "docker"
)

type (
	// SandboxConfig selects and configures the smoke-test isolation backend.
	SandboxConfig struct {
		Isolation string
		FromEnv   bool
		Url       string
		Image     string
		RunID     string
	}

	// Sandbox is an ephemeral, isolated environment a built artifact is
	// installed into and executed in. Close tears the environment down and
	// must be called whether or not Run succeeded.
	Sandbox interface {
		Run(ctx context.Context, binary string, args ...string) (*Result, error)
		Close(ctx context.Context) error
	}
)

// NewSandbox creates the sandbox backend named by cfg.Isolation.
func NewSandbox(cfg SandboxConfig) (Sandbox, error) {
	switch cfg.Isolation {
	case "", ProcessIsolation:
		return NewProcessSandbox()
	case DockerIsolation:
		return NewDockerSandbox(cfg)
	default:
		return nil, fmt.Errorf("unknown sandbox isolation %q", cfg.Isolation)
	}
}

// ProcessSandbox installs the artifact into a throwaway temp directory and
// runs it as an ordinary child process.
type ProcessSandbox struct {
	dir string
}

func NewProcessSandbox() (*ProcessSandbox, error) {
	dir, err := os.MkdirTemp("", "relgate-smoke-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create sandbox directory: %w", err)
	}

	return &ProcessSandbox{dir: dir}, nil
}

// Dir returns the sandbox directory. It no longer exists after Close.
func (s *ProcessSandbox) Dir() string {
	return s.dir
}

func (s *ProcessSandbox) Run(ctx context.Context, binary string, args ...string) (*Result, error) {
	installed, err := s.install(binary)
	if err != nil {
		return nil, err
	}

	result := Run(ctx, Command{
		Program: installed,
		Args:    args,
		Dir:     s.dir,
	})
	return result, nil
}

func (s *ProcessSandbox) install(binary string) (string, error) {
	src, err := os.Open(binary)
	if err != nil {
		return "", fmt.Errorf("unable to open artifact: %w", err)
	}
	defer src.Close()

	target := filepath.Join(s.dir, filepath.Base(binary))
	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return "", fmt.Errorf("unable to install artifact into sandbox: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("unable to copy artifact into sandbox: %w", err)
	}

	return target, nil
}

func (s *ProcessSandbox) Close(ctx context.Context) error {
	return os.RemoveAll(s.dir)
}
