package exec

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSmokeImage = "alpine:3.19"

	sandboxMount = "smoke"
	runLabel     = "relgate_run_id"
)

// DockerSandbox runs the smoke probe inside a single-use container. The
// container carries a run-id label and is force-removed on Close, pass or
// fail, so repeated runs never accumulate throwaway containers.
type DockerSandbox struct {
	image string
	runID string

	clientOpts []client.Opt
	dc         client.APIClient

	containerID string
}

func NewDockerSandbox(cfg SandboxConfig) (*DockerSandbox, error) {
	s := &DockerSandbox{
		image: cfg.Image,
		runID: cfg.RunID,
		clientOpts: []client.Opt{
			client.WithAPIVersionNegotiation(),
		},
	}

	if s.image == "" {
		s.image = DefaultSmokeImage
	}

	if cfg.FromEnv {
		s.clientOpts = append(s.clientOpts, client.FromEnv)
	} else if cfg.Url != "" {
		s.clientOpts = append(s.clientOpts, client.WithHost(cfg.Url))
	}

	dc, err := client.NewClientWithOpts(s.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create docker client: %w", err)
	}
	s.dc = dc

	return s, nil
}

func (s *DockerSandbox) Run(ctx context.Context, binary string, args ...string) (*Result, error) {
	if out, err := s.dc.ImagePull(ctx, s.image, image.PullOptions{}); err != nil {
		// a locally present image is still usable
		log.Warn().Err(err).Str("image", s.image).Msg("unable to pull smoke image")
	} else {
		_, _ = io.Copy(io.Discard, out)
		_ = out.Close()
	}

	name := filepath.Base(binary)
	cmd := append([]string{"/" + sandboxMount + "/" + name}, args...)

	resp, err := s.dc.ContainerCreate(ctx, &container.Config{
		Image:      s.image,
		Cmd:        cmd,
		WorkingDir: "/" + sandboxMount,
		Labels: map[string]string{
			runLabel: s.runID,
		},
	}, nil, nil, nil, "relgate-smoke-"+s.runID)
	if err != nil {
		return nil, fmt.Errorf("unable to create smoke container: %w", err)
	}
	s.containerID = resp.ID

	archive, err := tarBinary(binary, name)
	if err != nil {
		return nil, err
	}

	if err := s.dc.CopyToContainer(ctx, s.containerID, "/", archive, types.CopyToContainerOptions{}); err != nil {
		return nil, fmt.Errorf("unable to install artifact into smoke container: %w", err)
	}

	if err := s.dc.ContainerStart(ctx, s.containerID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("unable to start smoke container: %w", err)
	}

	var exitCode int
	waitCh, errCh := s.dc.ContainerWait(ctx, s.containerID, container.WaitConditionNotRunning)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, fmt.Errorf("unable to wait for smoke container: %w", err)
	case status := <-waitCh:
		exitCode = int(status.StatusCode)
	}

	logs, err := s.dc.ContainerLogs(ctx, s.containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read smoke container logs: %w", err)
	}
	defer logs.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil {
		return nil, fmt.Errorf("unable to demultiplex smoke container logs: %w", err)
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

func (s *DockerSandbox) Close(ctx context.Context) error {
	if s.containerID == "" {
		return nil
	}

	if err := s.dc.ContainerRemove(ctx, s.containerID, container.RemoveOptions{Force: true}); err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return fmt.Errorf("unable to remove smoke container: %w", err)
	}

	return nil
}

// tarBinary wraps the artifact in the archive layout CopyToContainer
// extracts at the container root.
func tarBinary(path, name string) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read artifact: %w", err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	if err := tw.WriteHeader(&tar.Header{
		Name:     sandboxMount + "/",
		Mode:     0o755,
		Typeflag: tar.TypeDir,
	}); err != nil {
		return nil, fmt.Errorf("unable to write sandbox directory header: %w", err)
	}

	if err := tw.WriteHeader(&tar.Header{
		Name: sandboxMount + "/" + name,
		Mode: 0o755,
		Size: int64(len(data)),
	}); err != nil {
		return nil, fmt.Errorf("unable to write artifact header: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return nil, fmt.Errorf("unable to write artifact payload: %w", err)
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("unable to finalize artifact archive: %w", err)
	}

	return &buf, nil
}
