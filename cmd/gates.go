package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/relgate-io/relgate/notify"
	"github.com/relgate-io/relgate/pipeline"
)

var stageShorts = map[string]string{
	"fmt":   "check source formatting (fatal)",
	"lint":  "run the linter against the policy threshold (fatal)",
	"vet":   "run static type analysis (fatal)",
	"sec":   "run both security scanners (best-effort)",
	"build": "build the distribution artifacts and checksum manifest (fatal)",
	"smoke": "install and probe the built artifact in an ephemeral sandbox (fatal)",
	"test":  "run the unit test suite (fatal)",
	"cover": "re-run tests under coverage instrumentation (fatal)",
	"docs":  "render the documentation site (fatal)",
}

// stageDeps lists the stages that must run before a stage when it is
// invoked on its own.
var stageDeps = map[string][]string{
	"smoke": {"build"},
}

func init() {
	for _, stage := range pipeline.Stages() {
		rootCmd.AddCommand(newStageCommand(stage))
	}
}

func newStageCommand(stage pipeline.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   stage.Name,
		Short: stageShorts[stage.Name],
		RunE: func(cmd *cobra.Command, args []string) error {
			names := append(stageDeps[stage.Name], stage.Name)
			_, err := runStages(cmd.Context(), names...)
			return err
		},
	}
}

// runStages wires a workspace, notifier, and runner for the named stages
// and executes them in canonical order.
func runStages(ctx context.Context, names ...string) (*pipeline.Workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	stages, err := pipeline.Select(names...)
	if err != nil {
		return nil, err
	}

	notifier, err := notify.New(cfg.Nats)
	if err != nil {
		return nil, err
	}

	ws := pipeline.NewWorkspace(cfg)
	_, err = pipeline.NewRunner(ws, stages, notifier).Run(ctx)
	return ws, err
}
