// Package pkg holds the orchestrator configuration shared by every command.
package pkg

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type (
	Config struct {
		// Name is the artifact base name embedded in archives and manifests.
		Name string `mapstructure:"name"`

		// Source is the root of the tree the quality gates run against.
		Source string `mapstructure:"source"`

		// Output is the root every stage writes under; stages use disjoint
		// subdirectories so no locking discipline is needed.
		Output string `mapstructure:"output"`

		Tools ToolsConfig `mapstructure:"tools"`
		Lint  LintConfig  `mapstructure:"lint"`
		Smoke SmokeConfig `mapstructure:"smoke"`
		Nats  NatsConfig  `mapstructure:"nats"`
	}

	ToolsConfig struct {
		Go          string `mapstructure:"go"`
		Gofmt       string `mapstructure:"gofmt"`
		Lint        string `mapstructure:"lint"`
		Gosec       string `mapstructure:"gosec"`
		Govulncheck string `mapstructure:"govulncheck"`
	}

	LintConfig struct {
		// MaxIssues is the policy threshold: more reported issues than this
		// is a lint policy violation even when the tool exits zero. A value
		// of -1 disables the count check and trusts the exit code alone.
		MaxIssues int `mapstructure:"max-issues"`
	}

	SmokeConfig struct {
		Isolation string `mapstructure:"isolation"`
		Image     string `mapstructure:"image"`
		FromEnv   bool   `mapstructure:"from-env"`
		Url       string `mapstructure:"url"`
	}

	NatsConfig struct {
		Url     string `mapstructure:"url"`
		Jwt     string `mapstructure:"jwt"`
		Seed    string `mapstructure:"seed"`
		Subject string `mapstructure:"subject"`
	}
)

// SetDefaults registers the documented default for every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("name", "primes")
	v.SetDefault("source", ".")
	v.SetDefault("output", "build")
	v.SetDefault("tools.go", "go")
	v.SetDefault("tools.gofmt", "gofmt")
	v.SetDefault("tools.lint", "golangci-lint")
	v.SetDefault("tools.gosec", "gosec")
	v.SetDefault("tools.govulncheck", "govulncheck")
	v.SetDefault("lint.max-issues", 0)
	v.SetDefault("smoke.isolation", "process")
	v.SetDefault("smoke.image", "")
	v.SetDefault("smoke.from-env", true)
	v.SetDefault("smoke.url", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.jwt", "")
	v.SetDefault("nats.seed", "")
	v.SetDefault("nats.subject", "relgate")
}

// FromViper materializes the configuration from v, defaults included.
func FromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal configuration: %w", err)
	}

	return &cfg, nil
}

// Output subdirectories. Each stage owns exactly one of them.

func (c *Config) ReportsDir() string     { return filepath.Join(c.Output, "reports") }
func (c *Config) TestResultsDir() string { return filepath.Join(c.Output, "test-results") }
func (c *Config) CoverageDir() string    { return filepath.Join(c.Output, "coverage") }
func (c *Config) DistDir() string        { return filepath.Join(c.Output, "dist") }
func (c *Config) SiteDir() string        { return filepath.Join(c.Output, "site") }
func (c *Config) ReleaseDir() string     { return filepath.Join(c.Output, "release") }

// Binary is the path the build stage writes the compiled artifact to.
func (c *Config) Binary() string {
	return filepath.Join(c.DistDir(), c.Name)
}
