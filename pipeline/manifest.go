package pipeline

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the traceability record inside the release
// archive.
const ManifestFile = "manifest.yaml"

// Manifest records where a release artifact came from: the tree version,
// the commit it was built at, when, and with which toolchain.
type Manifest struct {
	Name      string    `yaml:"name"`
	Version   string    `yaml:"version"`
	Commit    string    `yaml:"commit"`
	BuiltAt   time.Time `yaml:"built_at"`
	Toolchain string    `yaml:"toolchain"`
	RunID     string    `yaml:"run_id"`
	Files     []string  `yaml:"files"`
}

func (m Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal manifest: %w", err)
	}
	return data, nil
}

// ParseManifest decodes a manifest read back out of an archive.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("unable to parse manifest: %w", err)
	}
	return m, nil
}
