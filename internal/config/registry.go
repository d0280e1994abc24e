package config

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed institutions.yaml
var institutionsYAML embed.FS

// Institution holds the search and scoring configuration for one school.
// Loaded once per pipeline run and passed read-only into the scraper and
// the relevance scorer; never mutated after load.
type Institution struct {
	Queries     []string `yaml:"queries"`
	Priority    []string `yaml:"priority"`
	Exclude     []string `yaml:"exclude"`
	ResultLimit int      `yaml:"result_limit,omitempty"`
	Engine      string   `yaml:"engine,omitempty"`
}

// Registry maps institution (school) names to their configuration.
type Registry struct {
	Institutions map[string]Institution `yaml:"institutions"`
}

// Lookup returns the configuration for a school. A school absent from the
// registry gets a zero-keyword configuration, not an error.
func (r *Registry) Lookup(school string) Institution {
	if r == nil {
		return Institution{}
	}
	return r.Institutions[school]
}

// LoadRegistry reads the embedded institutions.yaml and returns a Registry.
// A non-empty path overrides the embedded default with a file on disk.
func LoadRegistry(path string) (*Registry, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read institutions config %s: %w", path, err)
		}
	} else {
		data, err = institutionsYAML.ReadFile("institutions.yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded institutions config: %w", err)
		}
	}

	// Expand environment variables within the YAML content (e.g. ${API_KEY})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, fmt.Errorf("failed to parse institutions config: %w", err)
	}

	return &reg, nil
}
