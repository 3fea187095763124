// Package catalog loads persona and event definitions, from the embedded
// seed set or from configured directories of YAML files.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthsaathi/strategist/internal/sim"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is a set of personas and events.
type Catalog struct {
	Personas []sim.Persona `yaml:"personas"`
	Events   []sim.Event   `yaml:"events"`
}

// Seed returns the embedded seed catalog.
func Seed() (*Catalog, error) {
	return Parse(seedYAML)
}

// Parse parses YAML bytes into a Catalog and validates the events.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for i := range c.Events {
		if err := c.Events[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog: %w", err)
		}
	}
	for _, p := range c.Personas {
		if p.ID == "" {
			return nil, fmt.Errorf("invalid catalog: persona missing id")
		}
	}
	return &c, nil
}

// LoadDir reads every .yaml/.yml file in dir as a catalog fragment and
// merges the results in filename order.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	merged := &Catalog{}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		frag, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		merged.Personas = append(merged.Personas, frag.Personas...)
		merged.Events = append(merged.Events, frag.Events...)
	}
	return merged, nil
}
