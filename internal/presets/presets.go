package presets

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/RMahshie/lissajous/internal/curve"
)

//go:embed presets.yaml
var builtinPresets []byte

// Preset is a named parameter set
type Preset struct {
	Name        string           `yaml:"name" json:"name" doc:"Preset name"`
	Description string           `yaml:"description" json:"description,omitempty" doc:"Short description"`
	Parameters  curve.Parameters `yaml:"parameters" json:"parameters" doc:"Curve parameters"`
	User        bool             `yaml:"-" json:"user" doc:"Whether the preset comes from the user presets file"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog holds presets by name
type Catalog struct {
	byName map[string]Preset
}

// Default returns the catalog of built-in presets
func Default() *Catalog {
	c := &Catalog{byName: make(map[string]Preset)}
	// The embedded file is covered by tests, so a decode failure is a build defect
	if err := c.add(builtinPresets, false); err != nil {
		panic(fmt.Sprintf("presets: invalid built-in presets: %v", err))
	}
	return c
}

// Load returns the built-in presets extended by the YAML file at path.
// User presets replace built-in presets with the same name. An empty path
// yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	if err := c.add(data, true); err != nil {
		return nil, fmt.Errorf("failed to load presets from %s: %w", path, err)
	}
	return c, nil
}

// Get returns the preset with the given name
func (c *Catalog) Get(name string) (Preset, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// List returns all presets sorted by name
func (c *Catalog) List() []Preset {
	list := make([]Preset, 0, len(c.byName))
	for _, p := range c.byName {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (c *Catalog) add(data []byte, user bool) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f presetFile
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("failed to decode presets: %w", err)
	}
	for _, p := range f.Presets {
		if p.Name == "" {
			return fmt.Errorf("preset without a name")
		}
		if err := p.Parameters.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
		p.User = user
		c.byName[p.Name] = p
	}
	return nil
}
