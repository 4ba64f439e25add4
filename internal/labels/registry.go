package labels

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Registry maps labels to the name of the first image trained under them.
type Registry struct {
	names map[int]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[int]string)}
}

// Register records name for label unless the label is already known or is
// the Unknown sentinel. Returns true if the name was recorded.
func (r *Registry) Register(label int, name string) bool {
	if label == Unknown {
		return false
	}
	if _, ok := r.names[label]; ok {
		return false
	}
	r.names[label] = name
	return true
}

// Lookup returns the registered name for label.
func (r *Registry) Lookup(label int) (string, bool) {
	name, ok := r.names[label]
	return name, ok
}

// Labels returns the registered labels in ascending order.
func (r *Registry) Labels() []int {
	out := make([]int, 0, len(r.names))
	for l := range r.names {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

func (r *Registry) Len() int {
	return len(r.names)
}

// Reset forgets every label.
func (r *Registry) Reset() {
	r.names = make(map[int]string)
}

// SidecarPath returns where the registry of the model at modelPath is kept.
func SidecarPath(modelPath string) string {
	return modelPath + ".labels.yaml"
}

// Metadata describes who wrote a registry file.
type Metadata struct {
	Algorithm string    `yaml:"algorithm"`
	Session   string    `yaml:"session"`
	SavedAt   time.Time `yaml:"saved_at"`
}

type registryFile struct {
	Metadata `yaml:",inline"`
	Labels   map[int]string `yaml:"labels"`
}

// SaveRegistry writes reg and meta as YAML to path.
func SaveRegistry(path string, reg *Registry, meta Metadata) error {
	data, err := yaml.Marshal(registryFile{Metadata: meta, Labels: reg.names})
	if err != nil {
		return fmt.Errorf("failed to marshal label registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write label registry: %w", err)
	}
	return nil
}

// LoadRegistry reads a registry written by SaveRegistry. A missing file is
// reported with an error wrapping os.ErrNotExist.
func LoadRegistry(path string) (*Registry, Metadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path derived from operator-supplied model path
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to read label registry: %w", err)
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to unmarshal label registry: %w", err)
	}

	reg := NewRegistry()
	for l, name := range f.Labels {
		if l == Unknown {
			return nil, Metadata{}, errors.New("label registry contains the unknown label")
		}
		reg.names[l] = name
	}
	return reg, f.Metadata, nil
}
