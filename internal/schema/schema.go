package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/paramedit/internal/record"
)

// Resource is the set of property descriptors for one record type.
type Resource struct {
	Name       string            `yaml:"name"`
	Properties []record.Property `yaml:"properties"`
}

// Property looks up a top-level property by name.
func (r Resource) Property(name string) (record.Property, bool) {
	for _, p := range r.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return record.Property{}, false
}

// ArrayProperties returns the properties edited as arrays.
func (r Resource) ArrayProperties() []record.Property {
	var out []record.Property
	for _, p := range r.Properties {
		if p.IsArray {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks names are present and unique at each level.
func (r Resource) Validate() error {
	return validateProperties(r.Properties, "")
}

func validateProperties(props []record.Property, parent string) error {
	seen := map[string]struct{}{}
	for i, p := range props {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("property %d under %q: name is empty", i, parent)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate property %q under %q", name, parent)
		}
		seen[name] = struct{}{}
		if err := validateProperties(p.SubProperties, name); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a resource definition. Files that look like OpenAPI documents
// are read through FromOpenAPI using component.
func Load(path, component string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if isOpenAPI(data) {
		return FromOpenAPI(data, component)
	}
	res, err := ParseResource(data)
	if err != nil {
		return nil, err
	}
	if res.Name == "" {
		res.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return res, nil
}

// ParseResource parses a YAML resource definition.
func ParseResource(data []byte) (*Resource, error) {
	var res Resource
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &res, nil
}

func isOpenAPI(data []byte) bool {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.OpenAPI != ""
}
