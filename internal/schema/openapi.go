package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/gravitrone/paramedit/internal/record"
)

// FromOpenAPI builds a Resource from a component schema of an OpenAPI 3
// document. Array properties whose items are objects get SubProperties.
// With an empty component name the document must define exactly one schema.
func FromOpenAPI(data []byte, component string) (*Resource, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, fmt.Errorf("openapi document has no component schemas")
	}

	if component == "" {
		if len(doc.Components.Schemas) != 1 {
			names := make([]string, 0, len(doc.Components.Schemas))
			for name := range doc.Components.Schemas {
				names = append(names, name)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("pick a component: %s", strings.Join(names, ", "))
		}
		for name := range doc.Components.Schemas {
			component = name
		}
	}

	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("component %q not found", component)
	}

	res := &Resource{
		Name:       component,
		Properties: propertiesFromSchema(ref.Value, 0),
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return res, nil
}

// maxSchemaDepth guards against self-referencing components.
const maxSchemaDepth = 8

func propertiesFromSchema(s *openapi3.Schema, depth int) []record.Property {
	if s == nil || depth > maxSchemaDepth {
		return nil
	}
	required := map[string]bool{}
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]record.Property, 0, len(names))
	for _, name := range names {
		ref := s.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		props = append(props, propertyFromSchema(name, ref.Value, required[name], depth))
	}
	return props
}

func propertyFromSchema(name string, s *openapi3.Schema, required bool, depth int) record.Property {
	p := record.Property{
		Name:       name,
		Label:      s.Title,
		Type:       schemaType(s),
		IsRequired: required,
	}
	switch p.Type {
	case openapi3.TypeArray:
		p.IsArray = true
		if s.Items != nil && s.Items.Value != nil {
			item := s.Items.Value
			p.Type = schemaType(item)
			if p.Type == openapi3.TypeObject {
				p.SubProperties = propertiesFromSchema(item, depth+1)
			}
		}
	case openapi3.TypeObject:
		p.SubProperties = propertiesFromSchema(s, depth+1)
	}
	return p
}

func schemaType(s *openapi3.Schema) string {
	if s.Type != nil && len(*s.Type) > 0 {
		return (*s.Type)[0]
	}
	if len(s.Properties) > 0 {
		return openapi3.TypeObject
	}
	return ""
}
