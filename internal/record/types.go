package record

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gravitrone/paramedit/internal/flat"
)

// --- Params ---

// Params maps flattened path keys ("tags.0", "profile.name") to scalar
// values. Empty maps and slices are allowed as leaves; they stand for a
// composite item or array that has no keys yet.
type Params map[string]any

// Clone returns a copy that shares no mutable state with p.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return Params(flat.Clone(p))
}

// --- Record ---

// Record is the editable entity. Every edit produces a new Record value.
type Record struct {
	ID     string            `json:"id" yaml:"id" toml:"id" msgpack:"id"`
	Title  string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty" msgpack:"title,omitempty"`
	Params Params            `json:"params" yaml:"params" toml:"params" msgpack:"params"`
	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty" toml:"errors,omitempty" msgpack:"errors,omitempty"`
}

// New creates an empty record with a fresh ID.
func New(title string) Record {
	return Record{
		ID:     uuid.New().String(),
		Title:  strings.TrimSpace(title),
		Params: Params{},
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Params = r.Params.Clone()
	if r.Errors != nil {
		out.Errors = make(map[string]string, len(r.Errors))
		for k, v := range r.Errors {
			out.Errors[k] = v
		}
	}
	return out
}

// ErrorFor returns the validation message for a property, if any.
func (r Record) ErrorFor(name string) (string, bool) {
	if r.Errors == nil {
		return "", false
	}
	msg, ok := r.Errors[name]
	if !ok || strings.TrimSpace(msg) == "" {
		return "", false
	}
	return msg, true
}

// --- Property ---

// Property describes one named field of a record.
type Property struct {
	Name          string     `json:"name" yaml:"name"`
	Label         string     `json:"label,omitempty" yaml:"label,omitempty"`
	Type          string     `json:"type,omitempty" yaml:"type,omitempty"`
	IsArray       bool       `json:"is_array,omitempty" yaml:"is_array,omitempty"`
	IsRequired    bool       `json:"is_required,omitempty" yaml:"is_required,omitempty"`
	SubProperties []Property `json:"sub_properties,omitempty" yaml:"sub_properties,omitempty"`
}

// HasSubProperties reports whether array items are structured objects.
func (p Property) HasSubProperties() bool {
	return len(p.SubProperties) > 0
}

// DisplayLabel returns Label, falling back to Name.
func (p Property) DisplayLabel() string {
	if strings.TrimSpace(p.Label) != "" {
		return p.Label
	}
	return p.Name
}
