package ui

import (
	"encoding/json"
	"fmt"

	"github.com/gravitrone/paramedit/internal/flat"
	"github.com/gravitrone/paramedit/internal/record"
)

// ItemRenderer turns one array item into display cells. item is the
// synthesized descriptor from arrayfield.ItemProperty, so item.Name is the
// flat path of the element inside rec.Params.
type ItemRenderer interface {
	RenderItem(item record.Property, rec record.Record) []string
}

// ItemRendererFunc adapts a plain function to ItemRenderer.
type ItemRendererFunc func(item record.Property, rec record.Record) []string

// RenderItem calls f.
func (f ItemRendererFunc) RenderItem(item record.Property, rec record.Record) []string {
	return f(item, rec)
}

// DefaultItemRenderer prints a scalar item as one cell and a composite item
// as one "sub: value" cell per sub-property.
type DefaultItemRenderer struct{}

// RenderItem implements ItemRenderer.
func (DefaultItemRenderer) RenderItem(item record.Property, rec record.Record) []string {
	if !item.HasSubProperties() {
		value, _ := flat.Get(rec.Params, item.Name)
		return []string{formatValue(value)}
	}
	cells := make([]string, 0, len(item.SubProperties))
	for _, sub := range item.SubProperties {
		value, _ := flat.Get(rec.Params, item.Name+flat.DefaultDelimiter+sub.Name)
		cells = append(cells, sub.DisplayLabel()+": "+formatValue(value))
	}
	return cells
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
