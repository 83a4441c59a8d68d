// Package arrayfield edits one array-valued property inside a record's
// flattened params.
//
// The item list is never stored. It is derived from params on every call,
// so the flat map and the list view cannot drift apart. Each operation is a
// pure function returning new params; keys outside the property namespace
// are copied through untouched.
package arrayfield

import (
	"fmt"
	"strconv"

	"github.com/gravitrone/paramedit/internal/flat"
	"github.com/gravitrone/paramedit/internal/record"
)

// DeriveItems returns the ordered items stored under property.Name.
// A missing namespace, or one holding a non-array value, yields no items.
func DeriveItems(params record.Params, property record.Property) []any {
	value, ok := flat.Get(params, property.Name)
	if !ok {
		return []any{}
	}
	items, ok := value.([]any)
	if !ok {
		return []any{}
	}
	return items
}

// NewItem is the placeholder appended by Append: an empty object for
// composite items, an empty string otherwise.
func NewItem(property record.Property) any {
	if property.HasSubProperties() {
		return map[string]any{}
	}
	return ""
}

// Append adds one empty item at the end of the array.
func Append(params record.Params, property record.Property) record.Params {
	items := DeriveItems(params, property)
	items = append(items, NewItem(property))
	return UpdateArray(params, property.Name, items)
}

// RemoveAt removes the item at index; later items shift down by one.
// An out of range index returns an unchanged copy.
func RemoveAt(params record.Params, property record.Property, index int) record.Params {
	items := DeriveItems(params, property)
	if index < 0 || index >= len(items) {
		return params.Clone()
	}
	next := make([]any, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	return UpdateArray(params, property.Name, next)
}

// Move relocates the item at from to position to.
func Move(params record.Params, property record.Property, from, to int) record.Params {
	items := DeriveItems(params, property)
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return params.Clone()
	}
	item := items[from]
	next := make([]any, 0, len(items))
	next = append(next, items[:from]...)
	next = append(next, items[from+1:]...)
	next = append(next[:to], append([]any{item}, next[to:]...)...)
	return UpdateArray(params, property.Name, next)
}

// SetItem replaces the value of the item at index.
func SetItem(params record.Params, property record.Property, index int, value any) record.Params {
	items := DeriveItems(params, property)
	if index < 0 || index >= len(items) {
		return params.Clone()
	}
	items[index] = value
	return UpdateArray(params, property.Name, items)
}

// UpdateArray drops every key in the name namespace and writes the flattened
// items in their place. An empty list is stored as an empty array leaf.
func UpdateArray(params record.Params, name string, items []any) record.Params {
	out := record.Params(flat.Omit(params, name))
	if items == nil {
		items = []any{}
	}
	for key, value := range flat.Flatten(map[string]any{name: items}) {
		out[key] = value
	}
	return out
}

// ItemProperty is the descriptor handed to the per-item renderer.
// Storage is 0-based, the label is 1-based.
func ItemProperty(property record.Property, index int) record.Property {
	item := property
	item.Name = property.Name + flat.DefaultDelimiter + strconv.Itoa(index)
	item.Label = fmt.Sprintf("[%d]", index+1)
	item.IsArray = false
	return item
}

// --- Field ---

// Field binds an array property to a change callback. Each structural edit
// builds a new record and reports it exactly once.
type Field struct {
	Property record.Property
	OnChange func(record.Record)
}

// Items returns the current items of rec.
func (f Field) Items(rec record.Record) []any {
	return DeriveItems(rec.Params, f.Property)
}

// Add appends an empty item.
func (f Field) Add(rec record.Record) record.Record {
	return f.commit(rec, Append(rec.Params, f.Property))
}

// Remove deletes item i.
func (f Field) Remove(rec record.Record, i int) record.Record {
	return f.commit(rec, RemoveAt(rec.Params, f.Property, i))
}

// Move reorders item from to position to.
func (f Field) Move(rec record.Record, from, to int) record.Record {
	return f.commit(rec, Move(rec.Params, f.Property, from, to))
}

// Set replaces the value of item i.
func (f Field) Set(rec record.Record, i int, value any) record.Record {
	return f.commit(rec, SetItem(rec.Params, f.Property, i, value))
}

// Error returns the validation message recorded for the property.
func (f Field) Error(rec record.Record) (string, bool) {
	return rec.ErrorFor(f.Property.Name)
}

func (f Field) commit(rec record.Record, params record.Params) record.Record {
	next := rec.Clone()
	next.Params = params
	if f.OnChange != nil {
		f.OnChange(next)
	}
	return next
}
