package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/paramedit/internal/record"
)

var tagsProperty = record.Property{Name: "tags", Label: "Tags", IsArray: true}

var linksProperty = record.Property{
	Name:    "links",
	Label:   "Links",
	IsArray: true,
	SubProperties: []record.Property{
		{Name: "url"},
		{Name: "title"},
	},
}

func typeText(ed *ArrayEditor, rec record.Record, text string) record.Record {
	for _, r := range text {
		rec, _ = ed.HandleKey(runeKey(r), rec)
	}
	return rec
}

func openEditor(property record.Property, confirm bool) (*ArrayEditor, *[]record.Record) {
	ed := NewArrayEditor(nil, confirm, false)
	var changes []record.Record
	ed.Open(property, func(r record.Record) { changes = append(changes, r) })
	return &ed, &changes
}

func TestArrayEditorOpenActivates(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	assert.True(t, ed.Active)
	assert.Equal(t, "tags", ed.Field.Property.Name)
	assert.False(t, ed.Busy())
}

func TestArrayEditorAddAppendsAndSelects(t *testing.T) {
	ed, changes := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a", "title": "t"}}

	next, done := ed.HandleKey(runeKey('a'), rec)
	assert.False(t, done)
	assert.Equal(t, record.Params{"tags.0": "a", "tags.1": "", "title": "t"}, next.Params)
	assert.Equal(t, 1, ed.Selected())
	require.Len(t, *changes, 1)
	assert.Equal(t, next.Params, (*changes)[0].Params)

	// The input record is untouched.
	assert.Equal(t, record.Params{"tags.0": "a", "title": "t"}, rec.Params)
}

func TestArrayEditorAddCompositeOnEmpty(t *testing.T) {
	ed, _ := openEditor(linksProperty, true)
	rec := record.Record{Params: record.Params{}}

	next, _ := ed.HandleKey(runeKey('+'), rec)
	assert.Equal(t, record.Params{"links.0": map[string]any{}}, next.Params)
}

func TestArrayEditorRemoveAsksForConfirmation(t *testing.T) {
	ed, changes := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a", "tags.1": "b", "tags.2": "c"}}

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, rec)
	rec, _ = ed.HandleKey(runeKey('d'), rec)
	assert.True(t, ed.Busy())
	assert.Contains(t, ed.Render(rec, 100), "Remove [2] from Tags?")

	// Deny keeps the item.
	rec, _ = ed.HandleKey(runeKey('n'), rec)
	assert.False(t, ed.Busy())
	assert.Len(t, rec.Params, 3)
	assert.Empty(t, *changes)

	rec, _ = ed.HandleKey(runeKey('d'), rec)
	rec, _ = ed.HandleKey(runeKey('y'), rec)
	assert.Equal(t, record.Params{"tags.0": "a", "tags.1": "c"}, rec.Params)
	assert.Len(t, *changes, 1)
	assert.Equal(t, 1, ed.Selected())
}

func TestArrayEditorRemoveWithoutConfirmation(t *testing.T) {
	ed, _ := openEditor(tagsProperty, false)
	rec := record.Record{Params: record.Params{"tags.0": "a"}}

	rec, _ = ed.HandleKey(runeKey('-'), rec)
	assert.Equal(t, record.Params{"tags": []any{}}, rec.Params)
	assert.Equal(t, 0, ed.Selected())

	// Removing from an empty list does nothing.
	again, _ := ed.HandleKey(runeKey('d'), rec)
	assert.Equal(t, rec.Params, again.Params)
	assert.False(t, ed.Busy())
}

func TestArrayEditorMoveItems(t *testing.T) {
	ed, _ := openEditor(tagsProperty, false)
	rec := record.Record{Params: record.Params{"tags.0": "a", "tags.1": "b", "tags.2": "c"}}

	rec, _ = ed.HandleKey(runeKey('J'), rec)
	assert.Equal(t, record.Params{"tags.0": "b", "tags.1": "a", "tags.2": "c"}, rec.Params)
	assert.Equal(t, 1, ed.Selected())

	rec, _ = ed.HandleKey(runeKey('K'), rec)
	assert.Equal(t, record.Params{"tags.0": "a", "tags.1": "b", "tags.2": "c"}, rec.Params)
	assert.Equal(t, 0, ed.Selected())

	// Moving past the top is a no-op.
	same, _ := ed.HandleKey(runeKey('K'), rec)
	assert.Equal(t, rec.Params, same.Params)
}

func TestArrayEditorVimNavigation(t *testing.T) {
	ed := NewArrayEditor(nil, false, true)
	ed.Open(tagsProperty, nil)
	rec := record.Record{Params: record.Params{"tags.0": "a", "tags.1": "b"}}

	ed.HandleKey(runeKey('j'), rec)
	assert.Equal(t, 1, ed.Selected())
	ed.HandleKey(runeKey('k'), rec)
	assert.Equal(t, 0, ed.Selected())
}

func TestArrayEditorEditScalarItem(t *testing.T) {
	ed, changes := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a"}}

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	require.True(t, ed.Busy())
	assert.Contains(t, ed.Render(rec, 100), "Tags [1]")

	// Editing keys go to the input, not the list.
	rec = typeText(ed, rec, "bd")
	assert.Empty(t, *changes)

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	assert.False(t, ed.Busy())
	assert.Equal(t, record.Params{"tags.0": "abd"}, rec.Params)
	assert.Len(t, *changes, 1)
}

func TestArrayEditorEditCancel(t *testing.T) {
	ed, changes := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a"}}

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	rec = typeText(ed, rec, "zz")
	rec, done := ed.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, rec)

	assert.False(t, done)
	assert.True(t, ed.Active)
	assert.False(t, ed.Busy())
	assert.Equal(t, record.Params{"tags.0": "a"}, rec.Params)
	assert.Empty(t, *changes)
}

func TestArrayEditorEditUnchangedValueSkipsChange(t *testing.T) {
	ed, changes := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a"}}

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	assert.Empty(t, *changes)
}

func TestArrayEditorEditCompositeItemCyclesFields(t *testing.T) {
	ed, _ := openEditor(linksProperty, true)
	rec := record.Record{Params: record.Params{"links.0": map[string]any{}, "keep": "x"}}

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	assert.Contains(t, ed.Render(rec, 100), "url")

	rec = typeText(ed, rec, "u")
	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, rec)
	assert.Equal(t, record.Params{"links.0.url": "u", "keep": "x"}, rec.Params)

	rec = typeText(ed, rec, "t")
	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	assert.Equal(t, record.Params{"links.0.url": "u", "links.0.title": "t", "keep": "x"}, rec.Params)
}

func TestArrayEditorEscCloses(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{}}

	_, done := ed.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, rec)
	assert.True(t, done)
	assert.False(t, ed.Active)
}

func TestArrayEditorRender(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	rec := record.Record{
		Params: record.Params{"tags.0": "alpha", "tags.1": "beta"},
		Errors: map[string]string{"tags": "at most one tag"},
	}

	out := ed.Render(rec, 100)
	assert.Contains(t, out, "Tags (2)")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "at most one tag")
}

func TestArrayEditorRenderEmpty(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	out := ed.Render(record.Record{Params: record.Params{"tags": []any{}}}, 100)
	assert.Contains(t, out, "Tags (0)")
	assert.Contains(t, out, "No items")
}

func TestArrayEditorRenderUsesCustomRenderer(t *testing.T) {
	renderer := ItemRendererFunc(func(item record.Property, _ record.Record) []string {
		return []string{"custom " + item.Name}
	})
	ed := NewArrayEditor(renderer, true, false)
	ed.Open(tagsProperty, nil)

	out := ed.Render(record.Record{Params: record.Params{"tags.0": "a"}}, 100)
	assert.Contains(t, out, "custom tags.0")
}

func TestArrayEditorResetClearsState(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a"}}
	ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	require.True(t, ed.Busy())

	ed.Reset()
	assert.False(t, ed.Active)
	assert.False(t, ed.Busy())
	assert.Equal(t, 0, ed.Selected())
}

func TestArrayEditorEditKeepsSiblingFieldsOfYAMLItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yaml")
	data := "id: rec-1\nparams:\n  links.0:\n    url: https://a\n    title: A\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	rec, err := record.Load(path)
	require.NoError(t, err)

	ed, _ := openEditor(linksProperty, true)
	assert.Contains(t, ed.Render(rec, 100), "url: https://a")
	assert.Contains(t, ed.Render(rec, 100), "title: A")

	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlU}, rec)
	rec = typeText(ed, rec, "x")
	rec, _ = ed.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, rec)
	assert.Equal(t, record.Params{"links.0.url": "x", "links.0.title": "A"}, rec.Params)

	require.NoError(t, record.Save(path, rec))
	reloaded, err := record.Load(path)
	require.NoError(t, err)
	assert.Equal(t, rec.Params, reloaded.Params)
}

func TestArrayEditorRenderLeavesSelectionAlone(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	rec := record.Record{Params: record.Params{"tags.0": "a", "tags.1": "b", "tags.2": "c"}}
	ed.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, rec)
	ed.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, rec)
	require.Equal(t, 2, ed.Selected())

	ed.Render(record.Record{Params: record.Params{"tags.0": "a"}}, 100)
	assert.Equal(t, 2, ed.Selected())
}

func TestArrayEditorRenderPagesLongLists(t *testing.T) {
	ed, _ := openEditor(tagsProperty, true)
	params := record.Params{}
	for i := 0; i < 12; i++ {
		params[fmt.Sprintf("tags.%d", i)] = fmt.Sprintf("v%d", i)
	}
	rec := record.Record{Params: params}

	out := ed.Render(rec, 100)
	assert.Contains(t, out, "1-10 of 12")
	assert.NotContains(t, out, "v11")

	for i := 0; i < 11; i++ {
		ed.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, rec)
	}
	out = ed.Render(rec, 100)
	assert.Contains(t, out, "3-12 of 12")
	assert.Contains(t, out, "v11")
}
