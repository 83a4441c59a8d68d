package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/paramedit/internal/arrayfield"
	"github.com/gravitrone/paramedit/internal/record"
	"github.com/gravitrone/paramedit/internal/ui/components"
)

const arrayEditorPageSize = 10

// ArrayEditor edits one array property of a record. It never keeps a copy of
// the record: callers pass the current record into HandleKey and Render and
// store the record HandleKey returns.
type ArrayEditor struct {
	Active        bool
	Field         arrayfield.Field
	Renderer      ItemRenderer
	ConfirmRemove bool

	keys       keymap
	cursor     *components.Cursor
	confirming bool
	editing    bool
	subIdx     int
	input      textinput.Model
}

// NewArrayEditor builds an inactive editor.
func NewArrayEditor(renderer ItemRenderer, confirmRemove, vimKeys bool) ArrayEditor {
	if renderer == nil {
		renderer = DefaultItemRenderer{}
	}
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 512
	return ArrayEditor{
		Renderer:      renderer,
		ConfirmRemove: confirmRemove,
		keys:          keymap{vim: vimKeys},
		cursor:        components.NewCursor(arrayEditorPageSize),
		input:         input,
	}
}

// Open activates the editor for property. onChange receives every record
// produced by a structural edit.
func (e *ArrayEditor) Open(property record.Property, onChange func(record.Record)) {
	e.Reset()
	e.Active = true
	e.Field = arrayfield.Field{Property: property, OnChange: onChange}
}

// Reset clears all interaction state.
func (e *ArrayEditor) Reset() {
	e.Active = false
	e.Field = arrayfield.Field{}
	e.confirming = false
	e.stopEditing()
	if e.cursor == nil {
		e.cursor = components.NewCursor(arrayEditorPageSize)
	}
	e.cursor.SetCount(0)
}

// Selected returns the index of the highlighted item.
func (e ArrayEditor) Selected() int {
	return e.cursor.Index
}

// Busy reports whether a dialog or inline edit is capturing keys.
func (e ArrayEditor) Busy() bool {
	return e.confirming || e.editing
}

// HandleKey applies msg to rec and returns the resulting record. done is true
// when the user leaves the editor.
func (e *ArrayEditor) HandleKey(msg tea.KeyMsg, rec record.Record) (record.Record, bool) {
	items := e.Field.Items(rec)
	e.cursor.SetCount(len(items))

	if e.confirming {
		switch {
		case isConfirm(msg):
			e.confirming = false
			return e.remove(rec), false
		case isDeny(msg):
			e.confirming = false
		}
		return rec, false
	}
	if e.editing {
		return e.handleEditKey(msg, rec, items), false
	}

	switch {
	case isBack(msg):
		e.Active = false
		return rec, true
	case e.keys.up(msg):
		e.cursor.Up()
	case e.keys.down(msg):
		e.cursor.Down()
	case isAdd(msg):
		rec = e.Field.Add(rec)
		e.cursor.SetCount(len(items) + 1)
		e.cursor.Select(len(items))
	case isRemove(msg):
		if len(items) == 0 {
			return rec, false
		}
		if e.ConfirmRemove {
			e.confirming = true
			return rec, false
		}
		return e.remove(rec), false
	case e.keys.moveUp(msg):
		i := e.cursor.Index
		if i > 0 {
			rec = e.Field.Move(rec, i, i-1)
			e.cursor.Up()
		}
	case e.keys.moveDown(msg):
		i := e.cursor.Index
		if i < len(items)-1 {
			rec = e.Field.Move(rec, i, i+1)
			e.cursor.Down()
		}
	case isEnter(msg):
		if len(items) > 0 {
			e.startEditing(items[e.cursor.Index])
		}
	}
	return rec, false
}

func (e *ArrayEditor) remove(rec record.Record) record.Record {
	next := e.Field.Remove(rec, e.cursor.Index)
	e.cursor.SetCount(len(e.Field.Items(next)))
	return next
}

func (e *ArrayEditor) handleEditKey(msg tea.KeyMsg, rec record.Record, items []any) record.Record {
	switch {
	case isBack(msg):
		e.stopEditing()
		return rec
	case isEnter(msg):
		rec = e.commitEdit(rec, items)
		e.stopEditing()
		return rec
	case isKey(msg, "tab"):
		if subs := e.Field.Property.SubProperties; len(subs) > 0 {
			rec = e.commitEdit(rec, items)
			e.subIdx = (e.subIdx + 1) % len(subs)
			e.loadInput(e.Field.Items(rec)[e.cursor.Index])
		}
		return rec
	}
	e.input, _ = e.input.Update(msg)
	return rec
}

func (e *ArrayEditor) startEditing(item any) {
	e.editing = true
	e.subIdx = 0
	e.loadInput(item)
	e.input.Focus()
}

func (e *ArrayEditor) stopEditing() {
	e.editing = false
	e.subIdx = 0
	e.input.Blur()
	e.input.SetValue("")
}

func (e *ArrayEditor) loadInput(item any) {
	value := item
	if sub, ok := e.editingSub(); ok {
		fields, _ := item.(map[string]any)
		value = fields[sub.Name]
	}
	e.input.SetValue(formatValue(value))
	e.input.CursorEnd()
}

func (e ArrayEditor) editingSub() (record.Property, bool) {
	subs := e.Field.Property.SubProperties
	if len(subs) == 0 || e.subIdx >= len(subs) {
		return record.Property{}, false
	}
	return subs[e.subIdx], true
}

// commitEdit writes the input value back. Edited values are stored as
// strings; composite items are copied before the sub-field is replaced.
func (e *ArrayEditor) commitEdit(rec record.Record, items []any) record.Record {
	i := e.cursor.Index
	if i < 0 || i >= len(items) {
		return rec
	}
	value := e.input.Value()
	sub, ok := e.editingSub()
	if !ok {
		if formatValue(items[i]) == value {
			return rec
		}
		return e.Field.Set(rec, i, value)
	}
	fields := map[string]any{}
	if current, isMap := items[i].(map[string]any); isMap {
		for k, v := range current {
			fields[k] = v
		}
	}
	existing, has := fields[sub.Name]
	if (has && formatValue(existing) == value) || (!has && value == "") {
		return rec
	}
	fields[sub.Name] = value
	return e.Field.Set(rec, i, fields)
}

// Render draws the item grid, the validation error and any open dialog.
func (e ArrayEditor) Render(rec record.Record, width int) string {
	items := e.Field.Items(rec)
	// Clamp a copy; rendering leaves the shared cursor alone.
	cursor := *e.cursor
	cursor.SetCount(len(items))
	property := e.Field.Property
	contentWidth := components.BoxContentWidth(width)

	var b strings.Builder
	if len(items) == 0 {
		b.WriteString(MutedStyle.Render("No items. Press a to add one."))
	} else {
		start, end := cursor.Visible()
		rows := make([][]string, 0, end-start)
		for i := start; i < end; i++ {
			item := arrayfield.ItemProperty(property, i)
			cells := e.Renderer.RenderItem(item, rec)
			rows = append(rows, []string{item.DisplayLabel(), strings.Join(cells, "  ")})
		}
		columns := []components.GridColumn{
			{Header: "#", Width: 6, Align: lipgloss.Right},
			{Header: "Value"},
		}
		b.WriteString(components.Grid(columns, rows, contentWidth, cursor.Index-start))
		if cursor.Count() > cursor.PageSize {
			b.WriteString("\n" + MutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, cursor.Count())))
		}
	}

	if msg, ok := e.Field.Error(rec); ok {
		b.WriteString("\n\n" + ErrorStyle.Render(components.ClampTextWidth(msg, contentWidth)))
	}

	b.WriteString("\n\n" + MutedStyle.Render("a add  |  d remove  |  K/J move  |  enter edit  |  esc back"))

	title := fmt.Sprintf("%s (%d)", property.DisplayLabel(), len(items))
	out := components.ActiveTitledBox(title, b.String(), width)

	switch {
	case e.confirming:
		label := arrayfield.ItemProperty(property, cursor.Index).DisplayLabel()
		out += "\n" + components.ConfirmDialog("Remove item", fmt.Sprintf("Remove %s from %s?", label, property.DisplayLabel()))
	case e.editing:
		out += "\n" + components.InputDialog(e.editTitle(), e.input.View())
	}
	return components.Indent(out, 1)
}

func (e ArrayEditor) editTitle() string {
	label := arrayfield.ItemProperty(e.Field.Property, e.cursor.Index).DisplayLabel()
	if sub, ok := e.editingSub(); ok {
		return fmt.Sprintf("%s %s %s  (tab next field)", e.Field.Property.DisplayLabel(), label, sub.DisplayLabel())
	}
	return e.Field.Property.DisplayLabel() + " " + label
}
