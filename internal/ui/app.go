package ui

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gravitrone/paramedit/internal/arrayfield"
	"github.com/gravitrone/paramedit/internal/config"
	"github.com/gravitrone/paramedit/internal/flat"
	"github.com/gravitrone/paramedit/internal/logging"
	"github.com/gravitrone/paramedit/internal/record"
	"github.com/gravitrone/paramedit/internal/schema"
	"github.com/gravitrone/paramedit/internal/ui/components"
)

const propertyPageSize = 12

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type savedMsg struct{ path string }
type recordLoadedMsg struct{ record record.Record }

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model: a property list for one record, with an
// ArrayEditor opened on demand. App owns the record; every edit replaces it.
type App struct {
	path     string
	record   record.Record
	resource *schema.Resource
	config   *config.Config
	logger   *zap.Logger
	watcher  *RecordWatcher

	width       int
	height      int
	keys        keymap
	cursor      *components.Cursor
	editor      ArrayEditor
	dirty       bool
	quitConfirm bool
	err         string
	toast       *appToast
}

// NewApp creates the root model for the record stored at path.
func NewApp(path string, rec record.Record, res *schema.Resource, cfg *config.Config, logger *zap.Logger) App {
	if cfg == nil {
		cfg = config.Default()
	}
	if res == nil {
		res = &schema.Resource{}
	}
	cursor := components.NewCursor(propertyPageSize)
	cursor.SetCount(len(res.Properties))
	return App{
		path:     path,
		record:   rec.Clone(),
		resource: res,
		config:   cfg,
		logger:   logging.OrNop(logger),
		keys:     keymap{vim: cfg.VimKeys},
		cursor:   cursor,
		editor:   NewArrayEditor(DefaultItemRenderer{}, cfg.ConfirmRemove, cfg.VimKeys),
	}
}

// WithWatcher attaches a file watcher whose changes reload the record.
func (a App) WithWatcher(w *RecordWatcher) App {
	a.watcher = w
	return a
}

// WithItemRenderer replaces the renderer used for array items.
func (a App) WithItemRenderer(r ItemRenderer) App {
	a.editor.Renderer = r
	return a
}

// Record returns the current record.
func (a App) Record() record.Record {
	return a.record
}

// Dirty reports unsaved edits.
func (a App) Dirty() bool {
	return a.dirty
}

func (a App) Init() tea.Cmd {
	if a.watcher != nil {
		return a.watcher.Wait()
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		a.logger.Error("paramedit error", zap.Error(msg.err))
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case savedMsg:
		a.dirty = false
		a.err = ""
		a.logger.Info("record saved", zap.String("path", msg.path), zap.String("id", a.record.ID))
		return a, a.setToast("success", "Saved "+msg.path)
	case recordChangedMsg:
		wait := a.watchCmd()
		if a.dirty {
			return a, tea.Batch(wait, a.setToast("warning", "Record changed on disk. Unsaved edits kept."))
		}
		return a, tea.Batch(wait, a.loadCmd())
	case recordLoadedMsg:
		if reflect.DeepEqual(msg.record, a.record) {
			return a, nil
		}
		a.record = msg.record
		a.dirty = false
		a.err = ""
		a.logger.Info("record reloaded", zap.String("path", a.path))
		return a, a.setToast("info", "Reloaded from disk")

	case tea.KeyMsg:
		return a.handleKeys(msg)
	}
	return a, nil
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isKey(msg, "ctrl+c") {
		return a, tea.Quit
	}
	if a.quitConfirm {
		switch {
		case isConfirm(msg):
			return a, tea.Quit
		case isDeny(msg):
			a.quitConfirm = false
		}
		return a, nil
	}

	if a.editor.Active {
		next, _ := a.editor.HandleKey(msg, a.record)
		if !reflect.DeepEqual(next.Params, a.record.Params) {
			a.record = next
			a.dirty = true
		}
		return a, nil
	}

	switch {
	case isQuit(msg):
		if a.dirty {
			a.quitConfirm = true
			return a, nil
		}
		return a, tea.Quit
	case isBack(msg):
		a.err = ""
	case a.keys.up(msg):
		a.cursor.Up()
	case a.keys.down(msg):
		a.cursor.Down()
	case isEnter(msg):
		return a.openSelected()
	case isKey(msg, "s", "ctrl+s"):
		return a, a.saveCmd()
	case isKey(msg, "r"):
		return a, a.loadCmd()
	}
	return a, nil
}

func (a App) openSelected() (tea.Model, tea.Cmd) {
	prop, ok := a.selectedProperty()
	if !ok {
		return a, nil
	}
	if !prop.IsArray {
		return a, a.setToast("info", prop.DisplayLabel()+" is not an array")
	}
	a.editor.Open(prop, a.logChange(prop))
	return a, nil
}

func (a App) selectedProperty() (record.Property, bool) {
	props := a.resource.Properties
	if a.cursor.Index < 0 || a.cursor.Index >= len(props) {
		return record.Property{}, false
	}
	return props[a.cursor.Index], true
}

func (a App) logChange(prop record.Property) func(record.Record) {
	logger := a.logger
	return func(rec record.Record) {
		logger.Debug("array edited",
			zap.String("property", prop.Name),
			zap.Int("items", len(arrayfield.DeriveItems(rec.Params, prop))),
		)
	}
}

func (a App) saveCmd() tea.Cmd {
	path := a.path
	rec := a.record.Clone()
	return func() tea.Msg {
		if err := record.Save(path, rec); err != nil {
			return errMsg{err: err}
		}
		return savedMsg{path: path}
	}
}

func (a App) loadCmd() tea.Cmd {
	path := a.path
	return func() tea.Msg {
		rec, err := record.Load(path)
		if err != nil {
			return errMsg{err: err}
		}
		return recordLoadedMsg{record: rec}
	}
}

func (a App) watchCmd() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Wait()
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

// --- View ---

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = a.renderQuitConfirm()
	case a.editor.Active:
		content = a.editor.Render(a.record, a.width)
	default:
		content = a.renderProperties()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s%s", banner, content, hints, feedback)
}

func (a App) renderProperties() string {
	props := a.resource.Properties
	title := a.record.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	if a.dirty {
		title += " *"
	}
	if len(props) == 0 {
		return components.Indent(a.renderRecordInfo()+"\n"+components.TitledBox(title, MutedStyle.Render("No properties in schema."), a.width), 1)
	}

	start, end := a.cursor.Visible()
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, a.propertyRow(props[i]))
	}
	columns := []components.GridColumn{
		{Header: "Property", Width: 18},
		{Header: "Type", Width: 10},
		{Header: "Value"},
	}
	body := components.Grid(columns, rows, components.BoxContentWidth(a.width), a.cursor.Index-start)

	return components.Indent(a.renderRecordInfo()+"\n"+components.TitledBox(title, body, a.width), 1)
}

func (a App) renderRecordInfo() string {
	rows := []components.TableRow{{Label: "ID", Value: a.record.ID}}
	if a.resource.Name != "" {
		rows = append(rows, components.TableRow{Label: "Resource", Value: a.resource.Name})
	}
	rows = append(rows, components.TableRow{Label: "File", Value: a.path})
	return components.Table("Record", rows, a.width)
}

func (a App) propertyRow(prop record.Property) []string {
	label := prop.DisplayLabel()
	if prop.IsRequired {
		label += " *"
	}
	if _, ok := a.record.ErrorFor(prop.Name); ok {
		label += " !"
	}
	kind := prop.Type
	if prop.IsArray {
		kind = "array"
	}
	if kind == "" {
		kind = "string"
	}

	var value string
	if prop.IsArray {
		n := len(arrayfield.DeriveItems(a.record.Params, prop))
		value = fmt.Sprintf("%d items", n)
		if n == 1 {
			value = "1 item"
		}
	} else {
		v, _ := flat.Get(a.record.Params, prop.Name)
		value = formatValue(v)
	}
	return []string{label, kind, value}
}

func (a App) renderQuitConfirm() string {
	body := "You have unsaved changes. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{components.Hint("y", "Quit"), components.Hint("n", "Stay")}
	}
	if a.editor.Active {
		return []string{
			components.Hint("a", "Add"),
			components.Hint("d", "Remove"),
			components.Hint("K/J", "Move"),
			components.Hint("enter", "Edit"),
			components.Hint("esc", "Back"),
		}
	}
	return []string{
		components.Hint("↑/↓", "Select"),
		components.Hint("enter", "Open"),
		components.Hint("s", "Save"),
		components.Hint("r", "Reload"),
		components.Hint("q", "Quit"),
	}
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
