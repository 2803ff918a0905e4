package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/ui"
)

// itemRow adapts an item to bubbles/list.Item.
type itemRow struct {
	view model.ItemView
}

func (r itemRow) FilterValue() string { return r.view.Title }

// listRow is one line of the lists screen. The unassigned row opens the
// items that belong to no list.
type listRow struct {
	summary    model.ListSummary
	unassigned bool
}

func (r listRow) FilterValue() string {
	if r.unassigned {
		return unassignedName
	}
	return r.summary.List.Name
}

const unassignedName = "Unassigned"

func itemRows(items []model.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, itemRow{view: it.View()})
	}
	return out
}

func listRows(rows []model.ListSummary) []list.Item {
	out := make([]list.Item, 0, len(rows)+1)
	for _, s := range rows {
		out = append(out, listRow{summary: s})
	}
	return append(out, listRow{unassigned: true})
}

// Custom delegates keep every row on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(itemRow)
	if !ok {
		return
	}
	t := ui.Current()
	box := mutedStyle.Render(t.BoxUnchecked)
	text := ui.Truncate(row.view.Title, ui.MaxTitleWidth)
	if row.view.Done {
		box = successStyle.Render(t.BoxChecked)
		text = doneStyle.Render(text)
	}
	fmt.Fprint(w, cursor(m, index)+box+" "+text)
}

type listDelegate struct{}

func (d listDelegate) Height() int                               { return 1 }
func (d listDelegate) Spacing() int                              { return 0 }
func (d listDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d listDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(listRow)
	if !ok {
		return
	}
	if row.unassigned {
		fmt.Fprint(w, cursor(m, index)+mutedStyle.Render("○ "+unassignedName))
		return
	}
	s := row.summary
	line := ui.Swatch(s.List.ColorHex) + " " + ui.Truncate(s.List.Name, ui.MaxTitleWidth)
	if s.IncompleteCount > 0 {
		line += "  " + pendingStyle.Render(fmt.Sprintf("%d remaining", s.IncompleteCount))
	}
	t := ui.Current()
	line += "  " + mutedStyle.Render(fmt.Sprintf("%s%d%s", t.BadgeL, s.ItemCount, t.BadgeR))
	fmt.Fprint(w, cursor(m, index)+line)
}

func cursor(m list.Model, index int) string {
	if index == m.Index() {
		return selectedStyle.Render("> ")
	}
	return "  "
}

// itemsTitle is the header with live counts.
func itemsTitle(name string, items []model.Item) string {
	d, p := model.Stats(items)
	t := ui.Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render(name),
		successStyle.Render(t.SymDone), d,
		pendingStyle.Render(t.SymPending), p,
		accentStyle.Render("Total"), len(items),
	)
}
