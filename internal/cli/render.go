package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/ui"
)

// header renders the title line with counts and a progress bar.
func header(title string, items []model.Item) []string {
	t := ui.Current()
	d, p := model.Stats(items)
	line := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		title,
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymPending), p,
		ui.C(t.Accent, "Total"), len(items),
	)
	return []string{line, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)), ""}
}

// numbered is an item with the index it has in the flat listing, so grouped
// output still shows indexes "kinly done" accepts.
type numbered struct {
	n  int
	it model.Item
}

func number(items []model.Item) []numbered {
	out := make([]numbered, len(items))
	for i, it := range items {
		out[i] = numbered{n: i + 1, it: it}
	}
	return out
}

// itemLines renders one line per item. owners maps list IDs to names and is
// only set when items from several lists are shown together.
func itemLines(items []numbered, owners map[uuid.UUID]model.List) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for _, x := range items {
		title := ui.Truncate(x.it.TitleText(), ui.MaxTitleWidth)
		line := fmt.Sprintf("%s %s %s", ui.Dim(fmt.Sprintf("%2d.", x.n)), ui.Box(x.it.Done()), title)
		if owners != nil {
			if id, ok := x.it.Owner(); ok {
				if l, ok := owners[id]; ok {
					line += " " + ui.Swatch(l.Color()) + " " + ui.C(t.Muted, l.DisplayName())
				}
			}
		}
		out = append(out, line)
	}
	return out
}

func groupLines(items []numbered, owners map[uuid.UUID]model.List) []string {
	var pend, done []numbered
	for _, x := range items {
		if x.it.Done() {
			done = append(done, x)
		} else {
			pend = append(pend, x)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, itemLines(pend, owners)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, itemLines(done, owners)...)
	}
	return lines
}

// summaryLines renders the lists screen: swatch, name, remaining count when
// there is one, and the item count badge.
func summaryLines(rows []model.ListSummary) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{ui.C(t.Muted, "no lists")}
	}
	out := make([]string, 0, len(rows))
	for i, row := range rows {
		line := fmt.Sprintf("%s %s %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)),
			ui.Swatch(row.List.ColorHex),
			ui.Truncate(row.List.Name, ui.MaxTitleWidth),
		)
		if row.IncompleteCount > 0 {
			line += "  " + ui.C(t.Pending, fmt.Sprintf("%d remaining", row.IncompleteCount))
		}
		line += "  " + ui.C(t.Muted, fmt.Sprintf("%s%d%s", t.BadgeL, row.ItemCount, t.BadgeR))
		out = append(out, line)
	}
	return out
}
