// Package tui is the interactive browser: a lists screen and an items
// screen, both fed by tracker subscriptions so changes made elsewhere show
// up without a reload.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/idilsaglam/kinly/internal/logging"
	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
	"github.com/idilsaglam/kinly/internal/tracker"
	"github.com/idilsaglam/kinly/internal/ui"
)

type screen int

const (
	listsScreen screen = iota
	itemsScreen
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAddList
	inputAddItem
	inputEditItem
)

type (
	summariesMsg struct {
		rows []model.ListSummary
		ok   bool
	}
	itemsMsg struct {
		sub   *tracker.Subscription[[]model.Item]
		items []model.Item
		ok    bool
	}
	errMsg struct{ err error }
)

type Model struct {
	ctx context.Context
	tr  *tracker.Tracker
	log *log.Logger

	screen screen
	lists  list.Model
	items  list.Model

	summaries *tracker.Subscription[[]model.ListSummary]
	itemSub   *tracker.Subscription[[]model.Item]
	filter    store.ItemFilter
	heading   string

	// Inline add / edit
	input  inputMode
	ti     textinput.Model // shared text input model (used for add & edit)
	swatch model.Swatch    // color picked for a new list
	editID uuid.UUID
	err    string

	width, height int
}

var (
	addBind  = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	openBind = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	togBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	backBind = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
)

// New subscribes to the list summaries and builds the lists screen.
func New(ctx context.Context, tr *tracker.Tracker, logger *log.Logger) (Model, error) {
	sub, err := tr.SubscribeSummaries(ctx)
	if err != nil {
		return Model{}, errors.Wrap(err, "subscribe lists")
	}

	lists := newList(listDelegate{}, "list", "lists", addBind, openBind, delBind)
	lists.Title = titleStyle.Render("Lists")

	items := newList(itemDelegate{}, "item", "items", addBind, editBind, togBind, delBind, backBind)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	w, h := termSize()
	m := Model{
		ctx:       ctx,
		tr:        tr,
		log:       logging.OrDiscard(logger),
		lists:     lists,
		items:     items,
		summaries: sub,
		ti:        ti,
		swatch:    model.Palette[0],
		width:     w,
		height:    h,
	}
	m.resize()
	return m, nil
}

func newList(d list.ItemDelegate, one, many string, extra ...key.Binding) list.Model {
	l := list.New(nil, d, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName(one, many)
	// q and esc are ours
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }
	return l
}

// Run starts the program on the alternate screen and returns when the user
// quits or ctx is done.
func Run(ctx context.Context, tr *tracker.Tracker, logger *log.Logger) error {
	m, err := New(ctx, tr, logger)
	if err != nil {
		return err
	}
	defer m.summaries.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.closeItems()
	}
	if err != nil {
		return errors.Wrap(err, "run tui")
	}
	return nil
}

func waitSummaries(sub *tracker.Subscription[[]model.ListSummary]) tea.Cmd {
	return func() tea.Msg {
		rows, ok := <-sub.C
		return summariesMsg{rows: rows, ok: ok}
	}
}

func waitItems(sub *tracker.Subscription[[]model.Item]) tea.Cmd {
	return func() tea.Msg {
		items, ok := <-sub.C
		return itemsMsg{sub: sub, items: items, ok: ok}
	}
}

// do runs a mutation off the update loop. Its result arrives through the
// subscriptions; only failures come back as messages.
func (m Model) do(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m Model) Init() tea.Cmd { return waitSummaries(m.summaries) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case summariesMsg:
		if !msg.ok {
			return m, nil
		}
		cmd := m.lists.SetItems(listRows(msg.rows))
		return m, tea.Batch(cmd, waitSummaries(m.summaries))

	case itemsMsg:
		// stale results from a list we already left
		if !msg.ok || msg.sub != m.itemSub {
			return m, nil
		}
		m.items.Title = itemsTitle(m.heading, msg.items)
		cmd := m.items.SetItems(itemRows(msg.items))
		return m, tea.Batch(cmd, waitItems(m.itemSub))

	case errMsg:
		m.log.Error("tui action failed", "err", msg.err)
		m.err = msg.err.Error()
		return m, nil
	}

	if m.input != inputNone {
		return m.updateInput(msg)
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		m.err = ""
		if m.screen == listsScreen {
			return m.updateLists(k)
		}
		return m.updateItems(k)
	}
	return m.passThrough(msg)
}

func (m Model) passThrough(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.screen == listsScreen {
		m.lists, cmd = m.lists.Update(msg)
	} else {
		m.items, cmd = m.items.Update(msg)
	}
	return m, cmd
}

func (m Model) updateLists(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "enter":
		row, ok := m.lists.SelectedItem().(listRow)
		if !ok {
			return m, nil
		}
		return m.open(row)
	case "a":
		m.swatch = model.Palette[0]
		return m.startInput(inputAddList, "", "New list name...")
	case "d":
		row, ok := m.lists.SelectedItem().(listRow)
		if !ok || row.unassigned {
			return m, nil
		}
		id := row.summary.List.ID
		return m, m.do(func(ctx context.Context) error { return m.tr.DeleteList(ctx, id) })
	}
	return m.passThrough(k)
}

func (m Model) updateItems(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeItems()
		m.screen = listsScreen
		return m, nil
	case " ":
		row, ok := m.items.SelectedItem().(itemRow)
		if !ok {
			return m, nil
		}
		id := row.view.ID
		return m, m.do(func(ctx context.Context) error {
			_, err := m.tr.ToggleCompletion(ctx, id)
			return err
		})
	case "d":
		row, ok := m.items.SelectedItem().(itemRow)
		if !ok {
			return m, nil
		}
		id := row.view.ID
		return m, m.do(func(ctx context.Context) error { return m.tr.DeleteItem(ctx, id) })
	case "a":
		return m.startInput(inputAddItem, "", "New item title...")
	case "e":
		row, ok := m.items.SelectedItem().(itemRow)
		if !ok {
			return m, nil
		}
		m.editID = row.view.ID
		return m.startInput(inputEditItem, row.view.Title, "Edit item title...")
	}
	return m.passThrough(k)
}

// open switches to the items screen for row and subscribes to its items.
func (m Model) open(row listRow) (tea.Model, tea.Cmd) {
	if row.unassigned {
		m.filter, m.heading = store.UnassignedItems(), unassignedName
	} else {
		m.filter, m.heading = store.ItemsOf(row.summary.List.ID), row.summary.List.Name
	}
	sub, err := m.tr.SubscribeItems(m.ctx, m.filter)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.itemSub = sub
	m.screen = itemsScreen
	m.items.ResetSelected()
	m.items.Title = itemsTitle(m.heading, nil)
	cmd := m.items.SetItems(nil)
	return m, tea.Batch(cmd, waitItems(sub))
}

func (m *Model) closeItems() {
	if m.itemSub != nil {
		m.itemSub.Close()
		m.itemSub = nil
	}
}

func (m Model) startInput(mode inputMode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.input = mode
	m.err = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	cmd := m.ti.Focus()
	m.resize()
	return m, cmd
}

func (m *Model) endInput() {
	m.input = inputNone
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				if m.input == inputAddList {
					m.err = "Name cannot be empty"
				} else {
					m.err = "Title cannot be empty"
				}
				return m, nil
			}
			cmd := m.commit(text)
			m.endInput()
			return m, cmd
		case "esc":
			m.err = ""
			m.endInput()
			return m, nil
		case "tab":
			if m.input == inputAddList {
				m.swatch = model.NextSwatch(m.swatch.Hex)
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) commit(text string) tea.Cmd {
	switch m.input {
	case inputAddList:
		hex := m.swatch.Hex
		return m.do(func(ctx context.Context) error {
			_, err := m.tr.CreateList(ctx, text, hex)
			return err
		})
	case inputAddItem:
		var owner *uuid.UUID
		if m.filter.ListID.Valid {
			id := m.filter.ListID.UUID
			owner = &id
		}
		return m.do(func(ctx context.Context) error {
			_, err := m.tr.CreateItem(ctx, text, owner)
			return err
		})
	case inputEditItem:
		id := m.editID
		return m.do(func(ctx context.Context) error {
			_, err := m.tr.RenameItem(ctx, id, text)
			return err
		})
	}
	return nil
}

func (m *Model) resize() {
	listHeight := m.height - 4
	if m.input != inputNone {
		listHeight = m.height - 6
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.lists.SetSize(m.width-4, listHeight)
	m.items.SetSize(m.width-4, listHeight)
}

func (m Model) View() string {
	content := m.lists.View()
	if m.screen == itemsScreen {
		content = m.items.View()
	}
	if m.input != inputNone {
		title := "Add new item"
		switch m.input {
		case inputEditItem:
			title = "Edit item"
		case inputAddList:
			title = "New list " + ui.Swatch(m.swatch.Hex) + " " + mutedStyle.Render(m.swatch.Name+" (tab: next color)")
		}
		if m.err != "" {
			title += "  " + errorStyle.Render(m.err)
		}
		content += "\n" + panelString(title+"\n"+m.ti.View())
	} else if m.err != "" {
		content += "\n" + errorStyle.Render("✖ "+m.err)
	}
	return panelString(content)
}
