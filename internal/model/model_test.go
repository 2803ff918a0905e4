package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T, ts time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

func TestDefaultedAccessorsOnEmptyRecords(t *testing.T) {
	ts := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	fixedClock(t, ts)

	var l List
	assert.Equal(t, DefaultListName, l.DisplayName())
	assert.Equal(t, DefaultColorHex, l.Color())
	assert.Equal(t, ts, l.Created())

	var it Item
	assert.Equal(t, "", it.TitleText())
	assert.False(t, it.Done())
	assert.Equal(t, ts, it.Created())
	_, owned := it.Owner()
	assert.False(t, owned)

	v := it.View()
	assert.Equal(t, "", v.Title)
	assert.False(t, v.HasList)
}

func TestColorDefaultsWhenMalformed(t *testing.T) {
	cases := map[string]string{
		"007AFF":   "007AFF",
		"#34c759":  "34C759",
		"":         DefaultColorHex,
		"12345":    DefaultColorHex,
		"GGGGGG":   DefaultColorHex,
		"#1234567": DefaultColorHex,
	}
	for in, want := range cases {
		l := List{ColorHex: null.StringFrom(in)}
		assert.Equal(t, want, l.Color(), "input %q", in)
	}
}

func TestNewListAndItem(t *testing.T) {
	l := NewList("Groceries", "")
	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, "Groceries", l.DisplayName())
	assert.Equal(t, DefaultColorHex, l.Color())
	assert.True(t, l.CreatedAt.Valid)

	it := NewItem("Milk", &l.ID)
	assert.True(t, it.BelongsTo(l.ID))
	assert.True(t, it.IsCompleted.Valid)
	assert.False(t, it.Done())

	loose := NewItem("Standalone", nil)
	assert.False(t, loose.ListID.Valid)
	assert.NotEqual(t, it.ID, loose.ID)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	it := NewItem("Milk", nil)
	assert.True(t, it.Toggled().Done())
	assert.Equal(t, it.Done(), it.Toggled().Toggled().Done())

	var absent Item
	assert.True(t, absent.Toggled().Done())
	assert.False(t, absent.Toggled().Toggled().Done())
}

func TestFilterByListComparesIdentifiers(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	listID := uuid.New()
	other := uuid.New()

	a := Item{ID: uuid.New(), CreatedAt: null.TimeFrom(base), ListID: uuid.NullUUID{UUID: listID, Valid: true}}
	// Same owner populated from a copied value.
	copied, err := uuid.Parse(listID.String())
	require.NoError(t, err)
	b := Item{ID: uuid.New(), CreatedAt: null.TimeFrom(base.Add(time.Hour)), ListID: uuid.NullUUID{UUID: copied, Valid: true}}
	c := Item{ID: uuid.New(), CreatedAt: null.TimeFrom(base), ListID: uuid.NullUUID{UUID: other, Valid: true}}
	loose := Item{ID: uuid.New(), CreatedAt: null.TimeFrom(base)}

	got := FilterByList([]Item{a, b, c, loose}, listID)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID, "newest first")
	assert.Equal(t, a.ID, got[1].ID)

	for _, id := range []uuid.UUID{listID, other, uuid.New(), uuid.Nil} {
		for _, it := range FilterByList([]Item{loose}, id) {
			t.Fatalf("unowned item %s matched list %s", it.ID, id)
		}
	}

	un := Unassigned([]Item{a, loose, c})
	require.Len(t, un, 1)
	assert.Equal(t, loose.ID, un[0].ID)
}

func TestCounts(t *testing.T) {
	l := NewList("Chores", "FF3B30")
	items := []Item{
		NewItem("dishes", &l.ID),
		NewItem("laundry", &l.ID).Toggled(),
		{ID: uuid.New(), ListID: uuid.NullUUID{UUID: l.ID, Valid: true}},
		NewItem("elsewhere", nil),
	}

	assert.Equal(t, 3, ItemCount(items, l.ID))
	assert.Equal(t, 2, IncompleteCount(items, l.ID))
	assert.LessOrEqual(t, IncompleteCount(items, l.ID), ItemCount(items, l.ID))

	s := Summarize(l, items)
	assert.Equal(t, "Chores", s.List.Name)
	assert.Equal(t, "FF3B30", s.List.ColorHex)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, 2, s.IncompleteCount)

	done, pending := Stats(items)
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, pending)
}

func TestIncompleteEqualsCountOnlyWithoutCompletedItems(t *testing.T) {
	l := NewList("Trip", "")
	items := []Item{NewItem("passport", &l.ID), NewItem("tickets", &l.ID)}
	assert.Equal(t, ItemCount(items, l.ID), IncompleteCount(items, l.ID))

	items[0] = items[0].Toggled()
	assert.Less(t, IncompleteCount(items, l.ID), ItemCount(items, l.ID))
}

func TestSortListsNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	old := List{ID: uuid.New(), CreatedAt: null.TimeFrom(base)}
	young := List{ID: uuid.New(), CreatedAt: null.TimeFrom(base.Add(time.Minute))}
	lists := []List{old, young}
	SortLists(lists)
	assert.Equal(t, young.ID, lists[0].ID)
}

func TestSortItemsKeepsOrderOfUntimedRows(t *testing.T) {
	// a clock that moves on every reading
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { tick = tick.Add(time.Second); return tick }
	t.Cleanup(func() { now = prev })

	var items []Item
	for _, title := range []string{"a", "b", "c", "d"} {
		items = append(items, Item{ID: uuid.New(), Title: null.StringFrom(title)})
	}
	dated := Item{ID: uuid.New(), Title: null.StringFrom("old"), CreatedAt: null.TimeFrom(tick.Add(-time.Hour))}
	items = append([]Item{dated}, items...)

	SortItems(items)
	var got []string
	for _, it := range items {
		got = append(got, it.TitleText())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "old"}, got)
}

func TestResolveColor(t *testing.T) {
	hex, ok := ResolveColor("Teal")
	assert.True(t, ok)
	assert.Equal(t, "00C7BE", hex)

	hex, ok = ResolveColor("#ff9500")
	assert.True(t, ok)
	assert.Equal(t, "FF9500", hex)

	_, ok = ResolveColor("chartreuse")
	assert.False(t, ok)

	assert.Equal(t, "FF3B30", NextSwatch("007AFF").Hex)
	assert.Equal(t, "007AFF", NextSwatch("00C7BE").Hex)
	assert.Equal(t, "007AFF", NextSwatch("nope").Hex)
}
