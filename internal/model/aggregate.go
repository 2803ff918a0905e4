package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// FilterByList returns the items owned by listID, newest first.
// Unowned items never match.
func FilterByList(items []Item, listID uuid.UUID) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.BelongsTo(listID) {
			out = append(out, it)
		}
	}
	SortItems(out)
	return out
}

// Unassigned returns the items without a list, newest first.
func Unassigned(items []Item) []Item {
	out := make([]Item, 0)
	for _, it := range items {
		if _, ok := it.Owner(); !ok {
			out = append(out, it)
		}
	}
	SortItems(out)
	return out
}

func ItemCount(items []Item, listID uuid.UUID) int {
	n := 0
	for _, it := range items {
		if it.BelongsTo(listID) {
			n++
		}
	}
	return n
}

func IncompleteCount(items []Item, listID uuid.UUID) int {
	n := 0
	for _, it := range items {
		if it.BelongsTo(listID) && !it.Done() {
			n++
		}
	}
	return n
}

// Stats counts done and pending items in a slice.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Done() {
			done++
		} else {
			pending++
		}
	}
	return
}

// SortItems orders by creation time, newest first. Ties keep their order.
func SortItems(items []Item) {
	// One reading of the clock for the whole sort, so rows without a
	// timestamp tie and keep their incoming order.
	at := now()
	created := func(it Item) time.Time { return createdOr(it.CreatedAt, at) }
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}

func SortLists(lists []List) {
	at := now()
	created := func(l List) time.Time { return createdOr(l.CreatedAt, at) }
	sort.SliceStable(lists, func(i, j int) bool {
		return created(lists[i]).After(created(lists[j]))
	})
}

// ListSummary is a list row: the list plus its derived counts.
type ListSummary struct {
	List            ListView
	ItemCount       int
	IncompleteCount int
}

func Summarize(l List, items []Item) ListSummary {
	return ListSummary{
		List:            l.View(),
		ItemCount:       ItemCount(items, l.ID),
		IncompleteCount: IncompleteCount(items, l.ID),
	}
}

// SummarizeAll keeps the order of lists.
func SummarizeAll(lists []List, items []Item) []ListSummary {
	out := make([]ListSummary, 0, len(lists))
	for _, l := range lists {
		out = append(out, Summarize(l, items))
	}
	return out
}

func createdOr(t null.Time, at time.Time) time.Time {
	if t.Valid {
		return t.Time
	}
	return at
}
