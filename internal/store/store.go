// Package store defines the persistence contract for lists and items.
//
// Backends keep records keyed by identifier, delete a list's items together
// with the list, and answer item queries filtered by owning list and sorted
// newest first.
package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/idilsaglam/kinly/internal/model"
)

// ErrNotFound is returned for an identifier the store does not hold.
var ErrNotFound = errors.New("not found")

type Store interface {
	InsertList(ctx context.Context, l model.List) error
	UpdateList(ctx context.Context, l model.List) error
	// DeleteList removes the list and every item it owns.
	DeleteList(ctx context.Context, id uuid.UUID) error
	GetList(ctx context.Context, id uuid.UUID) (model.List, error)
	// Lists returns every list, newest first.
	Lists(ctx context.Context) ([]model.List, error)

	InsertItem(ctx context.Context, it model.Item) error
	UpdateItem(ctx context.Context, it model.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (model.Item, error)
	// Items returns the items matching f, newest first.
	Items(ctx context.Context, f ItemFilter) ([]model.Item, error)

	Close() error
}

// ItemFilter selects items by owner. The zero value matches every item.
type ItemFilter struct {
	ListID     uuid.NullUUID
	Unassigned bool
}

func AllItems() ItemFilter { return ItemFilter{} }

func ItemsOf(listID uuid.UUID) ItemFilter {
	return ItemFilter{ListID: uuid.NullUUID{UUID: listID, Valid: true}}
}

func UnassignedItems() ItemFilter { return ItemFilter{Unassigned: true} }

// Match reports whether it satisfies f.
func (f ItemFilter) Match(it model.Item) bool {
	switch {
	case f.ListID.Valid:
		return it.BelongsTo(f.ListID.UUID)
	case f.Unassigned:
		return !it.ListID.Valid
	default:
		return true
	}
}

// Apply filters and sorts items.
func (f ItemFilter) Apply(items []model.Item) []model.Item {
	if f.ListID.Valid {
		return model.FilterByList(items, f.ListID.UUID)
	}
	if f.Unassigned {
		return model.Unassigned(items)
	}
	out := append([]model.Item(nil), items...)
	model.SortItems(out)
	return out
}

func (f ItemFilter) String() string {
	switch {
	case f.ListID.Valid:
		return "list=" + f.ListID.UUID.String()
	case f.Unassigned:
		return "unassigned"
	default:
		return "all"
	}
}
