// Package memstore keeps lists and items in memory.
//
// Items live in one arena keyed by id; a parent index maps each list id to
// the ids of the items it owns, so a cascade delete never scans the arena.
// Not safe for concurrent use; callers serialize access.
package memstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v2"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
)

type Store struct {
	lists    map[uuid.UUID]model.List
	items    map[uuid.UUID]model.Item
	children map[uuid.UUID]*set.Set[uuid.UUID]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		lists:    map[uuid.UUID]model.List{},
		items:    map[uuid.UUID]model.Item{},
		children: map[uuid.UUID]*set.Set[uuid.UUID]{},
	}
}

// Load replaces the contents. Items pointing at a missing list are kept but
// detached from it. A repeated list or item id is an error and leaves the
// store empty.
func (s *Store) Load(lists []model.List, items []model.Item) error {
	*s = *New()
	for _, l := range lists {
		if _, exists := s.lists[l.ID]; exists {
			*s = *New()
			return errors.Newf("duplicate list id %s", l.ID)
		}
		s.lists[l.ID] = l
		s.children[l.ID] = set.New[uuid.UUID](0)
	}
	for _, it := range items {
		if _, exists := s.items[it.ID]; exists {
			*s = *New()
			return errors.Newf("duplicate item id %s", it.ID)
		}
		if owner, ok := it.Owner(); ok {
			if _, exists := s.lists[owner]; !exists {
				it.ListID = uuid.NullUUID{}
			}
		}
		s.put(it)
	}
	return nil
}

// Snapshot returns every record, newest first.
func (s *Store) Snapshot() ([]model.List, []model.Item) {
	lists, _ := s.Lists(context.Background())
	items, _ := s.Items(context.Background(), store.AllItems())
	return lists, items
}

func (s *Store) InsertList(_ context.Context, l model.List) error {
	if _, exists := s.lists[l.ID]; exists {
		return errors.Newf("list %s already exists", l.ID)
	}
	s.lists[l.ID] = l
	s.children[l.ID] = set.New[uuid.UUID](0)
	return nil
}

func (s *Store) UpdateList(_ context.Context, l model.List) error {
	if _, exists := s.lists[l.ID]; !exists {
		return errors.Wrapf(store.ErrNotFound, "list %s", l.ID)
	}
	s.lists[l.ID] = l
	return nil
}

func (s *Store) DeleteList(_ context.Context, id uuid.UUID) error {
	if _, exists := s.lists[id]; !exists {
		return errors.Wrapf(store.ErrNotFound, "list %s", id)
	}
	delete(s.lists, id)
	if kids, ok := s.children[id]; ok {
		for _, itemID := range kids.Slice() {
			delete(s.items, itemID)
		}
	}
	delete(s.children, id)
	return nil
}

func (s *Store) GetList(_ context.Context, id uuid.UUID) (model.List, error) {
	l, ok := s.lists[id]
	if !ok {
		return model.List{}, errors.Wrapf(store.ErrNotFound, "list %s", id)
	}
	return l, nil
}

func (s *Store) Lists(_ context.Context) ([]model.List, error) {
	out := make([]model.List, 0, len(s.lists))
	for _, l := range s.lists {
		out = append(out, l)
	}
	sortListsByID(out)
	model.SortLists(out)
	return out, nil
}

func (s *Store) InsertItem(_ context.Context, it model.Item) error {
	if _, exists := s.items[it.ID]; exists {
		return errors.Newf("item %s already exists", it.ID)
	}
	if err := s.checkOwner(it); err != nil {
		return err
	}
	s.put(it)
	return nil
}

func (s *Store) UpdateItem(_ context.Context, it model.Item) error {
	prev, exists := s.items[it.ID]
	if !exists {
		return errors.Wrapf(store.ErrNotFound, "item %s", it.ID)
	}
	if err := s.checkOwner(it); err != nil {
		return err
	}
	s.unindex(prev)
	s.put(it)
	return nil
}

func (s *Store) DeleteItem(_ context.Context, id uuid.UUID) error {
	it, exists := s.items[id]
	if !exists {
		return errors.Wrapf(store.ErrNotFound, "item %s", id)
	}
	s.unindex(it)
	delete(s.items, id)
	return nil
}

func (s *Store) GetItem(_ context.Context, id uuid.UUID) (model.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return model.Item{}, errors.Wrapf(store.ErrNotFound, "item %s", id)
	}
	return it, nil
}

func (s *Store) Items(_ context.Context, f store.ItemFilter) ([]model.Item, error) {
	var out []model.Item
	if f.ListID.Valid {
		kids, ok := s.children[f.ListID.UUID]
		if !ok {
			return []model.Item{}, nil
		}
		out = make([]model.Item, 0, kids.Size())
		for _, id := range kids.Slice() {
			if it, ok := s.items[id]; ok {
				out = append(out, it)
			}
		}
	} else {
		out = make([]model.Item, 0, len(s.items))
		for _, it := range s.items {
			if f.Match(it) {
				out = append(out, it)
			}
		}
	}
	sortItemsByID(out)
	model.SortItems(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) checkOwner(it model.Item) error {
	if owner, ok := it.Owner(); ok {
		if _, exists := s.lists[owner]; !exists {
			return errors.Wrapf(store.ErrNotFound, "list %s", owner)
		}
	}
	return nil
}

func (s *Store) put(it model.Item) {
	s.items[it.ID] = it
	if owner, ok := it.Owner(); ok {
		s.children[owner].Insert(it.ID)
	}
}

func (s *Store) unindex(it model.Item) {
	if owner, ok := it.Owner(); ok {
		if kids, exists := s.children[owner]; exists {
			kids.Remove(it.ID)
		}
	}
}
