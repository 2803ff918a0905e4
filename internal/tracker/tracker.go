// Package tracker is the application core: it applies list and item
// mutations to a store one at a time and keeps subscribed queries fresh.
package tracker

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/idilsaglam/kinly/internal/logging"
	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
)

var ErrClosed = errors.New("tracker closed")

// Tracker serializes every operation through one lock, so no two
// mutations interleave and reads always see completed writes.
type Tracker struct {
	mu     sync.Mutex
	store  store.Store
	log    *log.Logger
	closed bool

	itemSubs    map[store.ItemFilter]map[*Subscription[[]model.Item]]struct{}
	summarySubs map[*Subscription[[]model.ListSummary]]struct{}
}

func New(s store.Store, logger *log.Logger) *Tracker {
	return &Tracker{
		store:       s,
		log:         logging.OrDiscard(logger),
		itemSubs:    map[store.ItemFilter]map[*Subscription[[]model.Item]]struct{}{},
		summarySubs: map[*Subscription[[]model.ListSummary]]struct{}{},
	}
}

// CreateList stores a new, empty list. Name validation is the caller's job.
func (t *Tracker) CreateList(ctx context.Context, name, colorHex string) (model.List, error) {
	l := model.NewList(name, colorHex)
	err := t.mutate(ctx, func() error { return t.store.InsertList(ctx, l) })
	if err != nil {
		return model.List{}, errors.Wrap(err, "create list")
	}
	t.log.Debug("created list", "id", l.ID, "name", name)
	return l, nil
}

// CreateItem stores a new open item, owned by listID when it is non-nil.
func (t *Tracker) CreateItem(ctx context.Context, title string, listID *uuid.UUID) (model.Item, error) {
	it := model.NewItem(title, listID)
	err := t.mutate(ctx, func() error { return t.store.InsertItem(ctx, it) })
	if err != nil {
		return model.Item{}, errors.Wrap(err, "create item")
	}
	t.log.Debug("created item", "id", it.ID, "list", it.ListID.UUID, "owned", it.ListID.Valid)
	return it, nil
}

// ToggleCompletion flips the item's flag. An absent flag becomes true.
func (t *Tracker) ToggleCompletion(ctx context.Context, itemID uuid.UUID) (model.Item, error) {
	var out model.Item
	err := t.mutate(ctx, func() error {
		it, err := t.store.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		out = it.Toggled()
		return t.store.UpdateItem(ctx, out)
	})
	if err != nil {
		return model.Item{}, errors.Wrap(err, "toggle item")
	}
	t.log.Debug("toggled item", "id", itemID, "done", out.Done())
	return out, nil
}

func (t *Tracker) RenameItem(ctx context.Context, itemID uuid.UUID, title string) (model.Item, error) {
	var out model.Item
	err := t.mutate(ctx, func() error {
		it, err := t.store.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		it.Title = null.StringFrom(title)
		out = it
		return t.store.UpdateItem(ctx, it)
	})
	if err != nil {
		return model.Item{}, errors.Wrap(err, "rename item")
	}
	return out, nil
}

func (t *Tracker) RenameList(ctx context.Context, listID uuid.UUID, name string) (model.List, error) {
	return t.updateList(ctx, listID, "rename list", func(l *model.List) {
		l.Name = null.StringFrom(name)
	})
}

func (t *Tracker) RecolorList(ctx context.Context, listID uuid.UUID, colorHex string) (model.List, error) {
	return t.updateList(ctx, listID, "recolor list", func(l *model.List) {
		l.ColorHex = null.StringFrom(colorHex)
	})
}

func (t *Tracker) updateList(ctx context.Context, listID uuid.UUID, op string, fn func(*model.List)) (model.List, error) {
	var out model.List
	err := t.mutate(ctx, func() error {
		l, err := t.store.GetList(ctx, listID)
		if err != nil {
			return err
		}
		fn(&l)
		out = l
		return t.store.UpdateList(ctx, l)
	})
	if err != nil {
		return model.List{}, errors.Wrap(err, op)
	}
	return out, nil
}

// DeleteList removes the list and every item it owns.
func (t *Tracker) DeleteList(ctx context.Context, listID uuid.UUID) error {
	err := t.mutate(ctx, func() error { return t.store.DeleteList(ctx, listID) })
	if err != nil {
		return errors.Wrap(err, "delete list")
	}
	t.log.Debug("deleted list", "id", listID)
	return nil
}

// DeleteItem removes one item. Its list is untouched.
func (t *Tracker) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	err := t.mutate(ctx, func() error { return t.store.DeleteItem(ctx, itemID) })
	if err != nil {
		return errors.Wrap(err, "delete item")
	}
	t.log.Debug("deleted item", "id", itemID)
	return nil
}

// Lists returns every list, newest first.
func (t *Tracker) Lists(ctx context.Context) ([]model.List, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	return t.store.Lists(ctx)
}

func (t *Tracker) List(ctx context.Context, id uuid.UUID) (model.List, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return model.List{}, ErrClosed
	}
	return t.store.GetList(ctx, id)
}

func (t *Tracker) Item(ctx context.Context, id uuid.UUID) (model.Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return model.Item{}, ErrClosed
	}
	return t.store.GetItem(ctx, id)
}

// Items returns the items matching f, newest first.
func (t *Tracker) Items(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	return t.store.Items(ctx, f)
}

// ItemsForList returns the items owned by listID, newest first.
func (t *Tracker) ItemsForList(ctx context.Context, listID uuid.UUID) ([]model.Item, error) {
	return t.Items(ctx, store.ItemsOf(listID))
}

func (t *Tracker) ItemCount(ctx context.Context, listID uuid.UUID) (int, error) {
	items, err := t.ItemsForList(ctx, listID)
	if err != nil {
		return 0, err
	}
	return model.ItemCount(items, listID), nil
}

func (t *Tracker) IncompleteCount(ctx context.Context, listID uuid.UUID) (int, error) {
	items, err := t.ItemsForList(ctx, listID)
	if err != nil {
		return 0, err
	}
	return model.IncompleteCount(items, listID), nil
}

// Summaries returns one row per list, newest first, with its counts.
func (t *Tracker) Summaries(ctx context.Context) ([]model.ListSummary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	return t.summaries(ctx)
}

func (t *Tracker) summaries(ctx context.Context) ([]model.ListSummary, error) {
	lists, err := t.store.Lists(ctx)
	if err != nil {
		return nil, err
	}
	items, err := t.store.Items(ctx, store.AllItems())
	if err != nil {
		return nil, err
	}
	return model.SummarizeAll(lists, items), nil
}

// Close detaches every subscription and closes the store.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	for f, subs := range t.itemSubs {
		for sub := range subs {
			sub.closeChan()
		}
		delete(t.itemSubs, f)
	}
	for sub := range t.summarySubs {
		sub.closeChan()
		delete(t.summarySubs, sub)
	}
	return t.store.Close()
}

// mutate runs fn under the lock and refreshes subscribers on success.
func (t *Tracker) mutate(ctx context.Context, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if err := fn(); err != nil {
		return err
	}
	t.notify(context.WithoutCancel(ctx))
	return nil
}
