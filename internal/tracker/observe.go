package tracker

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
)

// SubscribeItems watches the items matching f. Subscribers sharing a
// filter share one evaluation per mutation.
func (t *Tracker) SubscribeItems(ctx context.Context, f store.ItemFilter) (*Subscription[[]model.Item], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}

	items, err := t.store.Items(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe items")
	}

	var sub *Subscription[[]model.Item]
	sub = newSubscription[[]model.Item](func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		subs, ok := t.itemSubs[f]
		if !ok {
			return
		}
		if _, ok := subs[sub]; !ok {
			return
		}
		delete(subs, sub)
		if len(subs) == 0 {
			delete(t.itemSubs, f)
		}
		sub.closeChan()
	})

	if t.itemSubs[f] == nil {
		t.itemSubs[f] = map[*Subscription[[]model.Item]]struct{}{}
	}
	t.itemSubs[f][sub] = struct{}{}
	sub.push(items)
	t.log.Debug("subscribed", "query", f.String())
	return sub, nil
}

// SubscribeSummaries watches the list rows and their counts.
func (t *Tracker) SubscribeSummaries(ctx context.Context) (*Subscription[[]model.ListSummary], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}

	rows, err := t.summaries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe summaries")
	}

	var sub *Subscription[[]model.ListSummary]
	sub = newSubscription[[]model.ListSummary](func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.summarySubs[sub]; !ok {
			return
		}
		delete(t.summarySubs, sub)
		sub.closeChan()
	})
	t.summarySubs[sub] = struct{}{}
	sub.push(rows)
	t.log.Debug("subscribed", "query", "summaries")
	return sub, nil
}

// notify re-evaluates each watched query once. Called with t.mu held.
func (t *Tracker) notify(ctx context.Context) {
	for f, subs := range t.itemSubs {
		items, err := t.store.Items(ctx, f)
		if err != nil {
			t.log.Error("refresh query", "query", f.String(), "err", err)
			continue
		}
		for sub := range subs {
			sub.push(items)
		}
		t.log.Debug("refreshed", "query", f.String(), "subscribers", len(subs), "items", len(items))
	}

	if len(t.summarySubs) == 0 {
		return
	}
	rows, err := t.summaries(ctx)
	if err != nil {
		t.log.Error("refresh query", "query", "summaries", "err", err)
		return
	}
	for sub := range t.summarySubs {
		sub.push(rows)
	}
}
