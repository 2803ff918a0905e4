package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
	"github.com/idilsaglam/kinly/internal/tracker"
)

// minPrefix is the shortest ID prefix accepted as a reference.
const minPrefix = 4

// filterFlags are the --list/--unassigned pair shared by the item verbs so
// an index means the same thing it meant in "kinly ls".
type filterFlags struct {
	list       string
	unassigned bool
}

func (f *filterFlags) resolve(ctx context.Context, tr *tracker.Tracker) (store.ItemFilter, *model.List, error) {
	switch {
	case f.list != "" && f.unassigned:
		return store.ItemFilter{}, nil, usageError("--list and --unassigned are mutually exclusive")
	case f.unassigned:
		return store.UnassignedItems(), nil, nil
	case f.list != "":
		l, err := resolveList(ctx, tr, f.list)
		if err != nil {
			return store.ItemFilter{}, nil, err
		}
		return store.ItemsOf(l.ID), &l, nil
	}
	return store.AllItems(), nil, nil
}

// resolveItem finds the item named by ref: an index into the items matching
// f, or an ID prefix over all items.
func resolveItem(ctx context.Context, tr *tracker.Tracker, f store.ItemFilter, ref string) (model.Item, error) {
	items, err := tr.Items(ctx, f)
	if err != nil {
		return model.Item{}, err
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], nil
	}

	if isIDPrefix(ref) {
		all, err := tr.Items(ctx, store.AllItems())
		if err != nil {
			return model.Item{}, err
		}
		var hits []model.Item
		for _, it := range all {
			if strings.HasPrefix(it.ID.String(), strings.ToLower(ref)) {
				hits = append(hits, it)
			}
		}
		switch len(hits) {
		case 1:
			return hits[0], nil
		case 0:
		default:
			return model.Item{}, usageError("ambiguous item id %q matches %d items", ref, len(hits)).
				withHint("use a longer prefix")
		}
	}

	if _, err := strconv.Atoi(ref); err == nil {
		return model.Item{}, usageError("index out of range: have %d, got %s", len(items), ref).
			withHint("run `kinly ls` to see valid indexes")
	}
	return model.Item{}, usageError("no item matches %q", ref).
		withHint("use an index from `kinly ls` or an id prefix of at least 4 characters")
}

// resolveList finds the list named by ref: an index into "kinly list ls",
// an ID prefix, or an exact name.
func resolveList(ctx context.Context, tr *tracker.Tracker, ref string) (model.List, error) {
	lists, err := tr.Lists(ctx)
	if err != nil {
		return model.List{}, err
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(lists) {
		return lists[n-1], nil
	}

	var named []model.List
	for _, l := range lists {
		if l.DisplayName() == ref {
			named = append(named, l)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	if len(named) > 1 {
		return model.List{}, usageError("%d lists are named %q", len(named), ref).
			withHint("refer to the list by index or id prefix")
	}

	if isIDPrefix(ref) {
		var hits []model.List
		for _, l := range lists {
			if strings.HasPrefix(l.ID.String(), strings.ToLower(ref)) {
				hits = append(hits, l)
			}
		}
		switch len(hits) {
		case 1:
			return hits[0], nil
		case 0:
		default:
			return model.List{}, usageError("ambiguous list id %q matches %d lists", ref, len(hits)).
				withHint("use a longer prefix")
		}
	}
	return model.List{}, usageError("no list matches %q", ref).
		withHint("run `kinly list ls` to see your lists")
}

func isIDPrefix(s string) bool {
	if len(s) < minPrefix {
		return false
	}
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r == '-':
		default:
			return false
		}
	}
	return true
}
