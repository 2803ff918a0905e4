package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
)

func TestCascadeRemovesOnlyOwnedItems(t *testing.T) {
	ctx := context.Background()
	s := New()

	groceries := model.NewList("Groceries", "007AFF")
	chores := model.NewList("Chores", "FF3B30")
	require.NoError(t, s.InsertList(ctx, groceries))
	require.NoError(t, s.InsertList(ctx, chores))

	milk := model.NewItem("Milk", &groceries.ID)
	eggs := model.NewItem("Eggs", &groceries.ID)
	dishes := model.NewItem("Dishes", &chores.ID)
	loose := model.NewItem("Standalone", nil)
	for _, it := range []model.Item{milk, eggs, dishes, loose} {
		require.NoError(t, s.InsertItem(ctx, it))
	}

	require.NoError(t, s.DeleteList(ctx, groceries.ID))

	all, err := s.Items(ctx, store.AllItems())
	require.NoError(t, err)
	ids := map[uuid.UUID]bool{}
	for _, it := range all {
		ids[it.ID] = true
	}
	assert.Equal(t, map[uuid.UUID]bool{dishes.ID: true, loose.ID: true}, ids)

	_, err = s.GetList(ctx, groceries.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetItem(ctx, milk.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	left, err := s.Items(ctx, store.ItemsOf(groceries.ID))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestDeleteItemLeavesList(t *testing.T) {
	ctx := context.Background()
	s := New()
	l := model.NewList("Trip", "")
	require.NoError(t, s.InsertList(ctx, l))
	it := model.NewItem("passport", &l.ID)
	require.NoError(t, s.InsertItem(ctx, it))

	require.NoError(t, s.DeleteItem(ctx, it.ID))

	got, err := s.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, got)
	items, err := s.Items(ctx, store.ItemsOf(l.ID))
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, s.DeleteItem(ctx, it.ID), store.ErrNotFound)
}

func TestInsertItemRejectsUnknownOwner(t *testing.T) {
	s := New()
	ghost := uuid.New()
	err := s.InsertItem(context.Background(), model.NewItem("x", &ghost))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateItemMovesBetweenLists(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := model.NewList("A", "")
	b := model.NewList("B", "")
	require.NoError(t, s.InsertList(ctx, a))
	require.NoError(t, s.InsertList(ctx, b))
	it := model.NewItem("move me", &a.ID)
	require.NoError(t, s.InsertItem(ctx, it))

	it.ListID = uuid.NullUUID{UUID: b.ID, Valid: true}
	require.NoError(t, s.UpdateItem(ctx, it))

	inA, _ := s.Items(ctx, store.ItemsOf(a.ID))
	inB, _ := s.Items(ctx, store.ItemsOf(b.ID))
	assert.Empty(t, inA)
	require.Len(t, inB, 1)

	// Deleting the old owner no longer touches the item.
	require.NoError(t, s.DeleteList(ctx, a.ID))
	_, err := s.GetItem(ctx, it.ID)
	assert.NoError(t, err)
}

func TestQueriesSortNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		l := model.List{ID: uuid.New(), Name: null.StringFrom("l"), CreatedAt: null.TimeFrom(base.Add(time.Duration(i) * time.Minute))}
		require.NoError(t, s.InsertList(ctx, l))
		ids = append(ids, l.ID)
	}
	lists, err := s.Lists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, ids[2], lists[0].ID)
	assert.Equal(t, ids[0], lists[2].ID)

	for i := 0; i < 3; i++ {
		it := model.Item{ID: uuid.New(), CreatedAt: null.TimeFrom(base.Add(time.Duration(i) * time.Second)), ListID: uuid.NullUUID{UUID: ids[0], Valid: true}}
		require.NoError(t, s.InsertItem(ctx, it))
	}
	items, err := s.Items(ctx, store.ItemsOf(ids[0]))
	require.NoError(t, err)
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i-1].Created().After(items[i].Created()))
	}
}

func TestLoadDetachesOrphans(t *testing.T) {
	s := New()
	l := model.NewList("kept", "")
	ghost := uuid.New()
	owned := model.NewItem("owned", &l.ID)
	orphan := model.NewItem("orphan", &ghost)

	require.NoError(t, s.Load([]model.List{l}, []model.Item{owned, orphan}))

	lists, items := s.Snapshot()
	require.Len(t, lists, 1)
	require.Len(t, items, 2)
	un, _ := s.Items(context.Background(), store.UnassignedItems())
	require.Len(t, un, 1)
	assert.Equal(t, orphan.ID, un[0].ID)
}

func TestLoadRejectsRepeatedIDs(t *testing.T) {
	a := model.NewList("A", "")
	b := model.NewList("B", "")
	first := model.NewItem("first", &a.ID)
	second := first
	second.Title = null.StringFrom("second")
	second.ListID = uuid.NullUUID{UUID: b.ID, Valid: true}

	s := New()
	err := s.Load([]model.List{a, b}, []model.Item{first, second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate item id")
	lists, items := s.Snapshot()
	assert.Empty(t, lists)
	assert.Empty(t, items)

	err = s.Load([]model.List{a, a}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate list id")
}

func TestCascadeLeavesOtherListsIntact(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := model.NewList("A", "")
	b := model.NewList("B", "")
	require.NoError(t, s.InsertList(ctx, a))
	require.NoError(t, s.InsertList(ctx, b))
	moved := model.NewItem("moved", &a.ID)
	require.NoError(t, s.InsertItem(ctx, moved))
	moved.ListID = uuid.NullUUID{UUID: b.ID, Valid: true}
	require.NoError(t, s.UpdateItem(ctx, moved))

	inA, err := s.Items(ctx, store.ItemsOf(a.ID))
	require.NoError(t, err)
	assert.Empty(t, inA)

	require.NoError(t, s.DeleteList(ctx, a.ID))
	inB, err := s.Items(ctx, store.ItemsOf(b.ID))
	require.NoError(t, err)
	require.Len(t, inB, 1)
	assert.Equal(t, moved.ID, inB[0].ID)
}
