package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s, err := Open(path, nil)
	require.NoError(t, err)
	return s, path
}

func TestMissingFileStartsEmpty(t *testing.T) {
	s, path := openTemp(t)
	lists, err := s.Lists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing written before the first mutation")
}

func TestRoundTripThroughDisk(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	l := model.NewList("Groceries", "007AFF")
	require.NoError(t, s.InsertList(ctx, l))
	milk := model.NewItem("Milk", &l.ID)
	require.NoError(t, s.InsertItem(ctx, milk))
	loose := model.NewItem("Standalone", nil)
	require.NoError(t, s.InsertItem(ctx, loose))
	require.NoError(t, s.UpdateItem(ctx, milk.Toggled()))

	reopened, err := Open(path, nil)
	require.NoError(t, err)

	got, err := reopened.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.DisplayName())
	assert.Equal(t, "007AFF", got.Color())
	assert.True(t, got.Created().Equal(l.Created()))

	items, err := reopened.Items(ctx, store.ItemsOf(l.ID))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].TitleText())
	assert.True(t, items[0].Done())

	un, err := reopened.Items(ctx, store.UnassignedItems())
	require.NoError(t, err)
	require.Len(t, un, 1)
	assert.Equal(t, loose.ID, un[0].ID)
}

func TestCascadeIsPersisted(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	l := model.NewList("Groceries", "")
	require.NoError(t, s.InsertList(ctx, l))
	require.NoError(t, s.InsertItem(ctx, model.NewItem("Milk", &l.ID)))
	require.NoError(t, s.InsertItem(ctx, model.NewItem("Standalone", nil)))
	require.NoError(t, s.DeleteList(ctx, l.ID))

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	all, err := reopened.Items(ctx, store.AllItems())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Standalone", all[0].TitleText())
}

func TestLegacyFileIsUpgraded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"title": "Buy milk", "done": false},
  {"title": "Call mom", "done": true}
]`), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)

	items, err := s.Items(ctx, store.AllItems())
	require.NoError(t, err)
	require.Len(t, items, 2)
	byTitle := map[string]model.Item{}
	for _, it := range items {
		byTitle[it.TitleText()] = it
		assert.NotEqual(t, uuid.Nil, it.ID)
		assert.False(t, it.CreatedAt.Valid)
		assert.False(t, it.ListID.Valid)
	}
	assert.False(t, byTitle["Buy milk"].Done())
	assert.True(t, byTitle["Call mom"].Done())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.EqualValues(t, currentVersion, doc["version"])
}

func TestRecordsMissingNewerFieldsLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	listID := uuid.New()
	itemID := uuid.New()
	require.NoError(t, os.WriteFile(path, []byte(`{
  "version": 2,
  "lists": [{"id": "`+listID.String()+`"}],
  "items": [{"id": "`+itemID.String()+`", "list_id": "`+listID.String()+`"}]
}`), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)

	l, err := s.GetList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultListName, l.DisplayName())
	assert.Equal(t, model.DefaultColorHex, l.Color())

	it, err := s.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, "", it.TitleText())
	assert.False(t, it.Done())
	assert.True(t, it.BelongsTo(listID))
}

func TestInvalidFilesAreRejected(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"version": 2,`,
		"bad id":        `{"version": 2, "lists": [{"id": "nope"}]}`,
		"no version":    `{"lists": []}`,
		"wrong type":    `{"version": 2, "items": [{"id": "` + uuid.NewString() + `", "is_completed": "yes"}]}`,
		"future format": `{"version": 9}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Open(path, nil)
			assert.Error(t, err)
		})
	}
}

func TestRepeatedItemIDIsRejected(t *testing.T) {
	a, b, x := uuid.NewString(), uuid.NewString(), uuid.NewString()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
  "version": 2,
  "lists": [{"id": "`+a+`", "name": "A"}, {"id": "`+b+`", "name": "B"}],
  "items": [
    {"id": "`+x+`", "title": "first", "list_id": "`+a+`"},
    {"id": "`+x+`", "title": "second", "list_id": "`+b+`"}
  ]
}`), 0o644))

	_, err := Open(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate item id "+x)
}

func TestLegacyUpgradeKeepsArrayOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"title": "one", "done": false},
  {"title": "two", "done": false},
  {"title": "three", "done": true},
  {"title": "four", "done": false}
]`), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)
	items, err := s.Items(ctx, store.AllItems())
	require.NoError(t, err)
	var titles []string
	for _, it := range items {
		titles = append(titles, it.TitleText())
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, titles)

	// and the order survives the rewrite
	reopened, err := Open(path, nil)
	require.NoError(t, err)
	again, err := reopened.Items(ctx, store.AllItems())
	require.NoError(t, err)
	require.Len(t, again, 4)
	assert.Equal(t, items[0].ID, again[0].ID)
	assert.Equal(t, items[3].ID, again[3].ID)
}

func TestFailedWriteRollsBack(t *testing.T) {
	ctx := context.Background()
	parent := filepath.Join(t.TempDir(), "sub")
	s, err := Open(filepath.Join(parent, DefaultFileName), nil)
	require.NoError(t, err)

	// The parent "directory" becomes a regular file, so every save fails.
	require.NoError(t, os.WriteFile(parent, nil, 0o644))

	err = s.InsertList(ctx, model.NewList("never saved", ""))
	require.Error(t, err)

	lists, err := s.Lists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}
