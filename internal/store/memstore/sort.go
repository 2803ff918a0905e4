package memstore

import (
	"bytes"
	"sort"

	"github.com/idilsaglam/kinly/internal/model"
)

// Map iteration order is random; fix a base order so equal timestamps sort
// the same way on every call.

func sortListsByID(lists []model.List) {
	sort.Slice(lists, func(i, j int) bool {
		return bytes.Compare(lists[i].ID[:], lists[j].ID[:]) < 0
	})
}

func sortItemsByID(items []model.Item) {
	sort.Slice(items, func(i, j int) bool {
		return bytes.Compare(items[i].ID[:], items[j].ID[:]) < 0
	})
}
