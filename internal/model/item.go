package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// Item is the domain model for a todo entry.
// Stored fields are nullable so records written before a field existed
// still load; read them through the accessors below.
type Item struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Title       null.String   `json:"title" db:"title"`
	IsCompleted null.Bool     `json:"is_completed" db:"is_completed"`
	CreatedAt   null.Time     `json:"created_at" db:"created_at"`
	ListID      uuid.NullUUID `json:"list_id" db:"list_id"`
}

// NewItem builds an open item, optionally owned by listID.
func NewItem(title string, listID *uuid.UUID) Item {
	it := Item{
		ID:          uuid.New(),
		Title:       null.StringFrom(title),
		IsCompleted: null.BoolFrom(false),
		CreatedAt:   null.TimeFrom(now()),
	}
	if listID != nil {
		it.ListID = uuid.NullUUID{UUID: *listID, Valid: true}
	}
	return it
}

func (i Item) TitleText() string { return i.Title.ValueOrZero() }

func (i Item) Done() bool { return i.IsCompleted.ValueOrZero() }

// Created falls back to the current time for records that never had a
// timestamp. Ordering between such records is not meaningful.
func (i Item) Created() time.Time {
	if i.CreatedAt.Valid {
		return i.CreatedAt.Time
	}
	return now()
}

// Owner reports the owning list, if any.
func (i Item) Owner() (uuid.UUID, bool) {
	return i.ListID.UUID, i.ListID.Valid
}

// BelongsTo compares by identifier, never by reference.
func (i Item) BelongsTo(listID uuid.UUID) bool {
	return i.ListID.Valid && i.ListID.UUID == listID
}

// Toggled returns a copy with the completion flag inverted. An absent flag
// reads as false, so it becomes true.
func (i Item) Toggled() Item {
	i.IsCompleted = null.BoolFrom(!i.Done())
	return i
}

// ItemView is the fully defaulted projection handed to renderers.
type ItemView struct {
	ID        uuid.UUID
	Title     string
	Done      bool
	CreatedAt time.Time
	ListID    uuid.UUID
	HasList   bool
}

func (i Item) View() ItemView {
	owner, ok := i.Owner()
	return ItemView{
		ID:        i.ID,
		Title:     i.TitleText(),
		Done:      i.Done(),
		CreatedAt: i.Created(),
		ListID:    owner,
		HasList:   ok,
	}
}
