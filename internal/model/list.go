package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

const DefaultListName = "Untitled List"

// List is a named, colored container of items. Items point at their list
// through Item.ListID; the list itself holds no item slice.
type List struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Name      null.String `json:"name" db:"name"`
	ColorHex  null.String `json:"color_hex" db:"color_hex"`
	CreatedAt null.Time   `json:"created_at" db:"created_at"`
}

// NewList stamps a fresh identifier and creation time. The color is stored
// as given; Color() takes care of malformed values on read.
func NewList(name, colorHex string) List {
	if colorHex == "" {
		colorHex = DefaultColorHex
	}
	return List{
		ID:        uuid.New(),
		Name:      null.StringFrom(name),
		ColorHex:  null.StringFrom(colorHex),
		CreatedAt: null.TimeFrom(now()),
	}
}

func (l List) DisplayName() string {
	if !l.Name.Valid {
		return DefaultListName
	}
	return l.Name.String
}

// Color returns six upper-case hex digits, never empty.
func (l List) Color() string {
	if !l.ColorHex.Valid {
		return DefaultColorHex
	}
	if hex, ok := NormalizeColorHex(l.ColorHex.String); ok {
		return hex
	}
	return DefaultColorHex
}

func (l List) Created() time.Time {
	if l.CreatedAt.Valid {
		return l.CreatedAt.Time
	}
	return now()
}

type ListView struct {
	ID        uuid.UUID
	Name      string
	ColorHex  string
	CreatedAt time.Time
}

func (l List) View() ListView {
	return ListView{
		ID:        l.ID,
		Name:      l.DisplayName(),
		ColorHex:  l.Color(),
		CreatedAt: l.Created(),
	}
}

// now is swapped in tests.
var now = time.Now
