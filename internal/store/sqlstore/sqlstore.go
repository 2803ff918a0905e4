// Package sqlstore persists lists and items in PostgreSQL.
//
// The items table references its list with ON DELETE CASCADE, so the
// database performs the cascade when a list row is removed.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/idilsaglam/kinly/internal/logging"
	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
)

const (
	listsTable = "todo_lists"
	itemsTable = "todo_items"

	foreignKeyViolation = "23503"
)

var (
	listColumns = []string{"id", "name", "color_hex", "created_at"}
	itemColumns = []string{"id", "title", "is_completed", "created_at", "list_id"}
)

// Schema creates the tables on first use. Columns other than the keys are
// nullable; rows are read through the model's defaulting accessors.
const Schema = `
CREATE TABLE IF NOT EXISTS todo_lists (
	id UUID PRIMARY KEY,
	name TEXT,
	color_hex TEXT,
	created_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS todo_items (
	id UUID PRIMARY KEY,
	title TEXT,
	is_completed BOOLEAN,
	created_at TIMESTAMPTZ,
	list_id UUID REFERENCES todo_lists (id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS todo_items_list_id_idx ON todo_items (list_id);
`

type Store struct {
	db  *sqlx.DB
	sq  squirrel.StatementBuilderType
	log *log.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and applies Schema.
func Open(ctx context.Context, dsn string, logger *log.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	s := New(db, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection without touching the schema.
func New(db *sqlx.DB, logger *log.Logger) *Store {
	return &Store{
		db:  db,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: logging.OrDiscard(logger),
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "migrate")
	}
	s.log.Debug("schema ready", "tables", []string{listsTable, itemsTable})
	return nil
}

func (s *Store) InsertList(ctx context.Context, l model.List) error {
	q := s.sq.Insert(listsTable).
		Columns(listColumns...).
		Values(l.ID, l.Name, l.ColorHex, l.CreatedAt)
	_, err := s.exec(ctx, q)
	return errors.Wrap(err, "insert list")
}

func (s *Store) UpdateList(ctx context.Context, l model.List) error {
	q := s.sq.Update(listsTable).
		Set("name", l.Name).
		Set("color_hex", l.ColorHex).
		Set("created_at", l.CreatedAt).
		Where(squirrel.Eq{"id": l.ID})
	return s.execOne(ctx, q, "list", l.ID)
}

func (s *Store) DeleteList(ctx context.Context, id uuid.UUID) error {
	q := s.sq.Delete(listsTable).Where(squirrel.Eq{"id": id})
	return s.execOne(ctx, q, "list", id)
}

func (s *Store) GetList(ctx context.Context, id uuid.UUID) (model.List, error) {
	q := s.sq.Select(listColumns...).From(listsTable).Where(squirrel.Eq{"id": id})
	var l model.List
	if err := s.get(ctx, &l, q); err != nil {
		return model.List{}, notFound(err, "list", id)
	}
	return l, nil
}

func (s *Store) Lists(ctx context.Context) ([]model.List, error) {
	q := s.sq.Select(listColumns...).From(listsTable).OrderBy("created_at DESC NULLS FIRST", "id")
	out := []model.List{}
	if err := s.selectAll(ctx, &out, q); err != nil {
		return nil, errors.Wrap(err, "select lists")
	}
	return out, nil
}

func (s *Store) InsertItem(ctx context.Context, it model.Item) error {
	q := s.sq.Insert(itemsTable).
		Columns(itemColumns...).
		Values(it.ID, it.Title, it.IsCompleted, it.CreatedAt, it.ListID)
	if _, err := s.exec(ctx, q); err != nil {
		if isForeignKeyViolation(err) {
			return errors.Wrapf(store.ErrNotFound, "list %s", it.ListID.UUID)
		}
		return errors.Wrap(err, "insert item")
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, it model.Item) error {
	q := s.sq.Update(itemsTable).
		Set("title", it.Title).
		Set("is_completed", it.IsCompleted).
		Set("created_at", it.CreatedAt).
		Set("list_id", it.ListID).
		Where(squirrel.Eq{"id": it.ID})
	err := s.execOne(ctx, q, "item", it.ID)
	if err != nil && isForeignKeyViolation(err) {
		return errors.Wrapf(store.ErrNotFound, "list %s", it.ListID.UUID)
	}
	return err
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	q := s.sq.Delete(itemsTable).Where(squirrel.Eq{"id": id})
	return s.execOne(ctx, q, "item", id)
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (model.Item, error) {
	q := s.sq.Select(itemColumns...).From(itemsTable).Where(squirrel.Eq{"id": id})
	var it model.Item
	if err := s.get(ctx, &it, q); err != nil {
		return model.Item{}, notFound(err, "item", id)
	}
	return it, nil
}

func (s *Store) Items(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	q := s.sq.Select(itemColumns...).From(itemsTable)
	switch {
	case f.ListID.Valid:
		q = q.Where(squirrel.Eq{"list_id": f.ListID.UUID})
	case f.Unassigned:
		q = q.Where(squirrel.Eq{"list_id": nil})
	}
	q = q.OrderBy("created_at DESC NULLS FIRST", "id")

	out := []model.Item{}
	if err := s.selectAll(ctx, &out, q); err != nil {
		return nil, errors.Wrapf(err, "select items (%s)", f)
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) exec(ctx context.Context, q squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build query")
	}
	s.log.Debug("exec", "sql", query)
	return s.db.ExecContext(ctx, query, args...)
}

// execOne runs q and reports ErrNotFound when no row was touched.
func (s *Store) execOne(ctx context.Context, q squirrel.Sqlizer, kind string, id uuid.UUID) error {
	res, err := s.exec(ctx, q)
	if err != nil {
		return errors.Wrapf(err, "%s %s", kind, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrapf(store.ErrNotFound, "%s %s", kind, id)
	}
	return nil
}

func (s *Store) get(ctx context.Context, dest interface{}, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "build query")
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "build query")
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

func notFound(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(store.ErrNotFound, "%s %s", kind, id)
	}
	return errors.Wrapf(err, "get %s %s", kind, id)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
