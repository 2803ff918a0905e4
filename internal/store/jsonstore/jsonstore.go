package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/idilsaglam/kinly/internal/logging"
	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/store"
	"github.com/idilsaglam/kinly/internal/store/memstore"
)

// JSON-backed storage. Single file, human-readable, portable.
// The whole file is rewritten after every mutation; no locking, fine for a
// local single-user tool.

const DefaultFileName = "kinly.json"

type Store struct {
	path string
	mem  *memstore.Store
	log  *log.Logger
}

var _ store.Store = (*Store)(nil)

// Open loads path, creating nothing until the first mutation. A legacy
// version 1 file is upgraded in memory and rewritten in the current format.
func Open(path string, logger *log.Logger) (*Store, error) {
	s := &Store{path: path, mem: memstore.New(), log: logging.OrDiscard(logger)}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("data file missing, starting empty", "path", path)
			return s, nil
		}
		return nil, errors.Wrap(err, "read file")
	}

	doc, legacy, err := decode(b)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if err := s.mem.Load(doc.Lists, doc.Items); err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	s.log.Debug("loaded data file", "path", path, "lists", len(doc.Lists), "items", len(doc.Items))

	if legacy {
		s.log.Info("upgrading legacy data file", "path", path, "items", len(doc.Items))
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) InsertList(ctx context.Context, l model.List) error {
	return s.mutate(func() error { return s.mem.InsertList(ctx, l) })
}

func (s *Store) UpdateList(ctx context.Context, l model.List) error {
	return s.mutate(func() error { return s.mem.UpdateList(ctx, l) })
}

func (s *Store) DeleteList(ctx context.Context, id uuid.UUID) error {
	return s.mutate(func() error { return s.mem.DeleteList(ctx, id) })
}

func (s *Store) GetList(ctx context.Context, id uuid.UUID) (model.List, error) {
	return s.mem.GetList(ctx, id)
}

func (s *Store) Lists(ctx context.Context) ([]model.List, error) {
	return s.mem.Lists(ctx)
}

func (s *Store) InsertItem(ctx context.Context, it model.Item) error {
	return s.mutate(func() error { return s.mem.InsertItem(ctx, it) })
}

func (s *Store) UpdateItem(ctx context.Context, it model.Item) error {
	return s.mutate(func() error { return s.mem.UpdateItem(ctx, it) })
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.mutate(func() error { return s.mem.DeleteItem(ctx, id) })
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (model.Item, error) {
	return s.mem.GetItem(ctx, id)
}

func (s *Store) Items(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	return s.mem.Items(ctx, f)
}

func (s *Store) Close() error { return nil }

// mutate applies fn and persists. If the file cannot be written the
// in-memory state is rolled back so memory and disk agree.
func (s *Store) mutate(fn func() error) error {
	lists, items := s.mem.Snapshot()
	if err := fn(); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		if lerr := s.mem.Load(lists, items); lerr != nil {
			return errors.CombineErrors(err, lerr)
		}
		return err
	}
	return nil
}

func (s *Store) save() error {
	lists, items := s.mem.Snapshot()
	b, err := json.MarshalIndent(document{Version: currentVersion, Lists: lists, Items: items}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json marshal")
	}
	if err := writeFileAtomic(s.path, b); err != nil {
		return errors.Wrap(err, "write file")
	}
	return nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// crash never leaves a truncated data file behind.
func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
