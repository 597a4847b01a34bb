package repositories

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Store is the local Badger snapshot of the content store. It serves reads
// when the site runs offline and keeps comments submitted while offline.
type Store struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
}

func NewStore(path string) (*Store, error) {
	isTest := false
	if path == "" {
		// An empty path gets an isolated temporary database that is removed on Close.
		tempPath, err := os.MkdirTemp("", "autoreview_snapshot_")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	return &Store{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.db.Close(); err != nil {
		return err
	}

	if s.isTestDB {
		if err := os.RemoveAll(s.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}

// Path is the directory holding the snapshot.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) Posts() *BadgerPostRepository {
	return NewBadgerPostRepository(s.db)
}

func (s *Store) News() *BadgerNewsRepository {
	return NewBadgerNewsRepository(s.db)
}

func (s *Store) Cars() *BadgerCarRepository {
	return NewBadgerCarRepository(s.db)
}

func (s *Store) Comments() *BadgerCommentRepository {
	return NewBadgerCommentRepository(s.db)
}

// Clear drops every key in the snapshot.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// MarkSynced records the time of a completed sync.
func (s *Store) MarkSynced(at time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SyncedAtKey), encodeTime(at))
	})
}

// SyncedAt returns the time of the last completed sync, or the zero time if
// the snapshot was never filled.
func (s *Store) SyncedAt() (time.Time, error) {
	var at time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SyncedAtKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			at, err = decodeTime(val)
			return err
		})
	})
	return at, err
}

// Backup writes a full backup of the snapshot to w.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup.
func (s *Store) Restore(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Load(r, 4)
}

var (
	_ PostRepository    = (*BadgerPostRepository)(nil)
	_ NewsRepository    = (*BadgerNewsRepository)(nil)
	_ CarRepository     = (*BadgerCarRepository)(nil)
	_ CommentRepository = (*BadgerCommentRepository)(nil)
)
