package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"autoreview/app/content"
	"autoreview/app/models"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrUnauthorized is the content store's credential error, re-exported so
	// callers need not import the client package.
	ErrUnauthorized = content.ErrUnauthorized
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	NewsKeyPrefix    = "news:"
	CarKeyPrefix     = "car:"
	CommentKeyPrefix = "comment:"

	// SyncedAtKey records when the snapshot was last filled
	SyncedAtKey = "meta:synced_at"
)

func entityKey(prefix, id string) []byte {
	return []byte(prefix + id)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the value stored at key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// scanPrefix calls fn with every value stored under prefix.
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// putEntities writes every entity under prefix+id in one batch.
func putEntities[T any](db *badger.DB, prefix string, entities []T, id func(T) string) error {
	wb := db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range entities {
		data, err := marshalEntity(e)
		if err != nil {
			return err
		}
		if err := wb.Set(entityKey(prefix, id(e)), data); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// dropPrefix removes every key under prefix.
func dropPrefix(db *badger.DB, prefix string) error {
	return db.DropPrefix([]byte(prefix))
}

// sortByTime orders records by their timestamp, stable on ties.
func sortByTime[T models.Record](records []T, newestFirst bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Timestamp(), records[j].Timestamp()
		if newestFirst {
			return a.After(b)
		}
		return a.Before(b)
	})
}

func limitSlice[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func encodeTime(t time.Time) []byte {
	return []byte(t.UTC().Format(time.RFC3339Nano))
}

func decodeTime(b []byte) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, string(b))
}
