package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBKV on-device file store.
type LevelDBKV struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) the store at path.
func OpenLevelDB(path string) (*LevelDBKV, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDBKV{db: db}, nil
}

func (l *LevelDBKV) Get(_ context.Context, key string) (string, error) {
	v, err := l.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return "", ErrMiss
		}
		return "", err
	}
	return string(v), nil
}

func (l *LevelDBKV) Set(_ context.Context, key string, value string) error {
	return l.db.Put([]byte(key), []byte(value), nil)
}

func (l *LevelDBKV) Delete(_ context.Context, key string) error {
	return l.db.Delete([]byte(key), nil)
}

func (l *LevelDBKV) Close() error {
	return l.db.Close()
}
