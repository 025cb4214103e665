package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store persists the announcement cursor and history in a bbolt file.
type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path    string // e.g. ".linkdir/state.db"
	Timeout time.Duration
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 1 * time.Second
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: opt.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", opt.Path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bCursor, bAnnounced} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
