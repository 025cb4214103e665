package index

import (
	"strings"

	bolt "go.etcd.io/bbolt"
)

// CursorIndex returns the stored position of the named cursor, zero when it
// was never saved.
func (s *Store) CursorIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	var idx int
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bCursor).Get([]byte(name))
		if v == nil {
			return nil
		}
		i, err := decodeIndex(v)
		if err != nil {
			return err
		}
		idx = i
		return nil
	})
	return idx, err
}

func (s *Store) SetCursorIndex(name string, idx int) error {
	name = strings.TrimSpace(name)
	if idx < 0 {
		idx = 0
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bCursor).Put([]byte(name), encodeIndex(idx))
	})
}
