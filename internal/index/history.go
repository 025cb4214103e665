package index

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Announcement is one published link.
type Announcement struct {
	Cursor   string    `json:"cursor"`
	Index    int       `json:"index"`
	URL      string    `json:"url"`
	FilePath string    `json:"file_path"`
	Message  string    `json:"message"`
	DryRun   bool      `json:"dry_run,omitempty"`
	At       time.Time `json:"at"`
}

func (s *Store) RecordAnnouncement(a Announcement) error {
	if a.At.IsZero() {
		a.At = time.Now()
	}
	v, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bAnnounced)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(makeTimeSeqKey(a.At.UnixNano(), seq), v)
	})
}

// ListAnnouncements returns the newest announcements first. limit <= 0
// lists all of them.
func (s *Store) ListAnnouncements(limit int) ([]Announcement, error) {
	var out []Announcement
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bAnnounced).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			if _, ok := timeFromKey(k); !ok {
				continue
			}
			var a Announcement
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})
	return out, err
}
