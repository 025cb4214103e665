// Package announce publishes the directory one link at a time, oldest first,
// remembering how far it got between runs.
package announce

import (
	"fmt"

	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
)

// CursorStore persists cursor positions by name.
type CursorStore interface {
	CursorIndex(name string) (int, error)
	SetCursorIndex(name string, idx int) error
}

// Cursor walks a date-ascending link sequence. Two processes sharing a store
// can skip or repeat links; callers run one announce at a time.
type Cursor struct {
	name  string
	seq   []content.Link
	index int
	store CursorStore
}

func LoadCursor(name string, seq []content.Link, store CursorStore) (*Cursor, error) {
	idx, err := store.CursorIndex(name)
	if err != nil {
		return nil, fmt.Errorf("load cursor %q: %w", name, err)
	}
	return &Cursor{name: name, seq: seq, index: idx, store: store}, nil
}

func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Len() int { return len(c.seq) }

// Next returns the link at the cursor without moving it.
func (c *Cursor) Next() (content.Link, error) {
	if c.index >= len(c.seq) {
		return content.Link{}, &domainerr.ExhaustedError{Index: c.index, Len: len(c.seq)}
	}
	return c.seq[c.index], nil
}

// Advance moves past the current link and persists the new position. The
// in-memory position is left alone when persisting fails.
func (c *Cursor) Advance() error {
	next := c.index + 1
	if err := c.store.SetCursorIndex(c.name, next); err != nil {
		return fmt.Errorf("save cursor %q: %w", c.name, err)
	}
	c.index = next
	return nil
}
