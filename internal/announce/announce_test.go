package announce

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/index"
	"linkdir/internal/ingest"
	"linkdir/internal/logger"
)

type memStore struct {
	cursors map[string]int
	sets    int
	failSet bool
	records []index.Announcement
}

func newMemStore() *memStore { return &memStore{cursors: map[string]int{}} }

func (m *memStore) CursorIndex(name string) (int, error) { return m.cursors[name], nil }

func (m *memStore) SetCursorIndex(name string, idx int) error {
	m.sets++
	if m.failSet {
		return errors.New("disk full")
	}
	m.cursors[name] = idx
	return nil
}

func (m *memStore) RecordAnnouncement(a index.Announcement) error {
	m.records = append(m.records, a)
	return nil
}

func (m *memStore) ListAnnouncements(limit int) ([]index.Announcement, error) {
	return m.records, nil
}

type recordingPublisher struct {
	messages []string
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, msg string) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func seq(n int) []content.Link {
	out := make([]content.Link, n)
	for i := range out {
		out[i] = content.Link{Row: i + 2, FilePath: "a/x.html"}
	}
	return out
}

func TestCursor_NextAndAdvance(t *testing.T) {
	st := newMemStore()
	cur, err := LoadCursor("links", seq(2), st)
	require.NoError(t, err)

	l, err := cur.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, l.Row)

	require.NoError(t, cur.Advance())
	assert.Equal(t, 1, st.cursors["links"])

	l, err = cur.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, l.Row)
}

func TestCursor_Exhausted(t *testing.T) {
	st := newMemStore()
	st.cursors["links"] = 3
	cur, err := LoadCursor("links", seq(3), st)
	require.NoError(t, err)

	_, err = cur.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrExhausted)

	var ex *domainerr.ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, 3, ex.Index)
	assert.Equal(t, 3, ex.Len)
}

func TestCursor_AdvanceKeepsPositionOnSaveFailure(t *testing.T) {
	st := newMemStore()
	st.failSet = true
	cur, err := LoadCursor("links", seq(2), st)
	require.NoError(t, err)

	assert.Error(t, cur.Advance())
	assert.Equal(t, 0, cur.Index())
}

func announceConfig() config.Config {
	cfg := config.Default()
	cfg.Site.SiteURL = "https://links.example.com/"
	cfg.Source.WorkbookURL = "links.xlsx"
	return cfg
}

func announceSource() ingest.MemorySource {
	return ingest.MemorySource{
		"Links": ingest.NewRows(
			[]string{"New", "https://new.example", "d", "a > b", "k", "en", "", "", "2021-01-01"},
			[]string{"Old", "https://old.example", "d", "a", "k", "en", "", "", "2020-01-01"},
		),
	}
}

func TestAnnouncer_PublishesOldestFirst(t *testing.T) {
	st := newMemStore()
	pub := &recordingPublisher{}
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	a := &Announcer{
		Source:    announceSource(),
		Config:    announceConfig(),
		Store:     st,
		Publisher: pub,
		Logger:    logger.Discard(),
		Now:       func() time.Time { return at },
	}

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Old", res.Link.Title)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, []string{"Günün linki: https://links.example.com/a/https-old-example.html"}, pub.messages)
	assert.Equal(t, 1, st.cursors["links"])
	require.Len(t, st.records, 1)
	assert.Equal(t, at, st.records[0].At)

	res, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "New", res.Link.Title)
	assert.Equal(t, 2, st.cursors["links"])

	_, err = a.Run(context.Background())
	assert.ErrorIs(t, err, domainerr.ErrExhausted)
	assert.Len(t, pub.messages, 2)
	assert.Equal(t, 2, st.sets, "exhausted run never advances")
}

func TestAnnouncer_DryRunLeavesState(t *testing.T) {
	st := newMemStore()
	pub := &recordingPublisher{}
	a := &Announcer{
		Source:    announceSource(),
		Config:    announceConfig(),
		Store:     st,
		Publisher: pub,
		Logger:    logger.Discard(),
		DryRun:    true,
	}

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, pub.messages, 1)
	assert.Zero(t, st.sets)
	assert.Empty(t, st.records)
}

func TestAnnouncer_PublishFailureDoesNotAdvance(t *testing.T) {
	st := newMemStore()
	a := &Announcer{
		Source:    announceSource(),
		Config:    announceConfig(),
		Store:     st,
		Publisher: &recordingPublisher{err: errors.New("rate limited")},
		Logger:    logger.Discard(),
	}

	_, err := a.Run(context.Background())
	assert.EqualError(t, err, "rate limited")
	assert.Zero(t, st.sets)
}

func TestAnnouncer_WithBoltStore(t *testing.T) {
	st, err := index.Open(index.OpenOptions{Path: filepath.Join(t.TempDir(), "state.db")})
	require.NoError(t, err)
	defer st.Close()

	a := &Announcer{
		Source:    announceSource(),
		Config:    announceConfig(),
		Store:     st,
		Publisher: &recordingPublisher{},
		Logger:    logger.Discard(),
	}
	_, err = a.Run(context.Background())
	require.NoError(t, err)

	idx, err := st.CursorIndex("links")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	hist, err := a.History(10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "https://old.example", hist[0].URL)
}
