package announce

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"linkdir/internal/catalog"
	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
	"linkdir/internal/domain/site"
	"linkdir/internal/index"
	"linkdir/internal/ingest"
	"linkdir/internal/publish"
)

// Store is the persistence the announcer needs: the cursor plus a log of
// what was published.
type Store interface {
	CursorStore
	RecordAnnouncement(a index.Announcement) error
	ListAnnouncements(limit int) ([]index.Announcement, error)
}

type Announcer struct {
	Source    ingest.Source
	Config    config.Config
	Store     Store
	Publisher publish.Publisher
	Logger    *slog.Logger

	// DryRun publishes through Publisher but leaves the cursor and the
	// history untouched.
	DryRun bool
	Now    func() time.Time
}

type Result struct {
	Link    content.Link
	Index   int
	Message string
}

// Message is the text posted for link.
func Message(prefix, siteURL string, link content.Link) string {
	return prefix + site.JoinURL(siteURL, link.FilePath)
}

func (a *Announcer) Run(ctx context.Context) (*Result, error) {
	src := a.Config.Source
	src.CategoriesSheet = ""
	ds, err := ingest.Ingest(ctx, a.Source, src, a.Logger)
	if err != nil {
		return nil, err
	}
	seq := catalog.OrderByDate(ds.Links, false)

	cur, err := LoadCursor(a.Config.Announce.Cursor, seq, a.Store)
	if err != nil {
		return nil, err
	}
	link, err := cur.Next()
	if err != nil {
		return nil, err
	}

	msg := Message(a.Config.Announce.MessagePrefix, a.Config.Site.SiteURL, link)
	a.Logger.Info("announcing link",
		slog.Int("index", cur.Index()),
		slog.Int("total", cur.Len()),
		slog.String("url", link.URL))

	if err := a.Publisher.Publish(ctx, msg); err != nil {
		return nil, err
	}
	res := &Result{Link: link, Index: cur.Index(), Message: msg}
	if a.DryRun {
		return res, nil
	}

	if err := cur.Advance(); err != nil {
		return nil, fmt.Errorf("published but cursor not saved: %w", err)
	}
	rec := index.Announcement{
		Cursor:   a.Config.Announce.Cursor,
		Index:    res.Index,
		URL:      link.URL,
		FilePath: link.FilePath,
		Message:  msg,
		At:       a.now(),
	}
	if err := a.Store.RecordAnnouncement(rec); err != nil {
		a.Logger.Warn("announcement not recorded", slog.String("error", err.Error()))
	}
	return res, nil
}

// History lists recorded announcements, newest first.
func (a *Announcer) History(limit int) ([]index.Announcement, error) {
	return a.Store.ListAnnouncements(limit)
}

func (a *Announcer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
