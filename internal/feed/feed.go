// Package feed writes the RSS and Atom documents of the directory.
package feed

import (
	"time"

	"github.com/gorilla/feeds"

	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
	"linkdir/internal/domain/site"
)

// New builds one feed item per link, in the order given. Callers pass the
// links newest first.
func New(s config.SiteConfig, links []content.Link, updated time.Time) *feeds.Feed {
	f := &feeds.Feed{
		Id:          s.SiteURL,
		Title:       s.Title,
		Description: s.Description,
		Link:        &feeds.Link{Href: s.SiteURL, Rel: "alternate"},
		Updated:     updated,
		Created:     updated,
		Items:       make([]*feeds.Item, 0, len(links)),
	}
	for _, l := range links {
		href := site.JoinURL(s.SiteURL, l.FilePath)
		f.Items = append(f.Items, &feeds.Item{
			Id:          href,
			Title:       l.Title,
			Description: l.Description,
			Link:        &feeds.Link{Href: href, Rel: "alternate", Type: "text/html"},
			Created:     l.CreateTime,
			Updated:     l.CreateTime,
		})
	}
	return f
}

// RSS renders f as RSS 2.0 with the channel language set.
func RSS(f *feeds.Feed, language string) ([]byte, error) {
	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = language
	out, err := feeds.ToXML(rss)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func Atom(f *feeds.Feed) ([]byte, error) {
	out, err := f.ToAtom()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
