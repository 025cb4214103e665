package render

import (
	"time"

	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
)

// CategoryPage is <categoryPath>/index.html. Links is empty for categories
// that only exist as ancestors.
type CategoryPage struct {
	Site        config.SiteConfig
	Category    *content.Category
	Children    []*content.Category
	Links       []content.Link
	Breadcrumbs []*content.Category
	RootPath    string
	Title       string
}

// LinkPage is <categoryPath>/<slug>.html. ImageURL is relative to the page.
type LinkPage struct {
	Site        config.SiteConfig
	Link        content.Link
	Category    *content.Category
	Breadcrumbs []*content.Category
	RootPath    string
	ImageURL    string
	Title       string
}

type HomePage struct {
	Site       config.SiteConfig
	Latest     []content.Link
	Categories []*content.Category
	Count      int
	LastUpdate time.Time
	RootPath   string
	Title      string
}

type SitemapEntry struct {
	Loc     string
	LastMod time.Time
}

type SitemapPage struct {
	Site    config.SiteConfig
	Entries []SitemapEntry
}
