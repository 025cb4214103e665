package site

import (
	"net/url"
	"path"
	"strings"
	"time"
)

type RouteKind string

const (
	RouteHome       RouteKind = "home"
	RouteCategory   RouteKind = "category"
	RouteLink       RouteKind = "link"
	RouteScreenshot RouteKind = "screenshot"
	RouteSitemap    RouteKind = "sitemap"
	RouteRSS        RouteKind = "rss"
	RouteAtom       RouteKind = "atom"
	RouteData       RouteKind = "data"
)

// Fixed output names at the site root.
const (
	HomeFile    = "index.html"
	SitemapFile = "sitemap.xml"
	RSSFile     = "rss.xml"
	AtomFile    = "atom.xml"
	DataFile    = "data.json"
)

// Route is one generated file. OutPath is slash separated and relative to
// the output root.
type Route struct {
	Kind    RouteKind
	Key     string
	OutPath string
	LastMod time.Time
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// URLPath is the path a browser asks for. Directory indexes drop their
// index.html.
func (r Route) URLPath() string {
	p := r.OutPath
	if path.Base(p) == HomeFile {
		p = strings.TrimSuffix(p, HomeFile)
	}
	return p
}

// Indexable reports whether the route belongs in the sitemap.
func (r Route) Indexable() bool {
	switch r.Kind {
	case RouteHome, RouteCategory, RouteLink:
		return true
	default:
		return false
	}
}

// JoinURL resolves rel against base the way a browser resolves a relative
// link, so a base without a trailing slash loses its last segment.
func JoinURL(base, rel string) string {
	b, err := url.Parse(base)
	if err != nil {
		return base + rel
	}
	r, err := url.Parse(rel)
	if err != nil {
		return base + rel
	}
	return b.ResolveReference(r).String()
}
