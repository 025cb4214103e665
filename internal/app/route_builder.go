package app

import (
	"fmt"
	"time"

	"linkdir/internal/catalog"
	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/domain/site"
)

// RouteBuilder lays out every file a build writes.
type RouteBuilder struct {
	Catalog *catalog.Catalog
	Now     time.Time
}

// UniqueLinks keeps the links that own a page. When two links share a
// FilePath the later one takes the slot of the earlier and a collision
// warning is reported. The catalog is built from the result, so every
// output sees one link per page.
func UniqueLinks(links []content.Link) ([]content.Link, []domainerr.Warning) {
	var (
		out   []content.Link
		warns []domainerr.Warning
	)
	at := make(map[string]int, len(links))
	for _, l := range links {
		if i, ok := at[l.FilePath]; ok {
			warns = append(warns, domainerr.Warning{
				Kind: domainerr.KindPathCollision,
				Key:  l.FilePath,
				Message: fmt.Sprintf("line %d overwrites line %d (%s)",
					l.Row, out[i].Row, out[i].URL),
			})
			out[i] = l
			continue
		}
		at[l.FilePath] = len(out)
		out = append(out, l)
	}
	return out, warns
}

// BuildCategoryRoutes covers every tree node, linked or synthesized, in key
// order.
func (rb *RouteBuilder) BuildCategoryRoutes() []site.Route {
	tree := rb.Catalog.Tree
	keys := tree.SortedKeys()
	routes := make([]site.Route, 0, len(keys))
	for _, k := range keys {
		c, _ := tree.Get(k)
		routes = append(routes, site.Route{
			Kind:    site.RouteCategory,
			Key:     k,
			OutPath: c.Path + site.HomeFile,
			LastMod: rb.Now,
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildLinkRoutes(links []content.Link) []site.Route {
	routes := make([]site.Route, 0, len(links))
	for _, l := range links {
		routes = append(routes, site.Route{
			Kind:    site.RouteLink,
			Key:     l.CategoryKey,
			OutPath: l.FilePath,
			LastMod: l.CreateTime,
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildRootRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteHome, OutPath: site.HomeFile, LastMod: rb.Now},
		{Kind: site.RouteSitemap, OutPath: site.SitemapFile, LastMod: rb.Now},
		{Kind: site.RouteRSS, OutPath: site.RSSFile, LastMod: rb.Now},
		{Kind: site.RouteAtom, OutPath: site.AtomFile, LastMod: rb.Now},
		{Kind: site.RouteData, OutPath: site.DataFile, LastMod: rb.Now},
	}
}

// SitemapRoutes lists the pages a crawler should see: home, categories,
// then links.
func (rb *RouteBuilder) SitemapRoutes(links []content.Link) []site.Route {
	var out []site.Route
	for _, r := range rb.BuildRootRoutes() {
		if r.Indexable() {
			out = append(out, r)
		}
	}
	out = append(out, rb.BuildCategoryRoutes()...)
	out = append(out, rb.BuildLinkRoutes(links)...)
	return out
}
