// Package catalog groups normalized links by category and orders them by date.
package catalog

import (
	"bytes"
	"encoding/json"
	"sort"

	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/taxonomy"
)

// Groups keeps links per category key. Keys come back in first-seen order and
// the links of a key in input order.
type Groups struct {
	order []string
	links map[string][]content.Link
}

func GroupByCategory(links []content.Link) *Groups {
	g := &Groups{links: make(map[string][]content.Link)}
	for _, l := range links {
		if _, ok := g.links[l.CategoryKey]; !ok {
			g.order = append(g.order, l.CategoryKey)
		}
		g.links[l.CategoryKey] = append(g.links[l.CategoryKey], l)
	}
	return g
}

func (g *Groups) Keys() []string {
	return append([]string(nil), g.order...)
}

func (g *Groups) Links(key string) []content.Link {
	return g.links[key]
}

func (g *Groups) Len() int { return len(g.order) }

func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(g.links); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// OrderByDate sorts a copy of links by CreateTime. Links with equal times keep
// their input order in both directions.
func OrderByDate(links []content.Link, descending bool) []content.Link {
	out := append([]content.Link(nil), links...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].CreateTime.After(out[j].CreateTime)
		}
		return out[i].CreateTime.Before(out[j].CreateTime)
	})
	return out
}

// Latest returns at most n of the newest links.
func Latest(links []content.Link, n int) []content.Link {
	ordered := OrderByDate(links, true)
	if n >= 0 && len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

// Catalog is everything the renderers read: the links, the tree built from
// them, the per-category groups and the newest-first sequence.
type Catalog struct {
	Links    []content.Link
	Tree     *taxonomy.Tree
	Groups   *Groups
	ByDate   []content.Link
	Warnings []domainerr.Warning
}

func New(keys taxonomy.Keys, links []content.Link, overrides map[string]content.CategoryOverride) *Catalog {
	tree, warns := taxonomy.Build(keys, links, overrides)
	return &Catalog{
		Links:    links,
		Tree:     tree,
		Groups:   GroupByCategory(links),
		ByDate:   OrderByDate(links, true),
		Warnings: warns,
	}
}

// LinksOf returns the links filed directly under the category key.
func (c *Catalog) LinksOf(key string) []content.Link {
	return c.Groups.Links(c.Tree.Keys().Canonical(key))
}
