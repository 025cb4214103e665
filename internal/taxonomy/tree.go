package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
)

const missingCategoryMsg = "category appears in overrides but has no associated links"

// Tree maps canonical category keys to their nodes.
type Tree struct {
	keys  Keys
	nodes map[string]*content.Category
}

// Build folds the category keys of links into a tree. Every prefix of every
// key gets a node. The result does not depend on the order of links.
//
// Override keys may be in any spelling of the separator. Overrides whose key
// ends up without a node, and distinct categories that slug to the same
// path, are reported as warnings.
func Build(keys Keys, links []content.Link, overrides map[string]content.CategoryOverride) (*Tree, []domainerr.Warning) {
	t := &Tree{
		keys:  keys,
		nodes: make(map[string]*content.Category),
	}
	overrides = canonicalOverrides(keys, overrides)

	// ensure direct nodes
	for _, l := range links {
		t.ensure(keys.Canonical(l.CategoryKey), overrides)
	}

	// link ancestors
	for _, l := range links {
		child := keys.Canonical(l.CategoryKey)
		for child != "" {
			t.ensure(child, overrides)
			parent, ok := keys.ParentKey(child)
			if !ok {
				break
			}
			t.ensure(parent, overrides)
			t.nodes[child].SetParent(parent)
			t.nodes[parent].AddChild(child)
			child = parent
		}
	}

	var warns []domainerr.Warning
	for _, key := range sortedKeys(overrides) {
		if _, ok := t.nodes[key]; ok {
			continue
		}
		warns = append(warns, domainerr.Warning{
			Kind:    domainerr.KindMissingCategory,
			Key:     key,
			Message: missingCategoryMsg,
		})
	}
	return t, append(warns, t.pathCollisions()...)
}

// canonicalOverrides re-keys overrides by canonical key. When two spellings
// name the same category the one sorting last wins.
func canonicalOverrides(keys Keys, overrides map[string]content.CategoryOverride) map[string]content.CategoryOverride {
	out := make(map[string]content.CategoryOverride, len(overrides))
	for _, k := range sortedKeys(overrides) {
		if c := keys.Canonical(k); c != "" {
			out[c] = overrides[k]
		}
	}
	return out
}

// pathCollisions reports categories whose directory is already taken by a
// category sorting before them, e.g. "C" and "c".
func (t *Tree) pathCollisions() []domainerr.Warning {
	var warns []domainerr.Warning
	owner := make(map[string]string, len(t.nodes))
	for _, key := range t.SortedKeys() {
		p := t.nodes[key].Path
		if first, ok := owner[p]; ok {
			warns = append(warns, domainerr.Warning{
				Kind:    domainerr.KindPathCollision,
				Key:     key,
				Message: fmt.Sprintf("shares directory %s with %q", p, first),
			})
			continue
		}
		owner[p] = key
	}
	return warns
}

func (t *Tree) ensure(key string, overrides map[string]content.CategoryOverride) {
	if key == "" {
		return
	}
	if _, ok := t.nodes[key]; ok {
		return
	}
	t.nodes[key] = newNode(t.keys, key, overrides)
}

func newNode(keys Keys, key string, overrides map[string]content.CategoryOverride) *content.Category {
	name := keys.Name(key)
	c := &content.Category{
		Key:      key,
		Name:     name,
		Title:    name,
		Path:     keys.Path(key),
		Children: []string{},
	}
	if o, ok := overrides[key]; ok {
		if o.Title != nil {
			c.Title = *o.Title
		}
		if o.Description != nil {
			desc := *o.Description
			c.Description = &desc
		}
	}
	return c
}

func (t *Tree) Keys() Keys { return t.keys }

func (t *Tree) Len() int { return len(t.nodes) }

// Get looks key up in canonical form.
func (t *Tree) Get(key string) (*content.Category, bool) {
	c, ok := t.nodes[t.keys.Canonical(key)]
	return c, ok
}

// Nodes returns the backing map. Callers must not mutate it.
func (t *Tree) Nodes() map[string]*content.Category {
	return t.nodes
}

// SortedKeys lists every key in byte order.
func (t *Tree) SortedKeys() []string {
	return sortedKeys(t.nodes)
}

// Roots returns depth-0 categories ordered by key.
func (t *Tree) Roots() []*content.Category {
	var out []*content.Category
	for _, k := range t.SortedKeys() {
		if c := t.nodes[k]; c.IsRoot() {
			out = append(out, c)
		}
	}
	return out
}

// Children resolves the child keys of key into nodes.
func (t *Tree) Children(key string) []*content.Category {
	c, ok := t.Get(key)
	if !ok {
		return nil
	}
	out := make([]*content.Category, 0, len(c.Children))
	for _, k := range c.Children {
		if child, ok := t.nodes[k]; ok {
			out = append(out, child)
		}
	}
	return out
}

// Breadcrumbs returns the nodes from the root down to key.
func (t *Tree) Breadcrumbs(key string) []*content.Category {
	var out []*content.Category
	for _, k := range t.keys.Breadcrumbs(key) {
		if c, ok := t.nodes[k]; ok {
			out = append(out, c)
		}
	}
	return out
}

// RootPath is the relative prefix from the page of key back to the site root.
func (t *Tree) RootPath(key string) string {
	return t.keys.RootPath(t.keys.Canonical(key))
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t.nodes); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
