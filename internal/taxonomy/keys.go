// Package taxonomy derives category paths from category keys and folds the
// keys used by links into a category tree.
package taxonomy

import (
	"strings"

	"linkdir/internal/slug"
)

const DefaultSeparator = ">"

// Keys holds the string transforms over category keys such as
// "internet > search engines". The zero value uses DefaultSeparator.
type Keys struct {
	Separator string
}

func NewKeys(separator string) Keys {
	return Keys{Separator: separator}
}

func (k Keys) sep() string {
	if k.Separator == "" {
		return DefaultSeparator
	}
	return k.Separator
}

// Parts splits key on the separator, trims every part and drops empty ones.
//
//	Parts("a >  b> ") -> ["a", "b"]
func (k Keys) Parts(key string) []string {
	raw := strings.Split(key, k.sep())
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (k Keys) join(parts []string) string {
	return strings.Join(parts, " "+k.sep()+" ")
}

// Canonical re-joins the parts of key with " <sep> ", so "a>b" and " a > b "
// name the same category.
func (k Keys) Canonical(key string) string {
	return k.join(k.Parts(key))
}

// Path is the slugged directory of the category with a trailing slash.
// Every part yields a non-empty segment.
//
//	Path("a > b > c") -> "a/b/c/"
//	Path("Новости")   -> "novosti/"
func (k Keys) Path(key string) string {
	parts := k.Parts(key)
	slugs := make([]string, len(parts))
	for i, p := range parts {
		slugs[i] = slug.Segment(p)
	}
	return strings.Join(slugs, "/") + "/"
}

// Depth counts separator occurrences in the raw key. Leading, trailing or
// doubled separators count too, so Depth can exceed len(Parts)-1.
func (k Keys) Depth(key string) int {
	return strings.Count(key, k.sep())
}

// RootPath is the relative prefix from a category page back to the site root.
//
//	RootPath("a > b > c") -> "../../../"
func (k Keys) RootPath(key string) string {
	return strings.Repeat("../", k.Depth(key)+1)
}

// ParentKey drops the last part of key. ok is false for keys with at most
// one part.
func (k Keys) ParentKey(key string) (parent string, ok bool) {
	parts := k.Parts(key)
	if len(parts) <= 1 {
		return "", false
	}
	return k.join(parts[:len(parts)-1]), true
}

// Name is the last part of key.
func (k Keys) Name(key string) string {
	parts := k.Parts(key)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Breadcrumbs lists the canonical key of every prefix of key, root first.
//
//	Breadcrumbs("a > b > c") -> ["a", "a > b", "a > b > c"]
func (k Keys) Breadcrumbs(key string) []string {
	parts := k.Parts(key)
	out := make([]string, len(parts))
	for i := range parts {
		out[i] = k.join(parts[:i+1])
	}
	return out
}
