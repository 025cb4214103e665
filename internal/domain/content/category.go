package content

import "sort"

// Category is one node of the category tree. Parent and Children hold
// category keys, never pointers, so the map that owns the nodes is the only
// place they are linked.
type Category struct {
	Key         string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description *string  `json:"desc"`
	Path        string   `json:"path"`
	Parent      *string  `json:"parent"`
	Children    []string `json:"children"`
}

// CategoryOverride carries optional metadata from the categories sheet.
type CategoryOverride struct {
	Title       *string
	Description *string
}

// AddChild inserts key into Children keeping it sorted. Adding an existing key
// or the node's own key is a no-op. It reports whether the set changed.
func (c *Category) AddChild(key string) bool {
	if key == c.Key {
		return false
	}
	i := sort.SearchStrings(c.Children, key)
	if i < len(c.Children) && c.Children[i] == key {
		return false
	}
	c.Children = append(c.Children, "")
	copy(c.Children[i+1:], c.Children[i:])
	c.Children[i] = key
	return true
}

func (c *Category) HasChild(key string) bool {
	i := sort.SearchStrings(c.Children, key)
	return i < len(c.Children) && c.Children[i] == key
}

// SetParent assigns the parent only once; later calls are ignored.
func (c *Category) SetParent(key string) bool {
	if c.Parent != nil {
		return false
	}
	c.Parent = &key
	return true
}

func (c *Category) IsRoot() bool {
	return c.Parent == nil
}

func (c *Category) DescriptionText() string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}
