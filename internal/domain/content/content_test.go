package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory_AddChildIsSortedSet(t *testing.T) {
	c := &Category{Key: "a"}

	assert.True(t, c.AddChild("a > c"))
	assert.True(t, c.AddChild("a > b"))
	assert.False(t, c.AddChild("a > c"))
	assert.False(t, c.AddChild("a"), "self loop must be rejected")

	assert.Equal(t, []string{"a > b", "a > c"}, c.Children)
	assert.True(t, c.HasChild("a > b"))
	assert.False(t, c.HasChild("a > d"))
}

func TestCategory_SetParentFirstWriterWins(t *testing.T) {
	c := &Category{Key: "a > b"}
	assert.True(t, c.IsRoot())

	assert.True(t, c.SetParent("a"))
	assert.False(t, c.SetParent("x"))
	assert.Equal(t, "a", *c.Parent)
	assert.False(t, c.IsRoot())
}

func TestLink_Paths(t *testing.T) {
	l := Link{
		URL:        "https://google.com",
		FilePath:   "internet/search-engines/https-google-com.html",
		CreateTime: time.Date(1984, 7, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "internet/search-engines/https-google-com.html.png", l.ImagePath())
	assert.Equal(t, "https-google-com", l.Slug())
	assert.Equal(t, "Link(https://google.com)", l.String())
}
