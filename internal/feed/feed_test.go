package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
)

func testFeedInput() (config.SiteConfig, []content.Link) {
	s := config.SiteConfig{
		Title:       "Links",
		Description: "Hand picked links",
		SiteURL:     "https://links.example.com/",
		Language:    "tr",
	}
	links := []content.Link{
		{
			Title:       "Newer",
			URL:         "https://b.example",
			Description: "second",
			FilePath:    "a/https-b-example.html",
			CreateTime:  time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:       "Older & wiser",
			URL:         "https://a.example",
			Description: "first",
			FilePath:    "a/b/https-a-example.html",
			CreateTime:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	return s, links
}

func TestNew(t *testing.T) {
	s, links := testFeedInput()
	f := New(s, links, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, f.Items, 2)
	assert.Equal(t, "Newer", f.Items[0].Title)
	assert.Equal(t, "https://links.example.com/a/https-b-example.html", f.Items[0].Link.Href)
	assert.Equal(t, "https://links.example.com/a/b/https-a-example.html", f.Items[1].Id)
}

func TestRSS(t *testing.T) {
	s, links := testFeedInput()
	out, err := RSS(New(s, links, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), s.Language)
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, `<rss version="2.0"`)
	assert.Contains(t, xml, "<language>tr</language>")
	assert.Contains(t, xml, "<title>Older &amp; wiser</title>")
	assert.Contains(t, xml, "<link>https://links.example.com/a/https-b-example.html</link>")
}

func TestAtom(t *testing.T) {
	s, links := testFeedInput()
	out, err := Atom(New(s, links, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, `<feed xmlns="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, xml, "<id>https://links.example.com/a/b/https-a-example.html</id>")
	assert.Contains(t, xml, "<updated>2021-03-01T00:00:00Z</updated>")
}
