// Package minify shrinks generated pages and theme assets.
package minify

import (
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/xml"
)

const (
	MediaHTML = "text/html"
	MediaCSS  = "text/css"
	MediaXML  = "text/xml"
)

type Options struct {
	HTML bool
	CSS  bool
}

// Minifier passes content through untouched for media types that are
// switched off. XML follows the HTML switch.
type Minifier struct {
	m    *minify.M
	opts Options
}

func New(opts Options) *Minifier {
	m := minify.New()
	m.Add(MediaHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(MediaCSS, css.Minify)
	m.AddFunc(MediaXML, xml.Minify)
	return &Minifier{m: m, opts: opts}
}

func (m *Minifier) enabled(media string) bool {
	switch media {
	case MediaHTML, MediaXML:
		return m.opts.HTML
	case MediaCSS:
		return m.opts.CSS
	default:
		return false
	}
}

func (m *Minifier) Bytes(media string, b []byte) ([]byte, error) {
	if m == nil || !m.enabled(media) {
		return b, nil
	}
	return m.m.Bytes(media, b)
}

func (m *Minifier) HTML(b []byte) ([]byte, error) { return m.Bytes(MediaHTML, b) }

func (m *Minifier) CSS(b []byte) ([]byte, error) { return m.Bytes(MediaCSS, b) }

func (m *Minifier) XML(b []byte) ([]byte, error) { return m.Bytes(MediaXML, b) }

// File minifies by file extension; unknown extensions are copied as-is.
func (m *Minifier) File(name string, b []byte) ([]byte, error) {
	media := MediaForExt(filepath.Ext(name))
	if media == "" {
		return b, nil
	}
	return m.Bytes(media, b)
}

func MediaForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return MediaHTML
	case ".css":
		return MediaCSS
	case ".xml":
		return MediaXML
	default:
		return ""
	}
}
