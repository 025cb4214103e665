package minify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinifier_CSS(t *testing.T) {
	m := New(Options{CSS: true})

	out, err := m.File("style.css", []byte("body {\n  color : red ;\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, "body{color:red}", string(out))
}

func TestMinifier_HTMLKeepsDocumentTags(t *testing.T) {
	m := New(Options{HTML: true})
	in := "<!doctype html>\n<html>\n  <head>\n    <title>Links</title>\n  </head>\n  <body>\n    <p class=\"x\">hi</p>\n  </body>\n</html>\n"

	out, err := m.HTML([]byte(in))
	require.NoError(t, err)
	assert.Less(t, len(out), len(in))
	assert.Contains(t, string(out), "<html>")
	assert.Contains(t, string(out), "<body>")
	assert.Contains(t, string(out), `class="x"`)
	assert.Contains(t, string(out), "</p>")
}

func TestMinifier_DisabledPassesThrough(t *testing.T) {
	m := New(Options{})
	in := []byte("body {\n  color : red ;\n}\n")

	out, err := m.CSS(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = m.XML([]byte("<urlset>\n  <url/>\n</urlset>"))
	require.NoError(t, err)
	assert.Equal(t, "<urlset>\n  <url/>\n</urlset>", string(out))
}

func TestMinifier_UnknownExtensionIsCopied(t *testing.T) {
	m := New(Options{HTML: true, CSS: true})
	in := []byte{0x89, 'P', 'N', 'G'}

	out, err := m.File("logo.png", in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMinifier_NilIsPassthrough(t *testing.T) {
	var m *Minifier
	out, err := m.HTML([]byte("<p> a </p>"))
	require.NoError(t, err)
	assert.Equal(t, "<p> a </p>", string(out))
}
