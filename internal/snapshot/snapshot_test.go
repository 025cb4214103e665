package snapshot

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileURL(t *testing.T) {
	dir := t.TempDir()
	u, err := FileURL(filepath.Join(dir, "a", "b", "https-x.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"), u)
	assert.True(t, strings.HasSuffix(u, "/a/b/https-x.html"), u)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewChrome_Defaults(t *testing.T) {
	c := NewChrome(Options{})
	assert.Equal(t, 600, c.opts.Width)
	assert.Equal(t, 400, c.opts.Height)
	assert.Equal(t, 30*time.Second, c.opts.Timeout)
	assert.Equal(t, CleanerScript, c.opts.Script)
}

func findBrowser() string {
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func TestChrome_Capture(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a browser")
	}
	browser := findBrowser()
	if browser == "" {
		t.Skip("no chrome or chromium on PATH")
	}

	page := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><body><header></header><div id="page"><h1>hello</h1></div></body></html>`), 0o644))
	pageURL, err := FileURL(page)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sess, err := NewChrome(Options{ExecPath: browser}).Acquire(ctx)
	require.NoError(t, err)
	defer sess.Close()

	png, err := sess.Capture(ctx, pageURL)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
