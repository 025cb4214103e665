package serve

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdir/internal/build"
	"linkdir/internal/domain/config"
	"linkdir/internal/ingest"
	"linkdir/internal/logger"
)

func testServer(t *testing.T, src ingest.Source) (*Server, config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Site.SiteURL = "https://links.example.com/"
	cfg.Source.WorkbookURL = filepath.Join(t.TempDir(), "links.xlsx")
	cfg.Source.CategoriesSheet = ""
	cfg.Build.PublicDir = filepath.Join(t.TempDir(), "docs")
	cfg.Build.ThemeDir = "../../themes"
	cfg.Build.Now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cfg.Snapshot.Enabled = false

	b := &build.Builder{Cfg: cfg, Source: src, Logger: logger.Discard()}
	s := New(cfg, b, logger.Discard())
	t.Cleanup(func() { _ = s.Close() })
	return s, cfg
}

func sampleSource() ingest.MemorySource {
	return ingest.MemorySource{
		"Links": ingest.NewRows(
			[]string{"T1", "http://x", "d", "a > b", "k", "en", "", "", "2020-01-01"},
		),
	}
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestServer_RebuildAndServe(t *testing.T) {
	s, _ := testServer(t, sampleSource())
	require.NoError(t, s.Rebuild(context.Background()))

	h := s.Handler()

	code, body := get(t, h, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "1 links")

	code, _ = get(t, h, "/a/b/http-x.html")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, h, "/sitemap.xml")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, h, "/nope.html")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_Health(t *testing.T) {
	s, _ := testServer(t, sampleSource())
	code, body := get(t, s.Handler(), "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestServer_RebuildValidationError(t *testing.T) {
	s, _ := testServer(t, ingest.MemorySource{
		"Links": ingest.NewRows(
			[]string{"", "http://x", "d", "a", "k", "en", "", "", "2020-01-01"},
		),
	})
	err := s.Rebuild(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestServer_WatchTargets(t *testing.T) {
	s, cfg := testServer(t, sampleSource())

	dirs, err := s.WatchTargets()
	require.NoError(t, err)

	theme := filepath.Join(cfg.Build.ThemeDir, cfg.Site.Theme)
	assert.Contains(t, dirs, theme)
	assert.Contains(t, dirs, filepath.Join(theme, "templates"))

	wb, err := filepath.Abs(cfg.Source.WorkbookURL)
	require.NoError(t, err)
	assert.Contains(t, dirs, filepath.Dir(wb))

	assert.True(t, s.relevant(wb))
	assert.False(t, s.relevant(filepath.Join(filepath.Dir(wb), "other.txt")))
	assert.True(t, s.relevant(filepath.Join(theme, "templates", "home.html.tmpl")))
}

func TestServer_WatchTargetsSkipsRemoteWorkbook(t *testing.T) {
	s, cfg := testServer(t, sampleSource())
	s.cfg.Source.WorkbookURL = "https://docs.example.com/links.xlsx"

	dirs, err := s.WatchTargets()
	require.NoError(t, err)
	for _, d := range dirs {
		assert.Contains(t, d, filepath.Join(cfg.Build.ThemeDir, cfg.Site.Theme))
	}
}
