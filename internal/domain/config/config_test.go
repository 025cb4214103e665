package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_NeedsSiteAndSource(t *testing.T) {
	err := Default().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site_url")
	assert.Contains(t, err.Error(), "workbook_url")
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Setenv("LINKDIR_TEST_SHEET", "https://example.com/links.xlsx")
	path := writeConfig(t, `
site:
  title: Links
  site_url: https://links.example.com/
source:
  workbook_url: ${LINKDIR_TEST_SHEET}
  timezone_hours: 0
build:
  public_dir: out
snapshot:
  timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/links.xlsx", cfg.Source.WorkbookURL)
	assert.Equal(t, "out", cfg.Build.PublicDir)
	assert.Equal(t, "themes", cfg.Build.ThemeDir, "unset fields keep defaults")
	assert.Equal(t, ">", cfg.Source.CategorySeparator)
	assert.Equal(t, 0, cfg.Source.TimezoneHours)
	assert.Equal(t, 5*time.Second, cfg.Snapshot.Timeout)
	assert.True(t, cfg.Build.MinifyHTML)
	assert.False(t, cfg.Build.Now.IsZero())
}

func TestLoad_RejectsUnknownRequiredColumn(t *testing.T) {
	path := writeConfig(t, `
site:
  site_url: https://links.example.com/
source:
  workbook_url: links.xlsx
  required_columns: [title, colour]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required_columns")
}

func TestLoad_RejectsRelativeSiteURL(t *testing.T) {
	path := writeConfig(t, `
site:
  site_url: links.example.com
source:
  workbook_url: links.xlsx
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute URL")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "defaults alone do not name a workbook")
}

func TestSourceConfig_Location(t *testing.T) {
	loc := SourceConfig{TimezoneHours: 3}.Location()
	_, offset := time.Date(2020, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3*3600, offset)
}

func TestTwitterConfig_ValidateCredentials(t *testing.T) {
	tw := Default().Twitter
	require.Error(t, tw.ValidateCredentials())

	tw.ConsumerKey, tw.ConsumerSecret = "ck", "cs"
	tw.AccessToken, tw.AccessTokenSecret = "at", "as"
	assert.NoError(t, tw.ValidateCredentials())
}
