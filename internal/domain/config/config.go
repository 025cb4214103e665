package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Column names of the links sheet, in sheet order.
const (
	ColTitle      = "title"
	ColURL        = "url"
	ColDesc       = "desc"
	ColCategory   = "category_id"
	ColKind       = "kind"
	ColLang       = "lang"
	ColSender     = "sender"
	ColSource     = "source"
	ColCreateTime = "create_time"
)

var LinkColumns = []string{
	ColTitle, ColURL, ColDesc, ColCategory, ColKind, ColLang, ColSender, ColSource, ColCreateTime,
}

func init() {
	// report field names as written in site.yaml
	validation.ErrorTag = "yaml"
}

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Source   SourceConfig   `yaml:"source"`
	Build    BuildConfig    `yaml:"build"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Announce AnnounceConfig `yaml:"announce"`
	Twitter  TwitterConfig  `yaml:"twitter"`
	Log      LogConfig      `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
	Theme       string `yaml:"theme"`
}

type SourceConfig struct {
	// WorkbookURL is an http(s) URL or a local path to an .xlsx file.
	WorkbookURL       string   `yaml:"workbook_url"`
	LinksSheet        string   `yaml:"links_sheet"`
	CategoriesSheet   string   `yaml:"categories_sheet"`
	CategorySeparator string   `yaml:"category_separator"`
	RequiredColumns   []string `yaml:"required_columns"`
	TimezoneHours     int      `yaml:"timezone_hours"`
}

type BuildConfig struct {
	PublicDir       string    `yaml:"public_dir"`
	ThemeDir        string    `yaml:"theme_dir"`
	ForceScreenshot bool      `yaml:"force_screenshot"`
	MinifyHTML      bool      `yaml:"minify_html"`
	MinifyCSS       bool      `yaml:"minify_css"`
	HomeLimit       int       `yaml:"home_limit"`
	Workers         int       `yaml:"workers"`
	Now             time.Time `yaml:"-"`
}

type SnapshotConfig struct {
	Enabled  bool          `yaml:"enabled"`
	ExecPath string        `yaml:"exec_path"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Timeout  time.Duration `yaml:"timeout"`
}

type AnnounceConfig struct {
	StatePath     string `yaml:"state_path"`
	Cursor        string `yaml:"cursor"`
	MessagePrefix string `yaml:"message_prefix"`
	DryRun        bool   `yaml:"dry_run"`
}

type TwitterConfig struct {
	ConsumerKey       string `yaml:"consumer_key"`
	ConsumerSecret    string `yaml:"consumer_secret"`
	AccessToken       string `yaml:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret"`
	Endpoint          string `yaml:"endpoint"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Links",
			Theme:    "default",
			Language: "tr",
		},
		Source: SourceConfig{
			LinksSheet:        "Links",
			CategoriesSheet:   "Categories",
			CategorySeparator: ">",
			RequiredColumns: []string{
				ColTitle, ColURL, ColDesc, ColCategory, ColKind, ColLang, ColCreateTime,
			},
			TimezoneHours: 3,
		},
		Build: BuildConfig{
			PublicDir:  "docs",
			ThemeDir:   "themes",
			MinifyHTML: true,
			MinifyCSS:  true,
			HomeLimit:  50,
			Now:        time.Now(),
		},
		Snapshot: SnapshotConfig{
			Enabled: true,
			Width:   600,
			Height:  400,
			Timeout: 30 * time.Second,
		},
		Announce: AnnounceConfig{
			StatePath:     ".linkdir/state.db",
			Cursor:        "links",
			MessagePrefix: "Günün linki: ",
		},
		Twitter: TwitterConfig{
			Endpoint: "https://api.twitter.com/2/tweets",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Site),
		validation.Field(&c.Source),
		validation.Field(&c.Build),
		validation.Field(&c.Snapshot),
		validation.Field(&c.Announce),
		validation.Field(&c.Log),
	)
}

func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.SiteURL, validation.Required, validation.By(absURL)),
		validation.Field(&c.Theme, validation.Required),
	)
}

func (c SourceConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.WorkbookURL, validation.Required),
		validation.Field(&c.LinksSheet, validation.Required),
		validation.Field(&c.CategorySeparator, validation.Required),
		validation.Field(&c.RequiredColumns, validation.Each(validation.In(toAny(LinkColumns)...))),
		validation.Field(&c.TimezoneHours, validation.Min(-12), validation.Max(14)),
	)
}

func (c BuildConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PublicDir, validation.Required),
		validation.Field(&c.ThemeDir, validation.Required),
		validation.Field(&c.HomeLimit, validation.Min(0)),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

func (c SnapshotConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Width, validation.Required, validation.Min(1)),
		validation.Field(&c.Height, validation.Required, validation.Min(1)),
		validation.Field(&c.Timeout, validation.Required),
	)
}

func (c AnnounceConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.StatePath, validation.Required),
		validation.Field(&c.Cursor, validation.Required),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.Format, validation.In("text", "json")),
	)
}

// ValidateCredentials checks what the announce command needs to post.
func (c TwitterConfig) ValidateCredentials() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ConsumerKey, validation.Required),
		validation.Field(&c.ConsumerSecret, validation.Required),
		validation.Field(&c.AccessToken, validation.Required),
		validation.Field(&c.AccessTokenSecret, validation.Required),
		validation.Field(&c.Endpoint, validation.Required, validation.By(absURL)),
	)
}

// Location is the fixed zone attached to link creation times.
func (c SourceConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.TimezoneHours), c.TimezoneHours*3600)
}

func absURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a valid absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be a valid absolute URL")
	}
	if u.Host == "" {
		return errors.New("must be a valid absolute URL")
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// Load overlays the YAML file at path on Default. ${VAR} references are
// expanded from the environment before parsing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load that falls back to Default when path does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	return nil
}
