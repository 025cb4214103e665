package ingest

import (
	"strconv"
	"strings"
	"time"

	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/slug"
	"linkdir/internal/taxonomy"
)

// Normalizer turns rows of the links sheet into Links. Cells are read by
// position in config.LinkColumns order.
type Normalizer struct {
	Keys     taxonomy.Keys
	Required map[string]bool
	Location *time.Location
}

func NewNormalizer(cfg config.SourceConfig) *Normalizer {
	required := make(map[string]bool, len(cfg.RequiredColumns))
	for _, c := range cfg.RequiredColumns {
		required[c] = true
	}
	return &Normalizer{
		Keys:     taxonomy.NewKeys(cfg.CategorySeparator),
		Required: required,
		Location: cfg.Location(),
	}
}

// Normalize validates every row before returning. When any row is bad the
// error is a domainerr.ValidationError listing all of them and no links are
// returned.
func (n *Normalizer) Normalize(rows []Row) ([]content.Link, error) {
	var ve domainerr.ValidationError
	links := make([]content.Link, 0, len(rows))
	for _, row := range rows {
		link, items := n.NormalizeRow(row)
		if len(items) > 0 {
			ve.Items = append(ve.Items, items...)
			continue
		}
		links = append(links, link)
	}
	if ve.HasAny() {
		return nil, ve
	}
	return links, nil
}

func (n *Normalizer) NormalizeRow(row Row) (content.Link, []domainerr.FieldError) {
	var ve domainerr.ValidationError
	for i, col := range config.LinkColumns {
		v := row.Cell(i)
		if v == "" {
			if n.Required[col] {
				ve.AddRow(row.Line, col, "missing value")
			}
			continue
		}
		if v != strings.TrimSpace(v) {
			ve.AddRow(row.Line, col, "value must be trimmed")
		}
	}

	cell := func(col string) string {
		for i, c := range config.LinkColumns {
			if c == col {
				return row.Cell(i)
			}
		}
		return ""
	}

	rawCategory := cell(config.ColCategory)
	category := n.Keys.Canonical(rawCategory)
	if rawCategory != "" && category == "" {
		ve.AddRow(row.Line, config.ColCategory, "category has no parts")
	}

	var created time.Time
	if raw := cell(config.ColCreateTime); raw != "" {
		t, err := ParseTime(raw, n.Location)
		if err != nil {
			ve.AddRow(row.Line, config.ColCreateTime, "unrecognized date "+strconv.Quote(raw))
		}
		created = t
	}

	if ve.HasAny() {
		return content.Link{}, ve.Items
	}

	url := cell(config.ColURL)
	return content.Link{
		Row:         row.Line,
		Title:       cell(config.ColTitle),
		URL:         url,
		Description: cell(config.ColDesc),
		CategoryKey: category,
		Kind:        cell(config.ColKind),
		Language:    cell(config.ColLang),
		Sender:      cell(config.ColSender),
		Source:      cell(config.ColSource),
		CreateTime:  created,
		FilePath:    n.FilePath(category, url),
		RawCategory: rawCategory,
	}, nil
}

// FilePath is where the page of a link is written, relative to the site root.
func (n *Normalizer) FilePath(categoryKey, url string) string {
	return n.Keys.Path(categoryKey) + slug.Make(url) + ".html"
}

// Overrides reads the categories sheet: key, title, description. Blank
// title or description cells leave that field unset.
func (n *Normalizer) Overrides(rows []Row) map[string]content.CategoryOverride {
	out := make(map[string]content.CategoryOverride, len(rows))
	for _, row := range rows {
		key := n.Keys.Canonical(row.Cell(0))
		if key == "" {
			continue
		}
		var o content.CategoryOverride
		if t := strings.TrimSpace(row.Cell(1)); t != "" {
			o.Title = &t
		}
		if d := strings.TrimSpace(row.Cell(2)); d != "" {
			o.Description = &d
		}
		out[key] = o
	}
	return out
}
