package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"linkdir/internal/catalog"
	"linkdir/internal/domain/site"
	"linkdir/internal/feed"
	"linkdir/internal/taxonomy"
)

func (r *run) buildFeed(ctx context.Context) error {
	f := feed.New(r.b.Cfg.Site, catalog.OrderByDate(r.links, true), r.b.now())

	rss, err := feed.RSS(f, r.b.Cfg.Site.Language)
	if err != nil {
		return fmt.Errorf("rss: %w", err)
	}
	if err := writeFile(r.outDir, site.RSSFile, rss); err != nil {
		return err
	}

	atom, err := feed.Atom(f)
	if err != nil {
		return fmt.Errorf("atom: %w", err)
	}
	return writeFile(r.outDir, site.AtomFile, atom)
}

// siteData is the layout of data.json.
type siteData struct {
	Categories      *taxonomy.Tree  `json:"categories"`
	LinksByCategory *catalog.Groups `json:"links_by_category"`
}

func (r *run) buildJSON(ctx context.Context) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(siteData{
		Categories:      r.cat.Tree,
		LinksByCategory: r.cat.Groups,
	}); err != nil {
		return err
	}
	return writeFile(r.outDir, site.DataFile, buf.Bytes())
}

// copyStaticAssets mirrors <theme>/static into the output root, minifying
// stylesheets and html on the way. A theme without a static dir is fine.
func (r *run) copyStaticAssets(ctx context.Context) error {
	src := filepath.Join(r.b.Cfg.Build.ThemeDir, r.b.Cfg.Site.Theme, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out, err := r.min.File(path, in)
		if err != nil {
			return fmt.Errorf("minify %s: %w", rel, err)
		}
		return writeFile(r.outDir, filepath.ToSlash(rel), out)
	})
}
