package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"linkdir/internal/catalog"
	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/domain/site"
	"linkdir/internal/render"
	"linkdir/internal/snapshot"
)

// buildCategories writes <path>/index.html for every node of the tree,
// including ancestors no link is filed under.
func (r *run) buildCategories(ctx context.Context) error {
	tree := r.cat.Tree
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.b.workers())

	for _, route := range r.routes.BuildCategoryRoutes() {
		g.Go(func() error {
			c, ok := tree.Get(route.Key)
			if !ok {
				return fmt.Errorf("category %q not in tree", route.Key)
			}
			page := render.CategoryPage{
				Site:        r.b.Cfg.Site,
				Category:    c,
				Children:    tree.Children(route.Key),
				Links:       r.cat.LinksOf(route.Key),
				Breadcrumbs: tree.Breadcrumbs(route.Key),
				RootPath:    tree.RootPath(route.Key),
				Title:       c.Title,
			}
			html, err := r.tpl.RenderCategory(gctx, page)
			if err != nil {
				return fmt.Errorf("render category(%s): %w", route.Key, err)
			}
			return r.writePage(route.OutPath, html)
		})
	}
	return g.Wait()
}

// buildLinks writes the link pages in parallel, then captures screenshots of
// the written pages one by one through a single browser session.
func (r *run) buildLinks(ctx context.Context) error {
	tree := r.cat.Tree
	written := make([]bool, len(r.links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.b.workers())
	for i, l := range r.links {
		g.Go(func() error {
			c, _ := tree.Get(l.CategoryKey)
			page := render.LinkPage{
				Site:        r.b.Cfg.Site,
				Link:        l,
				Category:    c,
				Breadcrumbs: tree.Breadcrumbs(l.CategoryKey),
				RootPath:    tree.RootPath(l.CategoryKey),
				ImageURL:    path.Base(l.ImagePath()),
				Title:       l.Title,
			}
			html, err := r.tpl.RenderLink(gctx, page)
			if err != nil {
				return fmt.Errorf("render link(%d %s): %w", l.Row, l.URL, err)
			}
			if err := r.writePage(l.FilePath, html); err != nil {
				return err
			}
			written[i] = true
			return nil
		})
	}
	err := g.Wait()

	r.takeSnapshots(ctx, written)
	return err
}

func (r *run) takeSnapshots(ctx context.Context, written []bool) {
	cfg := r.b.Cfg
	if !cfg.Snapshot.Enabled {
		r.res.SnapshotsSkipped += len(r.links)
		return
	}

	var pending []content.Link
	for i, l := range r.links {
		if !written[i] {
			continue
		}
		if !cfg.Build.ForceScreenshot && exists(filepath.Join(r.outDir, filepath.FromSlash(l.ImagePath()))) {
			r.res.SnapshotsSkipped++
			continue
		}
		pending = append(pending, l)
	}
	if len(pending) == 0 {
		return
	}

	sess, err := r.b.snapshots().Acquire(ctx)
	if err != nil {
		r.log.Warn("not able to start a browser, screenshots will not be generated",
			slog.String("error", err.Error()))
		r.res.SnapshotsFailed += len(pending)
		return
	}
	defer sess.Close()

	for _, l := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := r.capture(ctx, sess, l); err != nil {
			r.log.Warn("screenshot skipped", slog.String("error", err.Error()))
			r.res.SnapshotsFailed++
			continue
		}
		r.res.SnapshotsTaken++
	}
}

func (r *run) capture(ctx context.Context, sess snapshot.Session, l content.Link) error {
	pageURL, err := snapshot.FileURL(filepath.Join(r.outDir, filepath.FromSlash(l.FilePath)))
	if err != nil {
		return &domainerr.SnapshotError{URL: l.URL, Err: err}
	}
	png, err := sess.Capture(ctx, pageURL)
	if err != nil {
		return &domainerr.SnapshotError{URL: l.URL, Err: err}
	}
	if err := writeFile(r.outDir, l.ImagePath(), png); err != nil {
		return &domainerr.SnapshotError{URL: l.URL, Err: err}
	}
	r.log.Debug("screenshot written", slog.String("path", l.ImagePath()))
	return nil
}

func (r *run) buildHome(ctx context.Context) error {
	page := render.HomePage{
		Site:       r.b.Cfg.Site,
		Latest:     catalog.Latest(r.cat.Links, r.b.Cfg.Build.HomeLimit),
		Categories: r.cat.Tree.Roots(),
		Count:      len(r.cat.Links),
		LastUpdate: r.b.now(),
		RootPath:   "./",
		Title:      r.b.Cfg.Site.Title,
	}
	html, err := r.tpl.RenderHome(ctx, page)
	if err != nil {
		return err
	}
	return r.writePage(site.HomeFile, html)
}

func (r *run) buildSitemap(ctx context.Context) error {
	routes := r.routes.SitemapRoutes(r.links)
	entries := make([]render.SitemapEntry, 0, len(routes))
	for _, route := range routes {
		entries = append(entries, render.SitemapEntry{
			Loc:     site.JoinURL(r.b.Cfg.Site.SiteURL, route.URLPath()),
			LastMod: route.LastMod,
		})
	}
	out, err := r.tpl.RenderSitemap(ctx, render.SitemapPage{Site: r.b.Cfg.Site, Entries: entries})
	if err != nil {
		return err
	}
	if out, err = r.min.XML(out); err != nil {
		return fmt.Errorf("minify %s: %w", site.SitemapFile, err)
	}
	return writeFile(r.outDir, site.SitemapFile, out)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
