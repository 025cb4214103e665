package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"linkdir/internal/app"
	"linkdir/internal/catalog"
	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/ingest"
	"linkdir/internal/minify"
	"linkdir/internal/render"
	"linkdir/internal/snapshot"
	"linkdir/internal/taxonomy"
)

// Builder turns the workbook into the static site under Build.PublicDir.
// Renderer, Snapshots and Minifier are built from Cfg when left nil.
type Builder struct {
	Cfg       config.Config
	Source    ingest.Source
	Renderer  render.Renderer
	Snapshots snapshot.Service
	Minifier  *minify.Minifier
	Logger    *slog.Logger
}

type Result struct {
	Links            int
	Categories       int
	Pages            int
	SnapshotsTaken   int
	SnapshotsSkipped int
	SnapshotsFailed  int
	Warnings         []domainerr.Warning
}

// Run fetches and validates the workbook, then runs every output stage.
// A fetch or validation error is returned before anything is written. A
// failing output stage does not stop the later ones; their errors come back
// joined, each wrapped in a domainerr.RenderError, next to a Result that
// describes what was written.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := b.logger()

	ds, err := ingest.Ingest(ctx, b.Source, b.Cfg.Source, log)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	links, collisions := app.UniqueLinks(ds.Links)
	keys := taxonomy.NewKeys(b.Cfg.Source.CategorySeparator)
	cat := catalog.New(keys, links, ds.Overrides)
	rb := &app.RouteBuilder{Catalog: cat, Now: b.now()}

	res := &Result{
		Links:      len(ds.Links),
		Categories: cat.Tree.Len(),
		Warnings:   append(append([]domainerr.Warning(nil), collisions...), cat.Warnings...),
	}
	for _, w := range res.Warnings {
		log.Warn("build warning", slog.String("kind", string(w.Kind)), slog.String("detail", w.String()))
	}
	log.Info("catalog ready",
		slog.Int("links", res.Links),
		slog.Int("categories", res.Categories),
		slog.Int("groups", cat.Groups.Len()))

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	r := &run{
		b:      b,
		log:    log,
		cat:    cat,
		routes: rb,
		links:  links,
		outDir: outDir,
		min:    b.minifier(),
		res:    res,
	}

	var errs []error
	stage := func(name string, fn func(context.Context) error) {
		if ctx.Err() != nil {
			errs = append(errs, &domainerr.RenderError{Stage: name, Err: ctx.Err()})
			return
		}
		start := time.Now()
		if err := fn(ctx); err != nil {
			log.Error("stage failed", slog.String("stage", name), slog.String("error", err.Error()))
			errs = append(errs, &domainerr.RenderError{Stage: name, Err: err})
			return
		}
		log.Info("stage done", slog.String("stage", name), slog.Duration("took", time.Since(start)))
	}

	stage(StageAssets, r.copyStaticAssets)

	tpl, err := b.renderer()
	if err != nil {
		errs = append(errs, &domainerr.RenderError{Stage: StageTemplates, Err: err})
		log.Error("templates not loaded, skipping pages", slog.String("error", err.Error()))
	} else {
		r.tpl = tpl
		stage(StageCategories, r.buildCategories)
		stage(StageLinks, r.buildLinks)
		stage(StageHome, r.buildHome)
		stage(StageSitemap, r.buildSitemap)
	}
	stage(StageFeed, r.buildFeed)
	stage(StageJSON, r.buildJSON)

	res.Pages = int(r.pages.Load())
	return res, errors.Join(errs...)
}

const (
	StageAssets     = "assets"
	StageTemplates  = "templates"
	StageCategories = "categories"
	StageLinks      = "links"
	StageHome       = "home"
	StageSitemap    = "sitemap"
	StageFeed       = "feed"
	StageJSON       = "json"
)

// run carries the state shared by the stages of one build.
type run struct {
	b      *Builder
	log    *slog.Logger
	cat    *catalog.Catalog
	routes *app.RouteBuilder
	links  []content.Link
	outDir string
	tpl    render.Renderer
	min    *minify.Minifier
	res    *Result
	pages  atomic.Int64
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Builder) now() time.Time {
	if b.Cfg.Build.Now.IsZero() {
		return time.Now()
	}
	return b.Cfg.Build.Now
}

func (b *Builder) workers() int {
	if b.Cfg.Build.Workers > 0 {
		return b.Cfg.Build.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (b *Builder) renderer() (render.Renderer, error) {
	if b.Renderer != nil {
		return b.Renderer, nil
	}
	if err := render.CheckThemeTemplates(render.TemplateDir(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)); err != nil {
		return nil, fmt.Errorf("theme %s: %w", b.Cfg.Site.Theme, err)
	}
	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load themes(%s): %w", b.Cfg.Build.ThemeDir, err)
	}
	return tpl, nil
}

func (b *Builder) minifier() *minify.Minifier {
	if b.Minifier != nil {
		return b.Minifier
	}
	return minify.New(minify.Options{
		HTML: b.Cfg.Build.MinifyHTML,
		CSS:  b.Cfg.Build.MinifyCSS,
	})
}

func (b *Builder) snapshots() snapshot.Service {
	if b.Snapshots != nil {
		return b.Snapshots
	}
	return snapshot.NewChrome(snapshot.Options{
		ExecPath: b.Cfg.Snapshot.ExecPath,
		Width:    b.Cfg.Snapshot.Width,
		Height:   b.Cfg.Snapshot.Height,
		Timeout:  b.Cfg.Snapshot.Timeout,
	})
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// writePage minifies a rendered page and writes it under the output root.
func (r *run) writePage(rel string, html []byte) error {
	out, err := r.min.HTML(html)
	if err != nil {
		return fmt.Errorf("minify %s: %w", rel, err)
	}
	if err := writeFile(r.outDir, rel, out); err != nil {
		return err
	}
	r.pages.Add(1)
	return nil
}
