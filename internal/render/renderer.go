package render

import "context"

type Renderer interface {
	RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error)
	RenderLink(ctx context.Context, page LinkPage) ([]byte, error)
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderSitemap(ctx context.Context, page SitemapPage) ([]byte, error)
}
