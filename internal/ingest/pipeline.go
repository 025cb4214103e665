package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"linkdir/internal/domain/config"
	"linkdir/internal/domain/content"
)

type Dataset struct {
	Links     []content.Link
	Overrides map[string]content.CategoryOverride
}

// Ingest fetches the links sheet, validates and normalizes it, then reads the
// optional categories sheet. A validation failure is returned before the
// categories sheet is touched.
func Ingest(ctx context.Context, src Source, cfg config.SourceConfig, logger *slog.Logger) (*Dataset, error) {
	rows, err := src.Fetch(ctx, cfg.LinksSheet)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cfg.LinksSheet, err)
	}
	logger.Debug("links sheet fetched", slog.String("sheet", cfg.LinksSheet), slog.Int("rows", len(rows)))

	n := NewNormalizer(cfg)
	logger.Info("validating workbook", slog.Int("rows", len(rows)))
	links, err := n.Normalize(rows)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Links:     links,
		Overrides: map[string]content.CategoryOverride{},
	}
	if cfg.CategoriesSheet == "" {
		return ds, nil
	}

	catRows, err := src.Fetch(ctx, cfg.CategoriesSheet)
	if errors.Is(err, ErrSheetNotFound) {
		// the categories sheet is optional
		logger.Debug("no categories sheet", slog.String("sheet", cfg.CategoriesSheet))
		return ds, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cfg.CategoriesSheet, err)
	}
	ds.Overrides = n.Overrides(catRows)
	logger.Debug("category overrides read", slog.Int("overrides", len(ds.Overrides)))
	return ds, nil
}
