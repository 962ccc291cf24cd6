package services

import (
	"context"
	"fmt"

	"studio-finder/models"
	"studio-finder/storage"
	"studio-finder/utils"
)

// Outcome is everything a renderer needs for one search
type Outcome struct {
	Summary models.Summary
	Results []models.SearchResult
	Catalog []models.Studio
}

// Finder runs the whole pipeline: fetch rows, build the catalog, search
type Finder struct {
	source  storage.RowSource
	builder *CatalogBuilder
	engine  *SearchEngine
	logger  *utils.Logger
}

// NewFinder creates a new Finder over a row source
func NewFinder(source storage.RowSource, logger *utils.Logger) *Finder {
	return &Finder{
		source:  source,
		builder: NewCatalogBuilder(logger),
		engine:  NewSearchEngine(logger),
		logger:  logger,
	}
}

// Catalog fetches rows and builds a fresh catalog
func (f *Finder) Catalog(ctx context.Context) ([]models.Studio, error) {
	rows, err := f.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rows from %s: %w", f.source.Name(), err)
	}
	return f.builder.Build(rows), nil
}

// Find searches a freshly built catalog. A party of zero or fewer is an
// empty outcome and does not touch the source.
func (f *Finder) Find(ctx context.Context, p models.SearchParams) (*Outcome, error) {
	if p.PartyHeadcount <= 0 {
		f.logger.Debug("Headcount %d, skipping search", p.PartyHeadcount)
		return &Outcome{Summary: NewSummary(p, nil)}, nil
	}

	catalog, err := f.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	results := f.engine.Search(catalog, p)
	summary := NewSummary(p, results)
	f.logger.Info("Found %d matches (%s, %s, %d people, %.0f㎡ required)",
		summary.Count, summary.Mode, summary.DayLabel, summary.Headcount, summary.RequiredArea)

	return &Outcome{Summary: summary, Results: results, Catalog: catalog}, nil
}
