package storage

import (
	"context"
	"errors"

	"studio-finder/models"
)

// ErrSourceUnavailable marks a row source that could not deliver any rows.
// It is the only fatal condition of a search.
var ErrSourceUnavailable = errors.New("row source unavailable")

// RowSource yields the raw studio rate rows
type RowSource interface {
	Name() string
	FetchRows(ctx context.Context) ([]models.RawRow, error)
}

// RowStore persists raw rows for later searches
type RowStore interface {
	SaveRows(ctx context.Context, rows []models.RawRow) error
	Close() error
}
