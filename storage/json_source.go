package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"studio-finder/models"
	"studio-finder/utils"

	"github.com/goccy/go-json"
)

// DecodeRows parses a JSON array of row objects
func DecodeRows(data []byte) ([]models.RawRow, error) {
	var rows []models.RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// FileSource reads rows from a local JSON file
type FileSource struct {
	path   string
	logger *utils.Logger
}

// NewFileSource creates a new FileSource
func NewFileSource(path string, logger *utils.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Name() string { return "file:" + s.path }

// FetchRows reads and decodes the whole file
func (s *FileSource) FetchRows(_ context.Context) ([]models.RawRow, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, s.path, err)
	}
	rows, err := DecodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.path, err)
	}
	s.logger.Debug("Loaded %d rows from %s", len(rows), s.path)
	return rows, nil
}

// HTTPSource fetches rows from a JSON endpoint, retrying with backoff
type HTTPSource struct {
	url        string
	client     *http.Client
	maxRetries int
	logger     *utils.Logger
}

// NewHTTPSource creates a new HTTPSource
func NewHTTPSource(url string, timeout time.Duration, maxRetries int, logger *utils.Logger) *HTTPSource {
	return &HTTPSource{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (s *HTTPSource) Name() string { return "http:" + s.url }

// FetchRows downloads and decodes the row array
func (s *HTTPSource) FetchRows(ctx context.Context) ([]models.RawRow, error) {
	var rows []models.RawRow
	err := utils.RetryWithBackoff(ctx, s.maxRetries, func() error {
		var err error
		rows, err = s.fetchOnce(ctx)
		return err
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.url, err)
	}
	s.logger.Debug("Fetched %d rows from %s", len(rows), s.url)
	return rows, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]models.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return DecodeRows(body)
}
