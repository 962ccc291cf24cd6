// Package browser loads studio rows from pages that only expose their rate
// sheet through JavaScript, by evaluating an expression in headless Chrome.
package browser

import (
	"context"
	"fmt"
	"time"

	"studio-finder/models"
	"studio-finder/storage"
	"studio-finder/utils"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Source navigates to PageURL and evaluates Expression, which must yield
// (or resolve to) an array of row objects
type Source struct {
	pageURL    string
	expression string
	timeout    time.Duration
	maxRetries int
	logger     *utils.Logger
}

// NewSource creates a new browser Source
func NewSource(pageURL, expression string, timeout time.Duration, maxRetries int, logger *utils.Logger) *Source {
	return &Source{
		pageURL:    pageURL,
		expression: expression,
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (s *Source) Name() string { return "browser:" + s.pageURL }

// newContext creates a fresh chromedp context (one browser, one tab)
func (s *Source) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// FetchRows renders the page and decodes the expression result
func (s *Source) FetchRows(ctx context.Context) ([]models.RawRow, error) {
	var rows []models.RawRow
	err := utils.RetryWithBackoff(ctx, s.maxRetries, func() error {
		var err error
		rows, err = s.fetchOnce(ctx)
		return err
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrSourceUnavailable, s.pageURL, err)
	}
	s.logger.Info("Browser source %s: %d rows", s.pageURL, len(rows))
	return rows, nil
}

func (s *Source) fetchOnce(ctx context.Context) ([]models.RawRow, error) {
	bctx, cancel := s.newContext(ctx)
	defer cancel()

	bctx, cancelTimeout := context.WithTimeout(bctx, s.timeout)
	defer cancelTimeout()

	s.logger.Debug("Loading %s...", s.pageURL)

	var raw []byte
	err := chromedp.Run(bctx,
		chromedp.Navigate(s.pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(s.expression, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("evaluate on %s: %w", s.pageURL, err)
	}
	return storage.DecodeRows(raw)
}
