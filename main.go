package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"studio-finder/api"
	"studio-finder/config"
	"studio-finder/scraper/browser"
	"studio-finder/services"
	"studio-finder/storage"
	"studio-finder/utils"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	ExitSourceError  = 1
	ExitInvalidInput = 2
)

func main() {
	cfg := config.Load()
	var logger *utils.Logger

	app := &cli.App{
		Name:  "studio-finder",
		Usage: "Search rentable studios by date, time window, party size and budget",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Value: cfg.DataSource, Usage: "row source: file, http, csv, postgres, browser"},
			&cli.StringFlag{Name: "data-path", Value: cfg.DataPath, Usage: "JSON or CSV file for the file/csv sources"},
			&cli.StringFlag{Name: "data-url", Value: cfg.DataURL, Usage: "JSON endpoint (http) or page URL (browser)"},
			&cli.StringFlag{Name: "database-url", Value: cfg.DatabaseURL, Usage: "PostgreSQL connection string"},
			&cli.StringFlag{Name: "redis-addr", Value: cfg.RedisAddr, Usage: "cache fetched rows in redis (empty disables)"},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "debug, info, warn, error"},
		},
		Before: func(c *cli.Context) error {
			cfg.DataSource = c.String("source")
			cfg.DataPath = c.String("data-path")
			cfg.DataURL = c.String("data-url")
			cfg.DatabaseURL = c.String("database-url")
			cfg.RedisAddr = c.String("redis-addr")
			cfg.LogLevel = c.String("log-level")
			logger = utils.NewLogger(cfg.LogLevel)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search studios and print ranked matches",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD (default today)"},
					&cli.StringFlag{Name: "start", Value: "18:00", Usage: "window start HH:MM (day mode)"},
					&cli.StringFlag{Name: "end", Usage: "window end HH:MM (default start + 1h)"},
					&cli.StringFlag{Name: "price", Usage: "maximum total price (default unlimited)"},
					&cli.IntFlag{Name: "people", Value: 5, Usage: "party size"},
					&cli.StringFlag{Name: "mode", Value: "day", Usage: "day or night"},
					&cli.StringFlag{Name: "csv", Value: cfg.CSVFilePath, Usage: "also write results to this CSV file"},
				},
				Action: func(c *cli.Context) error { return runSearch(c, cfg, logger) },
			},
			{
				Name:   "stats",
				Usage:  "Print an overview of the studio catalog",
				Action: func(c *cli.Context) error { return runStats(c, cfg, logger) },
			},
			{
				Name:  "import",
				Usage: "Load rows from a JSON or CSV file into PostgreSQL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "input file (.json or .csv)"},
				},
				Action: func(c *cli.Context) error { return runImport(c, cfg, logger) },
			},
			{
				Name:  "serve",
				Usage: "Serve the search API over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: cfg.HTTPAddr, Usage: "listen address"},
				},
				Action: func(c *cli.Context) error { return runServe(c, cfg, logger) },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitSourceError)
	}
}

func runSearch(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	params, err := services.ParamsInput{
		Date:     c.String("date"),
		Start:    c.String("start"),
		End:      c.String("end"),
		MaxPrice: c.String("price"),
		People:   c.Int("people"),
		Mode:     c.String("mode"),
	}.Resolve(time.Now())
	if err != nil {
		return cli.Exit(err.Error(), ExitInvalidInput)
	}

	source, closeFn, err := buildSource(c.Context, cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), ExitSourceError)
	}
	defer closeFn()

	outcome, err := services.NewFinder(source, logger).Find(c.Context, params)
	if err != nil {
		logger.Error("Search failed: %v", err)
		return cli.Exit("studio data could not be loaded", ExitSourceError)
	}

	services.PrintSearchReport(os.Stdout, outcome)

	if path := c.String("csv"); path != "" {
		if err := storage.NewCSVWriter(path, logger).WriteResults(outcome.Summary, outcome.Results); err != nil {
			// Non-fatal: the report is already printed
			logger.Error("Failed to write CSV: %v", err)
		}
	}
	return nil
}

func runStats(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	source, closeFn, err := buildSource(c.Context, cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), ExitSourceError)
	}
	defer closeFn()

	catalog, err := services.NewFinder(source, logger).Catalog(c.Context)
	if err != nil {
		logger.Error("Loading catalog failed: %v", err)
		return cli.Exit("studio data could not be loaded", ExitSourceError)
	}
	services.PrintInsightReport(os.Stdout, services.NewInsightService(logger).Generate(catalog))
	return nil
}

func runImport(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	from := c.String("from")
	var in storage.RowSource
	if strings.EqualFold(filepath.Ext(from), ".csv") {
		in = storage.NewCSVSource(from, logger)
	} else {
		in = storage.NewFileSource(from, logger)
	}
	rows, err := in.FetchRows(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), ExitSourceError)
	}
	if len(rows) == 0 {
		logger.Warn("No rows in %s, nothing to import", from)
		return nil
	}

	pg, err := storage.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Cannot connect to PostgreSQL: %v", err)
		return cli.Exit("database unavailable", ExitSourceError)
	}
	defer pg.Close()

	if err := pg.CreateTable(c.Context); err != nil {
		return cli.Exit(err.Error(), ExitSourceError)
	}
	if err := pg.SaveRows(c.Context, rows); err != nil {
		return cli.Exit(err.Error(), ExitSourceError)
	}

	if cfg.RedisAddr != "" {
		if rdb, err := storage.ConnectRedis(c.Context, cfg.RedisAddr, cfg.RedisPassword); err == nil {
			ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
			if err := storage.NewCachedSource(pg, rdb, ttl, logger).Invalidate(c.Context); err != nil {
				logger.Warn("Could not invalidate cached rows: %v", err)
			}
			_ = rdb.Close()
		}
	}

	fmt.Printf(" Done! Imported %d rows from %s\n", len(rows), from)
	return nil
}

func runServe(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeFn, err := buildSource(ctx, cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), ExitSourceError)
	}
	defer closeFn()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(services.NewFinder(source, logger), logger))
	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s (source %s)", srv.Addr, source.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return cli.Exit(err.Error(), ExitSourceError)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildSource picks the configured row source and, when redis is reachable,
// puts a cache in front of it
func buildSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.RowSource, func(), error) {
	timeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var source storage.RowSource
	switch cfg.DataSource {
	case "file":
		source = storage.NewFileSource(cfg.DataPath, logger)
	case "csv":
		source = storage.NewCSVSource(cfg.DataPath, logger)
	case "http":
		if cfg.DataURL == "" {
			return nil, nil, errors.New("http source needs --data-url")
		}
		source = storage.NewHTTPSource(cfg.DataURL, timeout, cfg.MaxRetries, logger)
	case "browser":
		if cfg.DataURL == "" {
			return nil, nil, errors.New("browser source needs --data-url")
		}
		source = browser.NewSource(cfg.DataURL, cfg.BrowserExpression, timeout, cfg.MaxRetries, logger)
	case "postgres":
		pg, err := storage.NewPostgresStore(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", storage.ErrSourceUnavailable, err)
		}
		closers = append(closers, func() { _ = pg.Close() })
		source = pg
	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.DataSource)
	}

	if cfg.RedisAddr != "" {
		rdb, err := storage.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Redis unavailable, rows will not be cached: %v", err)
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			source = storage.NewCachedSource(source, rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)
		}
	}

	return source, closeAll, nil
}
