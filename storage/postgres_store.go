package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studio-finder/models"
	"studio-finder/utils"

	_ "github.com/lib/pq"
)

// PostgresStore keeps raw rate rows in the studio_rates table. It is both a
// RowStore (import) and a RowSource (search).
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens the connection pool and pings the DB
func NewPostgresStore(connStr string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresStore{db: db, logger: logger}, nil
}

func (s *PostgresStore) Name() string { return "postgres:studio_rates" }

// CreateTable creates the studio_rates table if it doesn't exist. Every
// column is TEXT: rows are stored as received and cleaned at search time.
func (s *PostgresStore) CreateTable(ctx context.Context) error {
	cols := make([]string, len(rowColumns))
	for i, c := range rowColumns {
		cols[i] = fmt.Sprintf("\t\t%s TEXT NOT NULL DEFAULT ''", c)
	}
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS studio_rates (
		id SERIAL PRIMARY KEY,
%s,
		imported_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_studio_rates_studio ON studio_rates (studio_id, studio_name);
	`, strings.Join(cols, ",\n"))

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	s.logger.Info("Table 'studio_rates' is ready")
	return nil
}

// SaveRows inserts rows in a single transaction, keeping their order
func (s *PostgresStore) SaveRows(ctx context.Context, rows []models.RawRow) (err error) {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	placeholders := make([]string, len(rowColumns))
	for i := range rowColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO studio_rates (%s) VALUES (%s)",
		strings.Join(rowColumns, ", "), strings.Join(placeholders, ", "),
	))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		fields := rowFields(&rows[i])
		args := make([]interface{}, len(fields))
		for j, f := range fields {
			args[j] = string(*f)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Inserted %d rows into PostgreSQL", len(rows))
	return nil
}

// FetchRows returns all stored rows in insertion order
func (s *PostgresStore) FetchRows(ctx context.Context) ([]models.RawRow, error) {
	query := fmt.Sprintf("SELECT %s FROM studio_rates ORDER BY id", strings.Join(rowColumns, ", "))
	rs, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query studio_rates: %v", ErrSourceUnavailable, err)
	}
	defer rs.Close()

	var rows []models.RawRow
	for rs.Next() {
		var row models.RawRow
		fields := rowFields(&row)
		vals := make([]sql.NullString, len(fields))
		dest := make([]interface{}, len(fields))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan studio_rates: %v", ErrSourceUnavailable, err)
		}
		for i, v := range vals {
			*fields[i] = models.Text(v.String)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate studio_rates: %v", ErrSourceUnavailable, err)
	}
	return rows, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
