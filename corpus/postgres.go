package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the table read when PostgresSource.Table is empty.
const DefaultTable = "fraud_articles"

// Querier is the subset of *pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// PostgresSource reads articles from a table with title, url, summary,
// keywords and timestamp columns. Any column type is accepted; values are
// read as text and NULL becomes empty.
type PostgresSource struct {
	Pool  Querier
	Table string // Optionally schema-qualified, e.g. public.fraud_articles
}

var _ Source = (*PostgresSource)(nil)

// NewPool connects to dsn.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

func (s *PostgresSource) table() string {
	if s.Table == "" {
		return DefaultTable
	}
	return s.Table
}

// selectQuery builds the row query with a quoted table identifier.
func (s *PostgresSource) selectQuery() string {
	ident := pgx.Identifier(strings.Split(s.table(), "."))
	return fmt.Sprintf(`
		SELECT COALESCE(title::text, ''), COALESCE(url::text, ''), COALESCE(summary::text, ''),
		       COALESCE(keywords::text, ''), COALESCE("timestamp"::text, '')
		FROM %s`, ident.Sanitize())
}

// Fetch runs the select and scans every row.
func (s *PostgresSource) Fetch(ctx context.Context) ([]RawArticle, error) {
	if s.Pool == nil {
		return nil, fmt.Errorf("postgres source has no pool")
	}

	rows, err := s.Pool.Query(ctx, s.selectQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table(), err)
	}
	defer rows.Close()

	var articles []RawArticle
	for rows.Next() {
		var a RawArticle
		if err := rows.Scan(&a.Title, &a.URL, &a.Summary, &a.Keywords, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

// Describe returns the table name.
func (s *PostgresSource) Describe() string {
	return "postgres " + s.table()
}
