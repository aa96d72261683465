// Package postgres executes compiled queries against PostgreSQL tables that hold
// one JSONB document per record.
//
// Each collection maps to a table named <prefix><collection> with columns
// id text primary key and doc jsonb.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kailas-cloud/sieve/internal/db"
)

// Compile-time checks.
var (
	_ db.Engine = (*Engine)(nil)
	_ db.Pinger = (*Engine)(nil)
)

// Config holds connection parameters.
type Config struct {
	DSN         string
	TablePrefix string
}

// Engine implements db.Engine over database/sql with the lib/pq driver.
type Engine struct {
	db     *sql.DB
	prefix string
}

// Open connects to PostgreSQL and configures the pool.
func Open(cfg Config) (*Engine, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	return New(conn, cfg.TablePrefix), nil
}

// New wraps an existing connection pool.
func New(conn *sql.DB, tablePrefix string) *Engine {
	return &Engine{db: conn, prefix: tablePrefix}
}

// Ping checks connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the pool.
func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) table(collection string) string {
	return quoteIdentifier(e.prefix + collection)
}

// filtered renders the inner query exposing id, doc and rank for matching rows.
func (e *Engine) filtered(q *db.Query) (string, Fragments, error) {
	f, err := Render(q.Predicate, q.Rank, q.Order)
	if err != nil {
		return "", Fragments{}, err
	}
	rank := f.Rank
	if rank == "" {
		rank = "0"
	}
	inner := fmt.Sprintf("SELECT t.id, t.doc, %s AS rank FROM %s AS t WHERE %s", rank, e.table(q.Collection), f.Where)
	return inner, f, nil
}

// FindSQL renders the statement Find executes.
func (e *Engine) FindSQL(q *db.Query) (string, []any, error) {
	inner, f, err := e.filtered(q)
	if err != nil {
		return "", nil, err
	}
	args := f.Args
	query := fmt.Sprintf("SELECT t.doc, COUNT(*) OVER() AS total FROM (%s) AS t ORDER BY %s", inner, f.OrderBy)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args, nil
}

// Find returns one page of matches.
func (e *Engine) Find(ctx context.Context, q *db.Query) (*db.Page, error) {
	query, args, err := e.FindSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	page := &db.Page{Data: []any{}}
	total := 0
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc, &total); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		rec, err := db.Decode(doc, q.Type)
		if err != nil {
			return nil, err
		}
		page.Data = append(page.Data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	if q.CountTotal {
		if len(page.Data) == 0 && q.Offset > 0 {
			if total, err = e.count(ctx, q); err != nil {
				return nil, err
			}
		}
		page.Count = &total
	}
	return page, nil
}

// count is used when the page is past the end and the window total is unavailable.
func (e *Engine) count(ctx context.Context, q *db.Query) (int, error) {
	f, err := Render(q.Predicate, nil, nil)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s AS t WHERE %s", e.table(q.Collection), f.Where)
	var n int
	if err := e.db.QueryRowContext(ctx, query, f.Args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: err}
	}
	return n, nil
}

// IndexOfSQL renders the statement IndexOf executes.
// Records are identified by the text of q.IDField, or by the id column when
// IDField is unset.
func (e *Engine) IndexOfSQL(q *db.Query, id string) (string, []any, error) {
	inner, f, err := e.filtered(q)
	if err != nil {
		return "", nil, err
	}
	key := "t.id"
	if !q.IDField.IsSelf() {
		key = text(q.IDField, "t.doc")
	}
	args := append(f.Args, id)
	query := fmt.Sprintf(
		"SELECT s.pos FROM (SELECT %s AS record_id, ROW_NUMBER() OVER (ORDER BY %s) - 1 AS pos FROM (%s) AS t) AS s WHERE s.record_id = $%d",
		key, f.OrderBy, inner, len(args),
	)
	return query, args, nil
}

// IndexOf returns the 0-based position of id among all matches, or -1.
func (e *Engine) IndexOf(ctx context.Context, q *db.Query, id string) (int, error) {
	query, args, err := e.IndexOfSQL(q, id)
	if err != nil {
		return 0, err
	}
	var pos int
	err = e.db.QueryRowContext(ctx, query, args...).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: err}
	}
	return pos, nil
}

// Put upserts a record document.
func (e *Engine) Put(ctx context.Context, collection, id string, record any) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc",
		e.table(collection),
	)
	if _, err := e.db.ExecContext(ctx, query, id, doc); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// EnsureTable creates the collection table when it does not exist.
func (e *Engine) EnsureTable(ctx context.Context, collection string) error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id text PRIMARY KEY, doc jsonb NOT NULL)", e.table(collection))
	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	return nil
}
