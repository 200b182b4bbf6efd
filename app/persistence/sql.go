package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/umputun/jobdash/app/jobs"
)

// Dialect is the relational backend flavor
type Dialect string

// supported dialects, values are the database/sql driver names
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DefaultTable is the table delayed_job keeps its records in
const DefaultTable = "delayed_jobs"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// columns selected for a record, order matches jobRow tags
const jobColumns = "id, priority, attempts, handler, last_error, run_at, locked_at, failed_at, locked_by, queue, created_at, updated_at"

// orderBy is the listing order, rows without created_at go last on every dialect
const orderBy = " ORDER BY created_at DESC NULLS LAST, id ASC"

// SQLStore implements the job query store over a relational table
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	table   string
}

// jobRow is a scanned table row
type jobRow struct {
	ID        int64          `db:"id"`
	Priority  int            `db:"priority"`
	Attempts  int            `db:"attempts"`
	Handler   sql.NullString `db:"handler"`
	LastError sql.NullString `db:"last_error"`
	RunAt     sql.NullTime   `db:"run_at"`
	LockedAt  sql.NullTime   `db:"locked_at"`
	FailedAt  sql.NullTime   `db:"failed_at"`
	LockedBy  sql.NullString `db:"locked_by"`
	Queue     sql.NullString `db:"queue"`
	CreatedAt sql.NullTime   `db:"created_at"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

// NewSQLStore opens a relational store. For sqlite dsn is a file path, for postgres a
// connection url. Empty table defaults to DefaultTable.
func NewSQLStore(dialect Dialect, dsn, table string) (*SQLStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}

	if dialect == DialectSQLite && !strings.Contains(dsn, "_time_format=") {
		// sortable time text instead of time.Time.String()
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_time_format=sqlite"
	}

	db, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// enable WAL mode for better concurrency with the queue workers
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to set WAL mode: %w (also failed to close db: %v)", err, closeErr)
			}
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}

	return &SQLStore{db: db, dialect: dialect, table: table}, nil
}

// Initialize creates the job table if it doesn't exist. The queue normally owns the schema,
// this is for empty databases only.
func (s *SQLStore) Initialize(ctx context.Context) error {
	idCol, tsType := "id INTEGER PRIMARY KEY AUTOINCREMENT", "DATETIME"
	if s.dialect == DialectPostgres {
		idCol, tsType = "id BIGSERIAL PRIMARY KEY", "TIMESTAMP"
	}
	indexName := strings.ReplaceAll(s.table, ".", "_") + "_priority"

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
			%[2]s,
			priority INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			handler TEXT NOT NULL DEFAULT '',
			last_error TEXT,
			run_at %[3]s,
			locked_at %[3]s,
			failed_at %[3]s,
			locked_by VARCHAR(255),
			queue VARCHAR(255),
			created_at %[3]s,
			updated_at %[3]s
		)`, s.table, idCol, tsType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (priority, run_at)`, indexName, s.table),
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Find returns a page of records matching the query together with the total count
func (s *SQLStore) Find(ctx context.Context, q Query) (Page, error) {
	if err := q.validate(); err != nil {
		return Page{}, err
	}
	where, args := sqlWhere(q.Predicate)

	total, err := s.count(ctx, where, args)
	if err != nil {
		return Page{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", jobColumns, s.table, where) + orderBy
	if !q.Unpaged {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows := []jobRow{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return Page{}, fmt.Errorf("failed to query jobs: %w", err)
	}

	res := Page{Jobs: make([]jobs.Record, 0, len(rows)), Total: total}
	for _, row := range rows {
		res.Jobs = append(res.Jobs, row.record())
	}
	return res, nil
}

// Count returns the number of records matching the predicate
func (s *SQLStore) Count(ctx context.Context, p jobs.Predicate) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("invalid predicate: %w", err)
	}
	where, args := sqlWhere(p)
	return s.count(ctx, where, args)
}

// IDs returns ids of all records matching the predicate at call time
func (s *SQLStore) IDs(ctx context.Context, p jobs.Predicate) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid predicate: %w", err)
	}
	where, args := sqlWhere(p)
	query := fmt.Sprintf("SELECT id FROM %s%s", s.table, where) + orderBy

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query job ids: %w", err)
	}
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, strconv.FormatInt(id, 10))
	}
	return res, nil
}

// Get returns a single record by id
func (s *SQLStore) Get(ctx context.Context, id string) (jobs.Record, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return jobs.Record{}, err
	}
	var row jobRow
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", jobColumns, s.table)
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(query), rowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jobs.Record{}, fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
		}
		return jobs.Record{}, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return row.record(), nil
}

// Delete removes the record with the given id
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	rowID, err := parseRowID(id)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table)
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), rowID)
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}
	return s.checkAffected(res, id)
}

// Requeue sets run_at of the record to the given time, attempts and last_error are kept
func (s *SQLStore) Requeue(ctx context.Context, id string, at time.Time) error {
	rowID, err := parseRowID(id)
	if err != nil {
		return err
	}
	at = at.UTC()
	query := fmt.Sprintf("UPDATE %s SET run_at = ?, updated_at = ? WHERE id = ?", s.table)
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), at, at, rowID)
	if err != nil {
		return fmt.Errorf("failed to requeue job %s: %w", id, err)
	}
	return s.checkAffected(res, id)
}

// Ping checks the database is reachable
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// String describes the store for logging
func (s *SQLStore) String() string {
	return fmt.Sprintf("%s:%s", s.dialect, s.table)
}

func (s *SQLStore) count(ctx context.Context, where string, args []any) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, where)
	if err := s.db.GetContext(ctx, &total, s.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return total, nil
}

func (s *SQLStore) checkAffected(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for job %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
	}
	if affected > 1 {
		log.Printf("[WARN] %d rows affected for job id %s", affected, id)
	}
	return nil
}

// sqlWhere translates a validated predicate to a where clause with bind args.
// Field names are safe to inline, Validate restricts them to known columns.
func sqlWhere(p jobs.Predicate) (string, []any) {
	switch p.Kind {
	case jobs.FieldPresent:
		return fmt.Sprintf(" WHERE %s IS NOT NULL", p.Field), nil
	case jobs.FieldAbsent:
		return fmt.Sprintf(" WHERE %s IS NULL", p.Field), nil
	case jobs.FieldEquals:
		return fmt.Sprintf(" WHERE %s = ?", p.Field), []any{p.Value}
	default:
		return "", nil
	}
}

// parseRowID converts a record id to the integer primary key. A malformed id can't match
// any row, so it is reported as not found.
func parseRowID(id string) (int64, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", jobs.ErrNotFound, id)
	}
	return rowID, nil
}

func (r jobRow) record() jobs.Record {
	rec := jobs.Record{
		ID:        strconv.FormatInt(r.ID, 10),
		Priority:  r.Priority,
		Attempts:  r.Attempts,
		Handler:   r.Handler.String,
		LockedBy:  r.LockedBy.String,
		Queue:     r.Queue.String,
		RunAt:     r.RunAt.Time,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.LastError.Valid {
		msg := r.LastError.String
		rec.LastError = &msg
	}
	if r.LockedAt.Valid {
		ts := r.LockedAt.Time
		rec.LockedAt = &ts
	}
	if r.FailedAt.Valid {
		ts := r.FailedAt.Time
		rec.FailedAt = &ts
	}
	return rec
}
