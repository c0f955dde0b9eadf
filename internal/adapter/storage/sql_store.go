package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/port"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// repo implements port.Repository over either the pool or one transaction.
type repo struct {
	q       queryer
	dialect Dialect
	inTx    bool
}

var _ port.Tx = (*repo)(nil)

// SQLStore is the relational store for every dialect.
type SQLStore struct {
	*repo
	db *sql.DB
}

var _ port.Store = (*SQLStore)(nil)

// Open connects to the database. For sqlite, dsn is a file path.
func Open(ctx context.Context, dialect Dialect, dsn string, maxOpenConns int) (*SQLStore, error) {
	dsn, err := dialect.normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// One connection serializes writers; busy_timeout covers other processes.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns / 2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return New(db, dialect), nil
}

func New(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		repo: &repo{q: db, dialect: dialect},
		db:   db,
	}
}

func (d Dialect) normalizeDSN(dsn string) (string, error) {
	switch d {
	case DialectSQLite:
		q := url.Values{}
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "foreign_keys(1)")
		q.Set("_txlock", "immediate")
		return "file:" + dsn + "?" + q.Encode(), nil
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	default:
		return dsn, nil
	}
}

func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// WithinTx runs fn in one transaction. Any error from fn rolls back every
// write made through tx.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx port.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin tx", err)
	}
	defer tx.Rollback()

	if err := fn(&repo{q: tx, dialect: s.dialect, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}

func (r *repo) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.q.ExecContext(ctx, r.dialect.rebind(query), args...)
}

func (r *repo) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.q.QueryContext(ctx, r.dialect.rebind(query), args...)
}

func (r *repo) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.q.QueryRowContext(ctx, r.dialect.rebind(query), args...)
}

// insert runs an INSERT and returns the generated id.
func (r *repo) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if r.dialect == DialectPostgres {
		var id int64
		err := r.queryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}

	res, err := r.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *repo) forUpdate() string {
	if !r.inTx {
		return ""
	}
	return r.dialect.lockSuffix()
}

func (r *repo) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var n int
	if err := r.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, storeErr(op, err)
	}
	return n > 0, nil
}

func (r *repo) count(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int
	if err := r.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, storeErr(op, err)
	}
	return n, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func timeFrom(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
