package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

// Dialect selects SQL flavour and driver for a SQLStore.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(s)); d {
	case DialectMySQL, DialectPostgres, DialectSQLite:
		return d, nil
	}
	return "", fmt.Errorf("unsupported dialect %q", s)
}

func (d Dialect) driverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectSQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

func (d Dialect) gooseDialect() goose.Dialect {
	switch d {
	case DialectPostgres:
		return goose.DialectPostgres
	case DialectSQLite:
		return goose.DialectSQLite3
	default:
		return goose.DialectMySQL
	}
}

// lockSuffix is appended to row reads inside a transaction. SQLite has no
// row locks; its write transactions are serialized instead.
func (d Dialect) lockSuffix() string {
	if d == DialectSQLite {
		return ""
	}
	return " FOR UPDATE"
}

// rebind rewrites ? placeholders to $n for postgres. Queries in this package
// never contain ? inside string literals.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a lower-cased contains pattern for LIKE ... ESCAPE '!'.
func likePattern(term string) string {
	return "%" + strings.ToLower(likeEscaper.Replace(term)) + "%"
}

// dbTime normalizes times before they are written or compared so text
// timestamps in SQLite order the same way as native ones.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func dbTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dbTime(*t)
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
