package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the SQL differences between the supported databases
type Dialect interface {
	// Name is the dialect's short name and its migrations subdirectory
	Name() string

	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders where the driver needs another syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId is false when inserts need a RETURNING clause
	SupportsLastInsertId() bool

	ConfigureConnection(db *sql.DB) error
	CreateMigrationsTableQuery() string

	// UpsertKV inserts or replaces a kv_entries row. Arguments: key, value.
	UpsertKV() string

	// InsertIgnore inserts one value into column, skipping rows that violate a unique constraint
	InsertIgnore(table, column string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// networkPool is used for the postgres and mysql servers
var networkPool = poolSettings{maxOpen: 25, maxIdle: 5, maxLifetime: 5 * time.Minute, maxIdleTime: time.Minute}

func (p poolSettings) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	db.SetConnMaxIdleTime(p.maxIdleTime)
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ... leaving
// question marks inside quoted strings and identifiers alone
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote rune
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
