package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect covers the syntax differences between supported drivers.
type Dialect interface {
	Placeholder(n int) string
	QuoteIdent(ident string) string
}

// PostgresDialect uses numbered placeholders and double-quoted identifiers.
type PostgresDialect struct{}

func (PostgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (PostgresDialect) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// MySQLDialect uses question mark placeholders and backtick identifiers.
type MySQLDialect struct{}

func (MySQLDialect) Placeholder(int) string { return "?" }

func (MySQLDialect) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// SQLiteDialect uses question mark placeholders and double-quoted identifiers.
type SQLiteDialect struct{}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// DialectFromDriver returns the dialect for a database/sql driver name.
func DialectFromDriver(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return PostgresDialect{}, nil
	case "mysql":
		return MySQLDialect{}, nil
	case "sqlite", "sqlite3":
		return SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}
