package sqlfrag

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect decides how bound values are written into rendered SQL.
type Dialect interface {
	// Placeholder returns the marker for the index-th bound value (1-based).
	Placeholder(index int) string
}

var (
	// Dollar renders $1, $2, ... (PostgreSQL).
	Dollar Dialect = dollarDialect{}
	// Question renders ? for every value (SQLite, ClickHouse, MySQL).
	Question Dialect = questionDialect{}
)

type dollarDialect struct{}

func (dollarDialect) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

type questionDialect struct{}

func (questionDialect) Placeholder(int) string {
	return "?"
}

// ParseDialect maps a configuration name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "pgx", "dollar":
		return Dollar, nil
	case "sqlite", "clickhouse", "mysql", "question":
		return Question, nil
	default:
		return nil, fmt.Errorf("sqlfrag: unknown dialect %q", name)
	}
}
