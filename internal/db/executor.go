package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prompted/hrconsume/internal/models"
	"github.com/prompted/hrconsume/internal/sqlfrag"
)

// Executor runs composed fragments against a database/sql pool and returns
// every row as a column map.
type Executor struct {
	db      *sql.DB
	dialect sqlfrag.Dialect
}

// NewExecutor creates an Executor that renders fragments with dialect.
func NewExecutor(db *sql.DB, dialect sqlfrag.Dialect) *Executor {
	return &Executor{db: db, dialect: dialect}
}

// Query renders q and runs it. Column values are returned as the driver
// produced them, except []byte which is copied into a string.
func (e *Executor) Query(ctx context.Context, q sqlfrag.Fragment) ([]models.Row, error) {
	text, args, err := q.Render(e.dialect)
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}

	rows, err := e.db.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	out := []models.Row{}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(models.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
