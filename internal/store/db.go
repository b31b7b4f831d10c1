package store

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

const memoryPath = ":memory:"

// NewDB opens a DuckDB database at path. An empty path or ":memory:" opens an
// in-memory database shared by every connection of the returned pool.
func NewDB(path string) (*sql.DB, error) {
	if path == memoryPath {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to duckdb %q: %w", path, err)
	}
	return db, nil
}
