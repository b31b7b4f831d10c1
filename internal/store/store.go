package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	requests *RequestStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		requests: NewRequestStore(db),
	}
}

func (s *Store) Requests() *RequestStore {
	return s.requests
}

func (s *Store) Close() error {
	return s.db.Close()
}
