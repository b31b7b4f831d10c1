package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/workpool/internal/models"
	srvErrors "github.com/kubev2v/workpool/pkg/errors"
)

const requestsTable = "requests"

// RequestStore keeps the history of served requests.
type RequestStore struct {
	db *sql.DB
}

func NewRequestStore(db *sql.DB) *RequestStore {
	return &RequestStore{db: db}
}

// Record inserts r. ServedAt defaults to now when zero.
func (s *RequestStore) Record(ctx context.Context, r models.Request) error {
	if r.ServedAt.IsZero() {
		r.ServedAt = time.Now()
	}

	query, args, err := sq.Insert(requestsTable).
		Columns("id", "method", "path", "status", "duration_us", "served_at").
		Values(r.ID, r.Method, r.Path, r.Status, r.Duration.Microseconds(), r.ServedAt.UTC()).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record request %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the request with the given id.
func (s *RequestStore) Get(ctx context.Context, id string) (*models.Request, error) {
	query, args, err := s.selectRequests().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	r, err := scanRequest(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewResourceNotFoundError("request", id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns requests, most recent first.
func (s *RequestStore) List(ctx context.Context, opts ...ListOption) ([]models.Request, error) {
	builder := s.selectRequests().OrderBy("served_at DESC", "id")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

func (s *RequestStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(requestsTable)
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RequestStore) selectRequests() sq.SelectBuilder {
	return sq.Select("id", "method", "path", "status", "duration_us", "served_at").From(requestsTable)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (models.Request, error) {
	var (
		r          models.Request
		durationUS int64
	)
	if err := row.Scan(&r.ID, &r.Method, &r.Path, &r.Status, &durationUS, &r.ServedAt); err != nil {
		return models.Request{}, err
	}
	r.Duration = time.Duration(durationUS) * time.Microsecond
	return r, nil
}
