package store

import sq "github.com/Masterminds/squirrel"

// ListOption narrows a request query.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStatus(statuses ...int) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"status": statuses})
	}
}

func ByPath(paths ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"path": paths})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}
