// Package store implements the request history for workpool.
//
// Every request served by a pool worker is recorded in DuckDB so that it can
// be inspected later through GET /history or the `workpool history` command.
// Queries are built with squirrel.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                         RequestStore                            │
//	│                              ▼                                  │
//	│                           requests                              │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Tables are created by the migrations package (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  requests          │  One row per served request                 │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, err := store.NewDB(cfg.Store.Path)   // "" or ":memory:" for in-memory
//	err = migrations.Run(ctx, db)
//	s := store.NewStore(db)
//	defer s.Close()
//
// # Querying
//
// List and Count accept ListOption values that narrow the query:
//
//	requests, err := s.Requests().List(ctx,
//	    store.ByStatus(404),
//	    store.WithLimit(20),
//	)
//
// List returns the most recent requests first.
//
// # Errors
//
// Get returns a ResourceNotFoundError (pkg/errors) when no request matches.
// All other errors come from the database driver, wrapped with context.
package store
