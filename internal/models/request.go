package models

import "time"

// Request is one HTTP exchange served by a pool worker.
type Request struct {
	ID       string
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	ServedAt time.Time
}

// RequestIDHeader carries the id assigned to a connection by the server.
const RequestIDHeader = "X-Request-Id"
