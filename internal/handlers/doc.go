// Package handlers implements the routes served by the pool workers.
//
// The routes mirror a tiny static web server: a greeting page, a slow
// variant of it that keeps a worker busy, and a 404 page for everything
// else. Pages are read from the configured statics folder on every request.
//
// # Routes
//
//	┌────────┬──────────┬───────────────────────────────────────────────┐
//	│ Method │ Endpoint │ Description                                   │
//	├────────┼──────────┼───────────────────────────────────────────────┤
//	│ GET    │ /        │ 200 with hello.html                           │
//	│ GET    │ /sleep   │ waits SleepDelay, then 200 with hello.html    │
//	│ GET    │ /history │ recent served requests as JSON                │
//	│ GET    │ /metrics │ Prometheus metrics                            │
//	│ *      │ *        │ 404 with 404.html                             │
//	└────────┴──────────┴───────────────────────────────────────────────┘
//
// A page missing from the statics folder yields 500 with a short text body.
//
// GET /history accepts `limit` (default 20, capped at 100) and repeated
// `status` parameters:
//
//	GET /history?limit=5&status=404
//
//	{
//	    "requests": [
//	        {"id": "...", "method": "GET", "path": "/x", "status": 404,
//	         "durationMs": 0.2, "servedAt": "2026-10-15T09:00:00Z"}
//	    ]
//	}
//
// # Request Recording
//
// RecordRequest runs around every route and stores the method, path, status,
// duration and request id (X-Request-Id, set by the server) in the history.
package handlers
