// Package server provides the connection front end of workpool.
//
// The server owns a TCP listener and a gin engine. It does not run its own
// goroutine per connection: every accepted connection is wrapped in a job and
// submitted to the worker pool, so the pool size bounds how many requests are
// served concurrently.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                          Server                               │
//	├───────────────────────────────────────────────────────────────┤
//	│  accept loop (Start)                                          │
//	│    ├── conn 1 ──► pool.Submit(serveConn) ──► worker           │
//	│    ├── conn 2 ──► pool.Submit(serveConn) ──► worker           │
//	│    └── ...                                                    │
//	├───────────────────────────────────────────────────────────────┤
//	│  serveConn (runs on a pool worker)                            │
//	│    read one HTTP/1.1 request                                  │
//	│    route it through the gin engine                            │
//	│    write the response, close the connection                   │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  Logger (ginzap, "http" logger)                               │
//	│  Recovery (ginzap.RecoveryWithZap)                            │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Lifecycle
//
// Creation:
//
//	srv := server.NewServer(cfg.Server, p, func(router *gin.Engine) {
//	    handlers.RegisterHandlers(router, h)
//	})
//
// Starting:
//
//	// Blocks until Stop, ctx cancellation or MaxConnections accepted
//	err := srv.Start(ctx)
//
// Stopping:
//
//	srv.Stop()
//	err := p.Close() // drains connections already handed to the pool
//
// The server never closes the pool; the owner closes it after Start returns.
//
// # Connection Handling
//
// Each connection carries exactly one request. The request is read with a
// ReadTimeout deadline; a request that cannot be parsed gets 400 Bad Request.
// Every request gets a fresh id, passed to the handlers in the X-Request-Id
// header. Responses always carry Content-Length and Connection: close:
//
//	HTTP/1.1 200 OK
//	Connection: close
//	Content-Length: 15
//	Content-Type: text/html; charset=utf-8
//
//	<h1>Hello!</h1>
//
// If the pool refuses a connection (it is closing) the connection is closed
// without a response and the failure is logged.
//
// # Accept Errors
//
// Accept errors other than a closed listener are retried with exponential
// backoff (5ms doubling up to 1s), reset after every successful accept.
package server
