package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/workpool/internal/config"
	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/pkg/pool"
)

const (
	rejectDrainTimeout = 500 * time.Millisecond
	rejectDrainLimit   = 256 << 10
)

// Submitter runs jobs on behalf of the server. *pool.Pool implements it.
type Submitter interface {
	Submit(job pool.Job) error
}

type Server struct {
	cfg    config.Server
	pool   Submitter
	engine *gin.Engine
	log    *zap.SugaredLogger

	mu       sync.Mutex
	listener net.Listener
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewServer creates a server that hands every accepted connection to p.
// registerHandlerFn installs the routes on the gin engine.
func NewServer(cfg config.Server, p Submitter, registerHandlerFn func(router *gin.Engine)) *Server {
	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(zap.L().Named("http"), time.RFC3339, true),
		ginzap.RecoveryWithZap(zap.L().Named("http"), true),
	)
	registerHandlerFn(engine)

	return &Server{
		cfg:     cfg,
		pool:    p,
		engine:  engine,
		log:     zap.S().Named("server"),
		stopped: make(chan struct{}),
	}
}

// Start listens on the configured address and dispatches connections until
// Stop is called, ctx is cancelled or MaxConnections connections have been
// accepted. It returns nil on a clean stop.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	defer s.Stop()

	if s.isStopped() {
		// Stop ran before the listener existed
		_ = ln.Close()
		return nil
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stopped:
		}
	}()

	s.log.Infow("server listening", "address", ln.Addr().String())

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = time.Second

	accepted := 0
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isStopped() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			wait := b.NextBackOff()
			s.log.Warnw("accept failed, retrying", "error", err, "retry_in", wait)
			select {
			case <-time.After(wait):
				continue
			case <-s.stopped:
				return nil
			}
		}
		b.Reset()

		accepted++
		s.dispatch(conn)

		if s.cfg.MaxConnections > 0 && accepted >= s.cfg.MaxConnections {
			s.log.Infow("connection limit reached", "accepted", accepted)
			return nil
		}
	}
}

// Stop closes the listener. Connections already handed to the pool are
// still served.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.log.Warnw("failed to close listener", "error", err)
			}
		}
	})
}

// Addr returns the listening address, or nil before Start has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) isStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

func (s *Server) dispatch(conn net.Conn) {
	id := uuid.NewString()
	err := s.pool.Submit(func() {
		s.serveConn(id, conn)
	})
	if err != nil {
		s.log.Errorw("failed to dispatch connection", "request_id", id, "remote", conn.RemoteAddr().String(), "error", err)
		_ = conn.Close()
	}
}

// serveConn reads one request from conn, routes it and writes the response.
func (s *Server) serveConn(id string, conn net.Conn) {
	defer conn.Close()

	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	// The request line and headers must fit in ReadBufferSize bytes.
	lr := &io.LimitedReader{R: conn, N: int64(s.cfg.ReadBufferSize)}
	req, err := http.ReadRequest(bufio.NewReaderSize(lr, s.cfg.ReadBufferSize))
	if err != nil {
		if lr.N <= 0 {
			s.log.Debugw("request header too large", "request_id", id, "limit", s.cfg.ReadBufferSize)
			s.reject(id, conn, http.StatusRequestHeaderFieldsTooLarge)
			return
		}
		s.log.Debugw("failed to read request", "request_id", id, "error", err)
		s.writeResponse(id, conn, http.StatusBadRequest, nil, []byte(http.StatusText(http.StatusBadRequest)))
		return
	}
	lr.N = math.MaxInt64
	req.RemoteAddr = conn.RemoteAddr().String()
	req.Header.Set(models.RequestIDHeader, id)

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	s.writeResponse(id, conn, rec.Code, rec.Header(), rec.Body.Bytes())
}

// reject answers a request that was not read to the end. The write side is
// closed first and the rest of the input drained for a short while, so the
// client sees the response instead of a reset.
func (s *Server) reject(id string, conn net.Conn, status int) {
	s.writeResponse(id, conn, status, nil, []byte(http.StatusText(status)))

	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	_ = conn.SetReadDeadline(time.Now().Add(rejectDrainTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, rejectDrainLimit))
}

func (s *Server) writeResponse(id string, w io.Writer, status int, header http.Header, body []byte) {
	if header == nil {
		header = http.Header{}
	}
	header = header.Clone()
	header.Set("Content-Length", strconv.Itoa(len(body)))
	header.Set(models.RequestIDHeader, id)
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "text/plain; charset=utf-8")
	}

	resp := &http.Response{
		StatusCode:    status,
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Close:         true,
	}
	if err := resp.Write(w); err != nil {
		s.log.Debugw("failed to write response", "request_id", id, "error", err)
	}
}
