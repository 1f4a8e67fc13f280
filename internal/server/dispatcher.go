// Package server implements the Rubus server dispatcher: accepting
// connections, reading framed requests, authenticating, and routing
// LIST/INFO/FETCH to the media pool.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rubusproject/rubus/internal/auth"
	"github.com/rubusproject/rubus/internal/catalog"
	"github.com/rubusproject/rubus/internal/config"
	"github.com/rubusproject/rubus/internal/wire"
)

// Dispatcher accepts connections and serves the Rubus wire protocol
// over each one. One goroutine runs per connection: a
// thread-per-connection scheduling model.
type Dispatcher struct {
	cfg           config.ServerConfig
	pool          *catalog.Pool
	authenticator auth.Authenticator
	logger        *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closing  bool
	wg       sync.WaitGroup
}

// New constructs a Dispatcher from provider-supplied handles: the
// media pool and the authenticator.
func New(cfg config.ServerConfig, pool *catalog.Pool, authenticator auth.Authenticator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		cfg:           cfg,
		pool:          pool,
		authenticator: authenticator,
		logger:        logger,
		conns:         make(map[net.Conn]struct{}),
	}
}

// ListenAndServe binds the configured address and serves until the
// listener is closed by Shutdown.
func (d *Dispatcher) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", d.cfg.BindAddress, d.cfg.Port)
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return d.Serve(l)
}

// Serve runs the accept loop over an already-bound listener. Each
// accepted connection is served in its own goroutine until the
// connection is closed or the framing is corrupted.
func (d *Dispatcher) Serve(l net.Listener) error {
	d.mu.Lock()
	d.listener = l
	d.mu.Unlock()

	d.logger.Info("rubus dispatcher listening", slog.String("address", l.Addr().String()))

	for {
		conn, err := l.Accept()
		if err != nil {
			d.mu.Lock()
			closing := d.closing
			d.mu.Unlock()
			if closing {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}

		d.trackConn(conn)
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer d.untrackConn(conn)
			d.handleConn(conn)
		}()
	}
}

// Shutdown stops accepting new connections, closes tracked connections,
// and waits (bounded by cfg.ShutdownTimeout or ctx) for their handler
// goroutines to return.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closing = true
	if d.listener != nil {
		_ = d.listener.Close()
	}
	conns := make([]net.Conn, 0, len(d.conns))
	for c := range d.conns {
		conns = append(conns, c)
	}
	d.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, d.cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown timed out waiting for connections to close: %w", shutdownCtx.Err())
	}
}

func (d *Dispatcher) trackConn(c net.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[c] = struct{}{}
}

func (d *Dispatcher) untrackConn(c net.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.conns, c)
}

// handleConn runs the per-connection loop: requests on one connection
// are served in arrival order, no pipelining interleave.
// A malformed frame is fatal to the connection; any other error is
// fatal only to the one request.
func (d *Dispatcher) handleConn(conn net.Conn) {
	defer conn.Close()
	ctx := context.Background()
	br := bufio.NewReader(conn)

	for {
		if d.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(d.cfg.ReadTimeout))
		}

		frame, err := wire.ReadFrame(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			d.logger.Debug("closing connection on framing error", slog.Any("error", err))
			return
		}

		resp := d.handleFrame(ctx, frame)

		if d.cfg.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(d.cfg.WriteTimeout))
		}
		if err := wire.WriteFrame(conn, resp.Frame()); err != nil {
			d.logger.Debug("closing connection on write error", slog.Any("error", err))
			return
		}
	}
}

func (d *Dispatcher) handleFrame(ctx context.Context, frame *wire.Frame) *wire.Response {
	req, err := wire.ParseRequest(frame)
	if err != nil {
		var unknown *wire.UnknownRequestTypeError
		if errors.As(err, &unknown) {
			d.logger.Debug("unknown request type", slog.String("got", unknown.Got))
			return badRequest(err.Error())
		}
		// A malformed request-shaped frame that still parsed as a frame
		// (e.g. FETCH missing starting-playback-piece) is a client
		// error, not a framing error: respond instead of disconnecting.
		return badRequest(err.Error())
	}

	viewer, err := d.authenticator.Authenticate(ctx, req.AuthToken)
	if err != nil {
		d.logger.Debug("authentication failed", slog.String("request_type", string(req.Type)))
		return &wire.Response{Type: wire.ResponseTypeUnauthorized}
	}

	start := time.Now()
	resp := d.route(ctx, req, viewer)
	d.logger.Debug("handled request",
		slog.String("request_type", string(req.Type)),
		slog.String("media_id", req.MediaIDHex),
		slog.String("response_type", string(resp.Type)),
		slog.String("viewer", viewer.Identity),
		slog.Duration("latency", time.Since(start)),
	)
	return resp
}

func badRequest(message string) *wire.Response {
	return &wire.Response{Type: wire.ResponseTypeBadRequest, Message: message}
}

func serverError(err error) *wire.Response {
	return &wire.Response{Type: wire.ResponseTypeServerError, Message: "internal server error"}
}
