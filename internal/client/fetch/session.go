// Package fetch implements the client-side fetch controller: a single
// open session to a Rubus server that frames requests and parses
// responses, serializing at most one request in flight.
package fetch

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rubusproject/rubus/internal/rubus"
	"github.com/rubusproject/rubus/internal/wire"
)

// RubusError reports a non-OK response from the server: the response
// carried a recognized response-type other than OK.
type RubusError struct {
	Type    wire.ResponseType
	Message string
}

func (e *RubusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rubus: %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("rubus: %s", e.Type)
}

// FetchingError wraps a transport or deserialization failure: the
// socket read/write failed, or the response body didn't decode as the
// requested logical type.
type FetchingError struct {
	Cause error
}

func (e *FetchingError) Error() string {
	return fmt.Sprintf("fetching: %v", e.Cause)
}

func (e *FetchingError) Unwrap() error {
	return e.Cause
}

// Session owns one open TCP connection to a Rubus server and issues
// List/Info/Fetch requests over it. It is single-threaded: callers
// serialize access, or rely on Session's own mutex to do so at the
// cost of blocking concurrent callers.
type Session struct {
	conn    net.Conn
	br      *bufio.Reader
	logger  *slog.Logger
	token   string
	timeout time.Duration

	mu sync.Mutex
}

// Dial opens a Session to addr, authenticating subsequent requests
// with token.
func Dial(ctx context.Context, addr, token string, timeout time.Duration, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &FetchingError{Cause: fmt.Errorf("dialing %s: %w", addr, err)}
	}
	return &Session{
		conn:    conn,
		br:      bufio.NewReader(conn),
		logger:  logger,
		token:   token,
		timeout: timeout,
	}, nil
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// roundTrip sends req and returns the parsed response, applying the
// session's per-request timeout as a connection deadline.
func (s *Session) roundTrip(req *wire.Request) (*wire.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.AuthToken = s.token

	if s.timeout > 0 {
		_ = s.conn.SetDeadline(time.Now().Add(s.timeout))
	}

	if err := wire.WriteFrame(s.conn, req.Frame()); err != nil {
		return nil, &FetchingError{Cause: fmt.Errorf("writing request: %w", err)}
	}

	frame, err := wire.ReadFrame(s.br)
	if err != nil {
		return nil, &FetchingError{Cause: fmt.Errorf("reading response: %w", err)}
	}

	resp, err := wire.ParseResponse(frame)
	if err != nil {
		return nil, &FetchingError{Cause: fmt.Errorf("parsing response: %w", err)}
	}
	return resp, nil
}

func checkOK(resp *wire.Response) error {
	if resp.Type != wire.ResponseTypeOK {
		return &RubusError{Type: resp.Type, Message: resp.Message}
	}
	return nil
}

// List returns the server's playback catalog.
func (s *Session) List() (rubus.PlaybackList, error) {
	resp, err := s.roundTrip(&wire.Request{Type: wire.RequestTypeList})
	if err != nil {
		return nil, err
	}
	if err := checkOK(resp); err != nil {
		return nil, err
	}
	list, err := wire.DecodePlaybackList(resp.Body)
	if err != nil {
		return nil, &FetchingError{Cause: err}
	}
	return list, nil
}

// Info returns the catalog metadata for id.
func (s *Session) Info(id rubus.MediaID) (rubus.MediaInfo, error) {
	resp, err := s.roundTrip(&wire.Request{Type: wire.RequestTypeInfo, MediaIDHex: id.Hex()})
	if err != nil {
		return rubus.MediaInfo{}, err
	}
	if err := checkOK(resp); err != nil {
		return rubus.MediaInfo{}, err
	}
	info, err := wire.DecodeMediaInfo(resp.Body)
	if err != nil {
		return rubus.MediaInfo{}, &FetchingError{Cause: err}
	}
	return info, nil
}

// Fetch requests count pieces of id starting at offset and returns the
// decoded MediaFetch.
func (s *Session) Fetch(id rubus.MediaID, offset, count uint32) (rubus.MediaFetch, error) {
	resp, err := s.roundTrip(&wire.Request{
		Type:          wire.RequestTypeFetch,
		MediaIDHex:    id.Hex(),
		StartingPiece: offset,
		TotalPieces:   count,
	})
	if err != nil {
		return rubus.MediaFetch{}, err
	}
	if err := checkOK(resp); err != nil {
		return rubus.MediaFetch{}, err
	}
	mf, err := wire.DecodeMediaFetch(resp.Body)
	if err != nil {
		return rubus.MediaFetch{}, &FetchingError{Cause: err}
	}
	return mf, nil
}
