package rubus

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the catalog, authenticator, and dispatcher.
// Handlers branch on these with errors.Is/errors.As rather than string
// matching.
var (
	// ErrNotFound indicates the requested MediaID has no catalog entry.
	ErrNotFound = errors.New("media not found")

	// ErrUnauthenticated indicates the request originator could not be
	// mapped to a Viewer.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// PieceNotFoundError indicates a requested piece index has no backing
// file (end of media, or a hole in the media directory). The pool
// returns this for the first missing index it encounters; FETCH never
// returns a partial response.
type PieceNotFoundError struct {
	ID    MediaID
	Index uint32
}

func (e *PieceNotFoundError) Error() string {
	return fmt.Sprintf("piece %d not found for media %s", e.Index, e.ID)
}

// PieceOutOfRangeError indicates a FETCH range extends past the
// media's known duration.
type PieceOutOfRangeError struct {
	ID          MediaID
	Offset      uint32
	Count       uint32
	DurationSec uint32
}

func (e *PieceOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"fetch range [%d, %d) out of range for media %s (duration %ds)",
		e.Offset, e.Offset+e.Count, e.ID, e.DurationSec,
	)
}

// CatalogError wraps an unexpected failure in the catalog query
// interface (a connectivity error, a malformed row, ...). It is fatal
// to the request but not to the connection; the dispatcher maps it to
// a SERVER_ERROR response.
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog: %s: %v", e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}
