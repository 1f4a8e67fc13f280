// Package catalog implements the server-side media access layer: the
// pool that indexes a catalog of persisted media and extracts
// byte-ranges of video/audio pieces for FETCH requests.
package catalog

import (
	"context"

	"github.com/rubusproject/rubus/internal/rubus"
)

// IDTitle is one entry of the LIST hot-path result: an identifier and
// its title, nothing else.
type IDTitle struct {
	ID    rubus.MediaID
	Title string
}

// QueryInterface is the provider-supplied catalog backing: a
// relational store, embedded or external, accessed through this thin
// interface. The pool never touches SQL directly.
type QueryInterface interface {
	// QueryAllFast returns identifiers and titles in one query. This is
	// the LIST hot path; it must not issue one query per row.
	QueryAllFast(ctx context.Context) ([]IDTitle, error)

	// QueryAll returns the full Media record (metadata + path) for
	// every catalog entry. Used for administrative queries; may issue
	// multiple lookups.
	QueryAll(ctx context.Context) ([]rubus.Media, error)

	// QueryByID returns the Media for id, or nil if absent.
	QueryByID(ctx context.Context, id rubus.MediaID) (*rubus.Media, error)
}
