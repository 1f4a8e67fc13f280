// Package rubus defines the shared domain types of the Rubus streaming
// protocol: media identifiers, catalog metadata, fetched pieces, and
// viewer records. These types are consumed by the wire codec, the media
// pool, the authenticator, and both client and server packages.
package rubus

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// MediaIDSize is the maximum length, in bytes, of the binary MediaID
// variant. UUIDs (16 bytes) fit exactly; shorter opaque ids are allowed.
const MediaIDSize = 16

// MediaID is an opaque byte-string identifying one catalog entry.
// It is immutable and unique per catalog. The binary variant is at most
// MediaIDSize bytes; the historical hex-string/UUID form is supported
// via NewMediaIDFromUUID and ParseMediaIDHex.
type MediaID struct {
	raw [MediaIDSize]byte
	n   int
}

// NewMediaIDFromUUID derives a MediaID from a google/uuid value.
func NewMediaIDFromUUID(u uuid.UUID) MediaID {
	var id MediaID
	copy(id.raw[:], u[:])
	id.n = MediaIDSize
	return id
}

// NewRandomMediaID generates a fresh, randomly chosen MediaID.
func NewRandomMediaID() (MediaID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return MediaID{}, fmt.Errorf("generating media id: %w", err)
	}
	return NewMediaIDFromUUID(u), nil
}

// ParseMediaIDHex parses a hex-encoded MediaID as carried in a request
// header's media-id field.
func ParseMediaIDHex(s string) (MediaID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return MediaID{}, fmt.Errorf("decoding media id %q: %w", s, err)
	}
	return MediaIDFromBytes(b)
}

// MediaIDFromBytes wraps a raw byte-string as a MediaID. It fails if the
// input exceeds MediaIDSize.
func MediaIDFromBytes(b []byte) (MediaID, error) {
	if len(b) > MediaIDSize {
		return MediaID{}, fmt.Errorf("media id too long: %d bytes (max %d)", len(b), MediaIDSize)
	}
	var id MediaID
	copy(id.raw[:], b)
	id.n = len(b)
	return id, nil
}

// Bytes returns the raw byte-string of the id.
func (id MediaID) Bytes() []byte {
	out := make([]byte, id.n)
	copy(out, id.raw[:id.n])
	return out
}

// Hex returns the hex-encoded form used on the wire.
func (id MediaID) Hex() string {
	return hex.EncodeToString(id.Bytes())
}

// String implements fmt.Stringer.
func (id MediaID) String() string {
	return id.Hex()
}

// IsZero reports whether the id carries no bytes.
func (id MediaID) IsZero() bool {
	return id.n == 0
}

// Equal reports whether two MediaIDs carry the same bytes.
func (id MediaID) Equal(other MediaID) bool {
	return id.n == other.n && id.raw == other.raw
}

// Value implements driver.Valuer so MediaID can be stored directly by
// the catalog's SQL-backed query interface.
func (id MediaID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.Hex(), nil
}

// Scan implements sql.Scanner for reading a MediaID back out of the
// catalog store.
func (id *MediaID) Scan(value any) error {
	if value == nil {
		*id = MediaID{}
		return nil
	}
	switch v := value.(type) {
	case string:
		parsed, err := ParseMediaIDHex(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case []byte:
		parsed, err := MediaIDFromBytes(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	default:
		return fmt.Errorf("unsupported MediaID scan source type %T", value)
	}
}
