// Package decode wraps an external codec library behind a
// stream-context / local-context lifecycle: a concurrent decode
// pipeline that decodes encoded pieces into frame windows keyed by
// piece offset, and recovers from seeks via purge.
package decode

import "context"

// Frame is one decoded unit: a rendered image for video, or a PCM
// buffer for audio. The decode pipeline treats it as opaque; the GUI
// shell (out of scope) interprets its bytes.
type Frame []byte

// StreamContext is a decoder-internal object initialized from a sample
// of encoded bytes; it carries codec parameters such as frame rate.
// Exactly one Close call is meaningful; further calls are no-ops.
type StreamContext interface {
	FrameRate() float64
	Close() error
	IsClosed() bool
}

// LocalContext is a per-stream-context child describing the current
// demux/decode position. Multiple LocalContexts may derive from one
// StreamContext; closing one must never affect the StreamContext or
// its siblings.
type LocalContext interface {
	Close() error
}

// Codec is the provider-supplied native decoder interface. Rubus never
// implements raw decode itself; production builds wire in a cgo or
// subprocess-backed implementation satisfying this interface.
type Codec interface {
	// OpenStreamContext probes sample (the first encoded piece) and
	// returns an initialized StreamContext.
	OpenStreamContext(ctx context.Context, sample []byte) (StreamContext, error)

	// OpenLocalContext derives a LocalContext from sc, probing sample.
	OpenLocalContext(ctx context.Context, sc StreamContext, sample []byte) (LocalContext, error)

	// DecodeAllFrames decodes every frame in one encoded piece.
	DecodeAllFrames(ctx context.Context, sc StreamContext, piece []byte) ([]Frame, error)

	// DecodeNFrames decodes count frames of piece starting at in-piece
	// frame index startFrame. The codec may return additional leading
	// frames back to the nearest keyframe; offset is the in-piece frame
	// index of the first returned frame (offset <= startFrame).
	DecodeNFrames(ctx context.Context, lc LocalContext, piece []byte, startFrame, count int) (offset int, frames []Frame, err error)
}

// DecodedFrames is the result of one decode job. Invariant: if the
// job requested N frames starting at piece S, then Offset <= S and
// len(Frames) >= N - (S - Offset).
type DecodedFrames struct {
	Offset int
	Frames []Frame
}
