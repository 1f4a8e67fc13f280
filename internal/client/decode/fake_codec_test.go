package decode_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rubusproject/rubus/internal/client/decode"
)

// fakeStreamContext is a minimal StreamContext for tests: it reports a
// fixed frame rate and an atomic closed flag.
type fakeStreamContext struct {
	frameRate float64
	closed    atomic.Bool
}

func (s *fakeStreamContext) FrameRate() float64 { return s.frameRate }
func (s *fakeStreamContext) IsClosed() bool      { return s.closed.Load() }
func (s *fakeStreamContext) Close() error {
	s.closed.Store(true)
	return nil
}

// fakeLocalContext tracks its own closed flag, independent of its
// parent StreamContext's.
type fakeLocalContext struct {
	parent *fakeStreamContext
	closed atomic.Bool
}

func (l *fakeLocalContext) Close() error {
	l.closed.Store(true)
	return nil
}

// fakeCodec decodes a piece into one decode.Frame per "frame" marker
// byte in the piece; it exists purely to exercise Pipeline's lifecycle
// and job bookkeeping without a real native decoder.
type fakeCodec struct {
	frameRate float64

	mu        sync.Mutex
	openCalls int
}

func newFakeCodec(frameRate float64) *fakeCodec {
	return &fakeCodec{frameRate: frameRate}
}

// OpenStreamContext derives the frame rate from the sample's length,
// matching the "N-byte piece = N fps" model the rest of this file uses,
// rather than always reporting the codec's nominal frameRate.
func (c *fakeCodec) OpenStreamContext(ctx context.Context, sample []byte) (decode.StreamContext, error) {
	c.mu.Lock()
	c.openCalls++
	c.mu.Unlock()
	return &fakeStreamContext{frameRate: float64(len(sample))}, nil
}

func (c *fakeCodec) OpenLocalContext(ctx context.Context, sc decode.StreamContext, sample []byte) (decode.LocalContext, error) {
	return &fakeLocalContext{parent: sc.(*fakeStreamContext)}, nil
}

// DecodeAllFrames returns one Frame per byte of piece (a one-second
// clip at N fps is modeled as an N-byte piece).
func (c *fakeCodec) DecodeAllFrames(ctx context.Context, sc decode.StreamContext, piece []byte) ([]decode.Frame, error) {
	frames := make([]decode.Frame, len(piece))
	for i := range piece {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frames[i] = decode.Frame{piece[i]}
	}
	return frames, nil
}

// DecodeNFrames rounds startFrame down to the nearest even index
// ("keyframe") and returns frames from there through startFrame+count-1.
func (c *fakeCodec) DecodeNFrames(ctx context.Context, lc decode.LocalContext, piece []byte, startFrame, count int) (int, []decode.Frame, error) {
	offset := startFrame
	if offset%2 != 0 {
		offset--
	}
	end := startFrame + count
	if end > len(piece) {
		end = len(piece)
	}
	frames := make([]decode.Frame, 0, end-offset)
	for i := offset; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		frames = append(frames, decode.Frame{piece[i]})
	}
	return offset, frames, nil
}
