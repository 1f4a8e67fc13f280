package decode_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubusproject/rubus/internal/client/decode"
)

func onePieceOfFPS(fps int) []byte {
	piece := make([]byte, fps)
	for i := range piece {
		piece[i] = byte(i)
	}
	return piece
}

func TestDecodeAllFramesOfOneSecondClip(t *testing.T) {
	const fps = 30
	codec := newFakeCodec(fps)
	p := decode.New(codec, nil)

	piece := onePieceOfFPS(fps)
	p.StartStreamContextInitialization(piece)

	ctx := context.Background()
	sc, err := p.GetStreamContextNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(fps), sc.FrameRate())

	p.StartDecodingOfAllFrames(0, sc, piece)
	result, err := p.GetDecodedFramesNow(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Offset)
	assert.Equal(t, fps, len(result.Frames))
}

func TestDecodeNFramesKeyframeAlignment(t *testing.T) {
	const fps = 30
	codec := newFakeCodec(fps)
	p := decode.New(codec, nil)

	piece := onePieceOfFPS(fps)
	p.StartStreamContextInitialization(piece)
	ctx := context.Background()
	sc, err := p.GetStreamContextNow(ctx)
	require.NoError(t, err)

	p.StartLocalContextInitialization(piece, sc)
	lc, err := p.GetLocalContextNow(ctx)
	require.NoError(t, err)

	start := fps / 2
	count := fps / 2
	p.StartDecodingOfNFrames(1, lc, piece, start, count)
	result, err := p.GetDecodedFramesNow(ctx, 1)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Offset, start)
	assert.GreaterOrEqual(t, len(result.Frames)-(start-result.Offset), count)

	// every logical index in [start, fps) must be present.
	for logical := start; logical < fps; logical++ {
		idx := logical - result.Offset
		require.Greater(t, len(result.Frames), idx)
		assert.NotNil(t, result.Frames[idx])
	}
}

func TestCloseLeavesParentUnaffected(t *testing.T) {
	codec := newFakeCodec(30)
	p := decode.New(codec, nil)

	piece := onePieceOfFPS(30)
	p.StartStreamContextInitialization(piece)
	ctx := context.Background()
	sc, err := p.GetStreamContextNow(ctx)
	require.NoError(t, err)

	p.StartLocalContextInitialization(piece, sc)
	lc, err := p.GetLocalContextNow(ctx)
	require.NoError(t, err)

	require.NoError(t, lc.Close())
	assert.False(t, sc.IsClosed())

	require.NoError(t, sc.Close())
	assert.True(t, sc.IsClosed())
}

func TestFreeDecodedFramesDoesNotAffectOtherJobs(t *testing.T) {
	codec := newFakeCodec(10)
	p := decode.New(codec, nil)

	piece := onePieceOfFPS(10)
	p.StartStreamContextInitialization(piece)
	ctx := context.Background()
	sc, err := p.GetStreamContextNow(ctx)
	require.NoError(t, err)

	p.StartDecodingOfAllFrames(0, sc, piece)
	p.StartDecodingOfAllFrames(1, sc, piece)

	_, err = p.GetDecodedFramesNow(ctx, 0)
	require.NoError(t, err)
	_, err = p.GetDecodedFramesNow(ctx, 1)
	require.NoError(t, err)

	p.FreeDecodedFrames(0)

	_, ok := p.GetDecodedFrames(0)
	assert.False(t, ok)
	_, ok = p.GetDecodedFrames(1)
	assert.True(t, ok)
}

func TestPurgeClearsEverythingAndAllowsFreshInit(t *testing.T) {
	codec := newFakeCodec(30)
	p := decode.New(codec, nil)

	piece0 := onePieceOfFPS(30)
	p.StartStreamContextInitialization(piece0)
	ctx := context.Background()
	sc, err := p.GetStreamContextNow(ctx)
	require.NoError(t, err)

	p.StartDecodingOfAllFrames(0, sc, piece0)
	_, err = p.GetDecodedFramesNow(ctx, 0)
	require.NoError(t, err)

	p.Purge()

	assert.Nil(t, p.GetStreamContext())
	assert.Nil(t, p.GetLocalContext())
	_, ok := p.GetDecodedFrames(0)
	assert.False(t, ok)
	assert.True(t, sc.IsClosed())

	// fresh init on a new piece succeeds after purge.
	piece5 := bytes.Repeat([]byte{5}, 24)
	p.StartStreamContextInitialization(piece5)
	newSC, err := p.GetStreamContextNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(24), newSC.FrameRate())
}

func TestGetStreamContextNowRespectsContextTimeout(t *testing.T) {
	codec := newFakeCodec(30)
	p := decode.New(codec, nil)
	// start initialization, then wait with a deadline that expires at once
	p.StartStreamContextInitialization(nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	sc, err := p.GetStreamContextNow(ctx)
	// either resolves immediately (fake codec is synchronous-fast) or
	// times out; both are acceptable, but an error-free nil context
	// would be a bug.
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	} else {
		assert.NotNil(t, sc)
	}
}
