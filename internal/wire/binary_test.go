package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubusproject/rubus/internal/rubus"
)

func mustID(t *testing.T, hex string) rubus.MediaID {
	t.Helper()
	id, err := rubus.ParseMediaIDHex(hex)
	require.NoError(t, err)
	return id
}

func TestPlaybackListRoundTrip(t *testing.T) {
	id1 := mustID(t, "3281e88b15ee4f5c91c73d77b5ba1d0a")
	id2 := mustID(t, "a6b019d2b3af478086d80ddd7b835cd3")

	list := rubus.PlaybackList{
		id1: "title1",
		id2: "title2",
	}

	encoded := EncodePlaybackList(list)
	decoded, err := DecodePlaybackList(encoded)
	require.NoError(t, err)
	assert.Equal(t, list, decoded)
}

func TestMediaInfoRoundTrip(t *testing.T) {
	info := rubus.MediaInfo{
		ID:             mustID(t, "ab"),
		Title:          "Title1",
		VideoWidth:     854,
		VideoHeight:    480,
		DurationSec:    1,
		VideoEncoding:  "h264",
		AudioEncoding:  "aac",
		VideoContainer: "mp4",
		AudioContainer: "mp4",
	}

	encoded := EncodeMediaInfo(info)
	decoded, err := DecodeMediaInfo(encoded)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)
}

func TestMediaFetchRoundTrip(t *testing.T) {
	fetch := rubus.MediaFetch{
		ID:     mustID(t, "cd"),
		Offset: 0,
		Video:  [][]byte{[]byte("v0"), []byte("v1")},
		Audio:  [][]byte{[]byte("a0"), []byte("a1")},
	}

	encoded := EncodeMediaFetch(fetch)
	decoded, err := DecodeMediaFetch(encoded)
	require.NoError(t, err)
	assert.True(t, fetch.Equal(decoded))
}

func TestDecodeRejectsUnknownFormatVersion(t *testing.T) {
	encoded := EncodeMediaInfo(rubus.MediaInfo{ID: mustID(t, "ab")})
	encoded[0] = 0xff

	_, err := DecodeMediaInfo(encoded)
	var unsupported *UnsupportedFormatVersionError
	assert.ErrorAs(t, err, &unsupported)
}

func TestDecodePlaybackListEmpty(t *testing.T) {
	encoded := EncodePlaybackList(rubus.PlaybackList{})
	decoded, err := DecodePlaybackList(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
