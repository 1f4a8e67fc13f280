package fetch_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubusproject/rubus/internal/auth"
	"github.com/rubusproject/rubus/internal/catalog"
	"github.com/rubusproject/rubus/internal/client/fetch"
	"github.com/rubusproject/rubus/internal/config"
	"github.com/rubusproject/rubus/internal/rubus"
	"github.com/rubusproject/rubus/internal/server"
	"github.com/rubusproject/rubus/internal/testutil"
)

func startTestServer(t *testing.T, pool *catalog.Pool) string {
	t.Helper()
	cfg := config.DefaultServerConfig()
	d := server.New(cfg, pool, auth.NewTokenAuthenticator(), nil)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = d.Serve(l) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.Shutdown(ctx)
	})

	return l.Addr().String()
}

func TestSessionListInfoFetch(t *testing.T) {
	id, err := rubus.ParseMediaIDHex("ab")
	require.NoError(t, err)
	m := testutil.SeedMedia(t, rubus.MediaInfo{ID: id, Title: "clip", DurationSec: 2, VideoWidth: 640, VideoHeight: 480})
	repo := testutil.NewCatalog(t, m)
	pool := catalog.New(repo, nil)

	addr := startTestServer(t, pool)

	sess, err := fetch.Dial(context.Background(), addr, "abcd", 5*time.Second, nil)
	require.NoError(t, err)
	defer sess.Close()

	list, err := sess.List()
	require.NoError(t, err)
	assert.Equal(t, rubus.PlaybackList{id: "clip"}, list)

	info, err := sess.Info(id)
	require.NoError(t, err)
	assert.Equal(t, "clip", info.Title)
	assert.Equal(t, uint16(640), info.VideoWidth)

	mf, err := sess.Fetch(id, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), mf.Offset)
	assert.Len(t, mf.Video, 2)
	assert.Len(t, mf.Audio, 2)
}

func TestSessionInfoNotFoundIsRubusError(t *testing.T) {
	repo := testutil.NewCatalog(t)
	pool := catalog.New(repo, nil)
	addr := startTestServer(t, pool)

	sess, err := fetch.Dial(context.Background(), addr, "abcd", 5*time.Second, nil)
	require.NoError(t, err)
	defer sess.Close()

	missing, err := rubus.ParseMediaIDHex("ff")
	require.NoError(t, err)

	_, err = sess.Info(missing)
	require.Error(t, err)
	var rubusErr *fetch.RubusError
	require.ErrorAs(t, err, &rubusErr)
	assert.Equal(t, "media-not-found", rubusErr.Message)
}

func TestSessionUnauthenticatedToken(t *testing.T) {
	repo := testutil.NewCatalog(t)
	pool := catalog.New(repo, nil)
	addr := startTestServer(t, pool)

	sess, err := fetch.Dial(context.Background(), addr, "", 5*time.Second, nil)
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.List()
	require.Error(t, err)
	var rubusErr *fetch.RubusError
	require.ErrorAs(t, err, &rubusErr)
}

func TestSessionSerializesRequestsOneAtATime(t *testing.T) {
	id, err := rubus.ParseMediaIDHex("ab")
	require.NoError(t, err)
	m := testutil.SeedMedia(t, rubus.MediaInfo{ID: id, Title: "clip", DurationSec: 1})
	repo := testutil.NewCatalog(t, m)
	pool := catalog.New(repo, nil)
	addr := startTestServer(t, pool)

	sess, err := fetch.Dial(context.Background(), addr, "abcd", 5*time.Second, nil)
	require.NoError(t, err)
	defer sess.Close()

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := sess.List()
			done <- err
		}()
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}
}
