package sqlcatalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubusproject/rubus/internal/catalog/sqlcatalog"
	"github.com/rubusproject/rubus/internal/rubus"
)

func TestIngestAndQueryByID(t *testing.T) {
	db, err := sqlcatalog.Open(":memory:", nil)
	require.NoError(t, err)
	repo := sqlcatalog.NewRepository(db)

	id, err := rubus.ParseMediaIDHex("ab")
	require.NoError(t, err)

	media := rubus.Media{
		MediaInfo: rubus.MediaInfo{ID: id, Title: "Title1", VideoWidth: 854, VideoHeight: 480, DurationSec: 1},
		Path:      "/var/rubus/media/ab",
	}

	ctx := context.Background()
	require.NoError(t, repo.Ingest(ctx, media))

	got, err := repo.QueryByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, media, *got)
}

func TestQueryByIDMissingReturnsNil(t *testing.T) {
	db, err := sqlcatalog.Open(":memory:", nil)
	require.NoError(t, err)
	repo := sqlcatalog.NewRepository(db)

	id, err := rubus.ParseMediaIDHex("ff")
	require.NoError(t, err)

	got, err := repo.QueryByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueryAllFastReturnsAllEntries(t *testing.T) {
	db, err := sqlcatalog.Open(":memory:", nil)
	require.NoError(t, err)
	repo := sqlcatalog.NewRepository(db)

	ctx := context.Background()
	id1, _ := rubus.ParseMediaIDHex("3281e88b15ee4f5c91c73d77b5ba1d0a")
	id2, _ := rubus.ParseMediaIDHex("a6b019d2b3af478086d80ddd7b835cd3")
	require.NoError(t, repo.Ingest(ctx, rubus.Media{MediaInfo: rubus.MediaInfo{ID: id1, Title: "title1"}}))
	require.NoError(t, repo.Ingest(ctx, rubus.Media{MediaInfo: rubus.MediaInfo{ID: id2, Title: "title2"}}))

	fast, err := repo.QueryAllFast(ctx)
	require.NoError(t, err)
	assert.Len(t, fast, 2)
}
