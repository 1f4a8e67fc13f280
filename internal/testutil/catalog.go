// Package testutil provides fixtures shared by catalog, server, and
// client tests: an in-memory SQLite catalog and synthetic piece files.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rubusproject/rubus/internal/catalog/sqlcatalog"
	"github.com/rubusproject/rubus/internal/rubus"
)

// SeedMedia writes info.DurationSec seconds of synthetic video/audio
// piece files under a fresh temporary directory and returns the
// populated Media record (Path set to that directory).
func SeedMedia(t *testing.T, info rubus.MediaInfo) rubus.Media {
	t.Helper()
	dir := t.TempDir()
	for _, s := range []string{"video", "audio"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, s), 0o755))
	}
	for i := uint32(0); i < info.DurationSec; i++ {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "video", fmt.Sprintf("%d", i)),
			[]byte(fmt.Sprintf("video-piece-%d", i)), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "audio", fmt.Sprintf("%d", i)),
			[]byte(fmt.Sprintf("audio-piece-%d", i)), 0o644))
	}
	return rubus.Media{MediaInfo: info, Path: dir}
}

// NewCatalog opens an in-memory SQLite repository and ingests entries.
func NewCatalog(t *testing.T, entries ...rubus.Media) *sqlcatalog.Repository {
	t.Helper()
	db, err := sqlcatalog.Open(":memory:", nil)
	require.NoError(t, err)

	repo := sqlcatalog.NewRepository(db)
	for _, m := range entries {
		require.NoError(t, repo.Ingest(context.Background(), m))
	}
	return repo
}
