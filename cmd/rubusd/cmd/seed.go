package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/catalog/sqlcatalog"
	"github.com/rubusproject/rubus/internal/config"
	"github.com/rubusproject/rubus/internal/observability"
	"github.com/rubusproject/rubus/internal/rubus"
)

var (
	seedDataDir string
	seedCount   int
	seedSeconds uint32
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the catalog database with demo media",
	Long: `seed writes a handful of synthetic titles into the catalog database
and generates matching video/audio piece files on disk, so rubusd serve
has something to answer LIST/INFO/FETCH requests with.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&databasePath, "database", "rubus.db", "catalog database path")
	seedCmd.Flags().StringVar(&seedDataDir, "data-dir", "data", "directory to write demo media piece files under")
	seedCmd.Flags().IntVar(&seedCount, "count", 3, "number of demo titles to generate")
	seedCmd.Flags().Uint32Var(&seedSeconds, "duration", 10, "duration in seconds (pieces) per demo title")
}

func runSeed(_ *cobra.Command, _ []string) error {
	logger := observability.NewLogger(config.DefaultLoggingConfig())

	db, err := sqlcatalog.Open(databasePath, logger)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	repo := sqlcatalog.NewRepository(db)

	ctx := context.Background()
	for i := 0; i < seedCount; i++ {
		id, err := rubus.NewRandomMediaID()
		if err != nil {
			return fmt.Errorf("generating media id: %w", err)
		}
		title := fmt.Sprintf("Demo Title %d", i+1)
		dir := filepath.Join(seedDataDir, uuid.NewString())

		if err := writeDemoPieces(dir, seedSeconds); err != nil {
			return fmt.Errorf("writing demo pieces for %q: %w", title, err)
		}

		media := rubus.Media{
			MediaInfo: rubus.MediaInfo{
				ID:             id,
				Title:          title,
				VideoWidth:     1280,
				VideoHeight:    720,
				DurationSec:    seedSeconds,
				VideoEncoding:  "h264",
				AudioEncoding:  "aac",
				VideoContainer: "mp4",
				AudioContainer: "aac",
			},
			Path: dir,
		}
		if err := repo.Ingest(ctx, media); err != nil {
			return fmt.Errorf("ingesting %q: %w", title, err)
		}
		logger.Info("seeded demo media", "id", id.Hex(), "title", title, "path", dir)
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func writeDemoPieces(dir string, seconds uint32) error {
	for _, stream := range []string{"video", "audio"} {
		if err := os.MkdirAll(filepath.Join(dir, stream), 0o755); err != nil {
			return err
		}
	}
	for i := uint32(0); i < seconds; i++ {
		videoPiece := []byte(fmt.Sprintf("demo-video-piece-%d", i))
		audioPiece := []byte(fmt.Sprintf("demo-audio-piece-%d", i))
		if err := os.WriteFile(filepath.Join(dir, "video", fmt.Sprintf("%d", i)), videoPiece, 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "audio", fmt.Sprintf("%d", i)), audioPiece, 0o644); err != nil {
			return err
		}
	}
	return nil
}
