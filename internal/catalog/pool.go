package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/rubusproject/rubus/internal/rubus"
)

// stream names the two piece streams a Media directory carries.
type stream string

const (
	streamVideo stream = "video"
	streamAudio stream = "audio"
)

// Pool wraps a QueryInterface and extracts raw piece bytes from a
// media directory layout on disk. It holds no state of its own beyond
// the query interface and a logger.
type Pool struct {
	query  QueryInterface
	logger *slog.Logger
}

// New constructs a Pool over the given catalog query interface.
func New(query QueryInterface, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{query: query, logger: logger}
}

// AvailableMedia returns the full Media record for every catalog entry.
func (p *Pool) AvailableMedia(ctx context.Context) ([]rubus.Media, error) {
	all, err := p.query.QueryAll(ctx)
	if err != nil {
		return nil, &rubus.CatalogError{Op: "query_all", Err: err}
	}
	return all, nil
}

// AvailableMediaFast returns only identifiers and titles, in one query.
// This is the LIST hot path.
func (p *Pool) AvailableMediaFast(ctx context.Context) ([]IDTitle, error) {
	fast, err := p.query.QueryAllFast(ctx)
	if err != nil {
		return nil, &rubus.CatalogError{Op: "query_all_fast", Err: err}
	}
	return fast, nil
}

// GetMedia returns the Media by id, failing with rubus.ErrNotFound when
// the id is absent.
func (p *Pool) GetMedia(ctx context.Context, id rubus.MediaID) (*rubus.Media, error) {
	media, err := p.query.QueryByID(ctx, id)
	if err != nil {
		return nil, &rubus.CatalogError{Op: "query_by_id", Err: err}
	}
	if media == nil {
		return nil, rubus.ErrNotFound
	}
	return media, nil
}

// Fetch reads count video-piece files and count audio-piece files for
// id, at indices [offset, offset+count). Reads are independent and may
// be parallelized, but the returned slices are always in requested
// order. Fails with *rubus.PieceNotFoundError on the first missing
// index encountered; no partial response is ever returned.
func (p *Pool) Fetch(ctx context.Context, id rubus.MediaID, offset, count uint32) (video, audio [][]byte, err error) {
	media, err := p.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, &rubus.PieceOutOfRangeError{ID: id, Offset: offset, Count: count, DurationSec: media.DurationSec}
	}
	if uint64(offset)+uint64(count) > uint64(media.DurationSec) {
		return nil, nil, &rubus.PieceOutOfRangeError{ID: id, Offset: offset, Count: count, DurationSec: media.DurationSec}
	}

	video = make([][]byte, count)
	audio = make([][]byte, count)

	g, gctx := errgroup.WithContext(ctx)
	for i := uint32(0); i < count; i++ {
		i := i
		index := offset + i
		g.Go(func() error {
			v, err := readPiece(gctx, id, media.Path, streamVideo, index)
			if err != nil {
				return err
			}
			video[i] = v
			return nil
		})
		g.Go(func() error {
			a, err := readPiece(gctx, id, media.Path, streamAudio, index)
			if err != nil {
				return err
			}
			audio[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var pnf *rubus.PieceNotFoundError
		if errors.As(err, &pnf) {
			return nil, nil, pnf
		}
		return nil, nil, &rubus.CatalogError{Op: "fetch", Err: err}
	}

	return video, audio, nil
}

// piecePath returns the on-disk path of one stream's piece file.
func piecePath(mediaPath string, s stream, index uint32) string {
	return filepath.Join(mediaPath, string(s), fmt.Sprintf("%d", index))
}

func readPiece(ctx context.Context, id rubus.MediaID, mediaPath string, s stream, index uint32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := piecePath(mediaPath, s, index)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &rubus.PieceNotFoundError{ID: id, Index: index}
		}
		return nil, fmt.Errorf("reading piece file %s: %w", path, err)
	}
	return data, nil
}
