package server

import (
	"context"
	"errors"

	"github.com/rubusproject/rubus/internal/rubus"
	"github.com/rubusproject/rubus/internal/wire"
)

// route dispatches one authenticated request to the media pool and
// frames the result.
func (d *Dispatcher) route(ctx context.Context, req *wire.Request, _ rubus.Viewer) *wire.Response {
	switch req.Type {
	case wire.RequestTypeList:
		return d.handleList(ctx)
	case wire.RequestTypeInfo:
		return d.handleInfo(ctx, req)
	case wire.RequestTypeFetch:
		return d.handleFetch(ctx, req)
	default:
		return badRequest("unknown request-type")
	}
}

func (d *Dispatcher) handleList(ctx context.Context) *wire.Response {
	fast, err := d.pool.AvailableMediaFast(ctx)
	if err != nil {
		return serverError(err)
	}
	list := make(rubus.PlaybackList, len(fast))
	for _, entry := range fast {
		list[entry.ID] = entry.Title
	}
	return &wire.Response{
		Type:             wire.ResponseTypeOK,
		SerializedObject: wire.LogicalTypePlaybackList,
		Body:             wire.EncodePlaybackList(list),
	}
}

func (d *Dispatcher) handleInfo(ctx context.Context, req *wire.Request) *wire.Response {
	id, err := rubus.ParseMediaIDHex(req.MediaIDHex)
	if err != nil {
		return badRequest("invalid media-id")
	}

	media, err := d.pool.GetMedia(ctx, id)
	if errors.Is(err, rubus.ErrNotFound) {
		return badRequest("media-not-found")
	}
	if err != nil {
		return serverError(err)
	}

	return &wire.Response{
		Type:             wire.ResponseTypeOK,
		SerializedObject: wire.LogicalTypeMediaInfo,
		Body:             wire.EncodeMediaInfo(media.MediaInfo),
	}
}

func (d *Dispatcher) handleFetch(ctx context.Context, req *wire.Request) *wire.Response {
	if req.TotalPieces > d.cfg.MaxFetchPieces {
		return badRequest("total-playback-pieces exceeds configured maximum")
	}

	id, err := rubus.ParseMediaIDHex(req.MediaIDHex)
	if err != nil {
		return badRequest("invalid media-id")
	}

	video, audio, err := d.pool.Fetch(ctx, id, req.StartingPiece, req.TotalPieces)
	switch {
	case errors.Is(err, rubus.ErrNotFound):
		return badRequest("media-not-found")
	case isPieceError(err):
		return badRequest(err.Error())
	case err != nil:
		return serverError(err)
	}

	fetch := rubus.MediaFetch{ID: id, Offset: req.StartingPiece, Video: video, Audio: audio}
	return &wire.Response{
		Type:             wire.ResponseTypeOK,
		SerializedObject: wire.LogicalTypeMediaFetch,
		Body:             wire.EncodeMediaFetch(fetch),
	}
}

func isPieceError(err error) bool {
	var notFound *rubus.PieceNotFoundError
	var outOfRange *rubus.PieceOutOfRangeError
	return errors.As(err, &notFound) || errors.As(err, &outOfRange)
}
