package wire

import (
	"fmt"
	"strconv"
)

// Request is the parsed, typed form of a request Frame.
type Request struct {
	Type          RequestType
	MediaIDHex    string // set for INFO and FETCH
	StartingPiece uint32 // set for FETCH
	TotalPieces   uint32 // set for FETCH
	AuthToken     string // opaque to the wire codec; interpreted by the authenticator
}

// UnknownRequestTypeError is returned when a frame's request-type field
// doesn't name one of LIST, INFO, FETCH. This maps to a BAD_REQUEST
// response, not a connection failure.
type UnknownRequestTypeError struct {
	Got string
}

func (e *UnknownRequestTypeError) Error() string {
	return fmt.Sprintf("unknown request-type %q", e.Got)
}

// ParseRequest interprets a Frame as a Request.
func ParseRequest(f *Frame) (*Request, error) {
	typeStr, ok := f.Get(fieldRequestType)
	if !ok {
		return nil, &MalformedFrameError{Err: fmt.Errorf("missing %s field", fieldRequestType)}
	}

	req := &Request{Type: RequestType(typeStr)}
	if idHex, ok := f.Get(fieldMediaID); ok {
		req.MediaIDHex = idHex
	}
	if tok, ok := f.Get(fieldAuthToken); ok {
		req.AuthToken = tok
	}

	switch req.Type {
	case RequestTypeList:
		// No further fields required.
	case RequestTypeInfo:
		if req.MediaIDHex == "" {
			return nil, &MalformedFrameError{Err: fmt.Errorf("INFO request missing %s", fieldMediaID)}
		}
	case RequestTypeFetch:
		if req.MediaIDHex == "" {
			return nil, &MalformedFrameError{Err: fmt.Errorf("FETCH request missing %s", fieldMediaID)}
		}
		start, err := parseUint32Field(f, fieldStartingPiece)
		if err != nil {
			return nil, err
		}
		total, err := parseUint32Field(f, fieldTotalPieces)
		if err != nil {
			return nil, err
		}
		req.StartingPiece = start
		req.TotalPieces = total
	default:
		return nil, &UnknownRequestTypeError{Got: typeStr}
	}

	return req, nil
}

// Frame renders the Request back into wire form.
func (r *Request) Frame() *Frame {
	f := &Frame{}
	f.Set(fieldRequestType, string(r.Type))
	if r.MediaIDHex != "" {
		f.Set(fieldMediaID, r.MediaIDHex)
	}
	if r.AuthToken != "" {
		f.Set(fieldAuthToken, r.AuthToken)
	}
	if r.Type == RequestTypeFetch {
		f.Set(fieldStartingPiece, strconv.FormatUint(uint64(r.StartingPiece), 10))
		f.Set(fieldTotalPieces, strconv.FormatUint(uint64(r.TotalPieces), 10))
	}
	return f
}

func parseUint32Field(f *Frame, key string) (uint32, error) {
	raw, ok := f.Get(key)
	if !ok {
		return 0, &MalformedFrameError{Err: fmt.Errorf("missing %s field", key)}
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, &MalformedFrameError{Err: fmt.Errorf("invalid %s %q: %w", key, raw, err)}
	}
	return uint32(v), nil
}
