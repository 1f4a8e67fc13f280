package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rubusproject/rubus/internal/rubus"
)

// FormatVersion is the current binary-converter encoding version. It is
// written as the first byte of every converter's output; decoders
// reject any other value.
const FormatVersion byte = 1

// UnsupportedFormatVersionError is returned when a body's format-version
// prefix doesn't match a version this build understands.
type UnsupportedFormatVersionError struct {
	Got byte
}

func (e *UnsupportedFormatVersionError) Error() string {
	return fmt.Sprintf("unsupported format-version %d", e.Got)
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

func writeString(buf *bytes.Buffer, s string) {
	writeBytes(buf, []byte(s))
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading length prefix: %w", err)
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("reading %d bytes: %w", n, err)
	}
	return out, nil
}

func readString(r *bytes.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkVersion(r *bytes.Reader) error {
	v, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("reading format-version: %w", err)
	}
	if v != FormatVersion {
		return &UnsupportedFormatVersionError{Got: v}
	}
	return nil
}

// --- PlaybackList ---

// EncodePlaybackList is the PlaybackListBinaryConverter.encode contract:
// a bijective map between a PlaybackList value and a byte sequence.
func EncodePlaybackList(list rubus.PlaybackList) []byte {
	var buf bytes.Buffer
	buf.WriteByte(FormatVersion)
	writeUint32(&buf, uint32(len(list)))
	for id, title := range list {
		writeBytes(&buf, id.Bytes())
		writeString(&buf, title)
	}
	return buf.Bytes()
}

// DecodePlaybackList is the inverse of EncodePlaybackList.
func DecodePlaybackList(data []byte) (rubus.PlaybackList, error) {
	r := bytes.NewReader(data)
	if err := checkVersion(r); err != nil {
		return nil, err
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading entry count: %w", err)
	}
	out := make(rubus.PlaybackList, count)
	for i := uint32(0); i < count; i++ {
		idBytes, err := readBytes(r)
		if err != nil {
			return nil, fmt.Errorf("reading media id: %w", err)
		}
		id, err := rubus.MediaIDFromBytes(idBytes)
		if err != nil {
			return nil, err
		}
		title, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("reading title: %w", err)
		}
		out[id] = title
	}
	return out, nil
}

// --- MediaInfo (aka PlaybackInfo) ---

// EncodeMediaInfo is the MediaInfoBinaryConverter.encode contract.
func EncodeMediaInfo(info rubus.MediaInfo) []byte {
	var buf bytes.Buffer
	buf.WriteByte(FormatVersion)
	writeBytes(&buf, info.ID.Bytes())
	writeString(&buf, info.Title)
	writeUint16(&buf, info.VideoWidth)
	writeUint16(&buf, info.VideoHeight)
	writeUint32(&buf, info.DurationSec)
	writeString(&buf, info.VideoEncoding)
	writeString(&buf, info.AudioEncoding)
	writeString(&buf, info.VideoContainer)
	writeString(&buf, info.AudioContainer)
	return buf.Bytes()
}

// DecodeMediaInfo is the inverse of EncodeMediaInfo.
func DecodeMediaInfo(data []byte) (rubus.MediaInfo, error) {
	r := bytes.NewReader(data)
	if err := checkVersion(r); err != nil {
		return rubus.MediaInfo{}, err
	}
	idBytes, err := readBytes(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading media id: %w", err)
	}
	id, err := rubus.MediaIDFromBytes(idBytes)
	if err != nil {
		return rubus.MediaInfo{}, err
	}
	title, err := readString(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading title: %w", err)
	}
	width, err := readUint16(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading video width: %w", err)
	}
	height, err := readUint16(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading video height: %w", err)
	}
	duration, err := readUint32(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading duration: %w", err)
	}
	videoEnc, err := readString(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading video encoding: %w", err)
	}
	audioEnc, err := readString(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading audio encoding: %w", err)
	}
	videoContainer, err := readString(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading video container: %w", err)
	}
	audioContainer, err := readString(r)
	if err != nil {
		return rubus.MediaInfo{}, fmt.Errorf("reading audio container: %w", err)
	}
	return rubus.MediaInfo{
		ID:             id,
		Title:          title,
		VideoWidth:     width,
		VideoHeight:    height,
		DurationSec:    duration,
		VideoEncoding:  videoEnc,
		AudioEncoding:  audioEnc,
		VideoContainer: videoContainer,
		AudioContainer: audioContainer,
	}, nil
}

// --- MediaFetch (aka FetchedPieces) ---

// EncodeMediaFetch is the MediaFetchBinaryConverter.encode contract.
func EncodeMediaFetch(fetch rubus.MediaFetch) []byte {
	var buf bytes.Buffer
	buf.WriteByte(FormatVersion)
	writeBytes(&buf, fetch.ID.Bytes())
	writeUint32(&buf, fetch.Offset)
	writeUint32(&buf, uint32(len(fetch.Video)))
	for _, piece := range fetch.Video {
		writeBytes(&buf, piece)
	}
	writeUint32(&buf, uint32(len(fetch.Audio)))
	for _, piece := range fetch.Audio {
		writeBytes(&buf, piece)
	}
	return buf.Bytes()
}

// DecodeMediaFetch is the inverse of EncodeMediaFetch.
func DecodeMediaFetch(data []byte) (rubus.MediaFetch, error) {
	r := bytes.NewReader(data)
	if err := checkVersion(r); err != nil {
		return rubus.MediaFetch{}, err
	}
	idBytes, err := readBytes(r)
	if err != nil {
		return rubus.MediaFetch{}, fmt.Errorf("reading media id: %w", err)
	}
	id, err := rubus.MediaIDFromBytes(idBytes)
	if err != nil {
		return rubus.MediaFetch{}, err
	}
	offset, err := readUint32(r)
	if err != nil {
		return rubus.MediaFetch{}, fmt.Errorf("reading offset: %w", err)
	}
	videoCount, err := readUint32(r)
	if err != nil {
		return rubus.MediaFetch{}, fmt.Errorf("reading video count: %w", err)
	}
	video := make([][]byte, videoCount)
	for i := range video {
		video[i], err = readBytes(r)
		if err != nil {
			return rubus.MediaFetch{}, fmt.Errorf("reading video piece %d: %w", i, err)
		}
	}
	audioCount, err := readUint32(r)
	if err != nil {
		return rubus.MediaFetch{}, fmt.Errorf("reading audio count: %w", err)
	}
	audio := make([][]byte, audioCount)
	for i := range audio {
		audio[i], err = readBytes(r)
		if err != nil {
			return rubus.MediaFetch{}, fmt.Errorf("reading audio piece %d: %w", i, err)
		}
	}
	return rubus.MediaFetch{
		ID:     id,
		Offset: offset,
		Video:  video,
		Audio:  audio,
	}, nil
}
