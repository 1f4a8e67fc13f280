// Package sqlcatalog is a GORM-over-SQLite implementation of
// catalog.QueryInterface: a pluggable catalog store behind the
// query-interface contract the media pool depends on.
package sqlcatalog

import "github.com/rubusproject/rubus/internal/rubus"

// mediaRow is the GORM model backing the media table. MediaID already
// implements driver.Valuer/sql.Scanner, so it stores directly as the
// primary key column.
type mediaRow struct {
	ID             rubus.MediaID `gorm:"primaryKey;type:varchar(32)"`
	Title          string        `gorm:"not null"`
	VideoWidth     uint16        `gorm:"not null"`
	VideoHeight    uint16        `gorm:"not null"`
	DurationSec    uint32        `gorm:"not null"`
	VideoEncoding  string        `gorm:"not null"`
	AudioEncoding  string        `gorm:"not null"`
	VideoContainer string        `gorm:"not null"`
	AudioContainer string        `gorm:"not null"`
	Path           string        `gorm:"not null"`
}

// TableName pins the table name explicitly rather than relying on
// GORM's pluralized-struct-name default.
func (mediaRow) TableName() string {
	return "media"
}

func (r mediaRow) toMedia() rubus.Media {
	return rubus.Media{
		MediaInfo: rubus.MediaInfo{
			ID:             r.ID,
			Title:          r.Title,
			VideoWidth:     r.VideoWidth,
			VideoHeight:    r.VideoHeight,
			DurationSec:    r.DurationSec,
			VideoEncoding:  r.VideoEncoding,
			AudioEncoding:  r.AudioEncoding,
			VideoContainer: r.VideoContainer,
			AudioContainer: r.AudioContainer,
		},
		Path: r.Path,
	}
}

func mediaRowFrom(m rubus.Media) mediaRow {
	return mediaRow{
		ID:             m.ID,
		Title:          m.Title,
		VideoWidth:     m.VideoWidth,
		VideoHeight:    m.VideoHeight,
		DurationSec:    m.DurationSec,
		VideoEncoding:  m.VideoEncoding,
		AudioEncoding:  m.AudioEncoding,
		VideoContainer: m.VideoContainer,
		AudioContainer: m.AudioContainer,
		Path:           m.Path,
	}
}
