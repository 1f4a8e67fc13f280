package sqlcatalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rubusproject/rubus/internal/catalog"
	"github.com/rubusproject/rubus/internal/rubus"
)

// Repository is the SQL-backed catalog.QueryInterface implementation.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps an opened *gorm.DB (see Open) as a
// catalog.QueryInterface.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ catalog.QueryInterface = (*Repository)(nil)

// QueryAllFast selects only id and title columns in one query — the
// LIST hot path must not fan out to one row lookup per entry.
func (r *Repository) QueryAllFast(ctx context.Context) ([]catalog.IDTitle, error) {
	var rows []mediaRow
	if err := r.db.WithContext(ctx).Select("id", "title").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying media ids/titles: %w", err)
	}
	out := make([]catalog.IDTitle, len(rows))
	for i, row := range rows {
		out[i] = catalog.IDTitle{ID: row.ID, Title: row.Title}
	}
	return out, nil
}

// QueryAll returns the full Media record for every catalog entry.
func (r *Repository) QueryAll(ctx context.Context) ([]rubus.Media, error) {
	var rows []mediaRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying all media: %w", err)
	}
	out := make([]rubus.Media, len(rows))
	for i, row := range rows {
		out[i] = row.toMedia()
	}
	return out, nil
}

// QueryByID returns the Media by primary key, or nil if absent.
func (r *Repository) QueryByID(ctx context.Context, id rubus.MediaID) (*rubus.Media, error) {
	var row mediaRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying media by id: %w", err)
	}
	media := row.toMedia()
	return &media, nil
}

// Ingest creates or replaces a catalog entry. Ingestion is the only
// write path; the media pool itself never writes. This method exists
// for catalog setup/seeding, not for the dispatcher's request handling.
func (r *Repository) Ingest(ctx context.Context, media rubus.Media) error {
	row := mediaRowFrom(media)
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("ingesting media %s: %w", media.ID, err)
	}
	return nil
}
