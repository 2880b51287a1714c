package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// CreatePropertyInput carries all data needed to publish a listing. ImageData
// holds raw uploads relayed to the media host; ImageURLs are already-hosted
// images accepted as-is.
type CreatePropertyInput struct {
	Title       string
	Description string
	Type        string
	Status      string
	Price       float64
	Location    string
	ImageData   [][]byte
	ImageURLs   []string
}

// ListPropertiesResult is a page of listings plus pagination totals.
type ListPropertiesResult struct {
	Items      []*domain.Property
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PropertyService defines use-case operations for listings.
type PropertyService interface {
	Create(ctx context.Context, input CreatePropertyInput) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) (*ListPropertiesResult, error)
	Update(ctx context.Context, id string, input UpdatePropertyInput) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// Saved-property set on the user record.
	ListSaved(ctx context.Context, userID string) ([]*domain.Property, error)
	Save(ctx context.Context, userID, propertyID string) error
	Unsave(ctx context.Context, userID, propertyID string) error
}
