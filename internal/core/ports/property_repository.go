package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// ListPropertiesFilter carries all query parameters for listing properties.
// Zero values mean "no filter"; Location and Title are case-insensitive
// partial matches.
type ListPropertiesFilter struct {
	Status   string
	Type     string
	Location string
	Title    string
	MinPrice float64
	MaxPrice float64
	Page     int // 1-based
	Limit    int // capped at 100 by the service
}

// UpdatePropertyInput carries a partial listing update; nil fields are untouched.
type UpdatePropertyInput struct {
	Title       *string
	Description *string
	Type        *string
	Status      *string
	Price       *float64
	Location    *string
	Images      []string
}

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Property, error)
	// List returns a page of properties matching filter and the total count.
	List(ctx context.Context, filter ListPropertiesFilter) ([]*domain.Property, int64, error)
	Update(ctx context.Context, id string, input UpdatePropertyInput) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
