package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// CreateInvestmentInput carries all data needed to publish a crowdfunded
// offering. ImageData holds raw uploads relayed to the media host.
type CreateInvestmentInput struct {
	Title       string
	Description string
	GoalAmount  float64
	ExpectedROI float64
	Status      string
	Type        string
	ImageData   [][]byte
	ImageURLs   []string
}

// InvestmentService defines use-case operations for crowdfunded offerings.
type InvestmentService interface {
	Create(ctx context.Context, input CreateInvestmentInput) (*domain.Investment, error)
	Get(ctx context.Context, id string) (*domain.Investment, error)
	List(ctx context.Context) ([]*domain.Investment, error)
	Update(ctx context.Context, id string, input UpdateInvestmentInput) (*domain.Investment, error)
	Delete(ctx context.Context, id string) error
	// Invest contributes amount from the caller; only offerings in the
	// "investing" state accept funds.
	Invest(ctx context.Context, caller Identity, id string, amount float64) (*domain.Investment, error)
	ListMine(ctx context.Context, caller Identity) ([]*domain.Investment, error)
	Count(ctx context.Context) (int64, error)
}
