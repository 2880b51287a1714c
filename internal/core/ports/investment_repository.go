package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// UpdateInvestmentInput carries a partial offering update; nil fields are untouched.
type UpdateInvestmentInput struct {
	Title       *string
	Description *string
	GoalAmount  *float64
	ExpectedROI *float64
	Status      *string
	Images      []string
}

// InvestmentRepository defines persistence operations for crowdfunded offerings.
type InvestmentRepository interface {
	Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error)
	FindByID(ctx context.Context, id string) (*domain.Investment, error)
	FindAll(ctx context.Context) ([]*domain.Investment, error)
	FindByInvestor(ctx context.Context, userID string) ([]*domain.Investment, error)
	Update(ctx context.Context, id string, input UpdateInvestmentInput) (*domain.Investment, error)
	// Save persists funding-state changes (amount, investors, status) made on
	// a loaded aggregate.
	Save(ctx context.Context, inv *domain.Investment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
