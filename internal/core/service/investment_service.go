package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/api/metrics"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

const investmentMediaFolder = "investments"

type InvestmentService struct {
	repo   ports.InvestmentRepository
	media  ports.MediaUploader
	logger zerolog.Logger
}

func NewInvestmentService(repo ports.InvestmentRepository, media ports.MediaUploader, logger zerolog.Logger) *InvestmentService {
	return &InvestmentService{repo: repo, media: media, logger: logger}
}

func (s *InvestmentService) Create(ctx context.Context, input ports.CreateInvestmentInput) (*domain.Investment, error) {
	if !domain.ValidPropertyType(domain.PropertyType(input.Type)) {
		return nil, fmt.Errorf("%w: unknown property type %q", domain.ErrInvalidListing, input.Type)
	}

	status := domain.InvestmentStatus(input.Status)
	if status == "" {
		status = domain.InvestmentAvailable
	}

	images := make([]string, 0, len(input.ImageData)+len(input.ImageURLs))
	images = append(images, input.ImageURLs...)
	for _, img := range input.ImageData {
		url, err := s.media.Upload(ctx, img, investmentMediaFolder)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		images = append(images, url)
	}

	now := time.Now().UTC()
	inv := &domain.Investment{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		GoalAmount:  input.GoalAmount,
		ExpectedROI: input.ExpectedROI,
		Status:      status,
		Type:        domain.PropertyType(input.Type),
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create investment")
		return nil, err
	}

	s.logger.Info().Str("investment_id", created.ID).Msg("investment created")
	return created, nil
}

func (s *InvestmentService) Get(ctx context.Context, id string) (*domain.Investment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *InvestmentService) List(ctx context.Context) ([]*domain.Investment, error) {
	return s.repo.FindAll(ctx)
}

func (s *InvestmentService) Update(ctx context.Context, id string, input ports.UpdateInvestmentInput) (*domain.Investment, error) {
	return s.repo.Update(ctx, id, input)
}

func (s *InvestmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("investment_id", id).Msg("investment deleted")
	return nil
}

// Invest contributes amount from the caller to an open offering. Registering
// the investor and flipping to funded happen on the aggregate, then the whole
// funding state is persisted.
func (s *InvestmentService) Invest(ctx context.Context, caller ports.Identity, id string, amount float64) (*domain.Investment, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidInvestmentAmount
	}

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.AcceptsFunding() {
		return nil, domain.ErrInvestmentClosed
	}

	inv.Contribute(caller.UserID, amount)
	inv.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, inv); err != nil {
		s.logger.Error().Err(err).Str("investment_id", id).Msg("failed to persist contribution")
		return nil, err
	}

	if inv.Status == domain.InvestmentFunded {
		metrics.InvestmentsFundedTotal.Inc()
		s.logger.Info().Str("investment_id", id).Float64("goal", inv.GoalAmount).Msg("investment fully funded")
	}

	s.logger.Info().
		Str("investment_id", id).
		Str("user_id", caller.UserID).
		Float64("amount", amount).
		Msg("contribution recorded")

	return inv, nil
}

func (s *InvestmentService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Investment, error) {
	return s.repo.FindByInvestor(ctx, caller.UserID)
}

func (s *InvestmentService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
