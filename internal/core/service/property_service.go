package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	mediaFolder      = "properties"
)

type PropertyService struct {
	repo   ports.PropertyRepository
	users  ports.UserRepository
	media  ports.MediaUploader
	logger zerolog.Logger
}

func NewPropertyService(repo ports.PropertyRepository, users ports.UserRepository, media ports.MediaUploader, logger zerolog.Logger) *PropertyService {
	return &PropertyService{repo: repo, users: users, media: media, logger: logger}
}

var nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
var whitespaceRun = regexp.MustCompile(`\s+`)
var hyphenRun = regexp.MustCompile(`-+`)

// slugify lowercases a title and reduces it to hyphen-separated words.
func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	return hyphenRun.ReplaceAllString(s, "-")
}

// uniqueSlug appends a counter until the slug is unused.
func (s *PropertyService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("slug check: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// uploadImages relays raw uploads to the media host and returns their URLs
// alongside any pre-hosted URLs.
func (s *PropertyService) uploadImages(ctx context.Context, data [][]byte, urls []string, folder string) ([]string, error) {
	out := make([]string, 0, len(data)+len(urls))
	out = append(out, urls...)
	for _, img := range data {
		url, err := s.media.Upload(ctx, img, folder)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		out = append(out, url)
	}
	return out, nil
}

func (s *PropertyService) Create(ctx context.Context, input ports.CreatePropertyInput) (*domain.Property, error) {
	if !domain.ValidPropertyType(domain.PropertyType(input.Type)) {
		return nil, fmt.Errorf("%w: unknown property type %q", domain.ErrInvalidListing, input.Type)
	}
	if !domain.ValidPropertyStatus(domain.PropertyStatus(input.Status)) {
		return nil, fmt.Errorf("%w: unknown property status %q", domain.ErrInvalidListing, input.Status)
	}

	images, err := s.uploadImages(ctx, input.ImageData, input.ImageURLs, mediaFolder)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	property := &domain.Property{
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Type:        domain.PropertyType(input.Type),
		Status:      domain.PropertyStatus(input.Status),
		Images:      images,
		Price:       input.Price,
		Location:    strings.TrimSpace(input.Location),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, property)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to create property")
		return nil, err
	}

	s.logger.Info().Str("property_id", created.ID).Str("slug", created.Slug).Msg("property created")
	return created, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, filter ports.ListPropertiesFilter) (*ports.ListPropertiesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListPropertiesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *PropertyService) Update(ctx context.Context, id string, input ports.UpdatePropertyInput) (*domain.Property, error) {
	if input.Type != nil && !domain.ValidPropertyType(domain.PropertyType(*input.Type)) {
		return nil, fmt.Errorf("%w: unknown property type %q", domain.ErrInvalidListing, *input.Type)
	}
	if input.Status != nil && !domain.ValidPropertyStatus(domain.PropertyStatus(*input.Status)) {
		return nil, fmt.Errorf("%w: unknown property status %q", domain.ErrInvalidListing, *input.Status)
	}
	return s.repo.Update(ctx, id, input)
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("property_id", id).Msg("property deleted")
	return nil
}

func (s *PropertyService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *PropertyService) ListSaved(ctx context.Context, userID string) ([]*domain.Property, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.SavedProperties) == 0 {
		return []*domain.Property{}, nil
	}
	return s.repo.FindByIDs(ctx, user.SavedProperties)
}

func (s *PropertyService) Save(ctx context.Context, userID, propertyID string) error {
	// The listing must exist before it can be bookmarked.
	if _, err := s.repo.FindByID(ctx, propertyID); err != nil {
		return err
	}
	return s.users.SaveProperty(ctx, userID, propertyID)
}

func (s *PropertyService) Unsave(ctx context.Context, userID, propertyID string) error {
	return s.users.UnsaveProperty(ctx, userID, propertyID)
}
