package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/directory-service/config"
	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/duynhne/directory-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProfileService holds the business logic for profile listings
type ProfileService struct {
	repo   domain.ProfileRepository
	cfg    config.ListingConfig
	logger *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo domain.ProfileRepository, cfg config.ListingConfig, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// ListProfiles returns one page of profiles matching the search and work filters
func (s *ProfileService) ListProfiles(ctx context.Context, p ListParams) (*domain.ListResult, error) {
	q := s.listQuery(p)

	ctx, span := middleware.StartSpan(ctx, "profile.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Bool("list.search", p.Search != ""),
		attribute.Int("list.clauses", len(q.Predicate)),
		attribute.Int("list.page", q.Page),
		attribute.Int("list.limit", q.Limit),
	))
	defer span.End()

	profiles, total, err := s.repo.List(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	listingResults.Observe(float64(total))
	span.SetAttributes(attribute.Int64("list.total", total))

	return &domain.ListResult{
		Profiles: profiles,
		Total:    total,
		Page:     q.Page,
		Limit:    q.Limit,
	}, nil
}

// GetProfile retrieves a profile by ID
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("profile.id", id),
	))
	defer span.End()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get profile %q: %w", id, err)
	}
	return p, nil
}

// CreateProfile validates and stores a single profile submission
func (s *ProfileService) CreateProfile(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	p, err := s.createProfile(ctx, profileFromInput(in))
	if err != nil {
		span.SetAttributes(attribute.Bool("profile.created", false))
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("profile.id", p.ID),
		attribute.Bool("profile.created", true),
	)
	span.AddEvent("profile.created")
	return p, nil
}

// createProfile is shared by single submissions and bulk rows: validate,
// check email uniqueness, derive the avatar, persist.
func (s *ProfileService) createProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if err := validateProfile(p, s.cfg.StrictValidation); err != nil {
		return nil, err
	}

	if p.Email != "" {
		taken, err := s.repo.EmailExists(ctx, p.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("create profile %q: %w", p.Email, domain.ErrEmailTaken)
		}
	}

	if p.Avatar == "" {
		p.Avatar = domain.AvatarURL(s.cfg.AvatarBaseURL, p.Name)
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// UpdateProfile overwrites the supplied fields of an existing profile.
// The avatar is only replaced when a new one is supplied.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, in domain.ProfileInput) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("profile.id", id),
	))
	defer span.End()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile %q: %w", id, err)
	}

	upd := updateFromInput(in)
	if upd.IsEmpty() {
		return current, nil
	}

	// The merged record must pass the same rules as a new profile.
	merged := *current
	upd.Apply(&merged)
	if err := validateProfile(&merged, s.cfg.StrictValidation); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if upd.Email != nil && *upd.Email != current.Email {
		taken, err := s.repo.EmailExists(ctx, *upd.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("update profile %q: %w", id, domain.ErrEmailTaken)
		}
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile %q: %w", id, err)
	}

	span.SetAttributes(attribute.Bool("profile.updated", true))
	return updated, nil
}

// DeleteProfile removes a profile permanently
func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	ctx, span := middleware.StartSpan(ctx, "profile.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("profile.id", id),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete profile %q: %w", id, err)
	}
	return nil
}

// WorkTypes lists the distinct work tags in use
func (s *ProfileService) WorkTypes(ctx context.Context) ([]string, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.work_types", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	types, err := s.repo.WorkTypes(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list work types: %w", err)
	}
	return types, nil
}
