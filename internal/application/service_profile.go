package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/viralforge/profiles-service/internal/domain"
	"github.com/viralforge/profiles-service/internal/ports"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MessageProfileCreated = "Profile created successfully"
	MessageProfileUpdated = "Profile updated successfully"
	MessageProfileFound   = "Profile retrieved successfully"
)

// CreateProfile creates the caller's profile. The email is always the one
// the Users service reports for the token subject. The pre-check gives a
// fast answer for the common case; the store's unique index decides races.
func (s *Service) CreateProfile(ctx context.Context, claims ports.AuthClaims, input ProfileInput) (ProfileResult, error) {
	ctx, span := s.tracer.Start(ctx, "application.CreateProfile")
	defer span.End()

	email, err := s.resolveEmail(ctx, claims.Subject)
	if err != nil {
		recordSpanError(span, err)
		return ProfileResult{}, err
	}
	span.SetAttributes(attribute.String("profile.email", email))

	if _, err := s.profiles.FindByEmail(ctx, email); err == nil {
		s.logger().InfoContext(ctx, "profile already exists",
			"operation", "create_profile",
			"outcome", "rejected",
			"email", email,
		)
		return ProfileResult{}, fmt.Errorf("%w: %s", domain.ErrProfileExists, email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		recordSpanError(span, err)
		return ProfileResult{}, err
	}

	created, err := s.profiles.Insert(ctx, input.draft(email), s.nowFn())
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrProfileExists) {
			recordSpanError(span, err)
		}
		return ProfileResult{}, err
	}

	s.enqueueProfileEvent(ctx, EventProfileCreated, created)
	s.logger().InfoContext(ctx, "profile created",
		"operation", "create_profile",
		"outcome", "success",
		"profile_id", created.ID,
		"email", created.Email,
	)
	return ProfileResult{Message: MessageProfileCreated, Profile: toProfileResponse(created)}, nil
}

func (s *Service) GetMyProfile(ctx context.Context, claims ports.AuthClaims) (ProfileResult, error) {
	ctx, span := s.tracer.Start(ctx, "application.GetMyProfile")
	defer span.End()

	email, err := s.resolveEmail(ctx, claims.Subject)
	if err != nil {
		recordSpanError(span, err)
		return ProfileResult{}, err
	}
	if cached, ok := s.cachedProfile(ctx, email); ok {
		span.SetAttributes(attribute.Bool("profile.cache_hit", true))
		return ProfileResult{Message: MessageProfileFound, Profile: toProfileResponse(cached)}, nil
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			recordSpanError(span, err)
		}
		return ProfileResult{}, err
	}
	s.fillCachedProfile(ctx, profile)
	return ProfileResult{Message: MessageProfileFound, Profile: toProfileResponse(profile)}, nil
}

// UpdateMyProfile merges req into the caller's stored profile. Email is
// never changed by an update.
func (s *Service) UpdateMyProfile(ctx context.Context, claims ports.AuthClaims, req UpdateProfileRequest) (ProfileResult, error) {
	ctx, span := s.tracer.Start(ctx, "application.UpdateMyProfile")
	defer span.End()

	email, err := s.resolveEmail(ctx, claims.Subject)
	if err != nil {
		recordSpanError(span, err)
		return ProfileResult{}, err
	}

	current, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			recordSpanError(span, err)
		}
		return ProfileResult{}, err
	}

	draft := req.apply(current.Draft())
	draft.Email = email
	updated, err := s.profiles.Replace(ctx, email, draft, s.nowFn())
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrNotFound) {
			recordSpanError(span, err)
		}
		return ProfileResult{}, err
	}

	s.writeCachedProfile(ctx, updated)
	s.enqueueProfileEvent(ctx, EventProfileUpdated, updated)
	s.logger().InfoContext(ctx, "profile updated",
		"operation", "update_profile",
		"outcome", "success",
		"profile_id", updated.ID,
		"email", updated.Email,
	)
	return ProfileResult{Message: MessageProfileUpdated, Profile: toProfileResponse(updated)}, nil
}

// Ready reports whether the profile store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.profiles.Ping(ctx)
}
