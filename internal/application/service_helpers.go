package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/profiles-service/internal/domain"
	"github.com/viralforge/profiles-service/internal/ports"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	EventProfileCreated = "profile.created"
	EventProfileUpdated = "profile.updated"
)

type profileEventData struct {
	ProfileID string   `json:"profile_id"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullname"`
	Skills    []string `json:"skills,omitempty"`
	UpdatedAt string   `json:"updated_at"`
}

// enqueueProfileEvent writes a change event to the outbox. Failures are
// logged and never fail the request; the profile is already committed.
func (s *Service) enqueueProfileEvent(ctx context.Context, eventType string, profile domain.Profile) {
	if s.outbox == nil {
		return
	}
	occurredAt := s.nowFn()
	eventID := uuid.New()
	envelope := map[string]any{
		"event_id":           eventID.String(),
		"event_type":         eventType,
		"occurred_at":        occurredAt.Format(time.RFC3339),
		"source_service":     s.cfg.ServiceName,
		"trace_id":           traceID(ctx),
		"schema_version":     "1.0",
		"partition_key_path": "data.email",
		"partition_key":      profile.Email,
		"data": profileEventData{
			ProfileID: profile.ID,
			Email:     profile.Email,
			FullName:  profile.FullName,
			Skills:    profile.Skills,
			UpdatedAt: profile.UpdatedAt.Format(time.RFC3339),
		},
	}
	payload, err := json.Marshal(envelope)
	if err == nil {
		err = s.outbox.Enqueue(ctx, ports.OutboxEvent{
			EventID:       eventID,
			EventType:     eventType,
			PartitionKey:  profile.Email,
			Payload:       payload,
			OccurredAt:    occurredAt,
			SchemaVersion: "1.0",
		})
	}
	if err != nil {
		s.logger().ErrorContext(ctx, "outbox enqueue failed",
			"operation", "enqueue_event",
			"outcome", "failure",
			"event_type", eventType,
			"email", profile.Email,
			"error", err,
		)
	}
}

func profileCacheKey(email string) string {
	return "profiles:email:" + email
}

func (s *Service) cachedProfile(ctx context.Context, email string) (domain.Profile, bool) {
	if s.cache == nil {
		return domain.Profile{}, false
	}
	raw, err := s.cache.Get(ctx, profileCacheKey(email))
	if err != nil {
		s.logger().WarnContext(ctx, "profile cache read failed", "operation", "cache_get", "email", email, "error", err)
		return domain.Profile{}, false
	}
	if raw == "" {
		return domain.Profile{}, false
	}
	var resp ProfileResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return domain.Profile{}, false
	}
	return resp.toDomain(), true
}

// fillCachedProfile populates the cache after a store read. It never
// replaces an existing entry, so a slow read cannot clobber the value a
// concurrent update wrote.
func (s *Service) fillCachedProfile(ctx context.Context, profile domain.Profile) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(toProfileResponse(profile))
	if err != nil {
		return
	}
	if _, err := s.cache.SetNX(ctx, profileCacheKey(profile.Email), string(raw), s.cfg.ProfileCacheTTL); err != nil {
		s.logger().WarnContext(ctx, "profile cache fill failed", "operation", "cache_setnx", "email", profile.Email, "error", err)
	}
}

// writeCachedProfile overwrites the entry with a freshly committed profile.
// If the write fails the entry is dropped instead.
func (s *Service) writeCachedProfile(ctx context.Context, profile domain.Profile) {
	if s.cache == nil {
		return
	}
	key := profileCacheKey(profile.Email)
	raw, err := json.Marshal(toProfileResponse(profile))
	if err == nil {
		err = s.cache.Set(ctx, key, string(raw), s.cfg.ProfileCacheTTL)
	}
	if err == nil {
		return
	}
	s.logger().WarnContext(ctx, "profile cache write failed", "operation", "cache_set", "email", profile.Email, "error", err)
	if delErr := s.cache.Delete(ctx, key); delErr != nil {
		s.logger().WarnContext(ctx, "profile cache invalidation failed", "operation", "cache_delete", "email", profile.Email, "error", delErr)
	}
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
