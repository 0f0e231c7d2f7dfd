package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/profiles-service/internal/domain"
)

// ProfileRepository is the system of record for profiles. Insert validates
// the draft before writing and must enforce email uniqueness atomically:
// a losing concurrent insert returns domain.ErrProfileExists.
type ProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.Profile, error)
	Insert(ctx context.Context, draft domain.ProfileDraft, now time.Time) (domain.Profile, error)
	Replace(ctx context.Context, email string, draft domain.ProfileDraft, now time.Time) (domain.Profile, error)
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
}

type OutboxEvent struct {
	EventID       uuid.UUID
	EventType     string
	PartitionKey  string
	Payload       []byte
	OccurredAt    time.Time
	SchemaVersion string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

// OutboxRepository stores events pending publication. FetchUnpublished
// skips records that already failed maxRetries times (no cap when
// maxRetries <= 0) and returns the least-retried records first, oldest
// first within a retry count.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int, maxRetries int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}
