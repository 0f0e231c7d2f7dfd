package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/profiles-service/internal/domain"
	"github.com/viralforge/profiles-service/internal/ports"
)

type memoryProfiles struct {
	mu      sync.Mutex
	byEmail map[string]domain.Profile
	nextID  int
	inserts int

	// precheck, when set, holds every FindByEmail caller until all
	// expected callers have looked, forcing the pre-check race.
	precheck *sync.WaitGroup

	// afterFind, when set, runs after every FindByEmail read and before
	// the result is returned.
	afterFind func()
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{byEmail: map[string]domain.Profile{}}
}

func (m *memoryProfiles) FindByEmail(_ context.Context, email string) (domain.Profile, error) {
	m.mu.Lock()
	p, ok := m.byEmail[domain.NormalizeEmail(email)]
	m.mu.Unlock()
	if m.precheck != nil {
		m.precheck.Done()
		m.precheck.Wait()
	}
	if m.afterFind != nil {
		m.afterFind()
	}
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memoryProfiles) Insert(_ context.Context, draft domain.ProfileDraft, now time.Time) (domain.Profile, error) {
	valid, err := domain.ValidateDraft(draft)
	if err != nil {
		return domain.Profile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[valid.Email]; exists {
		return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrProfileExists, valid.Email)
	}
	m.nextID++
	m.inserts++
	p := domain.Profile{
		ID:              strconv.Itoa(m.nextID),
		FullName:        valid.FullName,
		Email:           valid.Email,
		Mobile:          valid.Mobile,
		Address:         valid.Address,
		AcademicDetails: valid.AcademicDetails,
		Experience:      valid.Experience,
		Skills:          valid.Skills,
		Projects:        valid.Projects,
		Social:          valid.Social,
		Resume:          valid.Resume,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.byEmail[p.Email] = p
	return p, nil
}

func (m *memoryProfiles) Replace(_ context.Context, email string, draft domain.ProfileDraft, now time.Time) (domain.Profile, error) {
	draft.Email = email
	valid, err := domain.ValidateDraft(draft)
	if err != nil {
		return domain.Profile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.byEmail[valid.Email]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	current.FullName = valid.FullName
	current.Mobile = valid.Mobile
	current.Address = valid.Address
	current.AcademicDetails = valid.AcademicDetails
	current.Experience = valid.Experience
	current.Skills = valid.Skills
	current.Projects = valid.Projects
	current.Social = valid.Social
	current.Resume = valid.Resume
	current.UpdatedAt = now
	m.byEmail[valid.Email] = current
	return current, nil
}

func (m *memoryProfiles) EnsureSchema(context.Context) error { return nil }

func (m *memoryProfiles) Ping(context.Context) error { return nil }

func (m *memoryProfiles) insertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

type memoryOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (m *memoryOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memoryOutbox) FetchUnpublished(context.Context, int, int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (m *memoryOutbox) MarkPublished(context.Context, uuid.UUID, time.Time) error { return nil }

func (m *memoryOutbox) MarkFailed(context.Context, uuid.UUID, string, time.Time) error { return nil }

func (m *memoryOutbox) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) SetNX(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = value
	return true, nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

// stubVerifier accepts "valid-<subject>" tokens.
type stubVerifier struct{}

func (stubVerifier) Verify(raw string) (ports.AuthClaims, error) {
	const prefix = "valid-"
	if len(raw) <= len(prefix) || raw[:len(prefix)] != prefix {
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}
	return ports.AuthClaims{Subject: raw[len(prefix):]}, nil
}

type stubIdentities struct {
	emails map[string]string
	err    error
	calls  int
	mu     sync.Mutex
}

func (s *stubIdentities) ResolveIdentity(_ context.Context, subject string) (domain.UserIdentity, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return domain.UserIdentity{}, s.err
	}
	email, ok := s.emails[subject]
	if !ok {
		return domain.UserIdentity{}, errors.New("users service returned 404")
	}
	return domain.UserIdentity{Subject: subject, Email: email}, nil
}
