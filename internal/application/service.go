package application

import (
	"log/slog"
	"time"

	"github.com/viralforge/profiles-service/internal/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Service struct {
	cfg        Config
	profiles   ports.ProfileRepository
	outbox     ports.OutboxRepository
	tokens     ports.TokenVerifier
	identities ports.IdentityResolver
	cache      ports.Cache
	tracer     trace.Tracer
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Profiles   ports.ProfileRepository
	Outbox     ports.OutboxRepository
	Tokens     ports.TokenVerifier
	Identities ports.IdentityResolver
	Cache      ports.Cache
	Now        func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "profiles-service"
	}
	if cfg.ProfileCacheTTL <= 0 {
		cfg.ProfileCacheTTL = 5 * time.Minute
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		cfg:        cfg,
		profiles:   deps.Profiles,
		outbox:     deps.Outbox,
		tokens:     deps.Tokens,
		identities: deps.Identities,
		cache:      deps.Cache,
		tracer:     otel.Tracer("github.com/viralforge/profiles-service/internal/application"),
		nowFn:      nowFn,
	}
}

func (s *Service) logger() *slog.Logger {
	return slog.Default().With(
		"service", s.cfg.ServiceName,
		"module", "application",
		"layer", "service",
	)
}
