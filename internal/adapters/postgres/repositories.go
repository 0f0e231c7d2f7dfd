package postgres

import (
	"github.com/viralforge/profiles-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Profiles ports.ProfileRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Profiles: &profileRepository{db: db},
		Outbox:   &outboxRepository{db: db},
	}
}
