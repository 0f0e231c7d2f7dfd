package mongo

import (
	"github.com/viralforge/profiles-service/internal/ports"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repositories struct {
	Profiles ports.ProfileRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Profiles: &profileRepository{db: db, coll: db.Collection(profilesCollection)},
		Outbox:   &outboxRepository{coll: db.Collection(outboxCollection)},
	}
}
