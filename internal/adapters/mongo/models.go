package mongo

import (
	"time"

	"github.com/viralforge/profiles-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type profileDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	FullName        string             `bson:"fullname"`
	Email           string             `bson:"email"`
	Mobile          string             `bson:"mobile"`
	Address         string             `bson:"address"`
	AcademicDetails map[string]any     `bson:"academicDetails"`
	Experience      map[string]any     `bson:"experience"`
	Skills          []string           `bson:"skills"`
	Projects        map[string]any     `bson:"projects"`
	Social          map[string]any     `bson:"social"`
	Resume          string             `bson:"resume"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

type outboxDocument struct {
	OutboxID      string     `bson:"_id"`
	EventType     string     `bson:"eventType"`
	PartitionKey  string     `bson:"partitionKey"`
	Payload       []byte     `bson:"payload"`
	SchemaVersion string     `bson:"schemaVersion"`
	RetryCount    int        `bson:"retryCount"`
	PublishedAt   *time.Time `bson:"publishedAt"`
	LastError     *string    `bson:"lastError,omitempty"`
	LastErrorAt   *time.Time `bson:"lastErrorAt,omitempty"`
	FirstSeenAt   time.Time  `bson:"firstSeenAt"`
	CreatedAt     time.Time  `bson:"createdAt"`
}

func fromDraft(d domain.ProfileDraft) profileDocument {
	return profileDocument{
		FullName:        d.FullName,
		Email:           d.Email,
		Mobile:          d.Mobile,
		Address:         d.Address,
		AcademicDetails: d.AcademicDetails,
		Experience:      d.Experience,
		Skills:          d.Skills,
		Projects:        d.Projects,
		Social:          d.Social,
		Resume:          d.Resume,
	}
}

func toDomainProfile(doc profileDocument) domain.Profile {
	skills := doc.Skills
	if skills == nil {
		skills = []string{}
	}
	return domain.Profile{
		ID:              doc.ID.Hex(),
		FullName:        doc.FullName,
		Email:           doc.Email,
		Mobile:          doc.Mobile,
		Address:         doc.Address,
		AcademicDetails: toDocument(doc.AcademicDetails),
		Experience:      toDocument(doc.Experience),
		Skills:          skills,
		Projects:        toDocument(doc.Projects),
		Social:          toDocument(doc.Social),
		Resume:          doc.Resume,
		CreatedAt:       doc.CreatedAt.UTC(),
		UpdatedAt:       doc.UpdatedAt.UTC(),
	}
}

func toDocument(m map[string]any) domain.Document {
	if m == nil {
		return domain.Document{}
	}
	return domain.Document(m)
}
