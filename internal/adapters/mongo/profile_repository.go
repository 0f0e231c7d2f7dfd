package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viralforge/profiles-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type profileRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	var doc profileDocument
	err := r.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("%w: find profile: %v", domain.ErrStorageUnavailable, err)
	}
	return toDomainProfile(doc), nil
}

// Insert validates the draft and writes it. The unique email index turns
// a lost race into domain.ErrProfileExists.
func (r *profileRepository) Insert(ctx context.Context, draft domain.ProfileDraft, now time.Time) (domain.Profile, error) {
	valid, err := domain.ValidateDraft(draft)
	if err != nil {
		return domain.Profile{}, err
	}
	doc := fromDraft(valid)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrProfileExists, valid.Email)
		}
		return domain.Profile{}, fmt.Errorf("%w: insert profile: %v", domain.ErrStorageUnavailable, err)
	}
	return toDomainProfile(doc), nil
}

func (r *profileRepository) Replace(ctx context.Context, email string, draft domain.ProfileDraft, now time.Time) (domain.Profile, error) {
	draft.Email = email
	valid, err := domain.ValidateDraft(draft)
	if err != nil {
		return domain.Profile{}, err
	}
	update := bson.M{"$set": bson.M{
		"fullname":        valid.FullName,
		"mobile":          valid.Mobile,
		"address":         valid.Address,
		"academicDetails": map[string]any(valid.AcademicDetails),
		"experience":      map[string]any(valid.Experience),
		"skills":          valid.Skills,
		"projects":        map[string]any(valid.Projects),
		"social":          map[string]any(valid.Social),
		"resume":          valid.Resume,
		"updatedAt":       now,
	}}
	var doc profileDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"email": valid.Email}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("%w: update profile: %v", domain.ErrStorageUnavailable, err)
	}
	return toDomainProfile(doc), nil
}

func (r *profileRepository) EnsureSchema(ctx context.Context) error {
	return EnsureIndexes(ctx, r.db)
}

func (r *profileRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}
