package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/viralforge/profiles-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var repoNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func adaDraft() domain.ProfileDraft {
	return domain.ProfileDraft{
		FullName:        "Ada Lovelace",
		Email:           "Ada@Example.com",
		Mobile:          "0123456789",
		Address:         "London",
		AcademicDetails: domain.Document{"degree": "Mathematics"},
		Skills:          []string{"analysis"},
		Resume:          "https://example.com/ada.pdf",
	}
}

func storedAda(id primitive.ObjectID, address string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "fullname", Value: "Ada Lovelace"},
		{Key: "email", Value: "ada@example.com"},
		{Key: "mobile", Value: "0123456789"},
		{Key: "address", Value: address},
		{Key: "academicDetails", Value: bson.D{{Key: "degree", Value: "Mathematics"}}},
		{Key: "experience", Value: bson.D{}},
		{Key: "skills", Value: bson.A{"analysis"}},
		{Key: "projects", Value: bson.D{}},
		{Key: "social", Value: bson.D{}},
		{Key: "resume", Value: "https://example.com/ada.pdf"},
		{Key: "createdAt", Value: repoNow},
		{Key: "updatedAt", Value: repoNow},
	}
}

func TestProfileRepositoryAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert stores normalized email", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Insert(context.Background(), adaDraft(), repoNow)
		if err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if created.Email != "ada@example.com" || created.ID == "" {
			mt.Fatalf("unexpected profile: %+v", created)
		}
		if !created.CreatedAt.Equal(repoNow) {
			mt.Fatalf("expected createdAt %s, got %s", repoNow, created.CreatedAt)
		}
	})

	mt.Run("duplicate key maps to profile exists", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: profiles.profiles index: email_unique",
		}))

		_, err := repo.Insert(context.Background(), adaDraft(), repoNow)
		if !errors.Is(err, domain.ErrProfileExists) {
			mt.Fatalf("expected ErrProfileExists, got %v", err)
		}
	})

	mt.Run("other write errors are storage failures", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		_, err := repo.Insert(context.Background(), adaDraft(), repoNow)
		if !errors.Is(err, domain.ErrStorageUnavailable) || errors.Is(err, domain.ErrProfileExists) {
			mt.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})

	mt.Run("invalid draft never reaches the server", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		draft := adaDraft()
		draft.Mobile = "12345"

		_, err := repo.Insert(context.Background(), draft, repoNow)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || !errors.Is(err, domain.ErrInvalidInput) {
			mt.Fatalf("expected validation error, got %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Fatalf("expected no command to be sent, got %s", evt.CommandName)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, storedAda(id, "London")))

		found, err := repo.FindByEmail(context.Background(), " ADA@example.com ")
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if found.ID != id.Hex() || found.Address != "London" || found.Skills[0] != "analysis" {
			mt.Fatalf("unexpected profile: %+v", found)
		}
		filter, ok := mt.GetStartedEvent().Command.Lookup("filter", "email").StringValueOK()
		if !ok || filter != "ada@example.com" {
			mt.Fatalf("expected normalized email filter, got %q", filter)
		}
	})

	mt.Run("find by email miss maps to not found", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("replace returns updated document", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedAda(id, "Marylebone")}))

		draft := adaDraft()
		draft.Address = "Marylebone"
		updated, err := repo.Replace(context.Background(), "ada@example.com", draft, repoNow)
		if err != nil {
			mt.Fatalf("replace: %v", err)
		}
		if updated.Address != "Marylebone" || updated.ID != id.Hex() {
			mt.Fatalf("unexpected profile: %+v", updated)
		}
	})

	mt.Run("replace without profile maps to not found", func(mt *mtest.T) {
		repo := &profileRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Replace(context.Background(), "ghost@example.com", adaDraft(), repoNow)
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
