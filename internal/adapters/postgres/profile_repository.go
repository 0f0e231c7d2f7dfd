package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/profiles-service/internal/domain"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	var rec profileModel
	if err := r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("%w: find profile: %v", domain.ErrStorageUnavailable, err)
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) Insert(ctx context.Context, draft domain.ProfileDraft, now time.Time) (domain.Profile, error) {
	valid, err := domain.ValidateDraft(draft)
	if err != nil {
		return domain.Profile{}, err
	}
	rec := toProfileModel(valid)
	rec.ProfileID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrProfileExists, valid.Email)
		}
		return domain.Profile{}, fmt.Errorf("%w: insert profile: %v", domain.ErrStorageUnavailable, err)
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) Replace(ctx context.Context, email string, draft domain.ProfileDraft, now time.Time) (domain.Profile, error) {
	draft.Email = email
	valid, err := domain.ValidateDraft(draft)
	if err != nil {
		return domain.Profile{}, err
	}
	next := toProfileModel(valid)
	var rec profileModel
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&profileModel{}).Where("email = ?", valid.Email).Updates(map[string]any{
			"fullname":         next.FullName,
			"mobile":           next.Mobile,
			"address":          next.Address,
			"academic_details": next.AcademicDetails,
			"experience":       next.Experience,
			"skills":           next.Skills,
			"projects":         next.Projects,
			"social":           next.Social,
			"resume":           next.Resume,
			"updated_at":       now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("email = ?", valid.Email).Take(&rec).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Profile{}, err
		}
		return domain.Profile{}, fmt.Errorf("%w: update profile: %v", domain.ErrStorageUnavailable, err)
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) EnsureSchema(ctx context.Context) error {
	return RunMigrations(ctx, r.db)
}

func (r *profileRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
