package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type FitnessProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.FitnessProfile) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.FitnessProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *types.FitnessProfile) error
	ReplaceEquipment(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, equipment []*types.WorkoutEquipment) error
}

type fitnessProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFitnessProfileRepo(db *gorm.DB, baseLog *logger.Logger) FitnessProfileRepo {
	return &fitnessProfileRepo{db: db, log: baseLog.With("repo", "FitnessProfileRepo")}
}

func (r *fitnessProfileRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *fitnessProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.FitnessProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&profiles).Error; err != nil {
		r.log.Error("failed to create fitness profiles", "count", len(profiles), "error", err)
		return err
	}
	return nil
}

func (r *fitnessProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.FitnessProfile, error) {
	db := r.useDB(tx).WithContext(ctx)
	var profile types.FitnessProfile
	if err := db.Preload("Equipment").First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *fitnessProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.FitnessProfile) error {
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Omit("Equipment").Save(profile).Error; err != nil {
		r.log.Error("failed to update fitness profile", "profile_id", profile.ID, "error", err)
		return err
	}
	return nil
}

// ReplaceEquipment swaps the profile's equipment list wholesale. Callers
// run it inside the same transaction as the profile update.
func (r *fitnessProfileRepo) ReplaceEquipment(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, equipment []*types.WorkoutEquipment) error {
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Delete(&types.WorkoutEquipment{}, "fitness_profile_id = ?", profileID).Error; err != nil {
		return err
	}
	if len(equipment) == 0 {
		return nil
	}
	return db.Create(&equipment).Error
}
