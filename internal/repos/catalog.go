package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type AvailableExerciseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exercises []*types.AvailableExercise) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.AvailableExercise, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]types.AvailableExercise, error)
}

type availableExerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvailableExerciseRepo(db *gorm.DB, baseLog *logger.Logger) AvailableExerciseRepo {
	return &availableExerciseRepo{db: db, log: baseLog.With("repo", "AvailableExerciseRepo")}
}

func (r *availableExerciseRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *availableExerciseRepo) Create(ctx context.Context, tx *gorm.DB, exercises []*types.AvailableExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&exercises).Error; err != nil {
		r.log.Error("failed to create available exercises", "count", len(exercises), "error", err)
		return err
	}
	return nil
}

func (r *availableExerciseRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.AvailableExercise, error) {
	db := r.useDB(tx).WithContext(ctx)
	var exercises []types.AvailableExercise
	if err := db.Where("is_deleted = ?", false).Order("name").Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *availableExerciseRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]types.AvailableExercise, error) {
	if len(names) == 0 {
		return nil, nil
	}
	db := r.useDB(tx).WithContext(ctx)
	var exercises []types.AvailableExercise
	if err := db.Where("name IN ? AND is_deleted = ?", names, false).Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

type AvailableEquipmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, equipment []*types.AvailableEquipment) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.AvailableEquipment, error)
}

type availableEquipmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvailableEquipmentRepo(db *gorm.DB, baseLog *logger.Logger) AvailableEquipmentRepo {
	return &availableEquipmentRepo{db: db, log: baseLog.With("repo", "AvailableEquipmentRepo")}
}

func (r *availableEquipmentRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *availableEquipmentRepo) Create(ctx context.Context, tx *gorm.DB, equipment []*types.AvailableEquipment) error {
	if len(equipment) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&equipment).Error; err != nil {
		r.log.Error("failed to create available equipment", "count", len(equipment), "error", err)
		return err
	}
	return nil
}

func (r *availableEquipmentRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.AvailableEquipment, error) {
	db := r.useDB(tx).WithContext(ctx)
	var equipment []types.AvailableEquipment
	if err := db.Order("name").Find(&equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}
