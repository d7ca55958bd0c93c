package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type WorkoutRepo interface {
	Create(ctx context.Context, tx *gorm.DB, workouts []*types.Workout) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Workout, error)
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.Workout, error)
	GetByPlanAndDate(ctx context.Context, tx *gorm.DB, planID uuid.UUID, date string) (*types.Workout, error)
	CountByPlanAndStatus(ctx context.Context, tx *gorm.DB, planID uuid.UUID, status string) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error

	CreateExercises(ctx context.Context, tx *gorm.DB, exercises []*types.WorkoutExercise) error
	CreateSets(ctx context.Context, tx *gorm.DB, sets []*types.WorkoutSet) error
	UpdateSetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
}

type workoutRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutRepo {
	return &workoutRepo{db: db, log: baseLog.With("repo", "WorkoutRepo")}
}

func (r *workoutRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *workoutRepo) Create(ctx context.Context, tx *gorm.DB, workouts []*types.Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&workouts).Error; err != nil {
		r.log.Error("failed to create workouts", "count", len(workouts), "error", err)
		return err
	}
	return nil
}

func (r *workoutRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Workout, error) {
	db := r.useDB(tx).WithContext(ctx)
	var workout types.Workout
	err := db.Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Exercises.Sets").
		Preload("Exercises.AboutExercise").
		First(&workout, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *workoutRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.Workout, error) {
	db := r.useDB(tx).WithContext(ctx)
	var workouts []types.Workout
	err := db.Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Exercises.Sets").
		Order("scheduled_date").
		Find(&workouts, "workout_plan_id = ?", planID).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepo) GetByPlanAndDate(ctx context.Context, tx *gorm.DB, planID uuid.UUID, date string) (*types.Workout, error) {
	db := r.useDB(tx).WithContext(ctx)
	var workout types.Workout
	err := db.Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Exercises.Sets").
		Preload("Exercises.AboutExercise").
		First(&workout, "workout_plan_id = ? AND scheduled_date = ?", planID, date).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *workoutRepo) CountByPlanAndStatus(ctx context.Context, tx *gorm.DB, planID uuid.UUID, status string) (int64, error) {
	db := r.useDB(tx).WithContext(ctx)
	var count int64
	err := db.Model(&types.Workout{}).
		Where("workout_plan_id = ? AND status = ?", planID, status).
		Count(&count).Error
	return count, err
}

func (r *workoutRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	db := r.useDB(tx).WithContext(ctx)
	return db.Model(&types.Workout{}).Where("id = ?", id).Update("status", status).Error
}

func (r *workoutRepo) CreateExercises(ctx context.Context, tx *gorm.DB, exercises []*types.WorkoutExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&exercises).Error; err != nil {
		r.log.Error("failed to create workout exercises", "count", len(exercises), "error", err)
		return err
	}
	return nil
}

func (r *workoutRepo) CreateSets(ctx context.Context, tx *gorm.DB, sets []*types.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&sets).Error; err != nil {
		r.log.Error("failed to create workout sets", "count", len(sets), "error", err)
		return err
	}
	return nil
}

func (r *workoutRepo) UpdateSetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	db := r.useDB(tx).WithContext(ctx)
	return db.Model(&types.WorkoutSet{}).Where("id = ?", id).Update("status", status).Error
}
