package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type WorkoutPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plans []*types.WorkoutPlan) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WorkoutPlan, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.WorkoutPlan, error)
	// GetByIDForUserLocked takes a row lock on the plan for the duration of
	// the surrounding transaction, serializing concurrent regenerations.
	GetByIDForUserLocked(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.WorkoutPlan, error)
	GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.WorkoutPlan, error)
	GetAllByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.WorkoutPlan, error)
	Update(ctx context.Context, tx *gorm.DB, plan *types.WorkoutPlan) error
	DeactivateAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error

	CreateWeekSummaries(ctx context.Context, tx *gorm.DB, summaries []*types.WorkoutWeekSummary) error
	GetWeekSummaries(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.WorkoutWeekSummary, error)

	// DeleteChildren removes the plan's entire subtree (sets, exercises,
	// workouts, week summaries) leaving the plan row itself in place.
	DeleteChildren(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
}

type workoutPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutPlanRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutPlanRepo {
	return &workoutPlanRepo{db: db, log: baseLog.With("repo", "WorkoutPlanRepo")}
}

func (r *workoutPlanRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *workoutPlanRepo) Create(ctx context.Context, tx *gorm.DB, plans []*types.WorkoutPlan) error {
	if len(plans) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&plans).Error; err != nil {
		r.log.Error("failed to create workout plans", "count", len(plans), "error", err)
		return err
	}
	return nil
}

func (r *workoutPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WorkoutPlan, error) {
	db := r.useDB(tx).WithContext(ctx)
	var plan types.WorkoutPlan
	if err := db.First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *workoutPlanRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.WorkoutPlan, error) {
	db := r.useDB(tx).WithContext(ctx)
	var plan types.WorkoutPlan
	if err := db.First(&plan, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *workoutPlanRepo) GetByIDForUserLocked(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.WorkoutPlan, error) {
	db := r.useDB(tx).WithContext(ctx)
	// sqlite has no row locks; its single-writer model already serializes
	// concurrent transactions.
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var plan types.WorkoutPlan
	if err := db.First(&plan, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *workoutPlanRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.WorkoutPlan, error) {
	db := r.useDB(tx).WithContext(ctx)
	var plan types.WorkoutPlan
	if err := db.Order("created_at DESC").
		First(&plan, "user_id = ? AND is_active = ?", userID, true).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *workoutPlanRepo) GetAllByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.WorkoutPlan, error) {
	db := r.useDB(tx).WithContext(ctx)
	var plans []types.WorkoutPlan
	if err := db.Order("created_at DESC").Find(&plans, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *workoutPlanRepo) Update(ctx context.Context, tx *gorm.DB, plan *types.WorkoutPlan) error {
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(plan).Error; err != nil {
		r.log.Error("failed to update workout plan", "plan_id", plan.ID, "error", err)
		return err
	}
	return nil
}

func (r *workoutPlanRepo) DeactivateAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	db := r.useDB(tx).WithContext(ctx)
	return db.Model(&types.WorkoutPlan{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}

func (r *workoutPlanRepo) CreateWeekSummaries(ctx context.Context, tx *gorm.DB, summaries []*types.WorkoutWeekSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&summaries).Error; err != nil {
		r.log.Error("failed to create week summaries", "count", len(summaries), "error", err)
		return err
	}
	return nil
}

func (r *workoutPlanRepo) GetWeekSummaries(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.WorkoutWeekSummary, error) {
	db := r.useDB(tx).WithContext(ctx)
	var summaries []types.WorkoutWeekSummary
	if err := db.Order("week_number").Find(&summaries, "workout_plan_id = ?", planID).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *workoutPlanRepo) DeleteChildren(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
	db := r.useDB(tx).WithContext(ctx)

	workoutIDs := db.Session(&gorm.Session{NewDB: true}).WithContext(ctx).
		Model(&types.Workout{}).Select("id").Where("workout_plan_id = ?", planID)
	exerciseIDs := db.Session(&gorm.Session{NewDB: true}).WithContext(ctx).
		Model(&types.WorkoutExercise{}).Select("id").Where("workout_id IN (?)", workoutIDs)

	if err := db.Delete(&types.WorkoutSet{}, "workout_exercise_id IN (?)", exerciseIDs).Error; err != nil {
		return err
	}
	if err := db.Delete(&types.WorkoutExercise{}, "workout_id IN (?)", workoutIDs).Error; err != nil {
		return err
	}
	if err := db.Delete(&types.Workout{}, "workout_plan_id = ?", planID).Error; err != nil {
		return err
	}
	return db.Delete(&types.WorkoutWeekSummary{}, "workout_plan_id = ?", planID).Error
}
