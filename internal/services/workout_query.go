package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/repos"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

// WorkoutDayView is one day's workout with enough plan context for the
// client to render a header, plus completion progress across the plan.
type WorkoutDayView struct {
	PlanID        uuid.UUID     `json:"plan_id"`
	WorkoutGoal   string        `json:"workout_goal"`
	DurationWeeks int           `json:"duration_weeks"`
	TotalWorkouts int           `json:"total_workouts"`
	Progress      int           `json:"progress"`
	Workout       types.Workout `json:"workout"`
}

type WeekSummariesView struct {
	PlanID        uuid.UUID                  `json:"plan_id"`
	WorkoutGoal   string                     `json:"workout_goal"`
	Progress      int                        `json:"progress"`
	WeekSummaries []types.WorkoutWeekSummary `json:"week_summaries"`
}

type WorkoutQueryService interface {
	GetWorkoutByDate(ctx context.Context, userID uuid.UUID, scheduledDate string) (*WorkoutDayView, error)
	GetWeekSummaries(ctx context.Context, userID uuid.UUID) (*WeekSummariesView, error)
	GetActivePlan(ctx context.Context, userID uuid.UUID) (*PlanView, error)
	CompleteWorkout(ctx context.Context, userID, workoutID uuid.UUID) error
	CompleteSet(ctx context.Context, userID, setID uuid.UUID) error
}

type workoutQueryService struct {
	db          *gorm.DB
	planRepo    repos.WorkoutPlanRepo
	workoutRepo repos.WorkoutRepo
	log         *logger.Logger
}

func NewWorkoutQueryService(db *gorm.DB, planRepo repos.WorkoutPlanRepo, workoutRepo repos.WorkoutRepo, baseLog *logger.Logger) WorkoutQueryService {
	return &workoutQueryService{
		db:          db,
		planRepo:    planRepo,
		workoutRepo: workoutRepo,
		log:         baseLog.With("service", "WorkoutQueryService"),
	}
}

func (s *workoutQueryService) activePlan(ctx context.Context, userID uuid.UUID) (*types.WorkoutPlan, error) {
	plan, err := s.planRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrPlanNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return plan, nil
}

func (s *workoutQueryService) progress(ctx context.Context, plan *types.WorkoutPlan) (int, error) {
	if plan.TotalWorkouts == 0 {
		return 0, nil
	}
	completed, err := s.workoutRepo.CountByPlanAndStatus(ctx, nil, plan.ID, types.WorkoutStatusComplete)
	if err != nil {
		return 0, err
	}
	return int(math.Round(float64(completed) / float64(plan.TotalWorkouts) * 100)), nil
}

func (s *workoutQueryService) GetWorkoutByDate(ctx context.Context, userID uuid.UUID, scheduledDate string) (*WorkoutDayView, error) {
	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	workout, err := s.workoutRepo.GetByPlanAndDate(ctx, nil, plan.ID, scheduledDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrWorkoutNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	progress, err := s.progress(ctx, plan)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	return &WorkoutDayView{
		PlanID:        plan.ID,
		WorkoutGoal:   plan.WorkoutGoal,
		DurationWeeks: plan.DurationWeeks,
		TotalWorkouts: plan.TotalWorkouts,
		Progress:      progress,
		Workout:       *workout,
	}, nil
}

func (s *workoutQueryService) GetWeekSummaries(ctx context.Context, userID uuid.UUID) (*WeekSummariesView, error) {
	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.planRepo.GetWeekSummaries(ctx, nil, plan.ID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	if len(summaries) == 0 {
		return nil, svcerr.ErrPlanNotFound.WithMessage("no week summaries found")
	}

	progress, err := s.progress(ctx, plan)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	return &WeekSummariesView{
		PlanID:        plan.ID,
		WorkoutGoal:   plan.WorkoutGoal,
		Progress:      progress,
		WeekSummaries: summaries,
	}, nil
}

func (s *workoutQueryService) GetActivePlan(ctx context.Context, userID uuid.UUID) (*PlanView, error) {
	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.planRepo.GetWeekSummaries(ctx, nil, plan.ID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	workouts, err := s.workoutRepo.GetByPlanID(ctx, nil, plan.ID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return &PlanView{Plan: *plan, WeekSummaries: summaries, Workouts: workouts}, nil
}

// CompleteWorkout marks a workout complete after checking the plan it
// belongs to is owned by the caller.
func (s *workoutQueryService) CompleteWorkout(ctx context.Context, userID, workoutID uuid.UUID) error {
	workout, err := s.workoutRepo.GetByID(ctx, nil, workoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcerr.ErrWorkoutNotFound
		}
		return svcerr.ErrInternal.WithCause(err)
	}
	if _, err := s.planRepo.GetByIDForUser(ctx, nil, workout.WorkoutPlanID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcerr.ErrWorkoutNotFound
		}
		return svcerr.ErrInternal.WithCause(err)
	}
	if err := s.workoutRepo.UpdateStatus(ctx, nil, workoutID, types.WorkoutStatusComplete); err != nil {
		return svcerr.ErrInternal.WithCause(err)
	}
	return nil
}

// CompleteSet marks a single set complete. Ownership is checked by walking
// set -> exercise -> workout -> plan.
func (s *workoutQueryService) CompleteSet(ctx context.Context, userID, setID uuid.UUID) error {
	var set types.WorkoutSet
	if err := s.db.WithContext(ctx).First(&set, "id = ?", setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcerr.ErrWorkoutNotFound.WithMessage("set not found")
		}
		return svcerr.ErrInternal.WithCause(err)
	}
	var exercise types.WorkoutExercise
	if err := s.db.WithContext(ctx).First(&exercise, "id = ?", set.WorkoutExerciseID).Error; err != nil {
		return svcerr.ErrInternal.WithCause(err)
	}
	workout, err := s.workoutRepo.GetByID(ctx, nil, exercise.WorkoutID)
	if err != nil {
		return svcerr.ErrInternal.WithCause(err)
	}
	if _, err := s.planRepo.GetByIDForUser(ctx, nil, workout.WorkoutPlanID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcerr.ErrWorkoutNotFound.WithMessage("set not found")
		}
		return svcerr.ErrInternal.WithCause(err)
	}
	if err := s.workoutRepo.UpdateSetStatus(ctx, nil, setID, types.SetStatusComplete); err != nil {
		return svcerr.ErrInternal.WithCause(err)
	}
	return nil
}
