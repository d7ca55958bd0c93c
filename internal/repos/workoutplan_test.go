package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/repos/testutil"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

func seedPlanTree(t *testing.T, db *gorm.DB, userID uuid.UUID) *types.WorkoutPlan {
	t.Helper()
	plan := &types.WorkoutPlan{
		ID:            uuid.New(),
		UserID:        userID,
		StartDate:     "2024-03-01",
		EndDate:       "2024-03-14",
		DurationDays:  14,
		DurationWeeks: 2,
		IsActive:      true,
		TotalWorkouts: 14,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}

	summary := &types.WorkoutWeekSummary{ID: uuid.New(), WorkoutPlanID: plan.ID, WeekNumber: 1, Summary: "week one"}
	workout := &types.Workout{ID: uuid.New(), WorkoutPlanID: plan.ID, ScheduledDate: "2024-03-01", WeekNumber: 1, Status: types.WorkoutStatusScheduled}
	exercise := &types.WorkoutExercise{ID: uuid.New(), WorkoutID: workout.ID, ExerciseName: "Push-ups", Equipment: "Bodyweight", OrderIndex: 1}
	set := &types.WorkoutSet{ID: uuid.New(), WorkoutExerciseID: exercise.ID, Reps: 10, Status: types.SetStatusScheduled}
	for _, row := range []any{summary, workout, exercise, set} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed tree row: %v", err)
		}
	}
	return plan
}

func TestWorkoutPlanRepoDeleteChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := NewWorkoutPlanRepo(db, log)
	user := testutil.SeedUser(t, db)
	plan := seedPlanTree(t, db, user.ID)

	if err := repo.DeleteChildren(context.Background(), nil, plan.ID); err != nil {
		t.Fatalf("delete children: %v", err)
	}

	var workouts, summaries, exercises, sets int64
	db.Model(&types.Workout{}).Where("workout_plan_id = ?", plan.ID).Count(&workouts)
	db.Model(&types.WorkoutWeekSummary{}).Where("workout_plan_id = ?", plan.ID).Count(&summaries)
	db.Model(&types.WorkoutExercise{}).Count(&exercises)
	db.Model(&types.WorkoutSet{}).Count(&sets)
	if workouts != 0 || summaries != 0 || exercises != 0 || sets != 0 {
		t.Errorf("rows remaining after DeleteChildren: workouts=%d summaries=%d exercises=%d sets=%d",
			workouts, summaries, exercises, sets)
	}

	// The plan row itself survives.
	if _, err := repo.GetByID(context.Background(), nil, plan.ID); err != nil {
		t.Errorf("plan row should survive DeleteChildren: %v", err)
	}
}

func TestWorkoutPlanRepoActiveLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := NewWorkoutPlanRepo(db, log)
	user := testutil.SeedUser(t, db)
	plan := seedPlanTree(t, db, user.ID)

	got, err := repo.GetActiveByUserID(context.Background(), nil, user.ID)
	if err != nil {
		t.Fatalf("active lookup: %v", err)
	}
	if got.ID != plan.ID {
		t.Errorf("active plan = %v, want %v", got.ID, plan.ID)
	}

	if err := repo.DeactivateAllForUser(context.Background(), nil, user.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.GetActiveByUserID(context.Background(), nil, user.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound after deactivation", err)
	}
}

func TestWorkoutPlanRepoOwnershipScope(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := NewWorkoutPlanRepo(db, log)
	owner := testutil.SeedUser(t, db)
	stranger := testutil.SeedUser(t, db)
	plan := seedPlanTree(t, db, owner.ID)

	if _, err := repo.GetByIDForUser(context.Background(), nil, plan.ID, owner.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := repo.GetByIDForUser(context.Background(), nil, plan.ID, stranger.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound for foreign user", err)
	}
}
