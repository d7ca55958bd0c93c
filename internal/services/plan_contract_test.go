package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

// validGeneratedPlan builds a contract-conforming 14-day plan starting at
// startDate. Day 1 uses dumbbells, every other day is bodyweight only.
func validGeneratedPlan(t *testing.T, startDate string) *GeneratedPlan {
	t.Helper()
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		t.Fatalf("parse start date: %v", err)
	}
	end := start.AddDate(0, 0, PlanDurationDays-1)

	plan := &GeneratedPlan{
		WorkoutPlan: GeneratedPlanHeader{
			Description:   "test plan",
			StartDate:     startDate,
			EndDate:       end.Format("2006-01-02"),
			DurationDays:  PlanDurationDays,
			DurationWeeks: PlanDurationWeeks,
			IsActive:      true,
			AIGenerated:   true,
			WorkoutGoal:   "weightLoss",
			TotalWorkouts: PlanDurationDays,
			TotalTime:     "07:00:00",
		},
	}

	for week := 1; week <= PlanDurationWeeks; week++ {
		weekStart := start.AddDate(0, 0, (week-1)*7)
		plan.WeekSummaries = append(plan.WeekSummaries, GeneratedWeekSummary{
			WeekNumber: week,
			Summary:    fmt.Sprintf("Week %d focus", week),
			StartDate:  weekStart.Format("2006-01-02"),
			EndDate:    weekStart.AddDate(0, 0, 6).Format("2006-01-02"),
		})
	}

	weight := 12.5
	for day := 0; day < PlanDurationDays; day++ {
		date := start.AddDate(0, 0, day)
		workout := GeneratedWorkout{
			DurationInMinutes: 30,
			ScheduledDate:     date.Format("2006-01-02"),
			WeekNumber:        day/7 + 1,
			Status:            "Scheduled",
		}
		if day == 0 {
			workout.Exercises = []GeneratedExercise{
				{Name: "Dumbbell Squats", Equipment: "Dumbbells", OrderIndex: 1, Sets: []GeneratedSet{{Reps: 12, WeightKg: &weight}, {Reps: 10, WeightKg: &weight}}},
				{Name: "Push-ups", Equipment: "Bodyweight", OrderIndex: 2, Sets: []GeneratedSet{{Reps: 10}}},
			}
		} else {
			workout.Exercises = []GeneratedExercise{
				{Name: "Push-ups", Equipment: "Bodyweight", OrderIndex: 1, Sets: []GeneratedSet{{Reps: 15}}},
				{Name: "Mystery Movement", Equipment: "Bodyweight", OrderIndex: 2, Sets: []GeneratedSet{{Reps: 12}}},
			}
		}
		plan.Workouts = append(plan.Workouts, workout)
	}
	return plan
}

func TestValidateAcceptsConformingPlan(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	if err := plan.Validate("2024-03-01", types.DurationStandard); err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}
}

func TestValidateRejectsWrongWorkoutCount(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts = plan.Workouts[:13]
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsDuplicateScheduledDate(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[5].ScheduledDate = plan.Workouts[4].ScheduledDate
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsDateOutsideRange(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[13].ScheduledDate = "2024-03-20"
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsWrongWeekNumber(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[0].WeekNumber = 2
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsDuplicateWeekSummary(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.WeekSummaries[1].WeekNumber = 1
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsMissingWeekSummary(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.WeekSummaries = plan.WeekSummaries[:1]
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsWrongHeaderDates(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.WorkoutPlan.EndDate = "2024-03-15"
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsEmptyExercises(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[3].Exercises = nil
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateRejectsDurationOutOfRange(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[0].DurationInMinutes = 999
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func TestValidateEnforcesCategoryBounds(t *testing.T) {
	// A 40-minute session fits standard (30-45) but not quick (15-30).
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[1].DurationInMinutes = 40
	if err := plan.Validate("2024-03-01", types.DurationStandard); err != nil {
		t.Fatalf("40 minutes should fit the standard category: %v", err)
	}
	assertContract(t, plan.Validate("2024-03-01", types.DurationQuick))
}

func TestValidateRejectsZeroReps(t *testing.T) {
	plan := validGeneratedPlan(t, "2024-03-01")
	plan.Workouts[2].Exercises[0].Sets[0].Reps = 0
	assertContract(t, plan.Validate("2024-03-01", types.DurationStandard))
}

func assertContract(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, svcerr.ErrContract) {
		t.Fatalf("err = %v, want ErrContract", err)
	}
}
