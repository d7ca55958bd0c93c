package types

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutPlan is the root of a generated plan tree. Dates are stored as
// YYYY-MM-DD strings; EndDate is inclusive (StartDate + DurationDays - 1).
// The row is created once by generation and updated in place by
// regeneration; its descendants are fully replaced.
type WorkoutPlan struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Description   string    `gorm:"column:description" json:"description"`
	StartDate     string    `gorm:"column:start_date" json:"start_date"`
	EndDate       string    `gorm:"column:end_date" json:"end_date"`
	DurationDays  int       `gorm:"column:duration_days" json:"duration_days"`
	DurationWeeks int       `gorm:"column:duration_weeks" json:"duration_weeks"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	AIGenerated   bool      `gorm:"column:ai_generated;not null;default:false" json:"ai_generated"`
	WorkoutGoal   string    `gorm:"column:workout_goal" json:"workout_goal"`
	TotalWorkouts int       `gorm:"column:total_workouts;not null;default:0" json:"total_workouts"`
	TotalTime     string    `gorm:"column:total_time" json:"total_time"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`

	WeekSummaries []WorkoutWeekSummary `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkoutPlanID;references:ID" json:"week_summaries,omitempty"`
	Workouts      []Workout            `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkoutPlanID;references:ID" json:"workouts,omitempty"`
}

func (WorkoutPlan) TableName() string { return "workout_plan" }

type WorkoutWeekSummary struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"workout_plan_id"`
	WeekNumber    int       `gorm:"column:week_number;not null" json:"week_number"`
	Summary       string    `gorm:"column:summary;type:text" json:"summary"`
	StartDate     string    `gorm:"column:start_date" json:"start_date"`
	EndDate       string    `gorm:"column:end_date" json:"end_date"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (WorkoutWeekSummary) TableName() string { return "workout_week_summary" }
