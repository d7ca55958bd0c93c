package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	WorkoutStatusScheduled = "Scheduled"
	WorkoutStatusComplete  = "Complete"
	WorkoutStatusSkipped   = "Skipped"
)

const (
	SetStatusScheduled = "Scheduled"
	SetStatusComplete  = "Complete"
)

// EquipmentBodyweight is the marker the generator uses for exercises that
// need no equipment; sets under it carry no weight.
const EquipmentBodyweight = "Bodyweight"

// Workout is a single day's session. ScheduledDate is unique within a plan.
type Workout struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutPlanID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_workout_plan_date" json:"workout_plan_id"`
	DurationInMinutes int       `gorm:"column:duration_in_minutes" json:"duration_in_minutes"`
	ScheduledDate     string    `gorm:"column:scheduled_date;not null;uniqueIndex:idx_workout_plan_date" json:"scheduled_date"`
	WeekNumber        int       `gorm:"column:week_number;not null" json:"week_number"`
	Status            string    `gorm:"column:status;not null;default:Scheduled" json:"status"`
	IsRegenerated     bool      `gorm:"column:is_regenerated;not null;default:false" json:"is_regenerated"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`

	Exercises []WorkoutExercise `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkoutID;references:ID" json:"exercises,omitempty"`
}

func (Workout) TableName() string { return "workout" }

// WorkoutExercise is one movement inside a workout. ExerciseName is the
// model's free text; ExerciseID is the catalog row it resolved to, if any.
type WorkoutExercise struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"workout_id"`
	ExerciseName string     `gorm:"column:exercise_name;not null" json:"exercise_name"`
	ExerciseID   *uuid.UUID `gorm:"type:uuid;column:exercise_id" json:"exercise_id,omitempty"`
	Equipment    string     `gorm:"column:equipment" json:"equipment"`
	OrderIndex   int        `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`

	AboutExercise *AvailableExercise `gorm:"foreignKey:ExerciseID;references:ID" json:"about_exercise,omitempty"`
	Sets          []WorkoutSet       `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkoutExerciseID;references:ID" json:"sets,omitempty"`
}

func (WorkoutExercise) TableName() string { return "workout_exercise" }

// WorkoutSet is one repetition group. WeightKg is nil for bodyweight
// movements; the generator omits the key and the row stores NULL.
type WorkoutSet struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutExerciseID uuid.UUID `gorm:"type:uuid;not null;index" json:"workout_exercise_id"`
	Reps              int       `gorm:"column:reps;not null" json:"reps"`
	WeightKg          *float64  `gorm:"column:weight_kg" json:"weight_kg,omitempty"`
	Status            string    `gorm:"column:status;not null;default:Scheduled" json:"status"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (WorkoutSet) TableName() string { return "workout_set" }
