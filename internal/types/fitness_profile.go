package types

import (
	"time"

	"github.com/google/uuid"
)

// Fitness levels accepted during onboarding.
const (
	FitnessLevelBeginner     = "beginner"
	FitnessLevelIntermediate = "intermediate"
	FitnessLevelAdvanced     = "advanced"
)

// Fitness goals. GoalCustom carries free text in CustomGoal.
const (
	GoalBuildStrength      = "buildStrength"
	GoalWeightLoss         = "weightLoss"
	GoalBuildEndurance     = "buildEndurance"
	GoalImproveFlexibility = "improveFlexibility"
	GoalOverallHealth      = "overallHealth"
	GoalStressBusting      = "stressBusting"
	GoalCustom             = "custom"
)

// Workout duration categories.
const (
	DurationQuick    = "quick"
	DurationStandard = "standard"
	DurationExtended = "extended"
	DurationAdvanced = "advanced"
)

type FitnessProfile struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FitnessLevel          string    `gorm:"column:fitness_level" json:"fitness_level"`
	FitnessGoal           string    `gorm:"column:fitness_goal" json:"fitness_goal"`
	CustomGoal            string    `gorm:"column:custom_goal" json:"custom_goal,omitempty"`
	DurationCategory      string    `gorm:"column:duration_category" json:"duration_category"`
	MedicalConsiderations string    `gorm:"column:medical_considerations;type:text" json:"medical_considerations,omitempty"`
	Height                float64   `gorm:"column:height" json:"height,omitempty"`
	HeightUnit            string    `gorm:"column:height_unit;default:cm" json:"height_unit,omitempty"`
	Weight                float64   `gorm:"column:weight" json:"weight,omitempty"`
	WeightUnit            string    `gorm:"column:weight_unit;default:kg" json:"weight_unit,omitempty"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"not null" json:"updated_at"`

	Equipment []WorkoutEquipment `gorm:"constraint:OnDelete:CASCADE;foreignKey:FitnessProfileID;references:ID" json:"equipment,omitempty"`
}

func (FitnessProfile) TableName() string { return "fitness_profile" }

// WorkoutEquipment is one equipment item a user has access to, owned by the
// fitness profile. IsCustom marks entries typed in by the user rather than
// picked from the AvailableEquipment list.
type WorkoutEquipment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FitnessProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"fitness_profile_id"`
	Name             string    `gorm:"not null" json:"name"`
	IsCustom         bool      `gorm:"not null;default:false" json:"is_custom"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (WorkoutEquipment) TableName() string { return "workout_equipment" }
