package types

import (
	"time"

	"github.com/google/uuid"
)

// AvailableExercise is the master exercise catalog. Generated workout
// exercises resolve against it by exact name; names the catalog does not
// know stay unresolved, which is fine.
type AvailableExercise struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url,omitempty"`
	VideoURL    string    `gorm:"column:video_url" json:"video_url,omitempty"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (AvailableExercise) TableName() string { return "available_exercise" }

// AvailableEquipment is the master list shown during onboarding.
type AvailableEquipment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AvailableEquipment) TableName() string { return "available_equipment" }
